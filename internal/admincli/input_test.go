package admincli

import (
	"bufio"
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("  alice  \n"))

	got, err := getSimpleText(reader, "Display name", &out)
	require.NoError(t, err)
	assert.Equal(t, "alice", got)
	assert.Contains(t, out.String(), "Display name")
}

func TestGetSimpleText_PartialLineBeforeEOF(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("bob"))

	got, err := getSimpleText(reader, "Display name", &out)
	require.NoError(t, err)
	assert.Equal(t, "bob", got)
}

func TestGetPassword(t *testing.T) {
	orig := readPassword
	defer func() { readPassword = orig }()
	readPassword = func(fd int) ([]byte, error) {
		return []byte("hunter2"), nil
	}

	var out bytes.Buffer
	pw, err := getPassword(&out)
	require.NoError(t, err)
	assert.Equal(t, []byte("hunter2"), pw)
	assert.Contains(t, out.String(), "Enter password")
}
