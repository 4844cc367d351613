// Package password derives and verifies salted password hashes.
//
// The current scheme is argon2id; parameters are recorded in the salt so
// they can be tightened later without breaking stored credentials. Two
// legacy schemes from earlier versions of the platform are still accepted
// on verification: unsalted MD5 and MD5 over salt+password, both hex
// encoded. NeedsUpgrade flags anything that is not current-parameter
// argon2id so callers can transparently re-hash on the next successful
// login.
package password

import (
	"crypto/md5"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"github.com/openatlas/openatlas/internal/common"
	"golang.org/x/crypto/argon2"
)

const (
	argonScheme  = "argon2id"
	argonTime    = 1
	argonMemory  = 64 * 1024
	argonThreads = 4
	argonKeyLen  = 32
	saltBytes    = 16
)

// Create derives a fresh hash/salt pair for the given plaintext password.
// A new random salt is generated on every call and never reused.
func Create(plaintext string) (hash, salt string, err error) {
	raw, err := common.MakeRandHexString(saltBytes)
	if err != nil {
		return "", "", fmt.Errorf("generating salt: %w", err)
	}

	salt = fmt.Sprintf("%s!%d!%d!%d!%s", argonScheme, argonTime, argonMemory, argonThreads, raw)
	hash = hex.EncodeToString(deriveArgon(plaintext, raw, argonTime, argonMemory, argonThreads))
	return hash, salt, nil
}

// Check verifies candidate against a stored hash/salt pair. The comparison
// is constant time for every scheme and never short-circuits on the scheme
// dispatch itself: the candidate is always hashed before comparing.
func Check(hash, salt, candidate string) bool {
	var derived string

	switch {
	case strings.HasPrefix(salt, argonScheme+"!"):
		scheme, ok := parseArgonSalt(salt)
		if !ok {
			return false
		}
		derived = hex.EncodeToString(deriveArgon(candidate, scheme.salt, scheme.time, scheme.memory, scheme.threads))
	case salt == "":
		sum := md5.Sum([]byte(candidate))
		derived = hex.EncodeToString(sum[:])
	default:
		sum := md5.Sum([]byte(salt + candidate))
		derived = hex.EncodeToString(sum[:])
	}

	return subtle.ConstantTimeCompare([]byte(derived), []byte(hash)) == 1
}

// NeedsUpgrade reports whether a stored credential uses a legacy or
// weaker-parameter scheme and should be re-hashed on next successful login.
func NeedsUpgrade(hash, salt string) bool {
	scheme, ok := parseArgonSalt(salt)
	if !ok {
		return true
	}
	return scheme.time != argonTime || scheme.memory != argonMemory || scheme.threads != argonThreads
}

type argonSalt struct {
	time    uint32
	memory  uint32
	threads uint8
	salt    string
}

func parseArgonSalt(salt string) (argonSalt, bool) {
	parts := strings.Split(salt, "!")
	if len(parts) != 5 || parts[0] != argonScheme {
		return argonSalt{}, false
	}
	t, err1 := strconv.ParseUint(parts[1], 10, 32)
	m, err2 := strconv.ParseUint(parts[2], 10, 32)
	p, err3 := strconv.ParseUint(parts[3], 10, 8)
	if err1 != nil || err2 != nil || err3 != nil {
		return argonSalt{}, false
	}
	return argonSalt{time: uint32(t), memory: uint32(m), threads: uint8(p), salt: parts[4]}, true
}

func deriveArgon(plaintext, salt string, time, memory uint32, threads uint8) []byte {
	return argon2.IDKey([]byte(plaintext), []byte(salt), time, memory, threads, argonKeyLen)
}
