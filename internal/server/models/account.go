package models

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"

	"github.com/openatlas/openatlas/internal/server/status"
)

// Account is the central entity of the trust engine: a registered person or
// bot identity, with credentials, moderation status, and the activity
// counters consumed by the spam scorer and rate limiter.
//
// Counters are maintained by the storage layer (triggers/collaborators) and
// are read-only here. HomeTile is derived from HomeLat/HomeLon and owned
// exclusively by the save path.
type Account struct {
	ID           int64
	Email        string
	DisplayName  string
	PassCrypt    string
	PassSalt     string
	CreationTime time.Time
	Status       status.Status

	Description  string
	Languages    string
	DataPublic   bool
	EmailValid   bool
	NewEmail     *string
	AuthProvider *string
	AuthUID      *string
	AvatarKey    *string

	HomeLat  *float64
	HomeLon  *float64
	HomeZoom *int
	HomeTile *int64

	ChangesetsCount    int
	TracesCount        int
	DiaryEntriesCount  int
	DiaryCommentsCount int
	NoteCommentsCount  int

	// Roles is a precomputed set of role names loaded with the snapshot.
	Roles map[string]struct{}
}

// HasRole reports whether the account snapshot carries the named role.
func (a *Account) HasRole(role string) bool {
	_, ok := a.Roles[role]
	return ok
}

func (a *Account) Moderator() bool     { return a.HasRole("moderator") }
func (a *Account) Administrator() bool { return a.HasRole("administrator") }
func (a *Account) Importer() bool      { return a.HasRole("importer") }

// HomeLocation reports whether both home coordinates are set.
func (a *Account) HomeLocation() bool {
	return a.HomeLat != nil && a.HomeLon != nil
}

// LanguageList splits the stored comma/space separated language string.
func (a *Account) LanguageList() []string {
	if a.Languages == "" {
		return nil
	}
	fields := strings.FieldsFunc(a.Languages, func(r rune) bool {
		return r == ',' || r == ' '
	})
	out := make([]string, 0, len(fields))
	for _, f := range fields {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

// SetLanguageList joins languages back into the stored representation.
func (a *Account) SetLanguageList(languages []string) {
	a.Languages = strings.Join(languages, ",")
}

// Fingerprint digests the credential-bearing fields. Signed one-time tokens
// (email confirmation, password reset) embed it so they stop verifying as
// soon as the email or password changes.
func (a *Account) Fingerprint() string {
	sum := sha256.Sum256([]byte(a.Email + a.PassCrypt))
	return hex.EncodeToString(sum[:])
}

// Visible reports whether the account should appear in public listings.
func (a *Account) Visible() bool { return status.IsVisible(a.Status) }

// Active reports whether the account is in active standing.
func (a *Account) Active() bool { return status.IsActive(a.Status) }
