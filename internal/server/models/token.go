package models

import "time"

// AccessToken is the stored record backing a signed access token. The token
// string itself is a JWT; the row tracks expiry and revocation so tokens can
// be invalidated before their natural expiry.
type AccessToken struct {
	ID        string
	AccountID int64
	ExpiresAt time.Time
	RevokedAt *time.Time
	CreatedAt time.Time
}

// Revoked reports whether the token has been explicitly revoked.
func (t *AccessToken) Revoked() bool {
	return t.RevokedAt != nil
}

// Expired reports whether the token has passed its expiry at the given time.
func (t *AccessToken) Expired(now time.Time) bool {
	return !t.ExpiresAt.After(now)
}
