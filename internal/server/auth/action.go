package auth

import (
	"crypto/subtle"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/openatlas/openatlas/internal/common"
	"github.com/openatlas/openatlas/internal/server/models"
)

// Action names the purpose of a one-time link token.
type Action string

const (
	ActionConfirmSignup Action = "confirm_signup"
	ActionConfirmEmail  Action = "confirm_email"
	ActionResetPassword Action = "reset_password"
)

// ActionClaims back the signed links sent by email. The account fingerprint
// is embedded so the token stops verifying once the email or password
// changes, without any server-side bookkeeping.
type ActionClaims struct {
	jwt.RegisteredClaims
	AccountID   int64
	Action      Action
	Fingerprint string
}

// GenerateActionToken mints a single-purpose signed token for the account.
func GenerateActionToken(account *models.Account, action Action, secretKey []byte, validity time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, ActionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validity)),
		},
		AccountID:   account.ID,
		Action:      action,
		Fingerprint: account.Fingerprint(),
	})
	return token.SignedString(secretKey)
}

// ParseActionToken validates an action token against the account's current
// credential fingerprint. A token minted before a credential change fails.
func ParseActionToken(tokenString string, action Action, account *models.Account, secretKey []byte) (*ActionClaims, error) {
	claims := &ActionClaims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return nil, common.ErrInvalidToken
	}

	if claims.Action != action || claims.AccountID != account.ID {
		return nil, common.ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(claims.Fingerprint), []byte(account.Fingerprint())) != 1 {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
