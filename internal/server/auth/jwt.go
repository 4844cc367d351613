// Package auth mints and parses the signed access tokens handed out at
// login. Tokens are HS256 JWTs carrying the account id and a unique token
// id; revocation state lives in the token store, not in the JWT itself.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/openatlas/openatlas/internal/common"
)

// Claims includes the registered claims plus the owning account id. The
// token id (jti) keys the stored revocation record.
type Claims struct {
	jwt.RegisteredClaims
	AccountID int64
}

// GenerateToken returns a signed token string and its token id.
func GenerateToken(accountID int64, secretKey []byte, validityDuration time.Duration) (string, string, error) {
	tokenID := uuid.NewString()

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        tokenID,
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
		},
		AccountID: accountID,
	})

	tokenString, err := token.SignedString(secretKey)
	if err != nil {
		return "", "", err
	}

	return tokenString, tokenID, nil
}

// ParseToken validates the signature and expiry of a token string and
// returns its claims.
func ParseToken(tokenString string, secretKey []byte) (*Claims, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil {
		return nil, err
	}

	if !token.Valid {
		return nil, common.ErrInvalidToken
	}

	return claims, nil
}
