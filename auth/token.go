package auth

import (
	"errors"
	"time"

	"bazaar/globals"
	"bazaar/models"

	"github.com/golang-jwt/jwt/v5"
)

// TokenTTL is the fixed validity window of an issued token. There is no
// refresh mechanism; an expired token requires re-authentication.
const TokenTTL = time.Hour

var ErrInvalidToken = errors.New("invalid token")

// JWT claims
type Claims struct {
	UserID string `json:"userId"`
	Email  string `json:"email"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// IssueToken produces a signed, time-limited identity token embedding
// the subject id and role flag. Stateless: nothing is recorded, so a
// compromised token stays valid until natural expiry.
func IssueToken(user *models.User) (string, error) {
	claims := &Claims{
		UserID: user.UserID,
		Email:  user.Email,
		Role:   user.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(TokenTTL)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(globals.JwtSecret)
}

// VerifyToken checks signature and validity window and returns the
// embedded claims. Malformed, tampered, and expired tokens all fail
// with ErrInvalidToken.
func VerifyToken(raw string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(raw, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return globals.JwtSecret, nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
