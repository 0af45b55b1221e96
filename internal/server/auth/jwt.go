// Package auth is the authentication collaborator: it mints and verifies the
// HS256 tokens that carry the principal, and hashes passwords. The namespace
// core trusts the Principal it is handed and never re-verifies identity.
package auth

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/vkarpenko/drivespace/internal/common"
)

// Principal is the verified identity attached to every request.
type Principal struct {
	ID       string
	Username string
	Email    string
	Role     string
}

type Claims struct {
	jwt.RegisteredClaims
	UserID   string `json:"id"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Role     string `json:"role"`
}

// GenerateToken mints an HS256 token for the principal, valid for
// validityDuration.
func GenerateToken(p Principal, secretKey []byte, validityDuration time.Duration) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(validityDuration)),
			IssuedAt:  jwt.NewNumericDate(time.Now()),
		},
		UserID:   p.ID,
		Username: p.Username,
		Email:    p.Email,
		Role:     p.Role,
	})

	return token.SignedString(secretKey)
}

// VerifyToken parses and validates a token, returning the embedded
// Principal. Expired or malformed tokens yield ErrInvalidToken.
func VerifyToken(tokenString string, secretKey []byte) (Principal, error) {
	claims := &Claims{}

	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		return secretKey, nil
	})
	if err != nil || !token.Valid {
		return Principal{}, common.ErrInvalidToken
	}

	return Principal{
		ID:       claims.UserID,
		Username: claims.Username,
		Email:    claims.Email,
		Role:     claims.Role,
	}, nil
}
