package utils

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenKind separates access tokens from refresh tokens inside claims.
type TokenKind string

const (
	TokenAccess  TokenKind = "access"
	TokenRefresh TokenKind = "refresh"
)

// Claims carried by both token kinds.
type Claims struct {
	UserID uuid.UUID `json:"userId"`
	Role   string    `json:"role"`
	Kind   TokenKind `json:"kind"`
	jwt.RegisteredClaims
}

// GenerateToken signs a token of the given kind with the given secret and TTL.
func GenerateToken(userID uuid.UUID, role string, kind TokenKind, secret string, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := Claims{
		UserID: userID,
		Role:   role,
		Kind:   kind,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(secret))
}

// ValidateToken parses a token, verifies its signature and expiry, and checks
// that it is of the expected kind.
func ValidateToken(tokenString string, kind TokenKind, secret string) (*Claims, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return []byte(secret), nil
	})
	if err != nil || !token.Valid {
		return nil, ErrInvalidToken
	}
	if claims.Kind != kind {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
