package utils

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestTokenRoundTrip(t *testing.T) {
	userID := uuid.New()
	secret := "test-secret"

	signed, err := GenerateToken(userID, "ADMIN", TokenAccess, secret, time.Minute)
	if err != nil {
		t.Fatalf("GenerateToken: %v", err)
	}

	claims, err := ValidateToken(signed, TokenAccess, secret)
	if err != nil {
		t.Fatalf("ValidateToken: %v", err)
	}
	if claims.UserID != userID {
		t.Errorf("userID = %s, want %s", claims.UserID, userID)
	}
	if claims.Role != "ADMIN" {
		t.Errorf("role = %q, want ADMIN", claims.Role)
	}
}

func TestValidateTokenRejections(t *testing.T) {
	userID := uuid.New()
	secret := "test-secret"

	tests := []struct {
		name  string
		token func(t *testing.T) string
		kind  TokenKind
		key   string
	}{
		{
			name: "wrong kind",
			token: func(t *testing.T) string {
				s, err := GenerateToken(userID, "USER", TokenRefresh, secret, time.Minute)
				if err != nil {
					t.Fatal(err)
				}
				return s
			},
			kind: TokenAccess,
			key:  secret,
		},
		{
			name: "wrong secret",
			token: func(t *testing.T) string {
				s, err := GenerateToken(userID, "USER", TokenAccess, secret, time.Minute)
				if err != nil {
					t.Fatal(err)
				}
				return s
			},
			kind: TokenAccess,
			key:  "other-secret",
		},
		{
			name: "expired",
			token: func(t *testing.T) string {
				s, err := GenerateToken(userID, "USER", TokenAccess, secret, -time.Minute)
				if err != nil {
					t.Fatal(err)
				}
				return s
			},
			kind: TokenAccess,
			key:  secret,
		},
		{
			name: "garbage",
			token: func(t *testing.T) string {
				return "not.a.token"
			},
			kind: TokenAccess,
			key:  secret,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ValidateToken(tt.token(t), tt.kind, tt.key); err == nil {
				t.Error("expected error, got nil")
			}
		})
	}
}
