package auth

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(t *testing.T, secret string, method jwt.SigningMethod, claims Claims) string {
	t.Helper()
	token, err := jwt.NewWithClaims(method, claims).SignedString([]byte(secret))
	require.NoError(t, err)
	return token
}

func TestVerifier_ValidToken(t *testing.T) {
	v := NewVerifier(JWTConfig{Secret: "s3cret", Issuer: "storedesk"})
	token := sign(t, "s3cret", jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "storedesk",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
		UserID:   "u-1",
		Username: "thu.ngan",
		Roles:    []string{"cashier"},
	})

	user, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-1", user.UserID)
	assert.Equal(t, "thu.ngan", user.Username)
	assert.Equal(t, []string{"cashier"}, user.Roles)
}

func TestVerifier_SubjectFallback(t *testing.T) {
	v := NewVerifier(JWTConfig{Secret: "s3cret"})
	token := sign(t, "s3cret", jwt.SigningMethodHS256, Claims{
		RegisteredClaims: jwt.RegisteredClaims{Subject: "u-9"},
	})

	user, err := v.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "u-9", user.UserID)
}

func TestVerifier_Rejects(t *testing.T) {
	v := NewVerifier(JWTConfig{Secret: "s3cret", Issuer: "storedesk"})

	tests := []struct {
		name  string
		token string
	}{
		{"wrong secret", sign(t, "other", jwt.SigningMethodHS256, Claims{UserID: "u", RegisteredClaims: jwt.RegisteredClaims{Issuer: "storedesk"}})},
		{"wrong issuer", sign(t, "s3cret", jwt.SigningMethodHS256, Claims{UserID: "u", RegisteredClaims: jwt.RegisteredClaims{Issuer: "x"}})},
		{"wrong method", sign(t, "s3cret", jwt.SigningMethodHS512, Claims{UserID: "u", RegisteredClaims: jwt.RegisteredClaims{Issuer: "storedesk"}})},
		{"expired", sign(t, "s3cret", jwt.SigningMethodHS256, Claims{UserID: "u", RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    "storedesk",
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		}})},
		{"garbage", "not-a-token"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}
}
