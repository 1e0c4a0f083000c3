package services

import (
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func TestNewAuthService(t *testing.T) {
	_, err := NewAuthService("  ", time.Hour)
	assert.ErrorIs(t, err, ErrNoSecret)

	_, err = NewAuthService("short", time.Hour)
	assert.ErrorIs(t, err, ErrWeakSecret)

	auth, err := NewAuthService(testSecret, 0)
	require.NoError(t, err)
	assert.Equal(t, DefaultTokenExpiry, auth.tokenExpiry)
}

func TestGenerateAndValidateToken(t *testing.T) {
	auth, err := NewAuthService(testSecret, time.Hour)
	require.NoError(t, err)

	issued := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	auth.now = func() time.Time { return issued }

	token, expiresAt, err := auth.GenerateToken("grafana")
	require.NoError(t, err)
	assert.Equal(t, issued.Add(time.Hour), expiresAt)
	assert.Equal(t, 2, strings.Count(token, "."))

	claims, err := auth.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "grafana", claims.Client)
	assert.Equal(t, tokenIssuer, claims.Issuer)

	t.Run("expired", func(t *testing.T) {
		auth.now = func() time.Time { return issued.Add(2 * time.Hour) }
		defer func() { auth.now = func() time.Time { return issued } }()

		_, err := auth.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenExpired)
	})

	t.Run("other secret", func(t *testing.T) {
		other, err := NewAuthService(strings.Repeat("x", 32), time.Hour)
		require.NoError(t, err)
		other.now = auth.now

		_, err = other.ValidateToken(token)
		assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)
	})

	t.Run("garbage", func(t *testing.T) {
		_, err := auth.ValidateToken("not.a.token")
		assert.Error(t, err)
	})
}
