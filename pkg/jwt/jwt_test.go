package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewService(t *testing.T) {
	secretKey := "test-secret-key"
	service := NewService(secretKey, 0)

	assert.NotNil(t, service)
	assert.Equal(t, []byte(secretKey), service.secretKey)
	assert.Equal(t, defaultExpiration, service.Expiration())
}

func TestGenerateToken(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	token, err := service.GenerateToken("user-123", "user", "session-1")

	assert.NoError(t, err)
	assert.NotEmpty(t, token)
}

func TestGenerateAndValidateToken_RoundTrip(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	token, err := service.GenerateToken("user-456", "admin", "session-9")
	require.NoError(t, err)

	claims, err := service.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-456", claims.UserID)
	assert.Equal(t, "admin", claims.Role)
	assert.Equal(t, "session-9", claims.SessionID())
	assert.True(t, time.Now().Before(claims.ExpiresAt.Time))
}

func TestValidateToken_InvalidToken(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	_, err := service.ValidateToken("invalid-token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_EmptyToken(t *testing.T) {
	service := NewService("test-secret-key", time.Hour)

	_, err := service.ValidateToken("")
	assert.ErrorIs(t, err, ErrInvalidToken)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	service1 := NewService("secret-key-1", time.Hour)
	service2 := NewService("secret-key-2", time.Hour)

	token, err := service1.GenerateToken("user-123", "user", "s")
	require.NoError(t, err)

	_, err = service2.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateToken_ExpiredToken(t *testing.T) {
	service := NewService("test-secret-key", time.Minute)
	issued := time.Now().Add(-time.Hour)
	service.now = func() time.Time { return issued }

	token, err := service.GenerateToken("user-123", "user", "s")
	require.NoError(t, err)

	service.now = time.Now
	_, err = service.ValidateToken(token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
