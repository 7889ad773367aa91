package jwt

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shiftdesk/attendance-backend-go/internal/domain/user"
)

const testSecret = "test-secret-key-for-jwt"

func TestGenerateAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	tokenString, expiresAt, err := svc.GenerateAccessToken("u1", "jo@example.com", user.RoleAdmin)
	require.NoError(t, err)
	assert.NotEmpty(t, tokenString)
	assert.Greater(t, expiresAt, time.Now().Unix())

	token, err := svc.JWTAuth().Decode(tokenString)
	require.NoError(t, err)

	userID, _ := token.Get("user_id")
	assert.Equal(t, "u1", userID)
	role, _ := token.Get("role")
	assert.Equal(t, "ADMIN", role)
	tokenType, _ := token.Get("type")
	assert.Equal(t, "access", tokenType)
}

func TestValidateRefreshToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	tokenString, _, err := svc.GenerateRefreshToken("u1")
	require.NoError(t, err)

	userID, err := svc.ValidateRefreshToken(tokenString)
	require.NoError(t, err)
	assert.Equal(t, "u1", userID)
}

func TestValidateRefreshToken_RejectsAccessToken(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	tokenString, _, err := svc.GenerateAccessToken("u1", "jo@example.com", user.RoleEmployee)
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(tokenString)
	assert.Error(t, err)
}

func TestValidateRefreshToken_RejectsWrongSecret(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")
	other := NewJWTService("another-secret-entirely", "1h", "24h")

	tokenString, _, err := other.GenerateRefreshToken("u1")
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(tokenString)
	assert.Error(t, err)
}

func TestGenerateAccessToken_InvalidExpiration(t *testing.T) {
	svc := NewJWTService(testSecret, "not-a-duration", "24h")

	_, _, err := svc.GenerateAccessToken("u1", "jo@example.com", user.RoleEmployee)
	assert.Error(t, err)
}

func TestRefreshTokenCookie(t *testing.T) {
	svc := NewJWTService(testSecret, "1h", "24h")

	cookie := svc.RefreshTokenCookie("tok", time.Now().Add(24*time.Hour).Unix())
	assert.Equal(t, "refresh_token", cookie.Name)
	assert.Equal(t, "/api/v1/auth", cookie.Path)
	assert.True(t, cookie.HttpOnly)
}
