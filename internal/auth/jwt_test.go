package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func testJWTManager(t *testing.T) JWTManagerInterface {
	t.Helper()
	t.Setenv("JWT_SECRET", "test-secret")
	return NewJWTManager()
}

func TestAccessToken_RoundTrip(t *testing.T) {
	manager := testJWTManager(t)

	token, err := manager.GenerateAccessJWT("user-1", time.Minute)
	assert.NoError(t, err)

	userID, err := manager.ValidateAccessToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestAccessToken_Expired(t *testing.T) {
	manager := testJWTManager(t)

	token, err := manager.GenerateAccessJWT("user-1", -time.Minute)
	assert.NoError(t, err)

	_, err = manager.ValidateAccessToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}

func TestAccessToken_Garbage(t *testing.T) {
	manager := testJWTManager(t)

	_, err := manager.ValidateAccessToken("not-a-token")
	assert.Error(t, err)
}

func TestRefreshToken_BoundToHashToken(t *testing.T) {
	manager := testJWTManager(t)

	token, err := manager.GenerateRefreshJWT("user-1", "hash-token", time.Hour)
	assert.NoError(t, err)

	assert.NoError(t, manager.ValidateRefreshToken(token, "hash-token"))

	// Rotating the hash token invalidates the refresh token.
	err = manager.ValidateRefreshToken(token, "rotated-token")
	assert.ErrorIs(t, err, ErrInvalidJWTToken)
}

func TestRefreshToken_ExtractUserID(t *testing.T) {
	manager := testJWTManager(t)

	token, err := manager.GenerateRefreshJWT("user-1", "hash-token", time.Hour)
	assert.NoError(t, err)

	userID, err := manager.ExtractUserIDFromRefreshToken(token)
	assert.NoError(t, err)
	assert.Equal(t, "user-1", userID)
}

func TestRefreshToken_Expired(t *testing.T) {
	manager := testJWTManager(t)

	token, err := manager.GenerateRefreshJWT("user-1", "hash-token", -time.Minute)
	assert.NoError(t, err)

	_, err = manager.ExtractUserIDFromRefreshToken(token)
	assert.ErrorIs(t, err, ErrExpiredJWTToken)
}
