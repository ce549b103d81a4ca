package jwt

import (
	"testing"
	"time"

	"medcenter-booking/config"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccessToken_RoundTripCarriesRole(t *testing.T) {
	svc := NewJWTService(config.JWTConfig{Secret: "s3cret", AccessExpiry: time.Minute, RefreshExpiry: time.Hour})
	userID := uuid.New()

	token, tokenID, err := svc.GenerateAccessToken(userID, "a@b.com", 1)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, 1, claims.RoleID)
	assert.Equal(t, AccessToken, claims.TokenType)
	assert.Equal(t, tokenID, claims.TokenID)
}

func TestValidateToken_WrongSecret(t *testing.T) {
	signer := NewJWTService(config.JWTConfig{Secret: "one", AccessExpiry: time.Minute})
	checker := NewJWTService(config.JWTConfig{Secret: "two", AccessExpiry: time.Minute})

	token, _, err := signer.GenerateAccessToken(uuid.New(), "a@b.com", 2)
	require.NoError(t, err)

	_, err = checker.ValidateToken(token)
	assert.Error(t, err)
}
