package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	token, err := GenerateToken("user-123", "user@example.com")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
	assert.Equal(t, "user@example.com", claims.Email)
	assert.Equal(t, "skillswap-backend", claims.Issuer)
}

func TestGenerateTokenRequiresUserID(t *testing.T) {
	_, err := GenerateToken("", "user@example.com")
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	_, err := ValidateToken("")
	assert.Error(t, err)

	_, err = ValidateToken("not-a-jwt")
	assert.Error(t, err)
}

func TestValidateTokenRejectsTampered(t *testing.T) {
	token, err := GenerateToken("user-123", "")
	require.NoError(t, err)

	tampered := token[:len(token)-4] + "AAAA"
	_, err = ValidateToken(tampered)
	assert.Error(t, err)
}

func TestRefreshToken(t *testing.T) {
	token, err := GenerateToken("user-123", "user@example.com")
	require.NoError(t, err)

	refreshed, err := RefreshToken(token)
	require.NoError(t, err)

	claims, err := ValidateToken(refreshed)
	require.NoError(t, err)
	assert.Equal(t, "user-123", claims.UserID)
}
