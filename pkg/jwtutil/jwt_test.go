package jwtutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndValidateToken(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "secret", ExpirationHours: 1})

	token, err := util.GenerateToken("warung@example.com", 42)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := util.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.MerchantID)
	assert.Equal(t, "warung@example.com", claims.Email)
}

func TestValidateTokenRejectsWrongKey(t *testing.T) {
	issuer := NewJWTUtil(&JWTConfig{SigningKey: "secret", ExpirationHours: 1})
	verifier := NewJWTUtil(&JWTConfig{SigningKey: "other", ExpirationHours: 1})

	token, err := issuer.GenerateToken("warung@example.com", 42)
	require.NoError(t, err)

	_, err = verifier.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsExpiredToken(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "secret", ExpirationHours: -1})

	token, err := util.GenerateToken("warung@example.com", 42)
	require.NoError(t, err)

	_, err = util.ValidateToken(token)
	assert.Error(t, err)
}

func TestValidateTokenRejectsGarbage(t *testing.T) {
	util := NewJWTUtil(&JWTConfig{SigningKey: "secret", ExpirationHours: 1})

	_, err := util.ValidateToken("not-a-token")
	assert.Error(t, err)
}
