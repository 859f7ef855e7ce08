package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTRoundTrip(t *testing.T) {
	token, err := GenerateJWT("test-secret", 42, TokenTypeAdmin, time.Now().Add(time.Hour))
	require.NoError(t, err)

	claims, err := ValidateJWT("test-secret", token)
	require.NoError(t, err)
	assert.EqualValues(t, 42, claims.AccountID)
	assert.Equal(t, TokenTypeAdmin, claims.TokenType)
}

func TestJWTTokenTypesAreDisjoint(t *testing.T) {
	adminToken, err := GenerateJWT("test-secret", 1, TokenTypeAdmin, time.Now().Add(time.Hour))
	require.NoError(t, err)
	superToken, err := GenerateJWT("test-secret", 1, TokenTypeSuperAdmin, time.Now().Add(time.Hour))
	require.NoError(t, err)

	adminClaims, err := ValidateJWT("test-secret", adminToken)
	require.NoError(t, err)
	superClaims, err := ValidateJWT("test-secret", superToken)
	require.NoError(t, err)

	assert.NotEqual(t, adminClaims.TokenType, superClaims.TokenType)
}

func TestJWTRejectsWrongSecret(t *testing.T) {
	token, err := GenerateJWT("test-secret", 42, TokenTypeAdmin, time.Now().Add(time.Hour))
	require.NoError(t, err)

	_, err = ValidateJWT("other-secret", token)
	assert.Error(t, err)
}

func TestJWTRejectsExpiredToken(t *testing.T) {
	token, err := GenerateJWT("test-secret", 42, TokenTypeAdmin, time.Now().Add(-time.Minute))
	require.NoError(t, err)

	_, err = ValidateJWT("test-secret", token)
	assert.Error(t, err)
}
