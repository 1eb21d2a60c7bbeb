package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateAndParseJWT(t *testing.T) {
	now := time.Now()
	token, expiresAt, err := GenerateJWT("acc-1", "admin", "secret", time.Hour, "brokerdesk", now)
	require.NoError(t, err)
	assert.WithinDuration(t, now.Add(time.Hour), expiresAt, time.Second)

	claims, err := ParseAndValidateJWT(token, "secret", "brokerdesk")
	require.NoError(t, err)
	assert.Equal(t, "acc-1", claims.Subject)
	assert.Equal(t, "admin", claims.Role)
}

func TestParseAndValidateJWT_Rejects(t *testing.T) {
	now := time.Now()
	token, _, err := GenerateJWT("acc-1", "user", "secret", time.Hour, "brokerdesk", now)
	require.NoError(t, err)

	_, err = ParseAndValidateJWT(token, "other-secret", "brokerdesk")
	assert.ErrorIs(t, err, jwt.ErrTokenSignatureInvalid)

	_, err = ParseAndValidateJWT(token, "secret", "someone-else")
	assert.ErrorIs(t, err, jwt.ErrTokenInvalidIssuer)

	expired, _, err := GenerateJWT("acc-1", "user", "secret", time.Minute, "brokerdesk", now.Add(-2*time.Hour))
	require.NoError(t, err)
	_, err = ParseAndValidateJWT(expired, "secret", "brokerdesk")
	assert.ErrorIs(t, err, jwt.ErrTokenExpired)

	_, err = ParseAndValidateJWT("not-a-token", "secret", "brokerdesk")
	assert.Error(t, err)
}

func TestPasswordHash(t *testing.T) {
	hash, err := HashPassword("correct horse")
	require.NoError(t, err)
	assert.True(t, CheckPasswordHash("correct horse", hash))
	assert.False(t, CheckPasswordHash("wrong", hash))
	BurnPasswordCheck("anything")
}
