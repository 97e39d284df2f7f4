package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndParse(t *testing.T) {
	tok, err := SignJWT("secret", "alice", time.Hour)
	require.NoError(t, err)

	claims, err := ParseJWT("secret", tok)
	require.NoError(t, err)
	assert.Equal(t, "alice", claims.UserID)
}

func TestParseWrongSecret(t *testing.T) {
	tok, err := SignJWT("secret", "alice", time.Hour)
	require.NoError(t, err)

	_, err = ParseJWT("other", tok)
	assert.Error(t, err)
}

func TestParseExpired(t *testing.T) {
	tok, err := SignJWT("secret", "alice", -time.Minute)
	require.NoError(t, err)

	_, err = ParseJWT("secret", tok)
	assert.Error(t, err)
}

func TestParseGarbage(t *testing.T) {
	_, err := ParseJWT("secret", "not-a-token")
	assert.Error(t, err)
}
