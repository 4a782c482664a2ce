package utils

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGenerateAccessToken(t *testing.T) {
	token, err := GenerateAccessToken()
	require.NoError(t, err)
	require.Len(t, token, 48)

	// hexadécimal pur, donc utilisable tel quel dans une URL
	_, err = hex.DecodeString(token)
	require.NoError(t, err)
}

func TestGenerateAccessTokenIsUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateAccessToken()
		require.NoError(t, err)
		require.False(t, seen[token])
		seen[token] = true
	}
}
