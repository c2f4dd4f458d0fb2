package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateShareToken(t *testing.T) {
	token, err := GenerateShareToken()
	require.NoError(t, err)

	// 32 字节的 RawURLEncoding 长度固定为 43
	assert.Len(t, token, 43)

	// URL-safe 字符集，外链可以直接拼进 URL
	for _, r := range token {
		assert.True(t,
			(r >= 'A' && r <= 'Z') || (r >= 'a' && r <= 'z') ||
				(r >= '0' && r <= '9') || r == '-' || r == '_',
			"unexpected character %q in token", r)
	}
}

func TestGenerateShareTokenUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		token, err := GenerateShareToken()
		require.NoError(t, err)
		assert.False(t, seen[token], "duplicate token generated")
		seen[token] = true
	}
}
