package cryptox

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func TestNewSessionToken(t *testing.T) {
	t.Parallel()

	seen := make(map[string]struct{})
	for range 100 {
		tok, err := NewSessionToken()
		require.NoError(t, err)
		require.Len(t, tok, 36)

		parsed, err := uuid.Parse(tok)
		require.NoError(t, err)
		require.Equal(t, uuid.Version(4), parsed.Version())

		_, dup := seen[tok]
		require.False(t, dup, "token generated twice")
		seen[tok] = struct{}{}
	}
}

func TestRedactToken(t *testing.T) {
	t.Parallel()

	require.Equal(t, "***", RedactToken(""))
	require.Equal(t, "***", RedactToken("short"))
	require.Equal(t, "3fa85f64***", RedactToken("3fa85f64-5717-4562-b3fc-2c963f66afa6"))
}
