package cryptox

import (
	"crypto/sha512"
	"encoding/hex"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	t.Parallel()

	salt := []byte{0x00, 0x01, 0xfe, 0xff}

	tests := []struct {
		name     string
		password string
	}{
		{"simple password", "password123"},
		{"complex password", "P@ssw0rd!#$%^&*()"},
		{"long password", strings.Repeat("a", 100)},
		{"empty password", ""},
		{"unicode password", "пароль🔒密码"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			want := sha512.Sum512(append([]byte(tt.password), salt...))
			got := HashPassword(tt.password, salt)

			require.Len(t, got, sha512.Size)
			require.Equal(t, want[:], got)
		})
	}
}

func TestHashPasswordKnownVector(t *testing.T) {
	t.Parallel()

	// SHA-512("abc") with an empty salt.
	want := "ddaf35a193617abacc417349ae20413112e6fa4e89a97ea20a9eeee64b55d39a" +
		"2192992a274fc1a836ba3c23a3feebbd454d4423643ce80e2a9ac94fa54ca49f"

	require.Equal(t, want, hex.EncodeToString(HashPassword("abc", nil)))
}

func TestVerifyPassword(t *testing.T) {
	t.Parallel()

	digest, salt, err := NewPasswordHash("wonderland")
	require.NoError(t, err)
	require.Len(t, salt, SaltSize)

	require.True(t, VerifyPassword("wonderland", salt, digest))
	require.False(t, VerifyPassword("Wonderland", salt, digest))
	require.False(t, VerifyPassword("", salt, digest))
	require.False(t, VerifyPassword("wonderland", salt[1:], digest))
	require.False(t, VerifyPassword("wonderland", salt, digest[:10]))
}

func TestGenerateSaltUnique(t *testing.T) {
	t.Parallel()

	a, err := GenerateSalt()
	require.NoError(t, err)
	b, err := GenerateSalt()
	require.NoError(t, err)

	require.Len(t, a, SaltSize)
	require.NotEqual(t, a, b)
}
