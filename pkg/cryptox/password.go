package cryptox

import (
	"crypto/rand"
	"crypto/sha512"
	"crypto/subtle"
	"fmt"
)

// SaltSize is the number of random bytes drawn for every new password salt.
const SaltSize = 64

// GenerateSalt returns SaltSize bytes from the system CSPRNG.
func GenerateSalt() ([]byte, error) {
	salt := make([]byte, SaltSize)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to generate salt: %w", err)
	}
	return salt, nil
}

// HashPassword computes SHA-512(password || salt). The password is taken as
// its UTF-8 bytes and the salt as raw bytes, so stored digests remain stable
// across implementations.
func HashPassword(password string, salt []byte) []byte {
	h := sha512.New()
	h.Write([]byte(password))
	h.Write(salt)
	return h.Sum(nil)
}

// VerifyPassword reports whether password hashes to digest under salt.
// The comparison runs in constant time.
func VerifyPassword(password string, salt, digest []byte) bool {
	return subtle.ConstantTimeCompare(HashPassword(password, salt), digest) == 1
}

// NewPasswordHash draws a fresh salt and hashes password with it.
func NewPasswordHash(password string) (digest, salt []byte, err error) {
	salt, err = GenerateSalt()
	if err != nil {
		return nil, nil, err
	}
	return HashPassword(password, salt), salt, nil
}
