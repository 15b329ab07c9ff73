package cryptox

import (
	"fmt"

	"github.com/google/uuid"
)

// NewSessionToken returns a random version 4 UUID in its canonical hyphenated
// form. Tokens are opaque bearer secrets.
func NewSessionToken() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate session token: %w", err)
	}
	return id.String(), nil
}

// RedactToken shortens a token for log output.
func RedactToken(token string) string {
	if len(token) <= 8 {
		return "***"
	}
	return token[:8] + "***"
}
