package auth

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
)

// stateLength is the number of random bytes behind a state token.
const stateLength = 32

// NewState returns a URL-safe random state token.
func NewState() (string, error) {
	b := make([]byte, stateLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate state: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}
