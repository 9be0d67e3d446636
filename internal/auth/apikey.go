package auth

import (
	"crypto/subtle"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"
)

const DefaultBcryptCost = 12

// HashAPIKey produces a bcrypt hash suitable for ADMIN_API_KEY_HASH.
func HashAPIKey(key string) (string, error) {
	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", fmt.Errorf("api key is required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(trimmed), DefaultBcryptCost)
	if err != nil {
		return "", fmt.Errorf("hash api key: %w", err)
	}
	return string(hash), nil
}

// Verifier checks presented API keys against a configured secret. When a
// bcrypt hash is configured it takes precedence over the plaintext key.
type Verifier struct {
	key  string
	hash string
}

func NewVerifier(plainKey, hash string) *Verifier {
	return &Verifier{
		key:  strings.TrimSpace(plainKey),
		hash: strings.TrimSpace(hash),
	}
}

func (v *Verifier) Verify(presented string) bool {
	if v == nil {
		return false
	}

	trimmed := strings.TrimSpace(presented)
	if trimmed == "" {
		return false
	}

	if v.hash != "" {
		return bcrypt.CompareHashAndPassword([]byte(v.hash), []byte(trimmed)) == nil
	}
	if v.key == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(v.key), []byte(trimmed)) == 1
}
