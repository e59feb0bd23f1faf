package security

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// ResetTokenTTL is how long an issued password-reset token stays valid.
const ResetTokenTTL = time.Hour

// NewResetToken returns a fresh hex-encoded reset token with 256 bits of
// entropy. Only its hash may be persisted.
func NewResetToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return hex.EncodeToString(buf), nil
}

// HashResetToken returns the hex SHA-256 digest of a plaintext token.
func HashResetToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
