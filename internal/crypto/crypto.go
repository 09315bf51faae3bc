// Package crypto provides password hashing for the credential store.
package crypto

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashPassword returns the hex-encoded SHA-256 digest of the password's
// UTF-8 bytes. The plaintext is never persisted; every lookup compares
// digests.
func HashPassword(password string) string {
	sum := sha256.Sum256([]byte(password))
	return hex.EncodeToString(sum[:])
}
