package accounts

import (
	"crypto/sha256"
	"encoding/hex"
	"strings"
)

const gravatarBaseURL = "https://www.gravatar.com/avatar/"

// DefaultAvatarURL returns the identicon URL derived from email.
// Gravatar keys on the hash of the trimmed, lower cased address.
func DefaultAvatarURL(email string) string {
	normalized := strings.ToLower(strings.TrimSpace(email))
	sum := sha256.Sum256([]byte(normalized))
	return gravatarBaseURL + hex.EncodeToString(sum[:]) + "?d=identicon"
}
