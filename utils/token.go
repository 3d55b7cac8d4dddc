package utils

import (
	"strings"

	"github.com/google/uuid"
)

// shareTokenPrefix keeps share tokens structurally distinct from numeric row
// ids, so a leaked id can never be replayed as a token.
const shareTokenPrefix = "s-"

// GetToken returns a random opaque token.
func GetToken() string {
	return uuid.NewString()
}

// ShareToken returns a new public share token.
func ShareToken() string {
	return shareTokenPrefix + uuid.NewString()
}

// IsShareToken reports whether raw has the shape of a share token.
func IsShareToken(raw string) bool {
	if !strings.HasPrefix(raw, shareTokenPrefix) {
		return false
	}
	_, err := uuid.Parse(strings.TrimPrefix(raw, shareTokenPrefix))
	return err == nil
}
