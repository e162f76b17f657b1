package security

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// GenerateSingleUseToken returns 32 bytes of randomness, hex-encoded, for
// email verification and password reset links.
func GenerateSingleUseToken() (string, error) {
	buf := make([]byte, 32)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generate token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}
