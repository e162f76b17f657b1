package security

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/hex"
	"fmt"
	"strings"

	"golang.org/x/crypto/scrypt"
)

type ScryptParams struct {
	N       int
	R       int
	P       int
	KeyLen  int
	SaltLen int
}

var defaultParams = ScryptParams{
	N:       32768,
	R:       8,
	P:       1,
	KeyLen:  64,
	SaltLen: 16,
}

// HashPassword derives a scrypt key from the password with a fresh random
// salt and encodes the credential as "salt_hex:hash_hex".
func HashPassword(password string) (string, error) {
	return HashPasswordWithParams(password, defaultParams)
}

func HashPasswordWithParams(password string, params ScryptParams) (string, error) {
	salt := make([]byte, params.SaltLen)
	if _, err := rand.Read(salt); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}

	key, err := scrypt.Key([]byte(password), salt, params.N, params.R, params.P, params.KeyLen)
	if err != nil {
		return "", fmt.Errorf("derive key: %w", err)
	}

	return hex.EncodeToString(salt) + ":" + hex.EncodeToString(key), nil
}

// VerifyPassword checks a plaintext password against a stored "salt:hash"
// credential. Any malformed input fails closed: the answer is false, never
// an error the caller could mistake for a match.
func VerifyPassword(password, stored string) bool {
	saltHex, hashHex, ok := strings.Cut(stored, ":")
	if !ok || saltHex == "" || hashHex == "" {
		return false
	}

	salt, err := hex.DecodeString(saltHex)
	if err != nil {
		return false
	}
	hash, err := hex.DecodeString(hashHex)
	if err != nil {
		return false
	}

	// Comparison happens over raw key bytes. Hex strings are never compared
	// directly; string equality short-circuits and leaks timing.
	derived, err := scrypt.Key([]byte(password), salt, defaultParams.N, defaultParams.R, defaultParams.P, len(hash))
	if err != nil {
		return false
	}

	if len(hash) != len(derived) {
		return false
	}
	return subtle.ConstantTimeCompare(hash, derived) == 1
}
