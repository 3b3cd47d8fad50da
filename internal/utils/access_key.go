package utils

import (
	"crypto/rand"
	"fmt"
)

// GenerateAccessKey produces a 44-digit numeric key in the shape of an NFe
// access key. Real keys are assembled by the fiscal authority; this stands in
// until SEFAZ integration exists.
func GenerateAccessKey() (string, error) {
	const length = 44
	b := make([]byte, length)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to read random bytes: %w", err)
	}
	key := make([]byte, length)
	for i, v := range b {
		key[i] = '0' + v%10
	}
	return string(key), nil
}
