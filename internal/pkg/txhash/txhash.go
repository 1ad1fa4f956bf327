package txhash

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// New generates a random 0x-prefixed 32-byte hex string shaped like a
// transaction hash. It identifies nothing on any chain; it only gives the
// dashboard a plausible receipt to display.
func New() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate transaction hash: %w", err)
	}
	return "0x" + hex.EncodeToString(b), nil
}
