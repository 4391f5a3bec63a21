package id

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
)

// Generator creates opaque IDs suitable for external references.
type Generator interface {
	NewID(prefix string) (string, error)
}

type RandomGenerator struct{}

func NewRandomGenerator() *RandomGenerator {
	return &RandomGenerator{}
}

// NewID returns a random id, optionally namespaced as "<prefix>_<hex>".
func (g *RandomGenerator) NewID(prefix string) (string, error) {
	buf := make([]byte, 12)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}

	raw := hex.EncodeToString(buf)
	if prefix == "" {
		return raw, nil
	}
	return prefix + "_" + raw, nil
}
