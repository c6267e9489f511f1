// Package tokengen produces random alphanumeric tokens from a cryptographically secure source.
package tokengen

import (
	"crypto/rand"
	"fmt"
	"io"
	"math/big"
)

// Alphabet is the set of characters a token is drawn from
const Alphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generator draws tokens uniformly from Alphabet
type Generator struct {
	source io.Reader
}

// New returns a Generator reading from crypto/rand.
func New() *Generator {
	return &Generator{source: rand.Reader}
}

// NewWithSource returns a Generator reading randomness from source.
func NewWithSource(source io.Reader) *Generator {
	return &Generator{source: source}
}

// Generate returns a token of the given length.
func (g *Generator) Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("token length must be positive, got %d", length)
	}

	token := make([]byte, length)
	for i := range token {
		n, err := rand.Int(g.source, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("failed to read random source: %w", err)
		}
		token[i] = Alphabet[n.Int64()]
	}

	return string(token), nil
}
