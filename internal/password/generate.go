// Package password generates random passwords.
package password

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
)

// Alphabet is the set of characters a generated password is drawn from:
// 26 lowercase, 26 uppercase, 10 digits and 14 symbols.
const Alphabet = "abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"0123456789" +
	"!@#$%^&*()-_=+"

// DefaultLength is used when no length is given.
const DefaultLength = 16

// ErrInvalidLength is returned for lengths below 1.
var ErrInvalidLength = errors.New("password length must be at least 1")

var alphabetSize = big.NewInt(int64(len(Alphabet)))

// Generate returns a password of exactly length characters, each drawn
// uniformly and independently from Alphabet.
func Generate(length int) (string, error) {
	if length < 1 {
		return "", fmt.Errorf("%w: got %d", ErrInvalidLength, length)
	}

	buf := make([]byte, length)
	for i := range buf {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("reading random source: %w", err)
		}
		buf[i] = Alphabet[n.Int64()]
	}
	return string(buf), nil
}
