// Package otp generates one-time verification codes.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// Generate returns a string of exactly length decimal digits, drawn uniformly
// from [0, 10^length) with crypto/rand. Leading zeros are kept, which is why
// codes are strings and never integers.
func Generate(length int) (string, error) {
	if length <= 0 {
		return "", fmt.Errorf("code length must be positive, got %d", length)
	}
	max := new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(length)), nil)
	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("read entropy: %w", err)
	}
	return fmt.Sprintf("%0*d", length, n), nil
}
