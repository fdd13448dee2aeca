package infrastructure

import (
	"crypto/rand"
	"fmt"
	"math/big"
)

// OTPGenerator produces numeric one-time codes from a cryptographically
// strong random source. Codes are uniformly distributed over the full
// zero-padded range, so leading zeros are preserved.
type OTPGenerator struct {
	length int
}

func NewOTPGenerator(length int) *OTPGenerator {
	if length <= 0 {
		length = 6
	}
	return &OTPGenerator{length: length}
}

func (g *OTPGenerator) Generate() (string, error) {
	max := big.NewInt(1)
	for i := 0; i < g.length; i++ {
		max.Mul(max, big.NewInt(10))
	}

	n, err := rand.Int(rand.Reader, max)
	if err != nil {
		return "", fmt.Errorf("failed to generate otp: %w", err)
	}

	return fmt.Sprintf("%0*d", g.length, n), nil
}

func (g *OTPGenerator) Length() int {
	return g.length
}
