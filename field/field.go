// Package field implements modular arithmetic on fixed-width signed integers
// under a positive modulus. Every result is normalized into [0, m) with a true
// mathematical modulo, whatever the sign of the operands.
package field

import (
	"fmt"
	"math/bits"

	"golang.org/x/exp/constraints"

	giophantus "github.com/BackendStack21/giophantus-go"
)

// Normalize returns a mod m in [0, m). m must be positive.
func Normalize[T constraints.Signed](a, m T) T {
	r := a % m
	if r < 0 {
		r += m
	}
	return r
}

func checkModulus(m int64) error {
	if m <= 0 {
		return fmt.Errorf("%w: modulus %d must be positive", giophantus.ErrInvalidParameter, m)
	}
	return nil
}

// Add returns (a + b) mod m.
func Add(a, b, m int64) (int64, error) {
	if err := checkModulus(m); err != nil {
		return 0, err
	}
	return add(Normalize(a, m), Normalize(b, m), m), nil
}

// Sub returns (a - b) mod m.
func Sub(a, b, m int64) (int64, error) {
	if err := checkModulus(m); err != nil {
		return 0, err
	}
	return sub(Normalize(a, m), Normalize(b, m), m), nil
}

// Mul returns (a * b) mod m. The product is formed on 128 bits, so it does
// not overflow for any positive int64 modulus.
func Mul(a, b, m int64) (int64, error) {
	if err := checkModulus(m); err != nil {
		return 0, err
	}
	return mul(Normalize(a, m), Normalize(b, m), m), nil
}

// add, sub and mul expect operands already in [0, m).

func add(a, b, m int64) int64 {
	s := uint64(a) + uint64(b)
	if s >= uint64(m) {
		s -= uint64(m)
	}
	return int64(s)
}

func sub(a, b, m int64) int64 {
	if a >= b {
		return a - b
	}
	return a - b + m
}

func mul(a, b, m int64) int64 {
	hi, lo := bits.Mul64(uint64(a), uint64(b))
	return int64(bits.Rem64(hi, lo, uint64(m)))
}
