package field

import (
	"fmt"

	giophantus "github.com/BackendStack21/giophantus-go"
)

// Modulus is a validated modulus. Its methods skip the positivity check and
// expect operands in [0, m); use Reduce to bring arbitrary integers in range.
type Modulus struct {
	m int64
}

// NewModulus validates m and returns it as a Modulus.
func NewModulus(m int64) (Modulus, error) {
	if err := checkModulus(m); err != nil {
		return Modulus{}, err
	}
	return Modulus{m: m}, nil
}

// Value returns the modulus as an integer.
func (q Modulus) Value() int64 { return q.m }

// Reduce maps any integer into [0, m).
func (q Modulus) Reduce(a int64) int64 { return Normalize(a, q.m) }

// Add returns a + b mod m for reduced a and b.
func (q Modulus) Add(a, b int64) int64 { return add(a, b, q.m) }

// Sub returns a - b mod m for reduced a and b.
func (q Modulus) Sub(a, b int64) int64 { return sub(a, b, q.m) }

// Mul returns a * b mod m for reduced a and b, using a 128-bit product.
func (q Modulus) Mul(a, b int64) int64 { return mul(a, b, q.m) }

// Neg returns -a mod m.
func (q Modulus) Neg(a int64) int64 {
	if a == 0 {
		return 0
	}
	return q.m - a
}

// Pow returns a^e mod m by square-and-multiply. e must be non-negative.
func (q Modulus) Pow(a int64, e uint64) int64 {
	result := Normalize(1, q.m)
	base := a
	for e > 0 {
		if e&1 == 1 {
			result = q.Mul(result, base)
		}
		base = q.Mul(base, base)
		e >>= 1
	}
	return result
}

// Inv returns the multiplicative inverse of a, assuming m is prime.
func (q Modulus) Inv(a int64) (int64, error) {
	if a == 0 {
		return 0, fmt.Errorf("%w: zero has no inverse mod %d", giophantus.ErrInvalidParameter, q.m)
	}
	return q.Pow(a, uint64(q.m-2)), nil
}
