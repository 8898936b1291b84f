// Package ring implements polynomial arithmetic over F_q and over the quotient
// ring R_q = F_q[t]/(t^n - 1), plus bivariate polynomials with coefficients in
// R_q.
package ring

// Poly is a polynomial stored as its coefficient sequence, lowest degree
// first. Operations never write to their operands; results always own fresh
// storage.
type Poly struct {
	Coeffs []int64
}

// NewPoly returns a polynomial holding a copy of coeffs.
func NewPoly(coeffs ...int64) Poly {
	c := make([]int64, len(coeffs))
	copy(c, coeffs)
	return Poly{Coeffs: c}
}

// Zero returns the zero polynomial with length coefficients.
func Zero(length int) Poly {
	return Poly{Coeffs: make([]int64, length)}
}

// Len returns the number of stored coefficients, trailing zeros included.
func (p Poly) Len() int { return len(p.Coeffs) }

// Clone returns a deep copy of p.
func (p Poly) Clone() Poly { return NewPoly(p.Coeffs...) }

// Coeff returns the coefficient of t^i, zero beyond the stored length.
func (p Poly) Coeff(i int) int64 {
	if i < 0 || i >= len(p.Coeffs) {
		return 0
	}
	return p.Coeffs[i]
}

// Degree returns the index of the highest non-zero coefficient. The zero
// polynomial, stored empty or as all zeros, has degree -1.
func Degree(p Poly) int {
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		if p.Coeffs[i] != 0 {
			return i
		}
	}
	return -1
}

// IsZero reports whether every coefficient of p is zero.
func IsZero(p Poly) bool { return Degree(p) < 0 }

// Trim returns p without its trailing zero coefficients. The value is
// unchanged; only the representation gets shorter.
func Trim(p Poly) Poly {
	return NewPoly(p.Coeffs[:Degree(p)+1]...)
}

// Pad returns p extended with zeros, or truncated, to exactly length coefficients.
func Pad(p Poly, length int) Poly {
	out := Zero(length)
	copy(out.Coeffs, p.Coeffs)
	return out
}

// Equal reports whether a and b are the same polynomial, ignoring trailing
// zero coefficients.
func Equal(a, b Poly) bool {
	da, db := Degree(a), Degree(b)
	if da != db {
		return false
	}
	for i := 0; i <= da; i++ {
		if a.Coeffs[i] != b.Coeffs[i] {
			return false
		}
	}
	return true
}
