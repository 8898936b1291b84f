package ring

import (
	"fmt"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/utils"
)

// BiPoly is a polynomial in two variables x, y whose coefficients are ring
// elements. Terms[i][j] is the coefficient of x^i y^j, defined for
// i + j <= Deg, so Terms[i] has Deg - i + 1 entries.
type BiPoly struct {
	Deg   int
	Terms [][]Poly
}

// NewBiPoly returns the zero bivariate polynomial of total degree deg with
// every coefficient stored as n zeros.
func NewBiPoly(deg, n int) (BiPoly, error) {
	if deg < 0 {
		return BiPoly{}, fmt.Errorf("%w: total degree %d must be non-negative", giophantus.ErrInvalidParameter, deg)
	}
	if n <= 0 {
		return BiPoly{}, fmt.Errorf("%w: coefficient length %d must be positive", giophantus.ErrInvalidParameter, n)
	}
	if _, err := utils.SafeMultiply(NumTerms(deg), n); err != nil {
		return BiPoly{}, fmt.Errorf("bivariate polynomial of degree %d over length %d: %w", deg, n, err)
	}
	terms := make([][]Poly, deg+1)
	for i := range terms {
		terms[i] = make([]Poly, deg-i+1)
		for j := range terms[i] {
			terms[i][j] = Zero(n)
		}
	}
	return BiPoly{Deg: deg, Terms: terms}, nil
}

// NumTerms returns the number of monomials x^i y^j with i + j <= deg.
func NumTerms(deg int) int {
	if deg < 0 {
		return 0
	}
	return (deg + 1) * (deg + 2) / 2
}

// Coeff returns the coefficient of x^i y^j, or the empty zero polynomial
// when (i, j) lies outside b's support.
func (b BiPoly) Coeff(i, j int) Poly {
	if i < 0 || j < 0 || i+j > b.Deg || i >= len(b.Terms) || j >= len(b.Terms[i]) {
		return Poly{}
	}
	return b.Terms[i][j]
}

// Clone returns a deep copy of b.
func (b BiPoly) Clone() BiPoly {
	terms := make([][]Poly, len(b.Terms))
	for i, row := range b.Terms {
		terms[i] = make([]Poly, len(row))
		for j, c := range row {
			terms[i][j] = c.Clone()
		}
	}
	return BiPoly{Deg: b.Deg, Terms: terms}
}

// WellFormed reports whether b has the triangular shape for its degree and
// every coefficient has exactly n entries.
func (b BiPoly) WellFormed(n int) bool {
	if b.Deg < 0 || len(b.Terms) != b.Deg+1 {
		return false
	}
	for i, row := range b.Terms {
		if len(row) != b.Deg-i+1 {
			return false
		}
		for _, c := range row {
			if len(c.Coeffs) != n {
				return false
			}
		}
	}
	return true
}

// BiAdd returns a + b in R_q[x, y]. The result has total degree
// max(a.Deg, b.Deg).
func (r *Ring) BiAdd(a, b BiPoly) (BiPoly, error) {
	if err := checkShape(a, b); err != nil {
		return BiPoly{}, err
	}
	deg := a.Deg
	if b.Deg > deg {
		deg = b.Deg
	}
	out, err := NewBiPoly(deg, r.n)
	if err != nil {
		return BiPoly{}, err
	}
	for i := 0; i <= deg; i++ {
		for j := 0; i+j <= deg; j++ {
			out.Terms[i][j] = r.Reduce(r.Add(a.Coeff(i, j), b.Coeff(i, j)))
		}
	}
	return out, nil
}

// BiMul returns a * b in R_q[x, y]. Each product of coefficients is reduced
// by t^n - 1 before it is accumulated.
func (r *Ring) BiMul(a, b BiPoly) (BiPoly, error) {
	if err := checkShape(a, b); err != nil {
		return BiPoly{}, err
	}
	out, err := NewBiPoly(a.Deg+b.Deg, r.n)
	if err != nil {
		return BiPoly{}, err
	}
	for i1, row1 := range a.Terms {
		for j1, c1 := range row1 {
			if IsZero(c1) {
				continue
			}
			for i2, row2 := range b.Terms {
				for j2, c2 := range row2 {
					i, j := i1+i2, j1+j2
					out.Terms[i][j] = r.Add(out.Terms[i][j], r.MulMod(c1, c2))
				}
			}
		}
	}
	return out, nil
}

// checkShape rejects operands whose Terms do not form the triangle their
// Deg describes. Coefficient lengths are free, since results are reduced.
func checkShape(operands ...BiPoly) error {
	for _, b := range operands {
		if b.Deg < 0 || len(b.Terms) != b.Deg+1 {
			return fmt.Errorf("%w: %d rows for total degree %d", giophantus.ErrInvalidParameter, len(b.Terms), b.Deg)
		}
		for i, row := range b.Terms {
			if len(row) != b.Deg-i+1 {
				return fmt.Errorf("%w: row %d has %d terms, want %d", giophantus.ErrInvalidParameter, i, len(row), b.Deg-i+1)
			}
		}
	}
	return nil
}

// BiReduce reduces every coefficient of b by t^n - 1.
func (r *Ring) BiReduce(b BiPoly) BiPoly {
	out := BiPoly{Deg: b.Deg, Terms: make([][]Poly, len(b.Terms))}
	for i, row := range b.Terms {
		out.Terms[i] = make([]Poly, len(row))
		for j, c := range row {
			out.Terms[i][j] = r.Reduce(c)
		}
	}
	return out
}

// BiEval substitutes x = ux and y = uy and returns the resulting element
// of R_q. Evaluation at a point is a ring homomorphism R_q[x, y] -> R_q.
func (r *Ring) BiEval(b BiPoly, ux, uy Poly) Poly {
	total := Zero(r.n)
	for i := b.Deg; i >= 0; i-- {
		inner := Zero(r.n)
		for j := b.Deg - i; j >= 0; j-- {
			inner = r.Reduce(r.Add(r.MulMod(inner, uy), b.Coeff(i, j)))
		}
		total = r.Reduce(r.Add(r.MulMod(total, ux), inner))
	}
	return total
}

// Image applies t -> 1 to every coefficient of b, giving a bivariate
// polynomial over F_q. The result has the same triangular shape as b.
func (r *Ring) Image(b BiPoly) [][]int64 {
	out := make([][]int64, len(b.Terms))
	for i, row := range b.Terms {
		out[i] = make([]int64, len(row))
		for j, c := range row {
			out[i][j] = r.Evaluate(c, 1)
		}
	}
	return out
}

// BiEqual reports whether a and b agree on every monomial, comparing
// coefficients after trimming.
func BiEqual(a, b BiPoly) bool {
	deg := a.Deg
	if b.Deg > deg {
		deg = b.Deg
	}
	for i := 0; i <= deg; i++ {
		for j := 0; i+j <= deg; j++ {
			if !Equal(a.Coeff(i, j), b.Coeff(i, j)) {
				return false
			}
		}
	}
	return true
}
