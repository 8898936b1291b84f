package irreducible

import (
	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/ring"
)

// DefaultMaxPoints bounds the specialization points ImageTester tries per
// variable order.
const DefaultMaxPoints = 64

// ImageTester certifies that the image X' of the candidate in F_q[x, y] is
// irreducible. Write X' as a polynomial in a main variable with coefficients
// in F_q[s], s the other variable. If the gcd of those coefficients is not
// constant, X' is reducible. Otherwise X' is irreducible as soon as some
// s = a keeps the leading coefficient non-zero and leaves an irreducible
// univariate polynomial: any factorization of a primitive X' survives such a
// specialization. Both variable orders are tried. A false result may reject
// an irreducible X', never the other way round.
type ImageTester struct {
	// MaxPoints bounds the points tried per order. Zero means DefaultMaxPoints.
	MaxPoints int
}

func (ImageTester) Name() string { return "image" }

func (ImageTester) ReducedSecurity() bool { return true }

func (it ImageTester) IsIrreducible(x ring.BiPoly, params giophantus.Params) bool {
	r, img, ok := image(x, params)
	if !ok {
		return false
	}
	maxPoints := it.MaxPoints
	if maxPoints <= 0 {
		maxPoints = DefaultMaxPoints
	}
	for _, swap := range []bool{false, true} {
		switch certify(r, columns(img, swap), maxPoints) {
		case verdictIrreducible:
			return true
		case verdictReducible:
			return false
		}
	}
	return false
}

type verdict int

const (
	verdictUnknown verdict = iota
	verdictIrreducible
	verdictReducible
)

// columns rewrites a triangular image as coefficients c[k] in F_q[s] of the
// main variable. Without swap the main variable is x, otherwise y.
func columns(img [][]int64, swap bool) []ring.Poly {
	deg := len(img) - 1
	cols := make([]ring.Poly, deg+1)
	for k := range cols {
		cols[k] = ring.Zero(deg - k + 1)
	}
	for i, row := range img {
		for j, v := range row {
			if swap {
				cols[j].Coeffs[i] = v
			} else {
				cols[i].Coeffs[j] = v
			}
		}
	}
	return cols
}

func certify(r *ring.Ring, cols []ring.Poly, maxPoints int) verdict {
	top := -1
	for k := len(cols) - 1; k >= 0; k-- {
		if !ring.IsZero(cols[k]) {
			top = k
			break
		}
	}
	switch top {
	case -1:
		return verdictReducible
	case 0:
		// Univariate in s.
		if r.IsIrreducible(cols[0]) {
			return verdictIrreducible
		}
		return verdictReducible
	}

	content := cols[0]
	for _, c := range cols[1 : top+1] {
		content = r.GCD(content, c)
	}
	if ring.Degree(content) > 0 {
		return verdictReducible
	}

	points := int64(maxPoints)
	if points > r.Modulus() {
		points = r.Modulus()
	}
	for a := int64(0); a < points; a++ {
		if r.Evaluate(cols[top], a) == 0 {
			continue
		}
		f := ring.Zero(top + 1)
		for k := 0; k <= top; k++ {
			f.Coeffs[k] = r.Evaluate(cols[k], a)
		}
		if r.IsIrreducible(f) {
			return verdictIrreducible
		}
	}
	return verdictUnknown
}
