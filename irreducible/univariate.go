package irreducible

import (
	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/ring"
)

// UnivariateTester applies Rabin's test to the x-only part of the image,
// X'(x, 0). It is a filter: it rejects candidates whose restriction to y = 0
// factors, and says nothing about the y terms.
type UnivariateTester struct{}

func (UnivariateTester) Name() string { return "univariate" }

func (UnivariateTester) ReducedSecurity() bool { return true }

func (UnivariateTester) IsIrreducible(x ring.BiPoly, params giophantus.Params) bool {
	r, img, ok := image(x, params)
	if !ok {
		return false
	}
	f := ring.Zero(len(img))
	for i, row := range img {
		f.Coeffs[i] = row[0]
	}
	return r.IsIrreducible(f)
}

// Poly runs Rabin's test on a univariate polynomial over F_q. q must be prime.
func (UnivariateTester) Poly(f ring.Poly, q int64) bool {
	r, err := ring.New(q, 1)
	if err != nil {
		return false
	}
	return r.IsIrreducible(f)
}
