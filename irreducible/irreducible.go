// Package irreducible decides whether a candidate public polynomial is
// irreducible.
//
// R_q = F_q[t]/(t^n - 1) is not a field, so no tester here decides
// irreducibility over R_q itself. ImageTester certifies the image of the
// candidate under t -> 1 in F_q[x, y], which is sound for that image but is
// a weaker property than irreducibility over R_q. Both testers report this
// through ReducedSecurity.
package irreducible

import (
	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/ring"
)

// Tester decides whether a candidate public polynomial is acceptable.
type Tester interface {
	IsIrreducible(x ring.BiPoly, params giophantus.Params) bool
	Name() string
	// ReducedSecurity reports that the tester is a named filter rather than
	// a full decision procedure over R_q.
	ReducedSecurity() bool
}

// Func adapts a plain function to Tester.
type Func func(x ring.BiPoly, params giophantus.Params) bool

func (f Func) IsIrreducible(x ring.BiPoly, params giophantus.Params) bool { return f(x, params) }

func (Func) Name() string { return "func" }

func (Func) ReducedSecurity() bool { return true }

// Default returns the tester key generation uses when none is configured.
func Default() Tester { return ImageTester{} }

// ByName returns the tester with the given name, or false.
func ByName(name string) (Tester, bool) {
	switch name {
	case ImageTester{}.Name():
		return ImageTester{}, true
	case UnivariateTester{}.Name():
		return UnivariateTester{}, true
	}
	return nil, false
}

// image returns the t -> 1 image of x, or false if params do not define a ring.
func image(x ring.BiPoly, params giophantus.Params) (*ring.Ring, [][]int64, bool) {
	r, err := ring.New(params.Q, params.N)
	if err != nil || x.Deg < 0 {
		return nil, nil, false
	}
	return r, r.Image(x), true
}
