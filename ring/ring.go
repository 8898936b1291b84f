package ring

import (
	"fmt"
	"runtime"
	"sync"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/field"
)

// parallelThreshold is the operand-size product above which Mul splits the
// convolution across workers.
const parallelThreshold = 1 << 14

// Ring is the coefficient field F_q together with the reduction degree n of
// R_q = F_q[t]/(t^n - 1). A Ring is read-only and safe for concurrent use.
type Ring struct {
	q field.Modulus
	n int
}

// New returns the ring F_q[t]/(t^n - 1). Primality of q is checked by
// core.ValidateParams; here q only has to make the arithmetic well defined.
func New(q int64, n int) (*Ring, error) {
	if q <= 1 {
		return nil, fmt.Errorf("%w: modulus q=%d must be greater than 1", giophantus.ErrInvalidParameter, q)
	}
	if n <= 0 {
		return nil, fmt.Errorf("%w: ring degree n=%d must be positive", giophantus.ErrInvalidParameter, n)
	}
	mod, err := field.NewModulus(q)
	if err != nil {
		return nil, err
	}
	return &Ring{q: mod, n: n}, nil
}

// Modulus returns q.
func (r *Ring) Modulus() int64 { return r.q.Value() }

// N returns the reduction degree n.
func (r *Ring) N() int { return r.n }

// Canonical returns p with every coefficient mapped into [0, q).
func (r *Ring) Canonical(p Poly) Poly {
	out := Zero(len(p.Coeffs))
	for i, c := range p.Coeffs {
		out.Coeffs[i] = r.q.Reduce(c)
	}
	return out
}

// Add returns a + b. The result has max(len a, len b) coefficients.
func (r *Ring) Add(a, b Poly) Poly {
	size := len(a.Coeffs)
	if len(b.Coeffs) > size {
		size = len(b.Coeffs)
	}
	out := Zero(size)
	for i := range out.Coeffs {
		out.Coeffs[i] = r.q.Add(r.q.Reduce(a.Coeff(i)), r.q.Reduce(b.Coeff(i)))
	}
	return out
}

// Sub returns a - b, with the same length rule as Add.
func (r *Ring) Sub(a, b Poly) Poly {
	size := len(a.Coeffs)
	if len(b.Coeffs) > size {
		size = len(b.Coeffs)
	}
	out := Zero(size)
	for i := range out.Coeffs {
		out.Coeffs[i] = r.q.Sub(r.q.Reduce(a.Coeff(i)), r.q.Reduce(b.Coeff(i)))
	}
	return out
}

// Neg returns -p.
func (r *Ring) Neg(p Poly) Poly {
	out := Zero(len(p.Coeffs))
	for i, c := range p.Coeffs {
		out.Coeffs[i] = r.q.Neg(r.q.Reduce(c))
	}
	return out
}

// MulScalar returns c * p.
func (r *Ring) MulScalar(p Poly, c int64) Poly {
	c = r.q.Reduce(c)
	out := Zero(len(p.Coeffs))
	for i, v := range p.Coeffs {
		out.Coeffs[i] = r.q.Mul(r.q.Reduce(v), c)
	}
	return out
}

// Mul returns the full convolution a * b with len(a) + len(b) - 1
// coefficients. If either operand has no coefficients the result is the
// empty zero polynomial.
func (r *Ring) Mul(a, b Poly) Poly {
	if len(a.Coeffs) == 0 || len(b.Coeffs) == 0 {
		return Poly{}
	}
	a, b = r.Canonical(a), r.Canonical(b)
	size := len(a.Coeffs) + len(b.Coeffs) - 1
	out := Zero(size)

	numWorkers := runtime.GOMAXPROCS(0)
	if len(a.Coeffs)*len(b.Coeffs) < parallelThreshold || numWorkers <= 1 {
		r.convolve(a, b, out.Coeffs, 0, size)
		return out
	}

	// Each worker owns a disjoint range of output indices, so the sums it
	// forms are the same as in the sequential path.
	var wg sync.WaitGroup
	perWorker := (size + numWorkers - 1) / numWorkers
	for w := 0; w < numWorkers; w++ {
		start := w * perWorker
		end := start + perWorker
		if end > size {
			end = size
		}
		if start >= size {
			break
		}
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			r.convolve(a, b, out.Coeffs, start, end)
		}(start, end)
	}
	wg.Wait()
	return out
}

// convolve fills out[start:end] with the coefficients of a * b.
func (r *Ring) convolve(a, b Poly, out []int64, start, end int) {
	la, lb := len(a.Coeffs), len(b.Coeffs)
	for k := start; k < end; k++ {
		lo := k - lb + 1
		if lo < 0 {
			lo = 0
		}
		hi := k
		if hi > la-1 {
			hi = la - 1
		}
		var acc int64
		for i := lo; i <= hi; i++ {
			acc = r.q.Add(acc, r.q.Mul(a.Coeffs[i], b.Coeffs[k-i]))
		}
		out[k] = acc
	}
}

// ReduceModTn folds the coefficient of t^i onto t^(i mod n), which is the
// reduction by t^n - 1. The result has exactly n coefficients.
func (r *Ring) ReduceModTn(p Poly, n int) (Poly, error) {
	if n <= 0 {
		return Poly{}, fmt.Errorf("%w: reduction degree n=%d must be positive", giophantus.ErrInvalidParameter, n)
	}
	out := Zero(n)
	for i, c := range p.Coeffs {
		out.Coeffs[i%n] = r.q.Add(out.Coeffs[i%n], r.q.Reduce(c))
	}
	return out, nil
}

// Reduce is ReduceModTn with the ring's own n.
func (r *Ring) Reduce(p Poly) Poly {
	out, _ := r.ReduceModTn(p, r.n)
	return out
}

// MulMod returns a * b in R_q, with exactly n coefficients.
func (r *Ring) MulMod(a, b Poly) Poly {
	return r.Reduce(r.Mul(a, b))
}

// Evaluate returns p(x) mod q by Horner's rule.
func (r *Ring) Evaluate(p Poly, x int64) int64 {
	x = r.q.Reduce(x)
	var v int64
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		v = r.q.Add(r.q.Mul(v, x), r.q.Reduce(p.Coeffs[i]))
	}
	return v
}
