package ring

import (
	"fmt"

	giophantus "github.com/BackendStack21/giophantus-go"
)

// The functions in this file treat polynomials as elements of F_q[x], with
// no reduction by t^n - 1. They require q to be prime.

// Monic returns p scaled so that its leading coefficient is 1, trimmed.
// The zero polynomial is returned unchanged.
func (r *Ring) Monic(p Poly) Poly {
	p = Trim(r.Canonical(p))
	d := Degree(p)
	if d < 0 {
		return p
	}
	inv, _ := r.q.Inv(p.Coeffs[d])
	return r.MulScalar(p, inv)
}

// DivMod returns the quotient and remainder of a by b, with
// deg(rem) < deg(b). Both results are trimmed.
func (r *Ring) DivMod(a, b Poly) (quo, rem Poly, err error) {
	b = Trim(r.Canonical(b))
	db := Degree(b)
	if db < 0 {
		return Poly{}, Poly{}, fmt.Errorf("%w: division by the zero polynomial", giophantus.ErrInvalidParameter)
	}
	inv, err := r.q.Inv(b.Coeffs[db])
	if err != nil {
		return Poly{}, Poly{}, err
	}

	rest := r.Canonical(a)
	da := Degree(rest)
	if da < db {
		return Poly{}, Trim(rest), nil
	}

	quo = Zero(da - db + 1)
	for da >= db {
		coef := r.q.Mul(rest.Coeffs[da], inv)
		shift := da - db
		quo.Coeffs[shift] = coef
		for i := 0; i <= db; i++ {
			rest.Coeffs[i+shift] = r.q.Sub(rest.Coeffs[i+shift], r.q.Mul(coef, b.Coeffs[i]))
		}
		da = Degree(rest)
	}
	return Trim(quo), Trim(rest), nil
}

// Mod returns a mod b in F_q[x].
func (r *Ring) Mod(a, b Poly) (Poly, error) {
	_, rem, err := r.DivMod(a, b)
	return rem, err
}

// GCD returns the monic greatest common divisor of a and b. GCD(0, 0) is 0.
func (r *Ring) GCD(a, b Poly) Poly {
	a, b = Trim(r.Canonical(a)), Trim(r.Canonical(b))
	for !IsZero(b) {
		rem, _ := r.Mod(a, b)
		a, b = b, rem
	}
	return r.Monic(a)
}

// PowMod returns base^e mod f in F_q[x]. f must be non-zero.
func (r *Ring) PowMod(base Poly, e uint64, f Poly) (Poly, error) {
	result, err := r.Mod(NewPoly(1), f)
	if err != nil {
		return Poly{}, err
	}
	b, err := r.Mod(base, f)
	if err != nil {
		return Poly{}, err
	}
	for e > 0 {
		if e&1 == 1 {
			if result, err = r.Mod(r.Mul(result, b), f); err != nil {
				return Poly{}, err
			}
		}
		if b, err = r.Mod(r.Mul(b, b), f); err != nil {
			return Poly{}, err
		}
		e >>= 1
	}
	return result, nil
}

// IsIrreducible decides whether f is irreducible in F_q[x] with Rabin's
// test: f of degree d is irreducible iff x^(q^d) = x mod f and
// gcd(f, x^(q^(d/p)) - x) = 1 for every prime p dividing d. Constants,
// including zero, are not irreducible.
func (r *Ring) IsIrreducible(f Poly) bool {
	f = r.Monic(f)
	d := Degree(f)
	if d < 1 {
		return false
	}
	if d == 1 {
		return true
	}

	x := NewPoly(0, 1)
	q := uint64(r.q.Value())

	// frob[k] = x^(q^k) mod f, for k = 0..d.
	frob := make([]Poly, d+1)
	frob[0] = x
	for k := 1; k <= d; k++ {
		next, err := r.PowMod(frob[k-1], q, f)
		if err != nil {
			return false
		}
		frob[k] = next
	}

	if !Equal(r.Sub(frob[d], x), Poly{}) {
		return false
	}
	for _, p := range primeFactors(d) {
		g := r.GCD(f, r.Sub(frob[d/p], x))
		if Degree(g) != 0 {
			return false
		}
	}
	return true
}

// primeFactors returns the distinct prime factors of n > 1 in increasing order.
func primeFactors(n int) []int {
	var factors []int
	for p := 2; p*p <= n; p++ {
		if n%p == 0 {
			factors = append(factors, p)
			for n%p == 0 {
				n /= p
			}
		}
	}
	if n > 1 {
		factors = append(factors, n)
	}
	return factors
}
