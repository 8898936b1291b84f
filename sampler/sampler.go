// Package sampler draws uniformly random polynomials from an injected byte
// source.
package sampler

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sync"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/ring"
)

// Sampler turns a byte stream into uniform coefficients. It is safe for
// concurrent use; Exclusive groups several draws into one uninterrupted
// sequence.
type Sampler struct {
	mu  sync.Mutex
	src io.Reader
	buf [8]byte
}

// New wraps src. The sampler never reseeds: the same stream always yields
// the same polynomials.
func New(src io.Reader) *Sampler {
	return &Sampler{src: src}
}

// Exclusive runs fn with the sampler locked. Draws made through the Draw
// passed to fn are not interleaved with other callers.
func (s *Sampler) Exclusive(fn func(d *Draw) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(&Draw{s: s})
}

// Sample returns a polynomial with degreeBound + 1 coefficients, each
// uniform in [0, coefficientBound).
func (s *Sampler) Sample(degreeBound int, coefficientBound int64) (ring.Poly, error) {
	var p ring.Poly
	err := s.Exclusive(func(d *Draw) error {
		var err error
		p, err = d.Sample(degreeBound, coefficientBound)
		return err
	})
	return p, err
}

// SampleBi returns a bivariate polynomial of the given total degree whose
// coefficients are ring elements of n coefficients uniform in [0, bound).
func (s *Sampler) SampleBi(totalDegree, n int, bound int64) (ring.BiPoly, error) {
	var b ring.BiPoly
	err := s.Exclusive(func(d *Draw) error {
		var err error
		b, err = d.SampleBi(totalDegree, n, bound)
		return err
	})
	return b, err
}

// Draw is the handle handed to an Exclusive section. It must not escape fn.
type Draw struct {
	s *Sampler
}

// Uint64n returns a uniform integer in [0, bound) by 64-bit rejection
// sampling.
func (d *Draw) Uint64n(bound uint64) (uint64, error) {
	if bound == 0 {
		return 0, fmt.Errorf("%w: sampling bound must be positive", giophantus.ErrInvalidParameter)
	}
	threshold := math.MaxUint64 - math.MaxUint64%bound
	for {
		if _, err := io.ReadFull(d.s.src, d.s.buf[:]); err != nil {
			return 0, fmt.Errorf("reading randomness: %w", err)
		}
		v := binary.LittleEndian.Uint64(d.s.buf[:])
		if v < threshold {
			return v % bound, nil
		}
	}
}

// Sample is Sampler.Sample inside an exclusive section.
func (d *Draw) Sample(degreeBound int, coefficientBound int64) (ring.Poly, error) {
	if degreeBound < 0 {
		return ring.Poly{}, fmt.Errorf("%w: degree bound %d must be non-negative", giophantus.ErrInvalidParameter, degreeBound)
	}
	if coefficientBound <= 0 {
		return ring.Poly{}, fmt.Errorf("%w: coefficient bound %d must be positive", giophantus.ErrInvalidParameter, coefficientBound)
	}
	p := ring.Zero(degreeBound + 1)
	for i := range p.Coeffs {
		v, err := d.Uint64n(uint64(coefficientBound))
		if err != nil {
			return ring.Poly{}, err
		}
		p.Coeffs[i] = int64(v)
	}
	return p, nil
}

// SampleBi is Sampler.SampleBi inside an exclusive section. Coefficients
// are drawn in (i, j) order.
func (d *Draw) SampleBi(totalDegree, n int, bound int64) (ring.BiPoly, error) {
	b, err := ring.NewBiPoly(totalDegree, n)
	if err != nil {
		return ring.BiPoly{}, err
	}
	for i := range b.Terms {
		for j := range b.Terms[i] {
			if b.Terms[i][j], err = d.Sample(n-1, bound); err != nil {
				return ring.BiPoly{}, err
			}
		}
	}
	return b, nil
}
