package pke

import (
	"encoding/binary"
	"fmt"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/core"
	"github.com/BackendStack21/giophantus-go/ring"
	"github.com/BackendStack21/giophantus-go/utils"
)

// Wire format, little-endian throughout:
//
//	params:     level (u8 length + bytes), q (u64), n, l (u64), dx, dr, mlen (u32 each)
//	poly:       count (u32), count coefficients (u32 each)
//	bipoly:     total degree (u32), then the coefficient polys in (i, j) order
//	public key: params, bipoly
//	secret key: params, poly ux, poly uy
//	ciphertext: params, block count (u32), bipolys

type encoder struct {
	buf []byte
}

func (e *encoder) u8(v uint8) { e.buf = append(e.buf, v) }

func (e *encoder) u32(v uint32) { e.buf = binary.LittleEndian.AppendUint32(e.buf, v) }

func (e *encoder) u64(v uint64) { e.buf = binary.LittleEndian.AppendUint64(e.buf, v) }

func (e *encoder) params(p giophantus.Params) {
	level := []byte(p.Level)
	e.u8(uint8(len(level)))
	e.buf = append(e.buf, level...)
	e.u64(uint64(p.Q))
	e.u32(uint32(p.N))
	e.u64(uint64(p.L))
	e.u32(uint32(p.DX))
	e.u32(uint32(p.DR))
	e.u32(uint32(p.MLen))
}

func (e *encoder) poly(p ring.Poly) {
	e.u32(uint32(len(p.Coeffs)))
	for _, c := range p.Coeffs {
		e.u32(uint32(c))
	}
}

func (e *encoder) bipoly(b ring.BiPoly) {
	e.u32(uint32(b.Deg))
	for _, row := range b.Terms {
		for _, c := range row {
			e.poly(c)
		}
	}
}

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) take(size int) ([]byte, error) {
	if err := utils.ValidateSliceAccess(d.data, d.off, size); err != nil {
		return nil, err
	}
	b := d.data[d.off : d.off+size]
	d.off += size
	return b, nil
}

func (d *decoder) u32() (uint32, error) {
	b, err := d.take(4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *decoder) u64() (uint64, error) {
	b, err := d.take(8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

// length reads a u32 length and checks it against maxAllowed.
func (d *decoder) length(maxAllowed int) (int, error) {
	n, off, err := utils.SafeReadLength(d.data, d.off, maxAllowed)
	if err != nil {
		return 0, err
	}
	d.off = off
	return n, nil
}

func (d *decoder) params() (giophantus.Params, error) {
	var p giophantus.Params
	size, err := d.take(1)
	if err != nil {
		return p, err
	}
	level, err := d.take(int(size[0]))
	if err != nil {
		return p, err
	}
	p.Level = giophantus.SecurityLevel(level)

	q, err := d.u64()
	if err != nil {
		return p, err
	}
	n, err := d.u32()
	if err != nil {
		return p, err
	}
	l, err := d.u64()
	if err != nil {
		return p, err
	}
	dx, err := d.u32()
	if err != nil {
		return p, err
	}
	dr, err := d.u32()
	if err != nil {
		return p, err
	}
	mlen, err := d.u32()
	if err != nil {
		return p, err
	}
	if q > core.MaxModulus || l > core.MaxModulus || n > utils.MaxVectorLength ||
		dx > utils.MaxTotalDegree || dr > utils.MaxTotalDegree || mlen > utils.MaxVectorLength {
		return p, utils.ErrExceedsLimit
	}
	p.Q, p.N, p.L = int64(q), int(n), int64(l)
	p.DX, p.DR, p.MLen = int(dx), int(dr), int(mlen)
	if err := core.ValidateParams(p); err != nil {
		return p, err
	}
	return p, nil
}

// poly reads a ring element of exactly n coefficients in [0, q).
func (d *decoder) poly(n int, q int64) (ring.Poly, error) {
	count, err := d.length(utils.MaxVectorLength)
	if err != nil {
		return ring.Poly{}, err
	}
	if count != n {
		return ring.Poly{}, fmt.Errorf("%w: %d coefficients, want %d", giophantus.ErrInvalidParameter, count, n)
	}
	if err := utils.ValidateSliceAccess(d.data, d.off, 4*count); err != nil {
		return ring.Poly{}, err
	}
	p := ring.Zero(count)
	for i := range p.Coeffs {
		v, err := d.u32()
		if err != nil {
			return ring.Poly{}, err
		}
		if int64(v) >= q {
			return ring.Poly{}, fmt.Errorf("%w: coefficient %d not below q=%d", giophantus.ErrInvalidParameter, v, q)
		}
		p.Coeffs[i] = int64(v)
	}
	return p, nil
}

// bipoly reads a bivariate polynomial of total degree deg.
func (d *decoder) bipoly(deg int, params giophantus.Params) (ring.BiPoly, error) {
	got, err := d.length(utils.MaxTotalDegree)
	if err != nil {
		return ring.BiPoly{}, err
	}
	if got != deg {
		return ring.BiPoly{}, fmt.Errorf("%w: total degree %d, want %d", giophantus.ErrInvalidParameter, got, deg)
	}
	size, err := bipolySize(deg, params.N)
	if err != nil {
		return ring.BiPoly{}, err
	}
	if err := utils.ValidateSliceAccess(d.data, d.off, size); err != nil {
		return ring.BiPoly{}, err
	}
	b := ring.BiPoly{Deg: deg, Terms: make([][]ring.Poly, deg+1)}
	for i := range b.Terms {
		b.Terms[i] = make([]ring.Poly, deg-i+1)
		for j := range b.Terms[i] {
			if b.Terms[i][j], err = d.poly(params.N, params.Q); err != nil {
				return ring.BiPoly{}, err
			}
		}
	}
	return b, nil
}

// bipolySize is the encoded size of a bivariate polynomial of total degree
// deg over ring elements of n coefficients, degree field excluded.
func bipolySize(deg, n int) (int, error) {
	perPoly, err := utils.SafeMultiply(4, n)
	if err != nil {
		return 0, err
	}
	return utils.SafeMultiply(ring.NumTerms(deg), perPoly+4)
}

// require fails unless count encoded bivariate polynomials of total degree
// deg, degree fields included, are still present. Nothing is allocated for
// data that is not there.
func (d *decoder) require(count, deg, n int) error {
	size, err := bipolySize(deg, n)
	if err != nil {
		return err
	}
	if size, err = utils.SafeMultiply(count, size+4); err != nil {
		return err
	}
	return utils.ValidateSliceAccess(d.data, d.off, size)
}

// finish rejects trailing bytes.
func (d *decoder) finish() error {
	if d.off != len(d.data) {
		return fmt.Errorf("%w: %d trailing bytes", giophantus.ErrInvalidParameter, len(d.data)-d.off)
	}
	return nil
}

// SerializePublicKey encodes pk.
func SerializePublicKey(pk *PublicKey) []byte {
	e := &encoder{}
	e.params(pk.Params)
	e.bipoly(pk.X)
	return e.buf
}

// DeserializePublicKey decodes and validates a public key.
func DeserializePublicKey(data []byte) (*PublicKey, error) {
	d := &decoder{data: data}
	params, err := d.params()
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	x, err := d.bipoly(params.DX, params)
	if err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("invalid public key: %w", err)
	}
	return &PublicKey{X: x, Params: params}, nil
}

// SerializeSecretKey encodes sk.
func SerializeSecretKey(sk *SecretKey) []byte {
	e := &encoder{}
	e.params(sk.Params)
	e.poly(sk.Ux)
	e.poly(sk.Uy)
	return e.buf
}

// DeserializeSecretKey decodes and validates a secret key. Coefficients
// must lie in [0, l).
func DeserializeSecretKey(data []byte) (*SecretKey, error) {
	d := &decoder{data: data}
	params, err := d.params()
	if err != nil {
		return nil, fmt.Errorf("invalid secret key: %w", err)
	}
	ux, err := d.poly(params.N, params.L)
	if err != nil {
		return nil, fmt.Errorf("invalid secret key: %w", err)
	}
	uy, err := d.poly(params.N, params.L)
	if err != nil {
		return nil, fmt.Errorf("invalid secret key: %w", err)
	}
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("invalid secret key: %w", err)
	}
	return &SecretKey{Ux: ux, Uy: uy, Params: params}, nil
}

// SerializeCiphertext encodes ct.
func SerializeCiphertext(ct *Ciphertext) []byte {
	e := &encoder{}
	e.params(ct.Params)
	e.u32(uint32(len(ct.Blocks)))
	for _, b := range ct.Blocks {
		e.bipoly(b)
	}
	return e.buf
}

// DeserializeCiphertext decodes and validates a ciphertext.
func DeserializeCiphertext(data []byte) (*Ciphertext, error) {
	d := &decoder{data: data}
	params, err := d.params()
	if err != nil {
		return nil, fmt.Errorf("invalid ciphertext: %w", err)
	}
	count, err := d.length(utils.MaxBlockCount)
	if err != nil {
		return nil, fmt.Errorf("invalid ciphertext: %w", err)
	}
	if count != core.Blocks(params) {
		return nil, fmt.Errorf("invalid ciphertext: %w: %d blocks, want %d", giophantus.ErrInvalidParameter, count, core.Blocks(params))
	}
	if err := d.require(count, params.CiphertextDegree(), params.N); err != nil {
		return nil, fmt.Errorf("invalid ciphertext: %w", err)
	}
	blocks := make([]ring.BiPoly, count)
	for i := range blocks {
		if blocks[i], err = d.bipoly(params.CiphertextDegree(), params); err != nil {
			return nil, fmt.Errorf("invalid ciphertext: %w", err)
		}
	}
	if err := d.finish(); err != nil {
		return nil, fmt.Errorf("invalid ciphertext: %w", err)
	}
	return &Ciphertext{Blocks: blocks, Params: params}, nil
}
