package pke

import (
	"fmt"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/core"
	"github.com/BackendStack21/giophantus-go/ring"
	"github.com/BackendStack21/giophantus-go/sampler"
	"github.com/BackendStack21/giophantus-go/utils"
)

// Encryptor encrypts messages under one public key.
type Encryptor struct {
	pk      PublicKey
	ring    *ring.Ring
	sampler *sampler.Sampler
	noise   int64
	cfg     config
}

// NewEncryptor checks pk against its parameters and binds it to s.
func NewEncryptor(pk PublicKey, s *sampler.Sampler, opts ...Option) (*Encryptor, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil sampler", giophantus.ErrInvalidParameter)
	}
	if err := core.ValidateParams(pk.Params); err != nil {
		return nil, err
	}
	if pk.X.Deg != pk.Params.DX || !pk.X.WellFormed(pk.Params.N) {
		return nil, fmt.Errorf("%w: public polynomial does not match parameters", giophantus.ErrInvalidParameter)
	}
	r, err := ring.New(pk.Params.Q, pk.Params.N)
	if err != nil {
		return nil, err
	}
	return &Encryptor{
		pk:      pk,
		ring:    r,
		sampler: s,
		noise:   core.NoiseWidth(pk.Params),
		cfg:     buildConfig(opts),
	}, nil
}

// CheckMessage reports ErrMessageTooLarge unless every coefficient of m is
// in [0, l) and Degree(m) < mlen.
func CheckMessage(m ring.Poly, params giophantus.Params) error {
	if deg := ring.Degree(m); deg >= params.MLen {
		return fmt.Errorf("%w: degree %d, limit %d", giophantus.ErrMessageTooLarge, deg, params.MLen-1)
	}
	for i, c := range m.Coeffs {
		if c < 0 || c >= params.L {
			return fmt.Errorf("%w: coefficient %d at t^%d outside [0, %d)", giophantus.ErrMessageTooLarge, c, i, params.L)
		}
	}
	return nil
}

// Encrypt encrypts m block by block. Each block of n coefficients becomes
// c = Reduce(m_b + Reduce(X*r) + l*e), with r(x, y) of total degree DR
// uniform mod q and e of degree DX + DR in [0, w). The randomness of one
// call is drawn as a single uninterrupted sequence.
func (enc *Encryptor) Encrypt(m ring.Poly) (*Ciphertext, error) {
	params := enc.pk.Params
	if err := CheckMessage(m, params); err != nil {
		return nil, err
	}

	blocks := make([]ring.BiPoly, core.Blocks(params))
	err := enc.sampler.Exclusive(func(d *sampler.Draw) error {
		for b := range blocks {
			c, err := enc.encryptBlock(d, messageBlock(m, b, params.N))
			if err != nil {
				return err
			}
			blocks[b] = c
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	enc.cfg.logger.Debug("message encrypted")
	return &Ciphertext{Blocks: blocks, Params: params}, nil
}

func (enc *Encryptor) encryptBlock(d *sampler.Draw, mb ring.Poly) (ring.BiPoly, error) {
	params := enc.pk.Params
	r, err := d.SampleBi(params.DR, params.N, params.Q)
	if err != nil {
		return ring.BiPoly{}, err
	}
	e, err := d.Sample(params.CiphertextDegree(), enc.noise)
	if err != nil {
		return ring.BiPoly{}, err
	}

	c, err := enc.ring.BiMul(enc.pk.X, r)
	if err != nil {
		return ring.BiPoly{}, err
	}
	masked := enc.ring.Add(mb, c.Terms[0][0])
	masked = enc.ring.Add(masked, enc.ring.MulScalar(ring.Pad(e, params.N), params.L))
	c.Terms[0][0] = enc.ring.Reduce(masked)

	for _, row := range r.Terms {
		for _, p := range row {
			utils.ZeroizeInt64(p.Coeffs)
		}
	}
	utils.ZeroizeInt64(e.Coeffs)
	return c, nil
}

// messageBlock returns coefficients [b*n, (b+1)*n) of m, zero padded.
func messageBlock(m ring.Poly, b, n int) ring.Poly {
	out := ring.Zero(n)
	for i := range out.Coeffs {
		out.Coeffs[i] = m.Coeff(b*n + i)
	}
	return out
}

// Encrypt encrypts m under pk with randomness from s. params must be the
// parameters pk was generated for.
func Encrypt(m ring.Poly, pk PublicKey, params giophantus.Params, s *sampler.Sampler, opts ...Option) (*Ciphertext, error) {
	if pk.Params != params {
		return nil, fmt.Errorf("%w: public key was generated for %s, not %s", giophantus.ErrInvalidParameter, pk.Params.Level, params.Level)
	}
	enc, err := NewEncryptor(pk, s, opts...)
	if err != nil {
		return nil, err
	}
	return enc.Encrypt(m)
}
