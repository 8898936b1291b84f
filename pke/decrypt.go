package pke

import (
	"fmt"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/core"
	"github.com/BackendStack21/giophantus-go/ring"
)

// Decryptor decrypts ciphertexts under one secret key.
type Decryptor struct {
	sk       SecretKey
	ring     *ring.Ring
	maxValue int64
}

// NewDecryptor checks sk against its parameters.
func NewDecryptor(sk SecretKey) (*Decryptor, error) {
	if err := core.ValidateParams(sk.Params); err != nil {
		return nil, err
	}
	if sk.Ux.Len() != sk.Params.N || sk.Uy.Len() != sk.Params.N {
		return nil, fmt.Errorf("%w: secret key does not match parameters", giophantus.ErrInvalidParameter)
	}
	r, err := ring.New(sk.Params.Q, sk.Params.N)
	if err != nil {
		return nil, err
	}
	return &Decryptor{sk: sk, ring: r, maxValue: core.MaxDecodedValue(sk.Params)}, nil
}

// Decrypt evaluates every block at the secret root, which leaves m + l*e,
// and reduces the result modulo l. A value that m + l*e cannot take is
// reported as ErrDecryptionFailed. The recovered message is trimmed.
func (dec *Decryptor) Decrypt(ct *Ciphertext) (ring.Poly, error) {
	params := dec.sk.Params
	if ct == nil || ct.Params != params {
		return ring.Poly{}, fmt.Errorf("%w: ciphertext parameters do not match key", giophantus.ErrDecryptionFailed)
	}
	if len(ct.Blocks) != core.Blocks(params) {
		return ring.Poly{}, fmt.Errorf("%w: %d blocks, want %d", giophantus.ErrDecryptionFailed, len(ct.Blocks), core.Blocks(params))
	}

	noiseDegree := params.CiphertextDegree()
	out := ring.Zero(len(ct.Blocks) * params.N)
	for b, block := range ct.Blocks {
		if block.Deg != noiseDegree || !block.WellFormed(params.N) {
			return ring.Poly{}, fmt.Errorf("%w: block %d is malformed", giophantus.ErrDecryptionFailed, b)
		}
		v := dec.ring.BiEval(block, dec.sk.Ux, dec.sk.Uy)
		for i, c := range v.Coeffs {
			if c > dec.maxValue || (i > noiseDegree && c >= params.L) {
				return ring.Poly{}, fmt.Errorf("%w: block %d does not decode", giophantus.ErrDecryptionFailed, b)
			}
			out.Coeffs[b*params.N+i] = c % params.L
		}
	}
	return ring.Trim(ring.Pad(out, params.MLen)), nil
}

// Decrypt decrypts ct with sk.
func Decrypt(ct *Ciphertext, sk SecretKey) (ring.Poly, error) {
	dec, err := NewDecryptor(sk)
	if err != nil {
		return ring.Poly{}, err
	}
	return dec.Decrypt(ct)
}
