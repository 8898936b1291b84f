package pke

import (
	"fmt"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/ring"
	"github.com/BackendStack21/giophantus-go/sampler"
)

// digitsPerByte returns the number of base-l digits that hold one byte.
func digitsPerByte(l int64) (int, error) {
	if l < 2 {
		return 0, fmt.Errorf("%w: l=%d cannot encode bytes", giophantus.ErrInvalidParameter, l)
	}
	k := 0
	for capacity := int64(1); capacity < 256; capacity *= l {
		k++
	}
	return k, nil
}

// MaxMessageBytes is the longest byte string EncodeBytes accepts. One byte
// of the message polynomial holds the length.
func MaxMessageBytes(params giophantus.Params) int {
	k, err := digitsPerByte(params.L)
	if err != nil {
		return 0
	}
	n := params.MLen/k - 1
	if n > 255 {
		n = 255
	}
	if n < 0 {
		return 0
	}
	return n
}

// EncodeBytes writes len(data) followed by data as little-endian base-l
// digits, giving a message polynomial for params.
func EncodeBytes(data []byte, params giophantus.Params) (ring.Poly, error) {
	k, err := digitsPerByte(params.L)
	if err != nil {
		return ring.Poly{}, err
	}
	if limit := MaxMessageBytes(params); len(data) > limit {
		return ring.Poly{}, fmt.Errorf("%w: %d bytes, limit %d", giophantus.ErrMessageTooLarge, len(data), limit)
	}

	m := ring.Zero((len(data) + 1) * k)
	put := func(pos int, b byte) {
		v := int64(b)
		for d := 0; d < k; d++ {
			m.Coeffs[pos*k+d] = v % params.L
			v /= params.L
		}
	}
	put(0, byte(len(data)))
	for i, b := range data {
		put(i+1, b)
	}
	return m, nil
}

// DecodeBytes reverses EncodeBytes.
func DecodeBytes(m ring.Poly, params giophantus.Params) ([]byte, error) {
	k, err := digitsPerByte(params.L)
	if err != nil {
		return nil, err
	}
	get := func(pos int) (byte, error) {
		var v, scale int64 = 0, 1
		for d := 0; d < k; d++ {
			c := m.Coeff(pos*k + d)
			if c < 0 || c >= params.L {
				return 0, fmt.Errorf("%w: digit %d outside [0, %d)", giophantus.ErrInvalidParameter, c, params.L)
			}
			v += c * scale
			scale *= params.L
		}
		if v > 255 {
			return 0, fmt.Errorf("%w: encoded byte %d out of range", giophantus.ErrInvalidParameter, v)
		}
		return byte(v), nil
	}

	n, err := get(0)
	if err != nil {
		return nil, err
	}
	if int(n) > MaxMessageBytes(params) {
		return nil, fmt.Errorf("%w: encoded length %d exceeds %d", giophantus.ErrInvalidParameter, n, MaxMessageBytes(params))
	}
	if deg := ring.Degree(m); deg >= (int(n)+1)*k {
		return nil, fmt.Errorf("%w: data past the encoded length", giophantus.ErrInvalidParameter)
	}
	out := make([]byte, n)
	for i := range out {
		if out[i], err = get(i + 1); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// EncryptBytes encodes data and encrypts it under pk.
func EncryptBytes(data []byte, pk PublicKey, s *sampler.Sampler, opts ...Option) (*Ciphertext, error) {
	m, err := EncodeBytes(data, pk.Params)
	if err != nil {
		return nil, err
	}
	return Encrypt(m, pk, pk.Params, s, opts...)
}

// DecryptBytes decrypts ct with sk and decodes the byte string.
func DecryptBytes(ct *Ciphertext, sk SecretKey) ([]byte, error) {
	m, err := Decrypt(ct, sk)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(m, sk.Params)
}
