package utils

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	giophantus "github.com/BackendStack21/giophantus-go"
)

type errorReader struct{}

func (errorReader) Read(p []byte) (int, error) {
	return 0, errors.New("entropy unavailable")
}

func TestSecureRandomBytes(t *testing.T) {
	a, err := SecureRandomBytes(32)
	require.NoError(t, err)
	b, err := SecureRandomBytes(32)
	require.NoError(t, err)
	assert.Len(t, a, 32)
	assert.False(t, bytes.Equal(a, b), "two reads returned the same bytes")

	empty, err := SecureRandomBytes(0)
	require.NoError(t, err)
	assert.Empty(t, empty)
}

func TestSecureRandomBytesPropagatesReadError(t *testing.T) {
	orig := RandReader
	RandReader = errorReader{}
	defer func() { RandReader = orig }()

	_, err := SecureRandomBytes(16)
	assert.ErrorContains(t, err, "entropy unavailable")
}

func TestValidateSeedEntropy(t *testing.T) {
	err := ValidateSeedEntropy(make([]byte, 16))
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)

	assert.Error(t, ValidateSeedEntropy(make([]byte, 32)))

	seq := make([]byte, 32)
	for i := range seq {
		seq[i] = byte(i + 250)
	}
	assert.Error(t, ValidateSeedEntropy(seq))

	desc := make([]byte, 40)
	for i := range desc {
		desc[i] = byte(100 - i)
	}
	assert.Error(t, ValidateSeedEntropy(desc))

	lowDiversity := bytes.Repeat([]byte{1, 2, 3, 1}, 10)
	assert.Error(t, ValidateSeedEntropy(lowDiversity))

	good, err := SecureRandomBytes(32)
	require.NoError(t, err)
	assert.NoError(t, ValidateSeedEntropy(good))
}

func TestConstantTimeEqual(t *testing.T) {
	assert.True(t, ConstantTimeEqual([]byte{1, 2, 3}, []byte{1, 2, 3}))
	assert.False(t, ConstantTimeEqual([]byte{1, 2, 3}, []byte{1, 2, 4}))
	assert.False(t, ConstantTimeEqual([]byte{1, 2}, []byte{1, 2, 3}))
	assert.True(t, ConstantTimeEqual(nil, []byte{}))
}

func TestZeroize(t *testing.T) {
	b := []byte{1, 2, 3}
	Zeroize(b)
	assert.Equal(t, []byte{0, 0, 0}, b)

	s := []int64{7, -3, 12}
	ZeroizeInt64(s)
	assert.Equal(t, []int64{0, 0, 0}, s)
}

func TestHashWithDomain(t *testing.T) {
	a := HashWithDomain("keygen", []byte("data"))
	assert.Len(t, a, 32)
	assert.NotEqual(t, a, HashWithDomain("encrypt", []byte("data")))
	// The length prefix keeps domain and data apart.
	assert.NotEqual(t, HashWithDomain("ab", []byte("c")), HashWithDomain("a", []byte("bc")))
	assert.Panics(t, func() { HashWithDomain(string(make([]byte, 256)), nil) })
}

func TestPRNGDeterminism(t *testing.T) {
	seed := []byte("a fixed seed for deterministic streams")
	for _, kind := range PRNGKinds() {
		t.Run(string(kind), func(t *testing.T) {
			r1, err := NewPRNG(kind, seed)
			require.NoError(t, err)
			r2, err := NewPRNG(kind, seed)
			require.NoError(t, err)
			r3, err := NewPRNG(kind, []byte("another seed"))
			require.NoError(t, err)

			a, b, c := make([]byte, 4096), make([]byte, 4096), make([]byte, 4096)
			_, err = io.ReadFull(r1, a)
			require.NoError(t, err)
			_, err = io.ReadFull(r2, b)
			require.NoError(t, err)
			_, err = io.ReadFull(r3, c)
			require.NoError(t, err)

			assert.Equal(t, a, b)
			assert.NotEqual(t, a, c)
		})
	}
}

func TestPRNGKindsDiffer(t *testing.T) {
	seed := []byte("shared seed")
	outputs := make(map[string]PRNGKind)
	for _, kind := range PRNGKinds() {
		r, err := NewPRNG(kind, seed)
		require.NoError(t, err)
		buf := make([]byte, 32)
		_, err = io.ReadFull(r, buf)
		require.NoError(t, err)
		prev, dup := outputs[string(buf)]
		assert.False(t, dup, "%s and %s produced the same stream", kind, prev)
		outputs[string(buf)] = kind
	}
}

func TestParsePRNGKind(t *testing.T) {
	k, err := ParsePRNGKind("")
	require.NoError(t, err)
	assert.Equal(t, DefaultPRNG, k)

	k, err = ParsePRNGKind("BLAKE3")
	require.NoError(t, err)
	assert.Equal(t, PRNGBlake3, k)

	_, err = ParsePRNGKind("chacha")
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)

	_, err = NewPRNG("md5", nil)
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)
}
