package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	giophantus "github.com/BackendStack21/giophantus-go"
)

func TestGetParams(t *testing.T) {
	for _, level := range Levels() {
		params, err := GetParams(level)
		require.NoError(t, err)
		assert.Equal(t, level, params.Level)
	}

	p, err := GetParams(giophantus.GIO_128)
	require.NoError(t, err)
	assert.Equal(t, Param128, p)

	_, err = GetParams("INVALID")
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)
}

func TestPresetsAreValid(t *testing.T) {
	for _, p := range []giophantus.Params{Param128, Param192, Param256} {
		require.NoError(t, ValidateParams(p), "%s", p.Level)
		assert.Less(t, MaxDecodedValue(p), p.Q, "%s decodes ambiguously", p.Level)
	}
}

func TestValidateParams(t *testing.T) {
	cases := map[string]func(p *giophantus.Params){
		"q not prime":       func(p *giophantus.Params) { p.Q = 16 },
		"q too small":       func(p *giophantus.Params) { p.Q = 1 },
		"q too large":       func(p *giophantus.Params) { p.Q = MaxModulus + 2 },
		"n not prime":       func(p *giophantus.Params) { p.N = 12 },
		"n zero":            func(p *giophantus.Params) { p.N = 0 },
		"l zero":            func(p *giophantus.Params) { p.L = 0 },
		"l above q":         func(p *giophantus.Params) { p.L = 18 },
		"dX zero":           func(p *giophantus.Params) { p.DX = 0 },
		"dr zero":           func(p *giophantus.Params) { p.DR = 0 },
		"mlen zero":         func(p *giophantus.Params) { p.MLen = 0 },
		"noise exceeds n":   func(p *giophantus.Params) { p.DX, p.DR = 6, 5 },
		"negative mlen":     func(p *giophantus.Params) { p.MLen = -4 },
		"negative modulus":  func(p *giophantus.Params) { p.Q = -17 },
		"negative degree n": func(p *giophantus.Params) { p.N = -11 },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			p := Param128
			mutate(&p)
			assert.ErrorIs(t, ValidateParams(p), giophantus.ErrInvalidParameter)
		})
	}

	edge := Param128
	edge.L = edge.Q
	assert.NoError(t, ValidateParams(edge))
}

func TestNoiseWidth(t *testing.T) {
	assert.Equal(t, int64(4), NoiseWidth(Param128))
	assert.Equal(t, int64(3), NoiseWidth(Param192))
	assert.Equal(t, int64(3), NoiseWidth(Param256))

	p := Param128
	p.L = p.Q
	assert.Equal(t, int64(1), NoiseWidth(p))
	assert.Equal(t, p.Q-1, MaxDecodedValue(p))

	p.L = 2
	assert.Equal(t, int64(2), NoiseWidth(p))
}

func TestBlocks(t *testing.T) {
	assert.Equal(t, 3, Blocks(Param128))
	assert.Equal(t, 3, Blocks(Param192))
	assert.Equal(t, 3, Blocks(Param256))

	p := Param128
	p.MLen = 11
	assert.Equal(t, 1, Blocks(p))
	p.MLen = 12
	assert.Equal(t, 2, Blocks(p))
}

func TestParseParams(t *testing.T) {
	p, err := ParseParams([]byte(`{"q":17,"n":11,"l":4,"dx":2,"dr":2,"mlen":20}`))
	require.NoError(t, err)
	assert.Equal(t, giophantus.Custom, p.Level)
	assert.Equal(t, 20, p.MLen)

	_, err = ParseParams([]byte(`{"q":15,"n":11,"l":4,"dx":2,"dr":2,"mlen":20}`))
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)

	_, err = ParseParams([]byte(`not json`))
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)
}

func TestLoadParams(t *testing.T) {
	path := filepath.Join(t.TempDir(), "params.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"level":"GIO-192","q":23,"n":19,"l":6,"dx":3,"dr":3,"mlen":48}`), 0600))

	p, err := LoadParams(path)
	require.NoError(t, err)
	assert.Equal(t, Param192, p)

	_, err = LoadParams(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestIsPrime(t *testing.T) {
	for _, p := range []int64{2, 3, 5, 7, 11, 13, 17, 19, 23, 29, 3329, MaxModulus} {
		assert.True(t, isPrime(p), "%d", p)
	}
	for _, np := range []int64{-7, 0, 1, 4, 6, 9, 15, 3330, MaxModulus - 2} {
		assert.False(t, isPrime(np), "%d", np)
	}
}
