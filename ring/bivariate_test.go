package ring

import (
	"math"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	giophantus "github.com/BackendStack21/giophantus-go"
)

func randomBi(t *testing.T, rng *rand.Rand, r *Ring, deg int) BiPoly {
	t.Helper()
	b, err := NewBiPoly(deg, r.N())
	require.NoError(t, err)
	for i := range b.Terms {
		for j := range b.Terms[i] {
			b.Terms[i][j] = randomPoly(rng, r.N(), r.Modulus())
		}
	}
	return b
}

func TestNewBiPolyShape(t *testing.T) {
	b, err := NewBiPoly(3, 11)
	require.NoError(t, err)
	assert.Len(t, b.Terms, 4)
	for i, row := range b.Terms {
		assert.Len(t, row, 4-i)
	}
	assert.True(t, b.WellFormed(11))
	assert.False(t, b.WellFormed(10))
	assert.Equal(t, 10, NumTerms(3))
	assert.Equal(t, 0, NumTerms(-1))

	_, err = NewBiPoly(-1, 11)
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)
	_, err = NewBiPoly(2, 0)
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)
	_, err = NewBiPoly(1, math.MaxInt)
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)

	assert.Equal(t, 0, b.Coeff(2, 2).Len())
	assert.Equal(t, 11, b.Coeff(1, 2).Len())
}

func TestBiCloneIsDeep(t *testing.T) {
	r := mustRing(t, 17, 5)
	b := randomBi(t, rand.New(rand.NewSource(1)), r, 2)
	c := b.Clone()
	c.Terms[0][0].Coeffs[0] = (c.Terms[0][0].Coeffs[0] + 1) % 17
	assert.False(t, BiEqual(b, c))
}

// Evaluation at (ux, uy) must commute with addition and multiplication.
func TestBiEvalIsHomomorphism(t *testing.T) {
	r := mustRing(t, 17, 11)
	rng := rand.New(rand.NewSource(42))
	for trial := 0; trial < 10; trial++ {
		a := randomBi(t, rng, r, 2)
		b := randomBi(t, rng, r, 3)
		ux := randomPoly(rng, 11, 4)
		uy := randomPoly(rng, 11, 4)

		ea, eb := r.BiEval(a, ux, uy), r.BiEval(b, ux, uy)

		prod, err := r.BiMul(a, b)
		require.NoError(t, err)
		assert.Equal(t, 5, prod.Deg)
		if diff := cmp.Diff(r.MulMod(ea, eb).Coeffs, r.BiEval(prod, ux, uy).Coeffs); diff != "" {
			t.Fatalf("BiEval(a*b) mismatch (-want +got):\n%s", diff)
		}

		sum, err := r.BiAdd(a, b)
		require.NoError(t, err)
		assert.Equal(t, 3, sum.Deg)
		if diff := cmp.Diff(r.Reduce(r.Add(ea, eb)).Coeffs, r.BiEval(sum, ux, uy).Coeffs); diff != "" {
			t.Fatalf("BiEval(a+b) mismatch (-want +got):\n%s", diff)
		}
	}
}

func TestBiOpsRejectMalformedShapes(t *testing.T) {
	r := mustRing(t, 17, 5)
	good, err := NewBiPoly(2, 5)
	require.NoError(t, err)

	missingRow := good.Clone()
	missingRow.Terms = missingRow.Terms[:2]
	shortRow := good.Clone()
	shortRow.Terms[0] = shortRow.Terms[0][:1]
	wrongDeg := good.Clone()
	wrongDeg.Deg = 4
	negative := BiPoly{Deg: -2}

	for name, bad := range map[string]BiPoly{
		"missing row": missingRow,
		"short row":   shortRow,
		"wrong deg":   wrongDeg,
		"negative":    negative,
	} {
		t.Run(name, func(t *testing.T) {
			assert.NotPanics(t, func() {
				_, err := r.BiMul(good, bad)
				assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)
				_, err = r.BiMul(bad, good)
				assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)
				_, err = r.BiAdd(bad, good)
				assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)
			})
		})
	}
}

func TestBiEvalMonomial(t *testing.T) {
	r := mustRing(t, 17, 5)
	b, err := NewBiPoly(2, 5)
	require.NoError(t, err)
	// 3 x y evaluated at x = t, y = t^4 gives 3 t^5 = 3.
	b.Terms[1][1] = NewPoly(3, 0, 0, 0, 0)
	got := r.BiEval(b, NewPoly(0, 1), NewPoly(0, 0, 0, 0, 1))
	assert.Equal(t, []int64{3, 0, 0, 0, 0}, got.Coeffs)
}

func TestBiReduce(t *testing.T) {
	r := mustRing(t, 17, 3)
	b := BiPoly{Deg: 1, Terms: [][]Poly{
		{NewPoly(1, 2, 3, 4), NewPoly(18)},
		{NewPoly(0, 0, 0, 0, 0, 1)},
	}}
	red := r.BiReduce(b)
	assert.True(t, red.WellFormed(3))
	assert.Equal(t, []int64{5, 2, 3}, red.Terms[0][0].Coeffs)
	assert.Equal(t, []int64{1, 0, 0}, red.Terms[0][1].Coeffs)
	assert.Equal(t, []int64{0, 0, 1}, red.Terms[1][0].Coeffs)
}

func TestImage(t *testing.T) {
	r := mustRing(t, 17, 3)
	b := BiPoly{Deg: 1, Terms: [][]Poly{
		{NewPoly(1, 2, 3), NewPoly(16, 16, 0)},
		{NewPoly(0, 0, 5)},
	}}
	want := [][]int64{{6, 15}, {5}}
	if diff := cmp.Diff(want, r.Image(b)); diff != "" {
		t.Errorf("Image mismatch (-want +got):\n%s", diff)
	}
}
