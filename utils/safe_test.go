package utils

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	giophantus "github.com/BackendStack21/giophantus-go"
)

func TestSafeMultiply(t *testing.T) {
	v, err := SafeMultiply(1000, 1000)
	require.NoError(t, err)
	assert.Equal(t, 1000000, v)

	v, err = SafeMultiply(0, math.MaxInt)
	require.NoError(t, err)
	assert.Equal(t, 0, v)

	_, err = SafeMultiply(math.MaxInt, 2)
	assert.ErrorIs(t, err, ErrOverflow)

	_, err = SafeMultiply(-1, 5)
	assert.ErrorIs(t, err, ErrInvalidLength)
}

func TestCheckLength(t *testing.T) {
	assert.NoError(t, CheckLength(100, 1000))
	assert.NoError(t, CheckLength(0, 0))
	assert.ErrorIs(t, CheckLength(1001, 1000), ErrExceedsLimit)
	assert.ErrorIs(t, CheckLength(-1, 1000), ErrInvalidLength)
}

func TestSafeReadLength(t *testing.T) {
	data := []byte{0xAA, 0x10, 0x00, 0x00, 0x00}
	length, offset, err := SafeReadLength(data, 1, 100)
	require.NoError(t, err)
	assert.Equal(t, 16, length)
	assert.Equal(t, 5, offset)

	_, _, err = SafeReadLength([]byte{0x10, 0x00}, 0, 100)
	assert.ErrorIs(t, err, ErrInvalidLength)

	_, _, err = SafeReadLength([]byte{0xFF, 0xFF, 0xFF, 0xFF}, 0, 100)
	assert.ErrorIs(t, err, ErrExceedsLimit)

	_, _, err = SafeReadLength(data, -1, 100)
	assert.Error(t, err)
}

func TestValidateSliceAccess(t *testing.T) {
	data := make([]byte, 100)
	assert.NoError(t, ValidateSliceAccess(data, 0, 50))
	assert.NoError(t, ValidateSliceAccess(data, 100, 0))
	assert.Error(t, ValidateSliceAccess(data, 90, 20))
	assert.Error(t, ValidateSliceAccess(data, -1, 10))
	assert.ErrorIs(t, ValidateSliceAccess(data, 10, math.MaxInt), ErrOverflow)
}

func TestLimitErrorsWrapInvalidParameter(t *testing.T) {
	for _, err := range []error{ErrOverflow, ErrExceedsLimit, ErrInvalidLength} {
		assert.True(t, errors.Is(err, giophantus.ErrInvalidParameter))
		assert.True(t, IsLimitError(err))
	}
	assert.False(t, IsLimitError(giophantus.ErrDecryptionFailed))
}
