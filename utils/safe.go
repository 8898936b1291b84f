package utils

import (
	"errors"
	"fmt"
	"math"

	giophantus "github.com/BackendStack21/giophantus-go"
)

// Allocation limits applied while decoding untrusted input.
const (
	// MaxVectorLength bounds the number of coefficients in one ring element.
	MaxVectorLength = 1 << 20

	// MaxTotalDegree bounds the total degree of a decoded bivariate polynomial.
	MaxTotalDegree = 1 << 8

	// MaxBlockCount bounds the number of blocks in a decoded ciphertext.
	MaxBlockCount = 1 << 16

	// MaxMessageSize bounds byte messages, in bytes.
	MaxMessageSize = 1 << 20
)

var (
	// ErrOverflow indicates an integer overflow.
	ErrOverflow = fmt.Errorf("%w: integer overflow", giophantus.ErrInvalidParameter)

	// ErrExceedsLimit indicates a value above its allowed limit.
	ErrExceedsLimit = fmt.Errorf("%w: value exceeds allowed limit", giophantus.ErrInvalidParameter)

	// ErrInvalidLength indicates a negative or truncated length.
	ErrInvalidLength = fmt.Errorf("%w: invalid length", giophantus.ErrInvalidParameter)
)

// SafeMultiply multiplies two non-negative integers, failing on overflow.
func SafeMultiply(a, b int) (int, error) {
	if a < 0 || b < 0 {
		return 0, ErrInvalidLength
	}
	if a == 0 || b == 0 {
		return 0, nil
	}
	if a > math.MaxInt/b {
		return 0, ErrOverflow
	}
	return a * b, nil
}

// CheckLength validates that length is within [0, maxAllowed].
func CheckLength(length, maxAllowed int) error {
	if length < 0 {
		return ErrInvalidLength
	}
	if length > maxAllowed {
		return ErrExceedsLimit
	}
	return nil
}

// SafeReadLength reads a little-endian uint32 length at offset and checks it
// against maxAllowed. It returns the length and the offset just past it.
func SafeReadLength(data []byte, offset, maxAllowed int) (length int, newOffset int, err error) {
	if offset < 0 || offset+4 > len(data) {
		return 0, offset, fmt.Errorf("%w: truncated length field", ErrInvalidLength)
	}
	raw := uint32(data[offset]) | uint32(data[offset+1])<<8 | uint32(data[offset+2])<<16 | uint32(data[offset+3])<<24
	if uint64(raw) > uint64(maxAllowed) {
		return 0, offset, ErrExceedsLimit
	}
	return int(raw), offset + 4, nil
}

// ValidateSliceAccess checks that data[offset:offset+size] is in bounds.
func ValidateSliceAccess(data []byte, offset, size int) error {
	if offset < 0 || size < 0 {
		return ErrInvalidLength
	}
	if offset+size < offset {
		return ErrOverflow
	}
	if offset+size > len(data) {
		return fmt.Errorf("%w: slice access out of bounds", ErrInvalidLength)
	}
	return nil
}

// IsLimitError reports whether err came from one of the checks above.
func IsLimitError(err error) bool {
	return errors.Is(err, ErrOverflow) || errors.Is(err, ErrExceedsLimit) || errors.Is(err, ErrInvalidLength)
}
