// Package utils holds the randomness, hashing and bounds-checking helpers
// shared by the giophantus packages.
package utils

import (
	"crypto/rand"
	"crypto/subtle"
	"fmt"
	"io"
	"runtime"

	giophantus "github.com/BackendStack21/giophantus-go"
)

// MinSeedLength is the shortest seed accepted for deterministic key generation.
const MinSeedLength = 32

// RandReader is the entropy source for SecureRandomBytes. Tests replace it.
var RandReader io.Reader = rand.Reader

// SecureRandomBytes reads n bytes from the operating system's CSPRNG.
func SecureRandomBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	if _, err := io.ReadFull(RandReader, buf); err != nil {
		return nil, fmt.Errorf("reading entropy: %w", err)
	}
	return buf, nil
}

// ValidateSeedEntropy rejects seeds that are too short or obviously weak:
// constant, sequential, or built from fewer than eight distinct bytes.
// It is a sanity check, not a randomness test.
func ValidateSeedEntropy(seed []byte) error {
	if len(seed) < MinSeedLength {
		return fmt.Errorf("%w: seed must be at least %d bytes, got %d", giophantus.ErrInvalidParameter, MinSeedLength, len(seed))
	}

	allSame := true
	for i := 1; i < len(seed); i++ {
		if seed[i] != seed[0] {
			allSame = false
			break
		}
	}
	if allSame {
		return fmt.Errorf("%w: seed has low entropy: all bytes are identical", giophantus.ErrInvalidParameter)
	}

	ascending, descending := true, true
	for i := 1; i < len(seed) && (ascending || descending); i++ {
		if seed[i] != seed[i-1]+1 {
			ascending = false
		}
		if seed[i] != seed[i-1]-1 {
			descending = false
		}
	}
	if ascending || descending {
		return fmt.Errorf("%w: seed has low entropy: sequential pattern detected", giophantus.ErrInvalidParameter)
	}

	unique := make(map[byte]struct{}, 8)
	for _, b := range seed {
		unique[b] = struct{}{}
		if len(unique) >= 8 {
			return nil
		}
	}
	return fmt.Errorf("%w: seed has low entropy: insufficient byte diversity", giophantus.ErrInvalidParameter)
}

// ConstantTimeEqual compares two byte slices in constant time. Only the
// lengths leak.
func ConstantTimeEqual(a, b []byte) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare(a, b) == 1
}

// Zeroize overwrites b with zeros.
func Zeroize(b []byte) {
	for i := range b {
		b[i] = 0
	}
	runtime.KeepAlive(b)
}

// ZeroizeInt64 overwrites s with zeros. Secret ring elements are cleared
// with it once they are no longer needed.
func ZeroizeInt64(s []int64) {
	for i := range s {
		s[i] = 0
	}
	runtime.KeepAlive(s)
}
