// Package core provides the parameter presets of the scheme and their
// validation.
package core

import (
	"encoding/json"
	"fmt"
	"os"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/utils"
)

// MaxModulus is the largest accepted coefficient modulus, 2^31 - 1.
const MaxModulus = 1<<31 - 1

// Param128 is the 128-bit profile.
var Param128 = giophantus.Params{
	Level: giophantus.GIO128,
	Q:     17,
	N:     11,
	L:     4,
	DX:    2,
	DR:    2,
	MLen:  32,
}

// Param192 is the 192-bit profile.
var Param192 = giophantus.Params{
	Level: giophantus.GIO192,
	Q:     23,
	N:     19,
	L:     6,
	DX:    3,
	DR:    3,
	MLen:  48,
}

// Param256 is the 256-bit profile.
var Param256 = giophantus.Params{
	Level: giophantus.GIO256,
	Q:     29,
	N:     23,
	L:     8,
	DX:    4,
	DR:    4,
	MLen:  64,
}

// Levels lists the preset security levels in increasing order.
func Levels() []giophantus.SecurityLevel {
	return []giophantus.SecurityLevel{giophantus.GIO128, giophantus.GIO192, giophantus.GIO256}
}

// GetParams returns the preset for the given security level.
func GetParams(level giophantus.SecurityLevel) (giophantus.Params, error) {
	switch level {
	case giophantus.GIO128:
		return Param128, nil
	case giophantus.GIO192:
		return Param192, nil
	case giophantus.GIO256:
		return Param256, nil
	default:
		return giophantus.Params{}, fmt.Errorf("%w: unknown security level: %s", giophantus.ErrInvalidParameter, level)
	}
}

// ValidateParams checks that params describe a ring the scheme can work
// in and that decryption is exact for them.
func ValidateParams(params giophantus.Params) error {
	invalid := func(format string, args ...interface{}) error {
		return fmt.Errorf("%w: "+format, append([]interface{}{giophantus.ErrInvalidParameter}, args...)...)
	}

	if params.Q < 2 || params.Q > MaxModulus {
		return invalid("modulus q=%d must be in [2, %d]", params.Q, MaxModulus)
	}
	if !isPrime(params.Q) {
		return invalid("modulus q=%d must be prime", params.Q)
	}
	if params.N <= 0 || params.N > utils.MaxVectorLength {
		return invalid("ring degree n=%d must be in [1, %d]", params.N, utils.MaxVectorLength)
	}
	if !isPrime(int64(params.N)) {
		return invalid("ring degree n=%d must be prime", params.N)
	}
	if params.L <= 0 || params.L > params.Q {
		return invalid("message bound l=%d must be in [1, q=%d]", params.L, params.Q)
	}
	if params.DX < 1 {
		return invalid("public degree dX=%d must be at least 1", params.DX)
	}
	if params.DR < 1 {
		return invalid("randomness degree dr=%d must be at least 1", params.DR)
	}
	if params.MLen < 1 {
		return invalid("message length mlen=%d must be at least 1", params.MLen)
	}
	if params.CiphertextDegree() >= params.N {
		return invalid("dX + dr = %d must be below n=%d", params.CiphertextDegree(), params.N)
	}
	if params.CiphertextDegree() > utils.MaxTotalDegree {
		return invalid("dX + dr = %d exceeds %d", params.CiphertextDegree(), utils.MaxTotalDegree)
	}
	return nil
}

// NoiseWidth is the exclusive upper bound w of the noise coefficients. It
// is the largest w <= l with (l - 1) + l(w - 1) < q, so m + l*e never wraps
// modulo q.
func NoiseWidth(params giophantus.Params) int64 {
	w := (params.Q-params.L)/params.L + 1
	if w > params.L {
		w = params.L
	}
	return w
}

// Blocks is the number of ring elements a message of MLen coefficients
// occupies, ceil(mlen / n).
func Blocks(params giophantus.Params) int {
	return (params.MLen + params.N - 1) / params.N
}

// MaxDecodedValue is the largest coefficient m + l*e can take.
func MaxDecodedValue(params giophantus.Params) int64 {
	return (params.L - 1) + params.L*(NoiseWidth(params)-1)
}

// LoadParams reads a JSON parameter file and validates it. A file without
// a level is tagged giophantus.Custom.
func LoadParams(path string) (giophantus.Params, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return giophantus.Params{}, fmt.Errorf("reading params: %w", err)
	}
	return ParseParams(data)
}

// ParseParams decodes and validates a JSON parameter record.
func ParseParams(data []byte) (giophantus.Params, error) {
	var params giophantus.Params
	if err := json.Unmarshal(data, &params); err != nil {
		return giophantus.Params{}, fmt.Errorf("%w: decoding params: %v", giophantus.ErrInvalidParameter, err)
	}
	if params.Level == "" {
		params.Level = giophantus.Custom
	}
	if err := ValidateParams(params); err != nil {
		return giophantus.Params{}, err
	}
	return params, nil
}

// isPrime checks primality by trial division. Moduli are bounded by
// MaxModulus, so this stays cheap.
func isPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if n == 2 {
		return true
	}
	if n%2 == 0 {
		return false
	}
	for i := int64(3); i*i <= n; i += 2 {
		if n%i == 0 {
			return false
		}
	}
	return true
}
