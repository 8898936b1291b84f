package giophantus

import "errors"

// Error kinds. Every failure returned by this module wraps exactly one of
// these, so callers can branch with errors.Is.
var (
	// ErrInvalidParameter reports a non-positive modulus or degree, a
	// non-prime q or n, or a parameter set that cannot decrypt.
	ErrInvalidParameter = errors.New("giophantus: invalid parameter")

	// ErrMessageTooLarge reports a message whose degree or coefficients
	// exceed the configured bounds.
	ErrMessageTooLarge = errors.New("giophantus: message too large")

	// ErrKeyGenerationExhausted reports that no acceptable public polynomial
	// was found within the trial budget.
	ErrKeyGenerationExhausted = errors.New("giophantus: key generation exhausted")

	// ErrDecryptionFailed reports a ciphertext that does not decode under the
	// given key. It is deliberately vague.
	ErrDecryptionFailed = errors.New("giophantus: decryption failed")
)
