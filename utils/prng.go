package utils

import (
	"fmt"
	"io"
	"strings"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"

	giophantus "github.com/BackendStack21/giophantus-go"
)

// PRNGKind names a deterministic byte-stream construction.
type PRNGKind string

const (
	PRNGShake256 PRNGKind = "shake256"
	PRNGBlake2b  PRNGKind = "blake2b"
	PRNGBlake3   PRNGKind = "blake3"
)

// DefaultPRNG is used when no kind is given.
const DefaultPRNG = PRNGShake256

// PRNGKinds lists the supported kinds in a stable order.
func PRNGKinds() []PRNGKind {
	return []PRNGKind{PRNGShake256, PRNGBlake2b, PRNGBlake3}
}

// ParsePRNGKind maps a case-insensitive name to a PRNGKind. The empty
// string selects DefaultPRNG.
func ParsePRNGKind(name string) (PRNGKind, error) {
	if name == "" {
		return DefaultPRNG, nil
	}
	kind := PRNGKind(strings.ToLower(name))
	for _, k := range PRNGKinds() {
		if k == kind {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: unknown PRNG %q", giophantus.ErrInvalidParameter, name)
}

// NewPRNG returns a deterministic, unbounded byte stream keyed by seed.
// Equal kinds and seeds always produce the same stream. The seed is first
// compressed with HashWithDomain so every backend sees a 32-byte key.
func NewPRNG(kind PRNGKind, seed []byte) (io.Reader, error) {
	if kind == "" {
		kind = DefaultPRNG
	}
	key := HashWithDomain("giophantus-prng-"+string(kind), seed)

	switch kind {
	case PRNGShake256:
		return NewShakeStream("giophantus-prng", key), nil
	case PRNGBlake2b:
		xof, err := blake2b.NewXOF(blake2b.OutputLengthUnknown, key)
		if err != nil {
			return nil, fmt.Errorf("blake2b xof: %w", err)
		}
		return xof, nil
	case PRNGBlake3:
		h := blake3.New()
		if _, err := h.Write(key); err != nil {
			return nil, fmt.Errorf("blake3: %w", err)
		}
		return h.Digest(), nil
	default:
		return nil, fmt.Errorf("%w: unknown PRNG %q", giophantus.ErrInvalidParameter, kind)
	}
}
