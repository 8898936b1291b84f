package utils

import "golang.org/x/crypto/sha3"

// MaxDomainLength is the longest domain label HashWithDomain accepts.
const MaxDomainLength = 255

// HashWithDomain computes SHA3-256 over a length-prefixed domain label
// followed by data. Panics if domain is longer than MaxDomainLength bytes.
func HashWithDomain(domain string, data []byte) []byte {
	if len(domain) > MaxDomainLength {
		panic("domain string must be at most 255 bytes")
	}
	h := sha3.New256()
	h.Write([]byte{byte(len(domain))})
	h.Write([]byte(domain))
	h.Write(data)
	return h.Sum(nil)
}

// NewShakeStream returns an unbounded SHAKE256 stream keyed by a
// domain-separated seed. Reads never fail.
func NewShakeStream(domain string, seed []byte) sha3.ShakeHash {
	if len(domain) > MaxDomainLength {
		panic("domain string must be at most 255 bytes")
	}
	h := sha3.NewShake256()
	h.Write([]byte{byte(len(domain))})
	h.Write([]byte(domain))
	h.Write(seed)
	return h
}
