// Package pke implements key generation, encryption and decryption for the
// Giophantus public-key scheme over R_q = F_q[t]/(t^n - 1).
//
// A public key is a bivariate polynomial X(x, y) with ring coefficients and
// a secret root (ux, uy): X(ux, uy) = 0 in R_q. A message block m is
// encrypted as c = m + X*r + l*e for fresh random r(x, y) and small noise e.
// Evaluating c at the secret root cancels X*r and leaves m + l*e, whose
// coefficients never wrap modulo q, so m is recovered modulo l.
package pke

import (
	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/ring"
	"github.com/BackendStack21/giophantus-go/utils"
)

// Domain separation labels for seed derivation.
const (
	DomainKeyGen  = "giophantus-keygen-v1"
	DomainEncrypt = "giophantus-encrypt-v1"
)

// PublicKey is the public polynomial X of total degree DX.
type PublicKey struct {
	X      ring.BiPoly
	Params giophantus.Params
}

// SecretKey is the root (Ux, Uy) of the public polynomial.
type SecretKey struct {
	Ux     ring.Poly
	Uy     ring.Poly
	Params giophantus.Params
}

// Zeroize clears the secret root in place.
func (sk *SecretKey) Zeroize() {
	utils.ZeroizeInt64(sk.Ux.Coeffs)
	utils.ZeroizeInt64(sk.Uy.Coeffs)
}

// KeyPair holds both halves of a key and the number of candidates drawn to
// find an accepted public polynomial.
type KeyPair struct {
	PublicKey PublicKey
	SecretKey SecretKey
	Trials    int
}

// Ciphertext holds one bivariate block of total degree DX + DR per n message
// coefficients. It always carries core.Blocks(Params) blocks.
type Ciphertext struct {
	Blocks []ring.BiPoly
	Params giophantus.Params
}
