// Package giophantus implements the Giophantus public-key encryption scheme.
// The scheme works over the quotient ring R_q = F_q[t]/(t^n - 1) and hides a
// message behind a bivariate polynomial X(x, y) whose secret root (ux, uy)
// lets the key holder cancel the encryption randomness.
//
// This package holds the parameter record and the error kinds shared by every
// sub-package. The arithmetic lives in field and ring, the protocol in pke.
package giophantus

// Version of the Giophantus Go implementation.
const Version = "0.3.0"

// API summary:
//
// Public-key encryption:
//   - pke.GenerateKeyPair(level) - Generate a key pair from OS entropy
//   - pke.GenerateKeyPairFromSeed(params, seed) - Deterministic key pair
//   - pke.KeyGen(params, rng, opts...) - Key pair from an injected randomness source
//   - pke.Encrypt(m, pk, params, rng) - Encrypt a message polynomial
//   - pke.Decrypt(ct, sk) - Recover the message polynomial
//
// Ring arithmetic:
//   - field.Add/Sub/Mul - Modular integer arithmetic
//   - ring.New(q, n) - Polynomial operations in F_q[t]/(t^n - 1)
//
// Parameters:
//   - core.GetParams(level) - Get parameters for security level
//   - GIO_128, GIO_192, GIO_256
