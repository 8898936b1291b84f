package giophantus

// SecurityLevel names a parameter profile.
type SecurityLevel string

const (
	// GIO128 is the 128-bit profile.
	GIO128 SecurityLevel = "GIO-128"
	// GIO192 is the 192-bit profile.
	GIO192 SecurityLevel = "GIO-192"
	// GIO256 is the 256-bit profile.
	GIO256 SecurityLevel = "GIO-256"
	// Aliases with underscore for convenience
	GIO_128 SecurityLevel = GIO128
	GIO_192 SecurityLevel = GIO192
	GIO_256 SecurityLevel = GIO256
)

// Custom marks a parameter set that does not come from a preset.
const Custom SecurityLevel = "custom"

// Params is the configuration record of the scheme. A Params value is
// immutable once built: every component copies it and none writes to it.
type Params struct {
	Level SecurityLevel `json:"level"`
	Q     int64         `json:"q"`    // Prime modulus of the coefficient field
	N     int           `json:"n"`    // Ring degree, reduction by t^n - 1 (prime)
	L     int64         `json:"l"`    // Message and noise bound
	DX    int           `json:"dx"`   // Total degree of the public polynomial X(x, y)
	DR    int           `json:"dr"`   // Total degree of the encryption randomness r(x, y)
	MLen  int           `json:"mlen"` // Message length in coefficients
}

// CiphertextDegree is the total degree of a ciphertext block, dX + dr.
func (p Params) CiphertextDegree() int {
	return p.DX + p.DR
}
