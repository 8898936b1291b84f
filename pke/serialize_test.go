package pke

import (
	"encoding/binary"
	"runtime"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/core"
	"github.com/BackendStack21/giophantus-go/ring"
)

func fixture(t testing.TB, params giophantus.Params) (*KeyPair, *Ciphertext) {
	t.Helper()
	s := newSampler(t, "serialize-"+string(params.Level))
	kp, err := KeyGen(params, s)
	require.NoError(t, err)
	ct, err := Encrypt(ring.NewPoly(1, 0, 3), kp.PublicKey, params, s)
	require.NoError(t, err)
	return kp, ct
}

func TestSerializationRoundTrip(t *testing.T) {
	for _, params := range presets {
		t.Run(string(params.Level), func(t *testing.T) {
			kp, ct := fixture(t, params)

			pk, err := DeserializePublicKey(SerializePublicKey(&kp.PublicKey))
			require.NoError(t, err)
			assert.Equal(t, params, pk.Params)
			assert.True(t, ring.BiEqual(kp.PublicKey.X, pk.X))

			sk, err := DeserializeSecretKey(SerializeSecretKey(&kp.SecretKey))
			require.NoError(t, err)
			assert.Equal(t, params, sk.Params)
			assert.Equal(t, kp.SecretKey.Ux.Coeffs, sk.Ux.Coeffs)
			assert.Equal(t, kp.SecretKey.Uy.Coeffs, sk.Uy.Coeffs)

			decoded, err := DeserializeCiphertext(SerializeCiphertext(ct))
			require.NoError(t, err)
			got, err := Decrypt(decoded, *sk)
			require.NoError(t, err)
			assert.Equal(t, []int64{1, 0, 3}, got.Coeffs)
		})
	}
}

func TestSerializationCustomParams(t *testing.T) {
	params := giophantus.Params{Level: giophantus.Custom, Q: 31, N: 13, L: 5, DX: 2, DR: 3, MLen: 20}
	kp, ct := fixture(t, params)
	sk, err := DeserializeSecretKey(SerializeSecretKey(&kp.SecretKey))
	require.NoError(t, err)
	decoded, err := DeserializeCiphertext(SerializeCiphertext(ct))
	require.NoError(t, err)
	got, err := Decrypt(decoded, *sk)
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 0, 3}, got.Coeffs)
}

func TestDeserializeTruncated(t *testing.T) {
	kp, ct := fixture(t, core.Param128)
	for name, data := range map[string][]byte{
		"public key": SerializePublicKey(&kp.PublicKey),
		"secret key": SerializeSecretKey(&kp.SecretKey),
		"ciphertext": SerializeCiphertext(ct),
	} {
		for _, cut := range []int{0, 1, 8, len(data) / 2, len(data) - 1} {
			var err error
			switch name {
			case "public key":
				_, err = DeserializePublicKey(data[:cut])
			case "secret key":
				_, err = DeserializeSecretKey(data[:cut])
			default:
				_, err = DeserializeCiphertext(data[:cut])
			}
			assert.ErrorIs(t, err, giophantus.ErrInvalidParameter, "%s cut at %d", name, cut)
		}
	}
}

func TestDeserializeRejectsTrailingBytes(t *testing.T) {
	kp, _ := fixture(t, core.Param128)
	data := append(SerializePublicKey(&kp.PublicKey), 0)
	_, err := DeserializePublicKey(data)
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)
}

// headerSize is the encoded size of the params header.
func headerSize(p giophantus.Params) int {
	return 1 + len(p.Level) + 8 + 4 + 8 + 4 + 4 + 4
}

func TestDeserializeRejectsOutOfRangeValues(t *testing.T) {
	params := core.Param128
	kp, ct := fixture(t, params)

	// First coefficient of the first block: header, block count, degree, count.
	data := SerializeCiphertext(ct)
	off := headerSize(params) + 4 + 4 + 4
	binary.LittleEndian.PutUint32(data[off:], uint32(params.Q))
	_, err := DeserializeCiphertext(data)
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)

	// Secret coefficients must stay below l.
	data = SerializeSecretKey(&kp.SecretKey)
	off = headerSize(params) + 4
	binary.LittleEndian.PutUint32(data[off:], uint32(params.L))
	_, err = DeserializeSecretKey(data)
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)

	// A non-prime modulus in the header.
	data = SerializePublicKey(&kp.PublicKey)
	binary.LittleEndian.PutUint64(data[1+len(params.Level):], 16)
	_, err = DeserializePublicKey(data)
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)

	// Wrong block count.
	data = SerializeCiphertext(ct)
	binary.LittleEndian.PutUint32(data[headerSize(params):], 2)
	_, err = DeserializeCiphertext(data)
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)

	// A huge coefficient count.
	data = SerializePublicKey(&kp.PublicKey)
	binary.LittleEndian.PutUint32(data[headerSize(params)+4:], 0xFFFFFFFF)
	_, err = DeserializePublicKey(data)
	assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)
}

// allocatedBytes reports how many bytes fn allocates on the heap.
func allocatedBytes(fn func()) uint64 {
	var before, after runtime.MemStats
	runtime.ReadMemStats(&before)
	fn()
	runtime.ReadMemStats(&after)
	return after.TotalAlloc - before.TotalAlloc
}

func TestDeserializeHeaderOnlyBoundsAllocations(t *testing.T) {
	const limit = 1 << 20
	wide := giophantus.Params{Level: giophantus.Custom, Q: 17, N: 8191, L: 4, DX: 100, DR: 100, MLen: 8191}
	many := giophantus.Params{Level: giophantus.Custom, Q: 17, N: 17, L: 4, DX: 8, DR: 7, MLen: 1 << 20}
	require.NoError(t, core.ValidateParams(wide))
	require.NoError(t, core.ValidateParams(many))
	require.Equal(t, 61681, core.Blocks(many))

	header := func(p giophantus.Params, fields ...uint32) []byte {
		e := &encoder{}
		e.params(p)
		for _, f := range fields {
			e.u32(f)
		}
		return e.buf
	}

	cases := map[string]func() error{
		"public key": func() error {
			_, err := DeserializePublicKey(header(wide, uint32(wide.DX)))
			return err
		},
		"secret key": func() error {
			_, err := DeserializeSecretKey(header(wide, uint32(wide.N)))
			return err
		},
		"wide ciphertext": func() error {
			_, err := DeserializeCiphertext(header(wide, 1, uint32(wide.CiphertextDegree())))
			return err
		},
		"many blocks": func() error {
			_, err := DeserializeCiphertext(header(many, uint32(core.Blocks(many))))
			return err
		},
	}
	for name, decode := range cases {
		t.Run(name, func(t *testing.T) {
			var err error
			allocated := allocatedBytes(func() { err = decode() })
			assert.ErrorIs(t, err, giophantus.ErrInvalidParameter)
			assert.Less(t, allocated, uint64(limit), "allocated %d bytes for a header-only input", allocated)
		})
	}
}

func FuzzDeserializePublicKey(f *testing.F) {
	kp, _ := fixture(f, core.Param128)
	f.Add([]byte{})
	f.Add([]byte{0})
	f.Add([]byte{0xff, 0xff, 0xff, 0xff})
	f.Add(make([]byte, 64))
	f.Add(SerializePublicKey(&kp.PublicKey))

	f.Fuzz(func(t *testing.T, data []byte) {
		pk, err := DeserializePublicKey(data)
		if err == nil {
			assert.True(t, pk.X.WellFormed(pk.Params.N))
		}
	})
}

func FuzzDeserializeSecretKey(f *testing.F) {
	kp, _ := fixture(f, core.Param128)
	f.Add([]byte{})
	f.Add(make([]byte, 48))
	f.Add(SerializeSecretKey(&kp.SecretKey))

	f.Fuzz(func(t *testing.T, data []byte) {
		_, _ = DeserializeSecretKey(data)
	})
}

func FuzzDeserializeCiphertext(f *testing.F) {
	kp, ct := fixture(f, core.Param128)
	f.Add([]byte{})
	f.Add(make([]byte, 48))
	f.Add(SerializeCiphertext(ct))

	f.Fuzz(func(t *testing.T, data []byte) {
		decoded, err := DeserializeCiphertext(data)
		if err != nil || decoded.Params != kp.SecretKey.Params {
			return
		}
		// Must not panic on any well-formed ciphertext.
		_, _ = Decrypt(decoded, kp.SecretKey)
	})
}
