package pke

import (
	"fmt"
	"time"

	"go.uber.org/zap"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/core"
	"github.com/BackendStack21/giophantus-go/ring"
	"github.com/BackendStack21/giophantus-go/sampler"
	"github.com/BackendStack21/giophantus-go/utils"
)

// KeyGenerator draws key pairs for one parameter set from one sampler.
type KeyGenerator struct {
	params  giophantus.Params
	ring    *ring.Ring
	sampler *sampler.Sampler
	cfg     config
}

// NewKeyGenerator validates params and binds them to s.
func NewKeyGenerator(params giophantus.Params, s *sampler.Sampler, opts ...Option) (*KeyGenerator, error) {
	if s == nil {
		return nil, fmt.Errorf("%w: nil sampler", giophantus.ErrInvalidParameter)
	}
	if err := core.ValidateParams(params); err != nil {
		return nil, err
	}
	r, err := ring.New(params.Q, params.N)
	if err != nil {
		return nil, err
	}
	return &KeyGenerator{params: params, ring: r, sampler: s, cfg: buildConfig(opts)}, nil
}

// GenerateKeyPair samples the secret root, then draws public candidates
// until the tester accepts one or the trial budget runs out. All draws of
// one call form a single uninterrupted sequence from the sampler.
func (g *KeyGenerator) GenerateKeyPair() (*KeyPair, error) {
	log := g.cfg.logger.With(
		zap.String("level", string(g.params.Level)),
		zap.String("tester", g.cfg.tester.Name()),
	)
	if g.cfg.tester.ReducedSecurity() {
		log.Warn("irreducibility tester is a reduced-security filter, not a decision procedure over R_q")
	}

	start := time.Now()
	var kp *KeyPair
	err := g.sampler.Exclusive(func(d *sampler.Draw) error {
		ux, err := d.Sample(g.params.N-1, g.params.L)
		if err != nil {
			return err
		}
		uy, err := d.Sample(g.params.N-1, g.params.L)
		if err != nil {
			return err
		}

		for trial := 1; trial <= g.cfg.maxTrials; trial++ {
			x, err := g.candidate(d, ux, uy)
			if err != nil {
				return err
			}
			if !g.cfg.tester.IsIrreducible(x, g.params) {
				continue
			}
			kp = &KeyPair{
				PublicKey: PublicKey{X: x, Params: g.params},
				SecretKey: SecretKey{Ux: ux, Uy: uy, Params: g.params},
				Trials:    trial,
			}
			return nil
		}

		utils.ZeroizeInt64(ux.Coeffs)
		utils.ZeroizeInt64(uy.Coeffs)
		return fmt.Errorf("%w: no candidate accepted by %s tester after %d trials",
			giophantus.ErrKeyGenerationExhausted, g.cfg.tester.Name(), g.cfg.maxTrials)
	})
	if err != nil {
		log.Debug("key generation failed", zap.Error(err))
		return nil, err
	}

	log.Debug("key pair generated",
		zap.Int("trials", kp.Trials),
		zap.Duration("elapsed", time.Since(start)),
	)
	return kp, nil
}

// candidate draws X(x, y) of total degree DX and fixes its constant term so
// that X(ux, uy) = 0.
func (g *KeyGenerator) candidate(d *sampler.Draw, ux, uy ring.Poly) (ring.BiPoly, error) {
	x, err := d.SampleBi(g.params.DX, g.params.N, g.params.Q)
	if err != nil {
		return ring.BiPoly{}, err
	}
	x.Terms[0][0] = ring.Zero(g.params.N)
	x.Terms[0][0] = g.ring.Neg(g.ring.BiEval(x, ux, uy))
	return x, nil
}

// KeyGen generates a key pair for params from s.
func KeyGen(params giophantus.Params, s *sampler.Sampler, opts ...Option) (*KeyPair, error) {
	g, err := NewKeyGenerator(params, s, opts...)
	if err != nil {
		return nil, err
	}
	return g.GenerateKeyPair()
}

// GenerateKeyPair generates a key pair for a preset level from fresh
// operating-system entropy.
func GenerateKeyPair(level giophantus.SecurityLevel, opts ...Option) (*KeyPair, error) {
	params, err := core.GetParams(level)
	if err != nil {
		return nil, err
	}

	seed, err := utils.SecureRandomBytes(utils.MinSeedLength)
	if err != nil {
		return nil, err
	}
	defer utils.Zeroize(seed)

	return GenerateKeyPairFromSeed(params, seed, opts...)
}

// GenerateKeyPairFromSeed generates a deterministic key pair. The same
// params, seed and PRNG always give the same key pair.
func GenerateKeyPairFromSeed(params giophantus.Params, seed []byte, opts ...Option) (*KeyPair, error) {
	if err := utils.ValidateSeedEntropy(seed); err != nil {
		return nil, err
	}
	cfg := buildConfig(opts)
	src, err := utils.NewPRNG(cfg.prng, utils.HashWithDomain(DomainKeyGen, seed))
	if err != nil {
		return nil, err
	}
	return KeyGen(params, sampler.New(src), opts...)
}
