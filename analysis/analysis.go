// Package analysis measures key generation, encryption and decryption over
// repeated runs and summarizes the results.
package analysis

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/montanaflynn/stats"

	giophantus "github.com/BackendStack21/giophantus-go"
	"github.com/BackendStack21/giophantus-go/pke"
	"github.com/BackendStack21/giophantus-go/ring"
	"github.com/BackendStack21/giophantus-go/sampler"
	"github.com/BackendStack21/giophantus-go/utils"
)

// DomainAnalysis separates per-iteration seeds from other uses of a seed.
const DomainAnalysis = "giophantus-analysis-v1"

// Summary describes one sample.
type Summary struct {
	Count  int     `json:"count"`
	Mean   float64 `json:"mean"`
	StdDev float64 `json:"stddev"`
	Median float64 `json:"median"`
	P95    float64 `json:"p95"`
	Min    float64 `json:"min"`
	Max    float64 `json:"max"`
}

// Summarize computes a Summary of data.
func Summarize(data []float64) (Summary, error) {
	if len(data) == 0 {
		return Summary{}, fmt.Errorf("%w: empty sample", giophantus.ErrInvalidParameter)
	}
	d := stats.Float64Data(data)
	s := Summary{Count: len(data)}
	var err error
	if s.Mean, err = stats.Mean(d); err != nil {
		return Summary{}, err
	}
	if s.StdDev, err = stats.StandardDeviation(d); err != nil {
		return Summary{}, err
	}
	if s.Median, err = stats.Median(d); err != nil {
		return Summary{}, err
	}
	if s.P95, err = stats.Percentile(d, 95); err != nil {
		return Summary{}, err
	}
	if s.Min, err = stats.Min(d); err != nil {
		return Summary{}, err
	}
	if s.Max, err = stats.Max(d); err != nil {
		return Summary{}, err
	}
	return s, nil
}

// Config controls Run.
type Config struct {
	Iterations int
	// PRNG and Seed fix the randomness of every iteration. A nil seed is
	// replaced by fresh entropy.
	PRNG    utils.PRNGKind
	Seed    []byte
	Options []pke.Option
}

// Report is the outcome of Run. Durations are in microseconds.
type Report struct {
	Params     giophantus.Params `json:"params"`
	Iterations int               `json:"iterations"`
	Trials     Summary           `json:"keygen_trials"`
	KeyGen     Summary           `json:"keygen_us"`
	Encrypt    Summary           `json:"encrypt_us"`
	Decrypt    Summary           `json:"decrypt_us"`
	// PublicCoefficients summarizes the coefficients of every public key.
	// Uniform coefficients have mean (q - 1) / 2.
	PublicCoefficients Summary `json:"public_coefficients"`
}

// Run generates a key pair per iteration, encrypts a random full-length
// message under it and checks that it decrypts. Any failure aborts the run.
func Run(params giophantus.Params, cfg Config) (*Report, error) {
	if cfg.Iterations < 1 {
		return nil, fmt.Errorf("%w: iterations must be positive", giophantus.ErrInvalidParameter)
	}
	seed := cfg.Seed
	if seed == nil {
		var err error
		if seed, err = utils.SecureRandomBytes(utils.MinSeedLength); err != nil {
			return nil, err
		}
		defer utils.Zeroize(seed)
	}

	var trials, keygen, encrypt, decrypt, coeffs []float64
	for i := 0; i < cfg.Iterations; i++ {
		iterSeed := make([]byte, len(seed)+8)
		copy(iterSeed, seed)
		binary.LittleEndian.PutUint64(iterSeed[len(seed):], uint64(i))
		src, err := utils.NewPRNG(cfg.PRNG, utils.HashWithDomain(DomainAnalysis, iterSeed))
		if err != nil {
			return nil, err
		}
		s := sampler.New(src)

		start := time.Now()
		kp, err := pke.KeyGen(params, s, cfg.Options...)
		keygen = append(keygen, micros(time.Since(start)))
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i, err)
		}
		trials = append(trials, float64(kp.Trials))
		for _, row := range kp.PublicKey.X.Terms {
			for _, c := range row {
				for _, v := range c.Coeffs {
					coeffs = append(coeffs, float64(v))
				}
			}
		}

		m, err := s.Sample(params.MLen-1, params.L)
		if err != nil {
			return nil, err
		}
		start = time.Now()
		ct, err := pke.Encrypt(m, kp.PublicKey, params, s, cfg.Options...)
		encrypt = append(encrypt, micros(time.Since(start)))
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i, err)
		}

		start = time.Now()
		got, err := pke.Decrypt(ct, kp.SecretKey)
		decrypt = append(decrypt, micros(time.Since(start)))
		if err != nil {
			return nil, fmt.Errorf("iteration %d: %w", i, err)
		}
		if !ring.Equal(got, m) {
			return nil, fmt.Errorf("%w: iteration %d did not round trip", giophantus.ErrDecryptionFailed, i)
		}
		kp.SecretKey.Zeroize()
	}

	report := &Report{Params: params, Iterations: cfg.Iterations}
	for _, f := range []struct {
		dst  *Summary
		data []float64
	}{
		{&report.Trials, trials},
		{&report.KeyGen, keygen},
		{&report.Encrypt, encrypt},
		{&report.Decrypt, decrypt},
		{&report.PublicCoefficients, coeffs},
	} {
		s, err := Summarize(f.data)
		if err != nil {
			return nil, err
		}
		*f.dst = s
	}
	return report, nil
}

func micros(d time.Duration) float64 {
	return float64(d) / float64(time.Microsecond)
}
