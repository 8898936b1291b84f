package pke

import (
	"go.uber.org/zap"

	"github.com/BackendStack21/giophantus-go/irreducible"
	"github.com/BackendStack21/giophantus-go/utils"
)

// DefaultMaxTrials is the default candidate budget of key generation.
const DefaultMaxTrials = 1000

type config struct {
	tester    irreducible.Tester
	maxTrials int
	logger    *zap.Logger
	prng      utils.PRNGKind
}

func defaultConfig() config {
	return config{
		tester:    irreducible.Default(),
		maxTrials: DefaultMaxTrials,
		logger:    zap.NewNop(),
		prng:      utils.DefaultPRNG,
	}
}

// Option configures key generation and encryption.
type Option func(*config)

// WithTester sets the irreducibility tester used by key generation.
func WithTester(t irreducible.Tester) Option {
	return func(c *config) {
		if t != nil {
			c.tester = t
		}
	}
}

// WithMaxTrials bounds the number of public candidates key generation
// draws. Values below 1 keep the default.
func WithMaxTrials(n int) Option {
	return func(c *config) {
		if n > 0 {
			c.maxTrials = n
		}
	}
}

// WithLogger sets the logger. A nil logger keeps the no-op default.
func WithLogger(l *zap.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithPRNG selects the stream that seeded entry points derive from their seed.
func WithPRNG(kind utils.PRNGKind) Option {
	return func(c *config) {
		if kind != "" {
			c.prng = kind
		}
	}
}

func buildConfig(opts []Option) config {
	c := defaultConfig()
	for _, opt := range opts {
		opt(&c)
	}
	return c
}
