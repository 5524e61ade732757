package effectchain

import (
	"log/slog"

	"github.com/cwbudde/algo-fxchain/dsp/smoother"
)

const (
	// MaxSubBlockSize is the largest number of samples processed between two
	// control updates.
	MaxSubBlockSize = 64

	// DefaultQueueCapacity is the default depth of the order request and
	// acknowledgement queues.
	DefaultQueueCapacity = 32
)

type config struct {
	registry      *Registry
	rampSeconds   float64
	subBlockSize  int
	queueCapacity int
	logger        *slog.Logger
	build         CoefficientBuilder
	skipMissing   bool
}

// Option configures a Processor, Pipeline or Controller. Options that do
// not apply to the value being built are ignored.
type Option func(*config)

func newConfig(opts []Option) config {
	cfg := config{
		rampSeconds:   smoother.DefaultRampSeconds,
		subBlockSize:  MaxSubBlockSize,
		queueCapacity: DefaultQueueCapacity,
	}

	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}

	if cfg.registry == nil {
		cfg.registry = DefaultRegistry()
	}

	if cfg.logger == nil {
		cfg.logger = slog.Default()
	}

	return cfg
}

// WithRegistry sets the stage registry. The default is [DefaultRegistry].
func WithRegistry(r *Registry) Option {
	return func(c *config) { c.registry = r }
}

// WithRampTime sets the control smoothing time in seconds. Zero disables
// smoothing.
func WithRampTime(seconds float64) Option {
	return func(c *config) { c.rampSeconds = seconds }
}

// WithSubBlockSize sets the number of samples between control updates, in
// [1, MaxSubBlockSize].
func WithSubBlockSize(n int) Option {
	return func(c *config) { c.subBlockSize = n }
}

// WithQueueCapacity sets the depth of the order queues.
func WithQueueCapacity(n int) Option {
	return func(c *config) { c.queueCapacity = n }
}

// WithLogger sets the logger used outside the audio path.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithBuildCoefficients replaces the general filter's coefficient designer.
func WithBuildCoefficients(b CoefficientBuilder) Option {
	return func(c *config) { c.build = b }
}

// WithMissingStagesSkipped turns a kind without a registered factory from an
// initialisation error into a warning; the kind then resolves to nothing.
func WithMissingStagesSkipped() Option {
	return func(c *config) { c.skipMissing = true }
}
