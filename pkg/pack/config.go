package pack

import (
	"math"

	"github.com/dotfill/dotfill/pkg/errors"
)

// Default configuration values.
const (
	// DefaultMinRatio and DefaultMaxRatio bound circle radii as fractions
	// of the mask's shorter side when no explicit radii are given.
	DefaultMinRatio = 0.005
	DefaultMaxRatio = 0.05

	// DefaultMargin is the minimum gap between circle edges, in pixels.
	DefaultMargin = 1.0

	// DefaultSeed makes runs reproducible by default. Pass a different
	// seed via WithSeed for varied output.
	DefaultSeed = 42
)

// Config holds the validated packing parameters. Zero values are filled in
// by defaults; construct one through [Pack] or [NewEngine] options.
type Config struct {
	// MinRatio and MaxRatio derive the absolute radius bounds from the
	// mask's shorter dimension. Ignored when Radii is set.
	MinRatio, MaxRatio float64

	// Radii is an explicit multiset of target radii. Setting it disables
	// greedy mode and makes N and the ratio bounds irrelevant.
	Radii []float64

	// N caps the circle count in greedy mode (0 = unlimited) and sets the
	// sample size in fixed mode without explicit radii.
	N int

	// Margin is the required gap between a circle's edge and any other
	// circle's edge or forbidden pixel, in pixels.
	Margin float64

	// Greedy selects largest-that-fits packing. Default true.
	Greedy bool

	// ReturnField attaches the final free-radius field to the result.
	ReturnField bool

	// Seed drives both candidate selection and radius sampling.
	Seed uint64

	// Bias is the size distribution used when fixed mode samples its own
	// radii. See [SizeBias].
	Bias SizeBias

	// Observer, when set, is called synchronously after every placement.
	Observer func(Circle)
}

// DefaultConfig returns the default greedy configuration.
func DefaultConfig() Config {
	return Config{
		MinRatio: DefaultMinRatio,
		MaxRatio: DefaultMaxRatio,
		Margin:   DefaultMargin,
		Greedy:   true,
		Seed:     DefaultSeed,
		Bias:     BiasBeta,
	}
}

// Option configures a packing run.
type Option func(*Config)

// WithRadiusRange sets the radius bounds as fractions of the mask's shorter
// side. Ignored when explicit radii are supplied.
func WithRadiusRange(minRatio, maxRatio float64) Option {
	return func(c *Config) { c.MinRatio, c.MaxRatio = minRatio, maxRatio }
}

// WithRadii supplies an explicit multiset of target radii and switches the
// engine to fixed mode. The radii are attempted in descending order.
func WithRadii(radii ...float64) Option {
	return func(c *Config) {
		c.Radii = radii
		c.Greedy = false
	}
}

// WithCount caps the number of circles (greedy mode) or sets the number of
// sampled radii (fixed mode without explicit radii).
func WithCount(n int) Option {
	return func(c *Config) { c.N = n }
}

// WithMargin sets the inter-circle gap in pixels.
func WithMargin(margin float64) Option {
	return func(c *Config) { c.Margin = margin }
}

// WithGreedy toggles greedy mode. Disabling it requires either explicit
// radii or a count to sample.
func WithGreedy(greedy bool) Option {
	return func(c *Config) { c.Greedy = greedy }
}

// WithReturnField attaches the final free-radius field to the result,
// useful for diagnostics or chained packing passes.
func WithReturnField() Option {
	return func(c *Config) { c.ReturnField = true }
}

// WithSeed sets the random seed for candidate selection and radius sampling.
func WithSeed(seed uint64) Option {
	return func(c *Config) { c.Seed = seed }
}

// WithBias sets the size distribution for sampled radii in fixed mode.
func WithBias(b SizeBias) Option {
	return func(c *Config) { c.Bias = b }
}

// WithObserver registers a callback invoked after every placement. The
// callback runs on the packing goroutine; it must not call back into the
// engine.
func WithObserver(f func(Circle)) Option {
	return func(c *Config) { c.Observer = f }
}

// validate checks the assembled configuration before any work happens.
func (c *Config) validate() error {
	if !c.Greedy && len(c.Radii) == 0 && c.N == 0 {
		return errors.New(errors.ErrCodeInvalidConfig,
			"must specify either radii or a count when greedy mode is disabled")
	}
	if c.Margin < 0 || math.IsNaN(c.Margin) || math.IsInf(c.Margin, 0) {
		return errors.New(errors.ErrCodeInvalidConfig, "margin must be a non-negative finite number, got %v", c.Margin)
	}
	for _, r := range c.Radii {
		if r <= 0 || math.IsNaN(r) || math.IsInf(r, 0) {
			return errors.New(errors.ErrCodeInvalidConfig, "radii must be positive finite numbers, got %v", r)
		}
	}
	if len(c.Radii) == 0 {
		if c.MinRatio <= 0 || c.MaxRatio <= 0 || c.MinRatio > c.MaxRatio {
			return errors.New(errors.ErrCodeInvalidConfig,
				"radius range must satisfy 0 < min <= max, got (%v, %v)", c.MinRatio, c.MaxRatio)
		}
	}
	if c.N < 0 {
		return errors.New(errors.ErrCodeInvalidConfig, "count must be non-negative, got %d", c.N)
	}
	return nil
}
