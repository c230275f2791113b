package dentaldx

import (
	"runtime"

	"github.com/rs/zerolog"
)

// Option configures the resolution engine.
type Option func(*Options)

// Options holds all configuration for the engine.
type Options struct {
	// HeuristicFallback enables the single-signal endodontic heuristic
	// when the combined table yields no match. The combined table does
	// not cover every result tuple, so this is on by default.
	HeuristicFallback bool

	// StrictTables makes table loading fail when the validation pass
	// reports errors, instead of letting malformed rows degrade to
	// "never fires".
	StrictTables bool

	// DefaultPercentTeeth is substituted when an observation does not
	// carry the whole-mouth extent of disease.
	DefaultPercentTeeth float64

	// RangeCacheSize bounds the compiled range-expression cache.
	RangeCacheSize int

	// WorkerCount sets the batch-resolution pool size.
	WorkerCount int

	// MaxIssues caps findings per validation pass (0 = unlimited).
	MaxIssues int

	// Logger receives structured events from the engine and loader.
	Logger zerolog.Logger
}

// DefaultOptions returns the default configuration.
func DefaultOptions() *Options {
	return &Options{
		HeuristicFallback:   true,
		StrictTables:        false,
		DefaultPercentTeeth: 0,
		RangeCacheSize:      256,
		WorkerCount:         runtime.NumCPU(),
		MaxIssues:           0,
		Logger:              zerolog.Nop(),
	}
}

// WithHeuristicFallback enables or disables the endodontic single-signal
// fallback tier.
func WithHeuristicFallback(enable bool) Option {
	return func(o *Options) {
		o.HeuristicFallback = enable
	}
}

// WithStrictTables makes loading reject tables whose validation pass
// reports errors.
func WithStrictTables(enable bool) Option {
	return func(o *Options) {
		o.StrictTables = enable
	}
}

// WithDefaultPercentTeeth sets the extent-of-disease default used when
// an observation omits it.
func WithDefaultPercentTeeth(pct float64) Option {
	return func(o *Options) {
		if pct >= 0 && pct <= 100 {
			o.DefaultPercentTeeth = pct
		}
	}
}

// WithRangeCacheSize bounds the compiled range-expression cache.
func WithRangeCacheSize(size int) Option {
	return func(o *Options) {
		if size > 0 {
			o.RangeCacheSize = size
		}
	}
}

// WithWorkerCount sets the number of workers for batch resolution.
// Defaults to runtime.NumCPU().
func WithWorkerCount(count int) Option {
	return func(o *Options) {
		if count > 0 {
			o.WorkerCount = count
		}
	}
}

// WithMaxIssues caps the number of findings per validation pass.
// Use 0 for unlimited.
func WithMaxIssues(max int) Option {
	return func(o *Options) {
		o.MaxIssues = max
	}
}

// WithLogger routes engine and loader events to the given logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(o *Options) {
		o.Logger = logger
	}
}

// StrictOptions returns options for curated production tables: loading
// fails on any table error and the heuristic tier stays enabled.
func StrictOptions() []Option {
	return []Option{
		WithStrictTables(true),
		WithHeuristicFallback(true),
	}
}

// TableOnlyOptions returns options that disable every fallback tier, so
// resolution reflects exactly what the tables encode. Useful when
// auditing table coverage.
func TableOnlyOptions() []Option {
	return []Option{
		WithHeuristicFallback(false),
		WithStrictTables(true),
	}
}
