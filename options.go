package sdmgo

import (
	"log/slog"

	"github.com/hupe1980/sdmgo/codec"
)

type options struct {
	codec      codec.Codec
	metrics    MetricsCollector
	logger     *Logger
	randomSeed *int64
}

// Option configures Open behavior.
//
// The fluent builder (sdmgo.New) carries the same settings as methods;
// options exist so Open does not need codec/logger-specific variants.
type Option func(*options)

// WithCodec configures the codec used for config/stats/info documents.
//
// If nil is passed, codec.Default is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Default
		}
		o.codec = c
	}
}

// WithMetricsCollector configures a metrics collector for monitoring operations.
func WithMetricsCollector(mc MetricsCollector) Option {
	return func(o *options) {
		o.metrics = mc
	}
}

// WithLogger configures structured logging for operations.
func WithLogger(logger *Logger) Option {
	return func(o *options) {
		o.logger = logger
	}
}

// WithLogLevel creates a text logger with the specified level and sets it.
// Convenience wrapper for WithLogger(NewTextLogger(level)).
func WithLogLevel(level slog.Level) Option {
	return func(o *options) {
		o.logger = NewTextLogger(level)
	}
}

// WithRandomSeed sets the seed for deterministic address sampling.
// If not set, a random seed (time-based) is used.
func WithRandomSeed(seed int64) Option {
	return func(o *options) {
		o.randomSeed = &seed
	}
}

func applyOptions(optFns []Option) options {
	o := options{
		codec:   codec.Default,
		metrics: NoopMetricsCollector{},
		logger:  NoopLogger(),
	}
	for _, fn := range optFns {
		if fn != nil {
			fn(&o)
		}
	}
	return o
}
