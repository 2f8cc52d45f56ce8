// Package sdmgo provides functionalities for an embedded associative memory engine.
//
// This file implements the fluent builder API for creating and configuring SDM instances.
// The builder is immutable - each method returns a new builder with the updated configuration.
package sdmgo

import (
	"github.com/hupe1980/sdmgo/blobstore"
	"github.com/hupe1980/sdmgo/codec"
	"github.com/hupe1980/sdmgo/store"
)

// New creates a new SDM builder with the specified vector dimension.
//
// The builder is immutable - each method returns a new builder with the
// updated configuration. This ensures thread-safety and prevents
// accidental state sharing.
//
// Example:
//
//	db, err := sdmgo.New(128).
//	    Locations(1000).
//	    Radius(20).
//	    Sparsity(0.03).
//	    Build()
func New(dimension int) Builder {
	return Builder{
		dimension: dimension,
		locations: store.DefaultConfig.NumLocations,
		radius:    store.DefaultConfig.AccessRadius,
		sparsity:  store.DefaultConfig.Sparsity,
	}
}

// NewFromConfig creates a builder pre-populated from a Config, e.g. one
// selected by the benchmark harness.
func NewFromConfig(cfg store.Config) Builder {
	return Builder{
		dimension: cfg.VectorDim,
		locations: cfg.NumLocations,
		radius:    cfg.AccessRadius,
		sparsity:  cfg.Sparsity,
	}
}

// Builder is an immutable fluent builder for creating SDM instances.
// Each method returns a new builder with the updated configuration.
type Builder struct {
	dimension  int
	locations  int
	radius     int
	sparsity   float64
	randomSeed *int64
	codec      codec.Codec
	logger     *Logger
	metrics    MetricsCollector
	bs         blobstore.Store
}

// Locations sets the number of hard locations.
// More locations improve capacity but increase memory linearly.
// Default: 1000.
func (b Builder) Locations(n int) Builder {
	b.locations = n
	return b
}

// Radius sets the Hamming access radius.
// Larger radii activate more locations per operation, trading
// interference for recall of noisy queries.
// Default: 20.
func (b Builder) Radius(r int) Builder {
	b.radius = r
	return b
}

// Sparsity sets the target fraction of one-bits in generated addresses.
// Default: 0.03.
func (b Builder) Sparsity(s float64) Builder {
	b.sparsity = s
	return b
}

// RandomSeed sets the seed for deterministic address sampling.
// If not set, a random seed (time-based) is used.
func (b Builder) RandomSeed(seed int64) Builder {
	b.randomSeed = &seed
	return b
}

// Codec sets the document codec for config/stats/info files.
func (b Builder) Codec(c codec.Codec) Builder {
	b.codec = c
	return b
}

// Logger sets the structured logger for operation tracing.
func (b Builder) Logger(l *Logger) Builder {
	b.logger = l
	return b
}

// Metrics sets the metrics collector for monitoring.
func (b Builder) Metrics(mc MetricsCollector) Builder {
	b.metrics = mc
	return b
}

// BlobStore attaches a block device for persistence and libraries.
func (b Builder) BlobStore(bs blobstore.Store) Builder {
	b.bs = bs
	return b
}

// Build creates the SDM instance: configuration validated, addresses
// sampled, counters zeroed. Persisted state is not loaded implicitly;
// call LoadState or use sdmgo.Open for that.
func (b Builder) Build() (*SDM, error) {
	cfg := store.Config{
		VectorDim:    b.dimension,
		NumLocations: b.locations,
		AccessRadius: b.radius,
		Sparsity:     b.sparsity,
	}

	var optFns []Option
	if b.codec != nil {
		optFns = append(optFns, WithCodec(b.codec))
	}
	if b.logger != nil {
		optFns = append(optFns, WithLogger(b.logger))
	}
	if b.metrics != nil {
		optFns = append(optFns, WithMetricsCollector(b.metrics))
	}
	if b.randomSeed != nil {
		optFns = append(optFns, WithRandomSeed(*b.randomSeed))
	}

	return newSDM(cfg, b.bs, optFns)
}

// MustBuild creates the SDM instance, panicking on error.
func (b Builder) MustBuild() *SDM {
	db, err := b.Build()
	if err != nil {
		panic(err)
	}
	return db
}
