package sdmgo

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/hupe1980/sdmgo/blobstore"
	"github.com/hupe1980/sdmgo/library"
	"github.com/hupe1980/sdmgo/persistence"
	"github.com/hupe1980/sdmgo/store"
)

// SDM is an embedded sparse distributed memory engine with optional
// block-device persistence and library management.
//
// SDM is single-threaded: operations are not safe for concurrent use
// and run to completion on the caller's goroutine.
type SDM struct {
	store   *store.Store
	persist *persistence.Manager
	lib     *library.Library
	metrics MetricsCollector
	logger  *Logger
}

// Open loads the device's persisted configuration (soft miss: package
// defaults), constructs a Store from it and soft-loads persisted state.
// This is the boot path of a device that has run before.
func Open(ctx context.Context, bs blobstore.Store, optFns ...Option) (*SDM, error) {
	opts := applyOptions(optFns)

	persist := persistence.NewManager(bs, func(o *persistence.Options) { o.Codec = opts.codec })
	cfg, ok := persist.LoadConfig(ctx, store.DefaultConfig)
	if !ok {
		opts.logger.InfoContext(ctx, "no config on device, using defaults")
	}

	db, err := newSDM(cfg, bs, optFns)
	if err != nil {
		return nil, err
	}

	loaded, err := db.LoadState(ctx)
	if err != nil {
		return nil, err
	}
	db.logger.LogStateLoad(ctx, loaded, nil)
	return db, nil
}

// newSDM is the internal constructor shared by the builder and Open.
func newSDM(cfg store.Config, bs blobstore.Store, optFns []Option) (*SDM, error) {
	opts := applyOptions(optFns)

	var storeOpts []func(o *store.Options)
	if opts.randomSeed != nil {
		storeOpts = append(storeOpts, func(o *store.Options) { o.RandomSeed = opts.randomSeed })
	}

	st, err := store.New(cfg, storeOpts...)
	if err != nil {
		return nil, translateError(err)
	}

	db := &SDM{
		store:   st,
		metrics: opts.metrics,
		logger:  opts.logger,
	}
	if bs != nil {
		db.persist = persistence.NewManager(bs, func(o *persistence.Options) { o.Codec = opts.codec })
		db.lib = library.New(bs, func(o *library.Options) { o.Codec = opts.codec })
	}
	return db, nil
}

// Config returns the engine's configuration.
func (m *SDM) Config() store.Config {
	return m.store.Config()
}

// Stats returns a copy of the engine's statistics.
func (m *SDM) Stats() store.Stats {
	return m.store.Stats()
}

// ResetStats zeroes all statistics.
func (m *SDM) ResetStats() {
	m.store.ResetStats()
}

// MemoryUsage returns the resident byte accounting of the store.
func (m *SDM) MemoryUsage() store.MemoryUsage {
	return m.store.MemoryUsage()
}

// Write distributes v into every hard location within the access
// radius at the given strength. It returns the number of activated
// locations.
func (m *SDM) Write(ctx context.Context, v []byte, strength int) (int, error) {
	start := time.Now()
	activated, err := m.store.Write(v, strength)
	err = translateError(err)
	m.metrics.RecordWrite(time.Since(start), err)
	m.logger.LogWrite(ctx, activated, strength, err)
	return activated, err
}

// ReadResult is the outcome of a read.
type ReadResult struct {
	// Vector is the reconstructed bit-vector; the zero vector when no
	// location activated.
	Vector []byte
	// Confidence is the maximum absolute distance-weighted mean across
	// bit positions; 0 when no location activated.
	Confidence float64
}

// Read returns the vector most consistent with what was previously
// written near q, together with a confidence score.
func (m *SDM) Read(ctx context.Context, q []byte) (ReadResult, error) {
	start := time.Now()
	out, confidence, err := m.store.Read(q)
	err = translateError(err)
	m.metrics.RecordRead(time.Since(start), err)
	m.logger.LogRead(ctx, confidence, err)
	return ReadResult{Vector: out, Confidence: confidence}, err
}

// SaveState persists the counter matrix and access counters.
func (m *SDM) SaveState(ctx context.Context) error {
	if m.persist == nil {
		return ErrNoBlobStore
	}
	start := time.Now()
	err := m.persist.SaveState(ctx, m.store)
	m.metrics.RecordStateSave(time.Since(start), err)
	m.logger.LogStateSave(ctx, err)
	return err
}

// LoadState reloads persisted counters into the engine. A missing state
// blob is a soft miss (false, nil); a dimension mismatch or truncated
// blob is an error and leaves the engine untouched.
func (m *SDM) LoadState(ctx context.Context) (bool, error) {
	if m.persist == nil {
		return false, ErrNoBlobStore
	}
	start := time.Now()
	loaded, err := m.persist.LoadState(ctx, m.store)
	m.metrics.RecordStateLoad(time.Since(start), err)
	m.logger.LogStateLoad(ctx, loaded, err)
	return loaded, err
}

// SaveConfig persists the active configuration document.
func (m *SDM) SaveConfig(ctx context.Context) error {
	if m.persist == nil {
		return ErrNoBlobStore
	}
	return m.persist.SaveConfig(ctx, m.store.Config())
}

// SaveStats persists the statistics document.
func (m *SDM) SaveStats(ctx context.Context) error {
	if m.persist == nil {
		return ErrNoBlobStore
	}
	return m.persist.SaveStats(ctx, m.store.Stats())
}

// Flush persists configuration, state and statistics. The first error
// is returned but later steps still run.
func (m *SDM) Flush(ctx context.Context) error {
	if m.persist == nil {
		return ErrNoBlobStore
	}

	var firstErr error
	if err := m.SaveConfig(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := m.SaveState(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := m.SaveStats(ctx); err != nil && firstErr == nil {
		firstErr = err
	}
	m.logger.LogFlush(ctx, firstErr)
	return firstErr
}

// MergeLibrary replays a named library's vectors into the engine.
// Returns the number of vectors merged.
func (m *SDM) MergeLibrary(ctx context.Context, name string, optFns ...func(o *library.MergeOptions)) (int, error) {
	if m.lib == nil {
		return 0, ErrNoBlobStore
	}
	start := time.Now()
	count, err := m.lib.Merge(ctx, name, m.store, optFns...)
	err = translateError(err)
	m.metrics.RecordMerge(count, time.Since(start), err)
	m.logger.LogMerge(ctx, name, count, err)
	return count, err
}

// SaveLibrary freezes the engine's frequently accessed patterns into a
// named library on the device.
func (m *SDM) SaveLibrary(ctx context.Context, name string) error {
	if m.lib == nil {
		return ErrNoBlobStore
	}
	return m.lib.SaveFromStore(ctx, name, m.store)
}

// ListLibraries enumerates the libraries on the device.
func (m *SDM) ListLibraries(ctx context.Context) ([]library.Info, error) {
	if m.lib == nil {
		return nil, ErrNoBlobStore
	}
	return m.lib.List(ctx)
}

// ExportLibrary writes a named library as a compressed archive stream.
func (m *SDM) ExportLibrary(ctx context.Context, name string, w io.Writer) error {
	if m.lib == nil {
		return ErrNoBlobStore
	}
	return m.lib.Export(ctx, name, w)
}

// ImportLibrary restores a library from a compressed archive stream.
func (m *SDM) ImportLibrary(ctx context.Context, name string, r io.Reader) error {
	if m.lib == nil {
		return ErrNoBlobStore
	}
	return m.lib.Import(ctx, name, r)
}

// Libraries exposes the library helper for advanced use (seeding,
// direct save/load). Returns an error when no block device is attached.
func (m *SDM) Libraries() (*library.Library, error) {
	if m.lib == nil {
		return nil, ErrNoBlobStore
	}
	return m.lib, nil
}

// String implements fmt.Stringer for debugging.
func (m *SDM) String() string {
	cfg := m.store.Config()
	return fmt.Sprintf("sdm(%dx%d r=%d s=%g)", cfg.NumLocations, cfg.VectorDim, cfg.AccessRadius, cfg.Sparsity)
}
