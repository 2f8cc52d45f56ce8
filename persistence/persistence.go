// Package persistence serialises the memory engine's state,
// configuration and statistics to a block device and reloads them with
// dimension validation.
//
// Configuration and statistics are codec documents (JSON by default);
// counter state is a fixed little-endian binary blob. Optional inputs
// miss softly: an absent state file, or an absent or unparseable config
// or stats document, keeps the in-memory defaults. A truncated state
// file or one whose header dimensions differ is an error, and explicit
// loads fail hard.
package persistence

import (
	"context"
	"encoding/binary"
	"errors"
	"time"

	"github.com/hupe1980/sdmgo/blobstore"
	"github.com/hupe1980/sdmgo/codec"
	"github.com/hupe1980/sdmgo/store"
)

// Options contains optional settings for a Manager.
type Options struct {
	// Codec encodes config/stats documents. Defaults to codec.Default.
	Codec codec.Codec
}

// Manager persists Store state to a blob store.
type Manager struct {
	bs    blobstore.Store
	codec codec.Codec
}

// NewManager creates a Manager over the given blob store.
func NewManager(bs blobstore.Store, optFns ...func(o *Options)) *Manager {
	opts := Options{
		Codec: codec.Default,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Codec == nil {
		opts.Codec = codec.Default
	}
	return &Manager{bs: bs, codec: opts.Codec}
}

// configDoc is the on-device configuration document. Pointer fields let
// a partial document fall back to the current in-memory values.
type configDoc struct {
	VectorDim    *int     `json:"vector_dim,omitempty" yaml:"vector_dim,omitempty"`
	NumLocations *int     `json:"num_locations,omitempty" yaml:"num_locations,omitempty"`
	AccessRadius *int     `json:"access_radius,omitempty" yaml:"access_radius,omitempty"`
	Sparsity     *float64 `json:"sparsity,omitempty" yaml:"sparsity,omitempty"`
	Timestamp    int64    `json:"timestamp" yaml:"timestamp"`
}

// SaveConfig writes the configuration document to ConfigPath.
func (m *Manager) SaveConfig(ctx context.Context, cfg store.Config) error {
	return m.SaveConfigTo(ctx, ConfigPath, cfg)
}

// SaveConfigTo writes a configuration document to an arbitrary blob.
func (m *Manager) SaveConfigTo(ctx context.Context, name string, cfg store.Config) error {
	doc := configDoc{
		VectorDim:    &cfg.VectorDim,
		NumLocations: &cfg.NumLocations,
		AccessRadius: &cfg.AccessRadius,
		Sparsity:     &cfg.Sparsity,
		Timestamp:    time.Now().UnixMilli(),
	}
	data, err := m.codec.Marshal(doc)
	if err != nil {
		return err
	}
	return m.bs.Put(ctx, name, data)
}

// LoadConfig reads the configuration document at ConfigPath. A missing,
// unparseable or invalid document is a soft miss: the fallback is
// returned unchanged with ok=false. Fields absent from the document keep
// the fallback's values.
func (m *Manager) LoadConfig(ctx context.Context, fallback store.Config) (cfg store.Config, ok bool) {
	loaded, err := m.LoadConfigFrom(ctx, ConfigPath, fallback)
	if err != nil {
		return fallback, false
	}
	return loaded, true
}

// LoadConfigFrom reads a configuration document from an arbitrary blob,
// merging missing fields from fallback. Unlike LoadConfig, failures are
// surfaced to the caller.
func (m *Manager) LoadConfigFrom(ctx context.Context, name string, fallback store.Config) (store.Config, error) {
	data, err := m.bs.Get(ctx, name)
	if err != nil {
		return fallback, err
	}

	var doc configDoc
	if err := m.codec.Unmarshal(data, &doc); err != nil {
		return fallback, err
	}

	cfg := fallback
	if doc.VectorDim != nil {
		cfg.VectorDim = *doc.VectorDim
	}
	if doc.NumLocations != nil {
		cfg.NumLocations = *doc.NumLocations
	}
	if doc.AccessRadius != nil {
		cfg.AccessRadius = *doc.AccessRadius
	}
	if doc.Sparsity != nil {
		cfg.Sparsity = *doc.Sparsity
	}
	if err := cfg.Validate(); err != nil {
		return fallback, err
	}
	return cfg, nil
}

// SaveState writes the counter matrix and access counters to StatePath
// in the little-endian binary layout.
func (m *Manager) SaveState(ctx context.Context, st *store.Store) error {
	cfg := st.Config()
	access, counters := st.Snapshot()

	buf := make([]byte, stateHeaderSize+2*cfg.NumLocations+2*cfg.NumLocations*cfg.VectorDim)
	binary.LittleEndian.PutUint16(buf[0:2], uint16(cfg.NumLocations))
	binary.LittleEndian.PutUint16(buf[2:4], uint16(cfg.VectorDim))

	off := stateHeaderSize
	for _, a := range access {
		binary.LittleEndian.PutUint16(buf[off:], a)
		off += 2
	}
	for _, row := range counters {
		for _, c := range row {
			binary.LittleEndian.PutUint16(buf[off:], uint16(c))
			off += 2
		}
	}

	return m.bs.Put(ctx, StatePath, buf)
}

// LoadState reads StatePath and restores it into st. A missing blob is a
// soft miss: (false, nil). A header mismatch or truncated blob fails
// without mutating the Store.
func (m *Manager) LoadState(ctx context.Context, st *store.Store) (bool, error) {
	data, err := m.bs.Get(ctx, StatePath)
	if err != nil {
		if errors.Is(err, blobstore.ErrNotFound) {
			return false, nil
		}
		return false, err
	}

	cfg := st.Config()
	if len(data) < stateHeaderSize {
		return false, ErrTruncated
	}
	gotLocations := int(binary.LittleEndian.Uint16(data[0:2]))
	gotDim := int(binary.LittleEndian.Uint16(data[2:4]))
	if gotLocations != cfg.NumLocations || gotDim != cfg.VectorDim {
		return false, &ErrStateMismatch{
			WantLocations: cfg.NumLocations,
			WantDim:       cfg.VectorDim,
			GotLocations:  gotLocations,
			GotDim:        gotDim,
		}
	}

	want := stateHeaderSize + 2*gotLocations + 2*gotLocations*gotDim
	if len(data) < want {
		return false, ErrTruncated
	}

	access := make([]uint16, gotLocations)
	off := stateHeaderSize
	for i := range access {
		access[i] = binary.LittleEndian.Uint16(data[off:])
		off += 2
	}
	counters := make([][]int16, gotLocations)
	for i := range counters {
		row := make([]int16, gotDim)
		for j := range row {
			row[j] = int16(binary.LittleEndian.Uint16(data[off:]))
			off += 2
		}
		counters[i] = row
	}

	if err := st.Restore(access, counters); err != nil {
		return false, err
	}
	return true, nil
}

// statsDoc is the on-device statistics document.
type statsDoc struct {
	TotalWrites    uint64  `json:"total_writes" yaml:"total_writes"`
	TotalReads     uint64  `json:"total_reads" yaml:"total_reads"`
	LastConfidence float64 `json:"last_confidence" yaml:"last_confidence"`
	LastActivated  int     `json:"last_activated_locations" yaml:"last_activated_locations"`
	AvgMatchRatio  float64 `json:"avg_match_ratio" yaml:"avg_match_ratio"`
	Timestamp      int64   `json:"timestamp" yaml:"timestamp"`
}

// SaveStats writes the statistics document to StatsPath.
func (m *Manager) SaveStats(ctx context.Context, stats store.Stats) error {
	doc := statsDoc{
		TotalWrites:    stats.TotalWrites,
		TotalReads:     stats.TotalReads,
		LastConfidence: stats.LastConfidence,
		LastActivated:  stats.LastActivated,
		AvgMatchRatio:  stats.AvgMatchRatio,
		Timestamp:      time.Now().UnixMilli(),
	}
	data, err := m.codec.Marshal(doc)
	if err != nil {
		return err
	}
	return m.bs.Put(ctx, StatsPath, data)
}

// LoadStats reads the statistics document at StatsPath. A missing or
// unparseable document is a soft miss: (zero, false).
func (m *Manager) LoadStats(ctx context.Context) (store.Stats, bool) {
	data, err := m.bs.Get(ctx, StatsPath)
	if err != nil {
		return store.Stats{}, false
	}
	var doc statsDoc
	if err := m.codec.Unmarshal(data, &doc); err != nil {
		return store.Stats{}, false
	}
	return store.Stats{
		TotalWrites:    doc.TotalWrites,
		TotalReads:     doc.TotalReads,
		LastConfidence: doc.LastConfidence,
		LastActivated:  doc.LastActivated,
		AvgMatchRatio:  doc.AvgMatchRatio,
	}, true
}
