// Package store implements the sparse distributed memory kernel: a pool
// of fixed random hard locations with signed counter arrays, written and
// read by Hamming-radius activation.
package store

import (
	"math"
	"time"

	"github.com/hupe1980/sdmgo/distance"
	"github.com/hupe1980/sdmgo/util"
)

const (
	counterMax = math.MaxInt16
	counterMin = math.MinInt16
	accessMax  = math.MaxUint16
)

// Options contains optional settings for a Store.
type Options struct {
	// RandomSeed sets the seed used to sample hard-location addresses.
	// If nil, a time-based seed is used.
	RandomSeed *int64
}

// Store owns the hard-location address table, the counter matrix and the
// per-location access counters. It is not safe for concurrent use; all
// operations run to completion on the caller's goroutine.
type Store struct {
	cfg       Config
	addresses [][]byte
	counters  [][]int16
	access    []uint16
	stats     Stats
	rng       *util.RNG

	// scratch holds per-read weighted sums; allocated once, length D.
	scratch []float64
}

// New constructs and initialises a Store: addresses are sampled at the
// configured sparsity, counters and access counts start at zero.
func New(cfg Config, optFns ...func(o *Options)) (*Store, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	var opts Options
	for _, fn := range optFns {
		fn(&opts)
	}

	seed := time.Now().UnixNano()
	if opts.RandomSeed != nil {
		seed = *opts.RandomSeed
	}
	rng := util.NewRNG(seed)

	s := &Store{
		cfg:       cfg,
		addresses: make([][]byte, cfg.NumLocations),
		counters:  make([][]int16, cfg.NumLocations),
		access:    make([]uint16, cfg.NumLocations),
		rng:       rng,
		scratch:   make([]float64, cfg.VectorDim),
	}
	for i := range s.addresses {
		s.addresses[i] = rng.SparseVector(cfg.VectorDim, cfg.Sparsity)
		s.counters[i] = make([]int16, cfg.VectorDim)
	}
	return s, nil
}

// Config returns the Store's configuration.
func (s *Store) Config() Config {
	return s.cfg
}

// Stats returns a copy of the current statistics.
func (s *Store) Stats() Stats {
	return s.stats
}

// ResetStats zeroes all statistics.
func (s *Store) ResetStats() {
	s.stats = Stats{}
}

// SetAvgMatchRatio records a benchmark's mean self-recall score.
func (s *Store) SetAvgMatchRatio(v float64) {
	s.stats.AvgMatchRatio = v
}

// Write distributes v into every location within the access radius,
// adding strength to counters at one-positions and subtracting it at
// zero-positions, saturating at the int16 range. It returns the number
// of activated locations.
func (s *Store) Write(v []byte, strength int) (int, error) {
	if len(v) != s.cfg.VectorDim {
		return 0, &ErrDimensionMismatch{Expected: s.cfg.VectorDim, Actual: len(v)}
	}
	if strength < 1 {
		return 0, ErrInvalidStrength
	}

	activated := 0
	for i := range s.addresses {
		if distance.Hamming(v, s.addresses[i]) > s.cfg.AccessRadius {
			continue
		}
		activated++
		if s.access[i] < accessMax {
			s.access[i]++
		}

		row := s.counters[i]
		for j, bit := range v {
			c := int(row[j])
			if bit == 1 {
				c += strength
			} else {
				c -= strength
			}
			if c > counterMax {
				c = counterMax
			} else if c < counterMin {
				c = counterMin
			}
			row[j] = int16(c)
		}
	}

	s.stats.TotalWrites++
	s.stats.LastActivated = activated
	return activated, nil
}

// Read reconstructs the vector most consistent with what was written
// near q: activated locations vote with weight 1/(1+hamming), the
// distance-weighted mean is thresholded at zero, and the confidence is
// the maximum absolute mean across bit positions.
//
// When no location activates, Read returns the zero vector and
// confidence 0.
func (s *Store) Read(q []byte) ([]byte, float64, error) {
	if len(q) != s.cfg.VectorDim {
		return nil, 0, &ErrDimensionMismatch{Expected: s.cfg.VectorDim, Actual: len(q)}
	}

	total := s.scratch
	for j := range total {
		total[j] = 0
	}

	var totalWeight float64
	activated := 0
	for i := range s.addresses {
		d := distance.Hamming(q, s.addresses[i])
		if d > s.cfg.AccessRadius {
			continue
		}
		activated++

		w := 1.0 / (1.0 + float64(d))
		totalWeight += w
		row := s.counters[i]
		for j := range total {
			total[j] += w * float64(row[j])
		}
	}

	out := make([]byte, s.cfg.VectorDim)
	if activated == 0 {
		s.stats.TotalReads++
		s.stats.LastConfidence = 0
		return out, 0, nil
	}

	var maxConfidence float64
	for j := range total {
		mu := total[j] / totalWeight
		if mu > 0 {
			out[j] = 1
		}
		if abs := math.Abs(mu); abs > maxConfidence {
			maxConfidence = abs
		}
	}

	s.stats.TotalReads++
	s.stats.LastConfidence = maxConfidence
	return out, maxConfidence, nil
}

// Pattern is a sign-of-counter snapshot of one frequently used location.
type Pattern struct {
	Vector      []byte
	Index       int
	AccessCount int
}

// Extract returns the counter sign pattern of every location whose
// access count exceeds minAccess.
func (s *Store) Extract(minAccess int) []Pattern {
	var patterns []Pattern
	for i, row := range s.counters {
		if int(s.access[i]) <= minAccess {
			continue
		}
		v := make([]byte, s.cfg.VectorDim)
		for j, c := range row {
			if c > 0 {
				v[j] = 1
			}
		}
		patterns = append(patterns, Pattern{
			Vector:      v,
			Index:       i,
			AccessCount: int(s.access[i]),
		})
	}
	return patterns
}

// Snapshot returns copies of the access counters and the counter matrix,
// in location order.
func (s *Store) Snapshot() (access []uint16, counters [][]int16) {
	access = make([]uint16, len(s.access))
	copy(access, s.access)

	counters = make([][]int16, len(s.counters))
	for i, row := range s.counters {
		counters[i] = make([]int16, len(row))
		copy(counters[i], row)
	}
	return access, counters
}

// Restore replaces the access counters and counter matrix with the given
// state. Shapes are validated before anything is copied, so a failed
// Restore leaves the Store untouched.
func (s *Store) Restore(access []uint16, counters [][]int16) error {
	if len(access) != s.cfg.NumLocations || len(counters) != s.cfg.NumLocations {
		return &ErrShapeMismatch{
			WantLocations: s.cfg.NumLocations,
			WantDim:       s.cfg.VectorDim,
			GotLocations:  len(counters),
			GotDim:        s.cfg.VectorDim,
		}
	}
	for _, row := range counters {
		if len(row) != s.cfg.VectorDim {
			return &ErrShapeMismatch{
				WantLocations: s.cfg.NumLocations,
				WantDim:       s.cfg.VectorDim,
				GotLocations:  len(counters),
				GotDim:        len(row),
			}
		}
	}

	copy(s.access, access)
	for i, row := range counters {
		copy(s.counters[i], row)
	}
	return nil
}

// MemoryUsage reports the byte accounting of the Store's matrices.
type MemoryUsage struct {
	AddressBytes int
	CounterBytes int
	AccessBytes  int
	TotalBytes   int
}

// MemoryUsage returns the resident byte accounting of the Store.
func (s *Store) MemoryUsage() MemoryUsage {
	u := MemoryUsage{
		AddressBytes: s.cfg.NumLocations * s.cfg.VectorDim,
		CounterBytes: s.cfg.NumLocations * s.cfg.VectorDim * 2,
		AccessBytes:  s.cfg.NumLocations * 2,
	}
	u.TotalBytes = u.AddressBytes + u.CounterBytes + u.AccessBytes
	return u
}
