// Package benchmark sweeps memory-engine configurations under a live
// free-memory ceiling, measures self-recall fidelity, logs every trial
// to a CSV blob and persists the winning configuration.
//
// Three sweeps are provided: a quick sweep over a small grid, a
// comprehensive sweep over the full parameter space, and a memory sweep
// probing how large a store the host can hold. Sweeps run on the
// caller's goroutine and poll the free-memory floor between grid points.
package benchmark

import (
	"context"
	"log/slog"
	"time"

	"golang.org/x/time/rate"

	"github.com/hupe1980/sdmgo/blobstore"
	"github.com/hupe1980/sdmgo/codec"
	"github.com/hupe1980/sdmgo/distance"
	"github.com/hupe1980/sdmgo/persistence"
	"github.com/hupe1980/sdmgo/store"
	"github.com/hupe1980/sdmgo/util"
)

// Well-known blob names for sweep logs and the winning configuration.
const (
	QuickResultsPath         = "sdm_benchmark_results.csv"
	ComprehensiveResultsPath = "sdm_comprehensive_benchmark.csv"
	MemoryTestPath           = "sdm_memory_test.csv"
	OptimalConfigPath        = "sdm_optimal_config.json"
)

// Free-memory floors. The comprehensive and memory sweeps skip a grid
// point whose estimated footprint would push available memory below the
// floor. The quick sweep does not estimate footprints: it runs each point
// and stops once live free memory is below quickFloor.
const (
	quickFloor         = 50 << 10
	comprehensiveFloor = 100 << 10
	memoryFloor        = 50 << 10
	memoryAbortFloor   = 30 << 10
)

// selfRecallWrites is how many times a trial pattern is written before
// reading it back.
const selfRecallWrites = 10

// FallbackConfig is returned by FindOptimalConfig when no persisted
// winner exists. Deliberately conservative so a cold boot on a
// constrained device never over-allocates; most applications override
// it by running a sweep.
var FallbackConfig = store.Config{
	VectorDim:    16,
	NumLocations: 50,
	AccessRadius: 3,
	Sparsity:     0.03,
}

// Options contains optional settings for a Runner.
type Options struct {
	// Codec encodes the persisted optimal configuration.
	Codec codec.Codec
	// Logger receives sweep progress. Defaults to a discarding logger.
	Logger *slog.Logger
	// RandomSeed makes sweeps deterministic. If nil, time-based.
	RandomSeed *int64
	// FreeMemory probes available host memory. Defaults to FreeMemory.
	FreeMemory func() (uint64, error)
}

// Runner executes benchmark sweeps against a blob store.
type Runner struct {
	bs         blobstore.Store
	persist    *persistence.Manager
	logger     *slog.Logger
	freeMemory func() (uint64, error)
	rng        *util.RNG
	progress   rate.Sometimes
}

// NewRunner creates a Runner that logs sweeps to the given blob store.
func NewRunner(bs blobstore.Store, optFns ...func(o *Options)) *Runner {
	opts := Options{
		Codec:      codec.Default,
		Logger:     slog.New(slog.DiscardHandler),
		FreeMemory: FreeMemory,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.DiscardHandler)
	}
	if opts.FreeMemory == nil {
		opts.FreeMemory = FreeMemory
	}

	seed := time.Now().UnixNano()
	if opts.RandomSeed != nil {
		seed = *opts.RandomSeed
	}

	return &Runner{
		bs:         bs,
		persist:    persistence.NewManager(bs, func(o *persistence.Options) { o.Codec = opts.Codec }),
		logger:     opts.Logger,
		freeMemory: opts.FreeMemory,
		rng:        util.NewRNG(seed),
		progress:   rate.Sometimes{First: 1, Interval: time.Second},
	}
}

// trial is the outcome of one self-recall test.
type trial struct {
	match      float64
	confidence float64
	duration   time.Duration
}

// testConfiguration instantiates a fresh store for cfg and runs the
// self-recall fidelity test: per trial, a random sparse pattern is
// written selfRecallWrites times at unit strength and read back; the
// score is the mean agreement ratio.
func (r *Runner) testConfiguration(cfg store.Config, trials int) (trial, error) {
	start := time.Now()

	seed := r.rng.Int63()
	st, err := store.New(cfg, func(o *store.Options) { o.RandomSeed = &seed })
	if err != nil {
		return trial{}, err
	}

	var matchSum, confSum float64
	for range trials {
		v := r.rng.SparseVector(cfg.VectorDim, cfg.Sparsity)
		for range selfRecallWrites {
			if _, err := st.Write(v, 1); err != nil {
				return trial{}, err
			}
		}
		out, conf, err := st.Read(v)
		if err != nil {
			return trial{}, err
		}
		matchSum += distance.Match(v, out)
		confSum += conf
	}

	mean := matchSum / float64(trials)
	st.SetAvgMatchRatio(mean)

	return trial{
		match:      mean,
		confidence: confSum / float64(trials),
		duration:   time.Since(start),
	}, nil
}

// point is one grid entry of a sweep.
type point struct {
	cfg       store.Config
	factor    float64
	reinforce int
}

func gridPoints(dims, locations []int, factors []float64, reinforce []int) []point {
	var points []point
	for _, dim := range dims {
		for _, locs := range locations {
			for _, factor := range factors {
				for _, re := range reinforce {
					points = append(points, point{
						cfg: store.Config{
							VectorDim:    dim,
							NumLocations: locs,
							AccessRadius: int(float64(dim) * factor),
							Sparsity:     store.DefaultConfig.Sparsity,
						},
						factor:    factor,
						reinforce: re,
					})
				}
			}
		}
	}
	return points
}

// RunQuick sweeps a small grid for a fast baseline, logging each trial
// to QuickResultsPath and persisting the winner. The sweep stops early
// when available memory falls below the floor.
func (r *Runner) RunQuick(ctx context.Context) (store.Config, error) {
	points := gridPoints(
		[]int{32, 64},
		[]int{100, 200},
		[]float64{0.2, 0.4, 0.6},
		[]int{5, 15, 30},
	)

	log := newTrialLog(r.bs, QuickResultsPath)
	err := log.header(ctx, "vector_dim", "num_locations", "access_radius", "radius_factor",
		"reinforcement", "match_ratio", "confidence", "duration_ms", "memory_usage")
	if err != nil {
		return store.Config{}, err
	}

	var best store.Config
	bestScore := -1.0

	for i, p := range points {
		if err := ctx.Err(); err != nil {
			return store.Config{}, err
		}

		res, err := r.testConfiguration(p.cfg, 5)
		if err != nil {
			r.logger.Warn("skipping grid point", "error", err, "config", p.cfg)
			continue
		}

		err = log.row(ctx,
			itoa(p.cfg.VectorDim), itoa(p.cfg.NumLocations), itoa(p.cfg.AccessRadius),
			ftoa2(p.factor), itoa(p.reinforce), ftoa(res.match), ftoa2(res.confidence),
			itoa(int(res.duration.Milliseconds())), itoa(p.cfg.EstimatedFootprint()))
		if err != nil {
			return store.Config{}, err
		}

		if res.match > bestScore {
			bestScore = res.match
			best = p.cfg
		}

		r.progress.Do(func() {
			r.logger.Info("quick sweep progress", "point", i+1, "total", len(points), "best", bestScore)
		})

		free, err := r.freeMemory()
		if err == nil && free < quickFloor {
			r.logger.Warn("free memory below floor, stopping sweep", "free", free)
			break
		}
	}

	if bestScore < 0 {
		return store.Config{}, ErrNoTrials
	}
	if err := r.SaveOptimalConfig(ctx, best); err != nil {
		return store.Config{}, err
	}
	r.logger.Info("quick sweep complete", "best_score", bestScore,
		"vector_dim", best.VectorDim, "num_locations", best.NumLocations, "access_radius", best.AccessRadius)
	return best, nil
}

// RunComprehensive sweeps the full parameter grid. Grid points whose
// estimated footprint would push available memory below the floor are
// skipped, not fatal. Each row additionally records live free memory.
func (r *Runner) RunComprehensive(ctx context.Context) (store.Config, error) {
	points := gridPoints(
		[]int{32, 64, 128, 256},
		[]int{500, 1000, 2000},
		[]float64{0.1, 0.2, 0.4, 0.6},
		[]int{1, 5, 10, 20, 30},
	)

	log := newTrialLog(r.bs, ComprehensiveResultsPath)
	err := log.header(ctx, "vector_dim", "num_locations", "access_radius", "radius_factor",
		"reinforcement", "match_ratio", "confidence", "duration_ms", "memory_usage", "free_memory")
	if err != nil {
		return store.Config{}, err
	}

	var best store.Config
	bestScore := -1.0

	for i, p := range points {
		if err := ctx.Err(); err != nil {
			return store.Config{}, err
		}

		free, ferr := r.freeMemory()
		if ferr == nil && uint64(p.cfg.EstimatedFootprint())+comprehensiveFloor > free {
			r.logger.Warn("skipping grid point, insufficient memory",
				"vector_dim", p.cfg.VectorDim, "num_locations", p.cfg.NumLocations, "free", free)
			continue
		}

		res, err := r.testConfiguration(p.cfg, 3)
		if err != nil {
			r.logger.Warn("skipping grid point", "error", err, "config", p.cfg)
			continue
		}

		err = log.row(ctx,
			itoa(p.cfg.VectorDim), itoa(p.cfg.NumLocations), itoa(p.cfg.AccessRadius),
			ftoa2(p.factor), itoa(p.reinforce), ftoa(res.match), ftoa2(res.confidence),
			itoa(int(res.duration.Milliseconds())), itoa(p.cfg.EstimatedFootprint()), utoa(free))
		if err != nil {
			return store.Config{}, err
		}

		if res.match > bestScore {
			bestScore = res.match
			best = p.cfg
		}

		r.progress.Do(func() {
			r.logger.Info("comprehensive sweep progress", "point", i+1, "total", len(points), "best", bestScore)
		})
	}

	if bestScore < 0 {
		return store.Config{}, ErrNoTrials
	}
	if err := r.SaveOptimalConfig(ctx, best); err != nil {
		return store.Config{}, err
	}
	r.logger.Info("comprehensive sweep complete", "best_score", bestScore,
		"vector_dim", best.VectorDim, "num_locations", best.NumLocations, "access_radius", best.AccessRadius)
	return best, nil
}

// RunMemoryConstraint probes how large a store the host can hold,
// recording free memory before and after each instantiation. Once a
// dimension's location ladder fails its guard, larger counts for that
// dimension are not attempted.
func (r *Runner) RunMemoryConstraint(ctx context.Context) error {
	dims := []int{32, 64, 128, 256, 512, 1024}
	locations := []int{100, 500, 1000, 2000, 5000, 8000, 10000}

	log := newTrialLog(r.bs, MemoryTestPath)
	err := log.header(ctx, "vector_dim", "num_locations", "memory_required",
		"free_memory_before", "free_memory_after", "initialization_success", "test_performance")
	if err != nil {
		return err
	}

	for _, dim := range dims {
		for _, locs := range locations {
			if err := ctx.Err(); err != nil {
				return err
			}

			cfg := store.Config{
				VectorDim:    dim,
				NumLocations: locs,
				AccessRadius: dim / 4,
				Sparsity:     store.DefaultConfig.Sparsity,
			}
			required := cfg.EstimatedFootprint()

			freeBefore, ferr := r.freeMemory()
			if ferr != nil {
				return ferr
			}

			success := false
			performance := 0.0
			if uint64(required)+memoryFloor < freeBefore {
				res, err := r.testConfiguration(cfg, 2)
				if err == nil {
					success = true
					performance = res.match
				}
			}

			freeAfter, ferr := r.freeMemory()
			if ferr != nil {
				return ferr
			}

			err = log.row(ctx,
				itoa(dim), itoa(locs), itoa(required), utoa(freeBefore), utoa(freeAfter),
				itoa(boolToInt(success)), ftoa(performance))
			if err != nil {
				return err
			}

			r.progress.Do(func() {
				r.logger.Info("memory sweep progress", "vector_dim", dim, "num_locations", locs, "success", success)
			})

			if !success || freeAfter < memoryAbortFloor {
				r.logger.Warn("memory limit reached", "vector_dim", dim, "num_locations", locs)
				break
			}
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

// FindOptimalConfig returns the persisted winning configuration if one
// exists and parses; otherwise it returns FallbackConfig and writes it
// back, so a constrained device never has to sweep at boot.
func (r *Runner) FindOptimalConfig(ctx context.Context) (store.Config, error) {
	cfg, err := r.persist.LoadConfigFrom(ctx, OptimalConfigPath, FallbackConfig)
	if err == nil {
		return cfg, nil
	}

	r.logger.Info("no optimal config found, using fallback",
		"vector_dim", FallbackConfig.VectorDim, "num_locations", FallbackConfig.NumLocations)
	if err := r.SaveOptimalConfig(ctx, FallbackConfig); err != nil {
		return store.Config{}, err
	}
	return FallbackConfig, nil
}

// SaveOptimalConfig persists the winning configuration.
func (r *Runner) SaveOptimalConfig(ctx context.Context, cfg store.Config) error {
	return r.persist.SaveConfigTo(ctx, OptimalConfigPath, cfg)
}
