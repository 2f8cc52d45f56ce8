package benchmark

import (
	"context"
	"errors"
	"fmt"

	"github.com/hupe1980/sdmgo/distance"
	"github.com/hupe1980/sdmgo/store"
)

// ErrNoTrials is returned when a sweep completes without a single
// successful trial.
var ErrNoTrials = errors.New("no trials completed")

// ErrNoPatterns is returned when a radius search is given no patterns.
var ErrNoPatterns = errors.New("no patterns to evaluate")

// RadiusScore is the self-recall score of one candidate radius.
type RadiusScore struct {
	Radius int
	Score  float64
}

// RadiusResult is the outcome of a radius search.
type RadiusResult struct {
	BestRadius int
	BestScore  float64
	Scores     []RadiusScore
}

// RadiusSearch brute-forces the access radius over [minRadius,
// maxRadius] for the given base configuration: each candidate radius
// gets a fresh store, the caller's patterns are written and read back,
// and the radius with the highest mean agreement wins.
//
// Patterns must match the configured dimension.
func (r *Runner) RadiusSearch(ctx context.Context, cfg store.Config, patterns [][]byte, minRadius, maxRadius int) (RadiusResult, error) {
	if len(patterns) == 0 {
		return RadiusResult{}, ErrNoPatterns
	}
	if minRadius < 0 || maxRadius > cfg.VectorDim || minRadius > maxRadius {
		return RadiusResult{}, fmt.Errorf("%w: radius range [%d,%d] invalid for dimension %d",
			store.ErrInvalidConfig, minRadius, maxRadius, cfg.VectorDim)
	}

	result := RadiusResult{BestScore: -1}
	for radius := minRadius; radius <= maxRadius; radius++ {
		if err := ctx.Err(); err != nil {
			return RadiusResult{}, err
		}

		candidate := cfg
		candidate.AccessRadius = radius

		seed := r.rng.Int63()
		st, err := store.New(candidate, func(o *store.Options) { o.RandomSeed = &seed })
		if err != nil {
			return RadiusResult{}, err
		}

		var matchSum float64
		for _, p := range patterns {
			for range selfRecallWrites {
				if _, err := st.Write(p, 1); err != nil {
					return RadiusResult{}, err
				}
			}
			out, _, err := st.Read(p)
			if err != nil {
				return RadiusResult{}, err
			}
			matchSum += distance.Match(p, out)
		}

		score := matchSum / float64(len(patterns))
		result.Scores = append(result.Scores, RadiusScore{Radius: radius, Score: score})
		if score > result.BestScore {
			result.BestScore = score
			result.BestRadius = radius
		}

		r.progress.Do(func() {
			r.logger.Info("radius search progress", "radius", radius, "score", score)
		})
	}
	return result, nil
}
