package kmedoids

import (
	"context"
	"fmt"
	"math"
	"runtime"

	"github.com/hupe1980/clustergo"
	"github.com/hupe1980/clustergo/distance"
	"github.com/hupe1980/clustergo/internal/atomicx"
	"github.com/hupe1980/clustergo/internal/parallel"
)

// Medoid returns the index of the point with the provably lowest total
// distance to all other points of the dataset, together with that total
// (its energy).
//
// It uses the same lower-bound machinery as the clustering engine: every
// candidate carries a lower bound on its energy, and only candidates whose
// bound is still below the best known energy are evaluated exactly. Each
// exact evaluation of candidate i tightens every other candidate j to
// |energy(i) - n*d(i,j)|, so most candidates are never fully evaluated. The
// winner is the candidate whose tracked bound equals the best energy exactly.
//
// workers parallelizes the exact evaluations; <= 1 runs serially. The metric
// must be subadditive and symmetric.
func Medoid(ctx context.Context, data clustergo.Dataset, m distance.Metric, workers int) (int, float64, error) {
	n := data.Len()
	if n < 1 {
		return 0, 0, fmt.Errorf("%w: n=0, k=1", clustergo.ErrTooFewPoints)
	}
	if !m.Subadditive() {
		return 0, 0, clustergo.ErrMetricNotSubadditive
	}
	if !m.Symmetric() {
		return 0, 0, clustergo.ErrMetricNotSymmetric
	}
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	lb := make([]float64, n)
	dists := make([]float64, n)

	bestIdx, bestEnergy := -1, math.Inf(1)

	for i := 0; i < n; i++ {
		if lb[i] >= bestEnergy {
			continue
		}
		if err := ctx.Err(); err != nil {
			return 0, 0, err
		}

		var energy atomicx.Float64
		vec := data.At(i)
		err := parallel.For(ctx, n, workers, func(start, end int) error {
			var sum float64
			for j := start; j < end; j++ {
				dists[j] = m.Distance(vec, data.At(j))
				sum += dists[j]
			}
			energy.Add(sum)
			return nil
		})
		if err != nil {
			return 0, 0, err
		}

		e := energy.Load()
		lb[i] = e

		err = parallel.For(ctx, n, workers, func(start, end int) error {
			for j := start; j < end; j++ {
				if b := math.Abs(e - float64(n)*dists[j]); b > lb[j] {
					lb[j] = b
				}
			}
			return nil
		})
		if err != nil {
			return 0, 0, err
		}

		if e < bestEnergy {
			bestEnergy = e
			bestIdx = i
		}
	}

	return bestIdx, bestEnergy, nil
}
