package seed

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/hupe1980/clustergo"
	"github.com/hupe1980/clustergo/distance"
)

// Selector produces k distinct dataset indices to seed a clustering engine.
// The indices serve directly as initial medoids, or their vectors as initial
// means.
type Selector interface {
	Select(ctx context.Context, data clustergo.Dataset, k int, m distance.Metric) ([]int, error)
}

func validate(data clustergo.Dataset, k int) error {
	if k < 1 {
		return clustergo.ErrInvalidK
	}
	if data.Len() < k {
		return fmt.Errorf("%w: n=%d, k=%d", clustergo.ErrTooFewPoints, data.Len(), k)
	}
	return nil
}

// Random selects k distinct indices uniformly at random.
type Random struct {
	// Rand is the randomness source. If nil, a source with a fixed seed is
	// used, making selection deterministic.
	Rand *rand.Rand
}

func (r *Random) Select(_ context.Context, data clustergo.Dataset, k int, _ distance.Metric) ([]int, error) {
	if err := validate(data, k); err != nil {
		return nil, err
	}
	rng := r.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(defaultSeed))
	}
	perm := rng.Perm(data.Len())
	out := make([]int, k)
	copy(out, perm[:k])
	return out, nil
}

// PlusPlus selects indices with the k-means++ strategy: the first uniformly
// at random, each subsequent one with probability proportional to its squared
// distance to the nearest already-chosen seed. Seeds spread out across the
// data, which stabilizes both engines compared to plain random selection.
//
// Ref: Arthur & Vassilvitskii, "k-means++: The Advantages of Careful Seeding".
type PlusPlus struct {
	// Rand is the randomness source. If nil, a source with a fixed seed is
	// used, making selection deterministic.
	Rand *rand.Rand
}

func (p *PlusPlus) Select(ctx context.Context, data clustergo.Dataset, k int, m distance.Metric) ([]int, error) {
	if err := validate(data, k); err != nil {
		return nil, err
	}
	rng := p.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(defaultSeed))
	}

	n := data.Len()
	chosen := make([]int, 0, k)
	chosen = append(chosen, rng.Intn(n))

	// minSq[i] tracks the squared distance from point i to its nearest seed.
	minSq := make([]float64, n)
	for i := range minSq {
		d := m.Distance(data.At(i), data.At(chosen[0]))
		minSq[i] = d * d
	}

	for len(chosen) < k {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		var total float64
		for _, w := range minSq {
			total += w
		}
		if total == 0 {
			// All remaining points coincide with a seed; fall back to the
			// first indices not yet chosen.
			chosen = append(chosen, firstUnchosen(chosen, n))
			continue
		}

		target := rng.Float64() * total
		next := -1
		for i, w := range minSq {
			target -= w
			if target <= 0 && w > 0 {
				next = i
				break
			}
		}
		if next < 0 {
			// Floating-point underrun at the tail of the cumulative scan.
			next = firstUnchosen(chosen, n)
		}

		chosen = append(chosen, next)
		for i := range minSq {
			d := m.Distance(data.At(i), data.At(next))
			if sq := d * d; sq < minSq[i] {
				minSq[i] = sq
			}
		}
	}

	return chosen, nil
}

func firstUnchosen(chosen []int, n int) int {
	taken := make(map[int]bool, len(chosen))
	for _, c := range chosen {
		taken[c] = true
	}
	for i := 0; i < n; i++ {
		if !taken[i] {
			return i
		}
	}
	return 0
}

const defaultSeed int64 = 42
