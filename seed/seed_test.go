package seed

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/clustergo"
	"github.com/hupe1980/clustergo/distance"
)

func dataset(t *testing.T, rows [][]float64) clustergo.Dataset {
	t.Helper()
	data, err := clustergo.NewSliceDataset(rows)
	require.NoError(t, err)
	return data
}

func assertDistinctInRange(t *testing.T, idx []int, k, n int) {
	t.Helper()
	require.Len(t, idx, k)
	seen := make(map[int]bool, k)
	for _, i := range idx {
		assert.GreaterOrEqual(t, i, 0)
		assert.Less(t, i, n)
		assert.False(t, seen[i], "duplicate index %d", i)
		seen[i] = true
	}
}

func TestRandom_Select(t *testing.T) {
	ctx := context.Background()
	data := dataset(t, [][]float64{{0}, {1}, {2}, {3}, {4}, {5}})

	r := &Random{Rand: rand.New(rand.NewSource(1))}
	idx, err := r.Select(ctx, data, 3, distance.Euclidean{})
	require.NoError(t, err)
	assertDistinctInRange(t, idx, 3, data.Len())
}

func TestRandom_DeterministicWithoutRand(t *testing.T) {
	ctx := context.Background()
	data := dataset(t, [][]float64{{0}, {1}, {2}, {3}, {4}})

	a, err := (&Random{}).Select(ctx, data, 2, distance.Euclidean{})
	require.NoError(t, err)
	b, err := (&Random{}).Select(ctx, data, 2, distance.Euclidean{})
	require.NoError(t, err)
	assert.Equal(t, a, b)
}

func TestPlusPlus_Select(t *testing.T) {
	ctx := context.Background()
	data := dataset(t, [][]float64{
		{0, 0}, {0.1, 0}, {0, 0.1},
		{50, 50}, {50.1, 50}, {50, 50.1},
		{-50, 50}, {-50.1, 50}, {-50, 50.1},
	})

	// With blobs this far apart, D^2 weighting lands one seed per blob.
	p := &PlusPlus{Rand: rand.New(rand.NewSource(7))}
	idx, err := p.Select(ctx, data, 3, distance.Euclidean{})
	require.NoError(t, err)
	assertDistinctInRange(t, idx, 3, data.Len())

	blobsHit := map[int]bool{}
	for _, i := range idx {
		blobsHit[i/3] = true
	}
	assert.Len(t, blobsHit, 3, "expected one seed per blob, got %v", idx)
}

func TestPlusPlus_DuplicatePoints(t *testing.T) {
	ctx := context.Background()

	// All points coincide: D^2 mass is zero after the first seed, so the
	// fallback must still produce k distinct indices.
	data := dataset(t, [][]float64{{1, 1}, {1, 1}, {1, 1}, {1, 1}})

	p := &PlusPlus{Rand: rand.New(rand.NewSource(1))}
	idx, err := p.Select(ctx, data, 3, distance.Euclidean{})
	require.NoError(t, err)
	assertDistinctInRange(t, idx, 3, data.Len())
}

func TestSelect_Validation(t *testing.T) {
	ctx := context.Background()
	data := dataset(t, [][]float64{{0}, {1}})

	for _, s := range []Selector{&Random{}, &PlusPlus{}} {
		_, err := s.Select(ctx, data, 0, distance.Euclidean{})
		assert.ErrorIs(t, err, clustergo.ErrInvalidK)

		_, err = s.Select(ctx, data, 3, distance.Euclidean{})
		assert.ErrorIs(t, err, clustergo.ErrTooFewPoints)
	}
}

func TestPlusPlus_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	data := dataset(t, [][]float64{{0}, {1}, {2}, {3}})
	_, err := (&PlusPlus{}).Select(ctx, data, 3, distance.Euclidean{})
	assert.ErrorIs(t, err, context.Canceled)
}
