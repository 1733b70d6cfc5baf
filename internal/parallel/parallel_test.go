package parallel

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFor_CoversRangeExactlyOnce(t *testing.T) {
	ctx := context.Background()

	for _, tc := range []struct{ n, workers int }{
		{1, 1}, {10, 1}, {10, 3}, {10, 10}, {10, 100}, {7, 4}, {1000, 8},
	} {
		var mu sync.Mutex
		hits := make([]int, tc.n)

		err := For(ctx, tc.n, tc.workers, func(start, end int) error {
			require.LessOrEqual(t, start, end)
			mu.Lock()
			for i := start; i < end; i++ {
				hits[i]++
			}
			mu.Unlock()
			return nil
		})
		require.NoError(t, err)

		for i, h := range hits {
			assert.Equal(t, 1, h, "n=%d workers=%d: index %d hit %d times", tc.n, tc.workers, i, h)
		}
	}
}

func TestFor_BlockSizesDifferByAtMostOne(t *testing.T) {
	ctx := context.Background()

	var mu sync.Mutex
	var sizes []int
	err := For(ctx, 10, 3, func(start, end int) error {
		mu.Lock()
		sizes = append(sizes, end-start)
		mu.Unlock()
		return nil
	})
	require.NoError(t, err)
	require.Len(t, sizes, 3)

	min, max := sizes[0], sizes[0]
	for _, s := range sizes[1:] {
		if s < min {
			min = s
		}
		if s > max {
			max = s
		}
	}
	assert.LessOrEqual(t, max-min, 1)
}

func TestFor_EmptyRange(t *testing.T) {
	called := false
	err := For(context.Background(), 0, 4, func(start, end int) error {
		called = true
		return nil
	})
	require.NoError(t, err)
	assert.False(t, called)
}

func TestFor_SerialRunsOnCallingGoroutine(t *testing.T) {
	var calls atomic.Int64
	err := For(context.Background(), 5, 1, func(start, end int) error {
		calls.Add(1)
		assert.Equal(t, 0, start)
		assert.Equal(t, 5, end)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), calls.Load())
}

func TestFor_PropagatesError(t *testing.T) {
	sentinel := errors.New("block failed")
	err := For(context.Background(), 100, 4, func(start, end int) error {
		if start == 0 {
			return sentinel
		}
		return nil
	})
	assert.ErrorIs(t, err, sentinel)
}

func TestFor_Cancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := For(ctx, 10, 1, func(start, end int) error {
		t.Fatal("fn must not run on a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
