// Package parallel provides the barrier-join range driver shared by the
// clustering engines: split [0,n) into contiguous near-equal blocks, run one
// worker per block, join before returning.
package parallel

import (
	"context"

	"golang.org/x/sync/errgroup"
)

// For splits [0,n) into at most workers contiguous blocks and invokes fn once
// per block, blocking until every block has finished. Block sizes differ by
// at most one; the remainder goes to the first blocks.
//
// If workers <= 1 or n <= 1, fn is invoked as fn(0, n) on the calling
// goroutine, so the same algorithm code runs identically in serial mode.
// The first non-nil error cancels the group context and is returned.
func For(ctx context.Context, n, workers int, fn func(start, end int) error) error {
	if n <= 0 {
		return nil
	}
	if workers > n {
		workers = n
	}
	if workers <= 1 || n <= 1 {
		if err := ctx.Err(); err != nil {
			return err
		}
		return fn(0, n)
	}

	g, ctx := errgroup.WithContext(ctx)

	base := n / workers
	rem := n % workers

	start := 0
	for w := 0; w < workers; w++ {
		size := base
		if w < rem {
			size++
		}
		s, e := start, start+size
		start = e

		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			return fn(s, e)
		})
	}

	return g.Wait()
}
