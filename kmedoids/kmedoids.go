package kmedoids

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/clustergo"
	"github.com/hupe1980/clustergo/distance"
	"github.com/hupe1980/clustergo/internal/atomicx"
	"github.com/hupe1980/clustergo/internal/parallel"
	"github.com/hupe1980/clustergo/seed"
)

// Result contains the output of a clustering run.
type Result struct {
	// Assignments maps each point to its cluster in [0, k).
	Assignments []int

	// Medoids holds the final medoid of every cluster as a dataset index.
	Medoids []int

	// Cost is the sum of exact distances from each point to its assigned
	// medoid.
	Cost float64

	// SquaredCost is the sum of squared distances from each point to its
	// assigned medoid.
	SquaredCost float64

	// Iterations is the number of outer iterations performed.
	Iterations int

	// Converged reports whether a full pass changed neither a medoid nor an
	// assignment before the iteration cap.
	Converged bool
}

// TriKMeds is a bounded k-medoids engine. It is immutable after New; every
// Cluster call allocates fresh bound/assignment state, so a single engine may
// run concurrent clusterings.
type TriKMeds struct {
	data clustergo.Dataset
	k    int
	opts options
}

// New validates the configuration and returns a ready engine. Configuration
// errors (k < 1, fewer points than clusters, a metric that is not subadditive
// and symmetric, malformed initial medoids) abort here, before any clustering
// state is allocated.
func New(data clustergo.Dataset, k int, optFns ...Option) (*TriKMeds, error) {
	opts := options{
		metric:  distance.Euclidean{},
		maxIter: defaultMaxIterations,
		logger:  clustergo.NoopLogger(),
		stats:   clustergo.NopStatsCollector{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.selector == nil {
		opts.selector = &seed.PlusPlus{Rand: opts.rand}
	}
	if opts.indexed == nil {
		opts.indexed = distance.Indexed(data, opts.metric)
	}

	if k < 1 {
		return nil, clustergo.ErrInvalidK
	}
	if data.Len() < k {
		return nil, fmt.Errorf("%w: n=%d, k=%d", clustergo.ErrTooFewPoints, data.Len(), k)
	}
	if !opts.metric.Subadditive() {
		return nil, clustergo.ErrMetricNotSubadditive
	}
	if !opts.metric.Symmetric() {
		return nil, clustergo.ErrMetricNotSymmetric
	}
	if opts.initial != nil {
		if len(opts.initial) != k {
			return nil, fmt.Errorf("kmedoids: got %d initial medoids, want %d", len(opts.initial), k)
		}
		seen := make(map[int]bool, k)
		for _, idx := range opts.initial {
			if idx < 0 || idx >= data.Len() {
				return nil, fmt.Errorf("kmedoids: initial medoid %d out of range [0, %d)", idx, data.Len())
			}
			if seen[idx] {
				return nil, fmt.Errorf("kmedoids: duplicate initial medoid %d", idx)
			}
			seen[idx] = true
		}
	}

	return &TriKMeds{data: data, k: k, opts: opts}, nil
}

// state holds all per-call mutable clustering state.
//
// The assignment array a is the sole authoritative ownership record; the
// ownedBy bitmaps are derived from it before every update-medoids phase and
// are read-only while that phase runs.
type state struct {
	a  []int                 // a[i]: assigned cluster of point i
	d  []float64             // d[i]: exact distance from i to its medoid
	ls *atomicx.Float64Slice // ls[i]: lower bound on i's candidate energy
	lc []float64             // lc[i*k+c]: lower bound on distance from i to medoid of c

	moved []bool // moved[i]: point i changed cluster this round

	m       []int                 // m[c]: medoid of cluster c (a dataset index)
	v       []atomic.Int64        // v[c]: member count of cluster c
	s       *atomicx.Float64Slice // s[c]: sum of in-cluster distances to m[c]
	p       []float64             // p[c]: accumulated medoid movement this round
	ownedBy []*roaring.Bitmap     // derived member sets, rebuilt per phase
	locks   []sync.Mutex          // per-cluster medoid promotion locks

	// per-phase reassignment aggregates
	dnIn, dnOut []atomic.Int64
	dsIn, dsOut *atomicx.Float64Slice

	evals atomic.Int64 // exact distance evaluations this pass
}

// Cluster runs the two-phase bounded loop until a full pass changes nothing
// or the iteration cap is reached.
func (t *TriKMeds) Cluster(ctx context.Context) (*Result, error) {
	workers := t.opts.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := t.opts.logger.WithAlgorithm("trikmeds").WithN(t.data.Len()).WithK(t.k)

	st, err := t.initState(ctx, workers)
	if err != nil {
		return nil, err
	}

	iter := 0
	converged := false
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if t.opts.maxIter > 0 && iter >= t.opts.maxIter {
			break
		}
		iter++

		t.rebuildOwnership(st)

		promoted, err := t.updateMedoids(ctx, st, workers)
		if err != nil {
			return nil, err
		}

		reassigned, err := t.assignToClusters(ctx, st, workers)
		if err != nil {
			return nil, err
		}

		t.opts.stats.RecordIteration(reassigned)
		t.opts.stats.RecordDistanceEvals(st.evals.Swap(0))
		logger.LogIteration(ctx, iter, reassigned)

		if promoted == 0 && reassigned == 0 {
			converged = true
			break
		}
	}

	var cost, squared float64
	for i := range st.d {
		cost += st.d[i]
		squared += st.d[i] * st.d[i]
	}

	t.opts.stats.RecordRun(iter, converged, cost)
	logger.LogConverged(ctx, iter, converged, cost)

	return &Result{
		Assignments: st.a,
		Medoids:     st.m,
		Cost:        cost,
		SquaredCost: squared,
		Iterations:  iter,
		Converged:   converged,
	}, nil
}

// initState seeds the medoids, assigns every point to its nearest medoid
// with exact distances, and derives the initial aggregates and energy bounds.
func (t *TriKMeds) initState(ctx context.Context, workers int) (*state, error) {
	n := t.data.Len()

	st := &state{
		a:       make([]int, n),
		d:       make([]float64, n),
		ls:      atomicx.NewFloat64Slice(n),
		lc:      make([]float64, n*t.k),
		moved:   make([]bool, n),
		m:       make([]int, t.k),
		v:       make([]atomic.Int64, t.k),
		s:       atomicx.NewFloat64Slice(t.k),
		p:       make([]float64, t.k),
		ownedBy: make([]*roaring.Bitmap, t.k),
		locks:   make([]sync.Mutex, t.k),
		dnIn:    make([]atomic.Int64, t.k),
		dnOut:   make([]atomic.Int64, t.k),
		dsIn:    atomicx.NewFloat64Slice(t.k),
		dsOut:   atomicx.NewFloat64Slice(t.k),
	}

	if t.opts.initial != nil {
		copy(st.m, t.opts.initial)
	} else {
		idx, err := t.opts.selector.Select(ctx, t.data, t.k, t.opts.metric)
		if err != nil {
			return nil, err
		}
		copy(st.m, idx)
	}

	err := parallel.For(ctx, n, workers, func(start, end int) error {
		for i := start; i < end; i++ {
			best, bestDist := 0, math.Inf(1)
			for c := 0; c < t.k; c++ {
				dist := t.opts.indexed.DistanceIdx(i, st.m[c])
				st.lc[i*t.k+c] = dist
				if dist < bestDist {
					bestDist = dist
					best = c
				}
			}
			st.a[i] = best
			st.d[i] = bestDist
			st.v[best].Add(1)
			st.s.Add(best, bestDist)
		}
		st.evals.Add(int64((end - start) * t.k))
		return nil
	})
	if err != nil {
		return nil, err
	}

	// ls[i] = |s[c] - v[c]*d[i]| is the subadditivity-derived lower bound on
	// the energy i would have as medoid of its cluster. Needs the final
	// aggregates, hence the second pass.
	err = parallel.For(ctx, n, workers, func(start, end int) error {
		for i := start; i < end; i++ {
			c := st.a[i]
			st.ls.Store(i, math.Abs(st.s.Load(c)-float64(st.v[c].Load())*st.d[i]))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// rebuildOwnership re-derives the per-cluster member bitmaps from the
// authoritative assignment array. The bitmaps stay read-only until the next
// rebuild, so the update-medoids phase can iterate them without locks.
func (t *TriKMeds) rebuildOwnership(st *state) {
	for c := range st.ownedBy {
		st.ownedBy[c] = roaring.New()
	}
	for i, c := range st.a {
		st.ownedBy[c].Add(uint32(i))
	}
}

// updateMedoids is Phase A: every point whose energy bound does not rule it
// out is evaluated exactly as a replacement medoid for its own cluster.
// Promotion is double-checked under the cluster lock because a concurrent
// candidate may have lowered s[c] between the unlocked test and the commit.
// Win or lose, the exact distances tighten every member's energy bound.
func (t *TriKMeds) updateMedoids(ctx context.Context, st *state, workers int) (int, error) {
	var promoted atomic.Int64

	err := parallel.For(ctx, t.data.Len(), workers, func(start, end int) error {
		var blockEvals int64
		var members []uint32
		var dists []float64

		for i := start; i < end; i++ {
			c := st.a[i]
			if st.ls.Load(i) >= st.s.Load(c) {
				continue
			}

			members = members[:0]
			dists = dists[:0]
			sum := 0.0
			it := st.ownedBy[c].Iterator()
			for it.HasNext() {
				j := it.Next()
				dist := t.opts.indexed.DistanceIdx(i, int(j))
				members = append(members, j)
				dists = append(dists, dist)
				sum += dist
			}
			blockEvals += int64(len(members))

			// Tighten the members' energy bounds with the fresh exact
			// distances: energy(j) >= |energy(i) - v[c]*d(i,j)|.
			vc := float64(st.v[c].Load())
			for x, j := range members {
				st.ls.Max(int(j), math.Abs(sum-vc*dists[x]))
			}

			if sum >= st.s.Load(c) {
				continue
			}

			st.locks[c].Lock()
			if sum < st.s.Load(c) {
				old := st.m[c]
				st.m[c] = i
				st.s.Store(c, sum)
				st.p[c] += t.opts.indexed.DistanceIdx(old, i)
				blockEvals++

				// The candidate's distances are now the exact member-to-
				// medoid distances of cluster c.
				for x, j := range members {
					st.d[j] = dists[x]
					st.lc[int(j)*t.k+c] = dists[x]
				}
				promoted.Add(1)
			}
			st.locks[c].Unlock()
		}

		st.evals.Add(blockEvals)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(promoted.Load()), nil
}

// assignToClusters is Phase B: per-candidate lower bounds are decayed by this
// round's medoid movements, then only clusters whose decayed bound undercuts
// the current best distance are probed exactly. Reassignments accumulate
// per-cluster deltas; applyDeltas folds them back into the aggregates and
// energy bounds after the barrier.
func (t *TriKMeds) assignToClusters(ctx context.Context, st *state, workers int) (int, error) {
	var reassigned atomic.Int64

	err := parallel.For(ctx, t.data.Len(), workers, func(start, end int) error {
		var blockChanged, blockEvals int64

		for i := start; i < end; i++ {
			row := st.lc[i*t.k : (i+1)*t.k]
			for c := 0; c < t.k; c++ {
				row[c] -= st.p[c]
				if row[c] < 0 {
					row[c] = 0
				}
			}

			cur := st.a[i]
			best, bestDist := cur, st.d[i]
			row[cur] = st.d[i]

			for c := 0; c < t.k; c++ {
				if c == cur || row[c] >= bestDist {
					continue
				}
				dist := t.opts.indexed.DistanceIdx(i, st.m[c])
				blockEvals++
				row[c] = dist
				if dist < bestDist {
					bestDist = dist
					best = c
				}
			}

			if best != cur {
				st.dnOut[cur].Add(1)
				st.dsOut.Add(cur, st.d[i])
				st.dnIn[best].Add(1)
				st.dsIn.Add(best, bestDist)

				st.a[i] = best
				st.d[i] = bestDist
				st.moved[i] = true
				blockChanged++
			}
		}

		reassigned.Add(blockChanged)
		st.evals.Add(blockEvals)
		return nil
	})
	if err != nil {
		return 0, err
	}

	if err := t.applyDeltas(ctx, st, workers); err != nil {
		return 0, err
	}
	return int(reassigned.Load()), nil
}

// applyDeltas folds the aggregated reassignment deltas into the per-cluster
// aggregates and repairs every point's energy bound in O(1) per point, using
// only the deltas of its own cluster — no membership rescan.
func (t *TriKMeds) applyDeltas(ctx context.Context, st *state, workers int) error {
	anyMoved := false
	for c := 0; c < t.k; c++ {
		in := st.dnIn[c].Load()
		out := st.dnOut[c].Load()
		if in != 0 || out != 0 {
			anyMoved = true
		}
		st.v[c].Add(in - out)
		st.s.Add(c, st.dsIn.Load(c)-st.dsOut.Load(c))
	}

	if anyMoved {
		err := parallel.For(ctx, t.data.Len(), workers, func(start, end int) error {
			for i := start; i < end; i++ {
				c := st.a[i]

				if st.moved[i] {
					// The old bound belonged to another cluster; rebuild it
					// from the new cluster's aggregates.
					st.ls.Store(i, math.Abs(st.s.Load(c)-float64(st.v[c].Load())*st.d[i]))
					st.moved[i] = false
					continue
				}

				out := float64(st.dnOut[c].Load())
				in := float64(st.dnIn[c].Load())
				sOut := st.dsOut.Load(c)
				sIn := st.dsIn.Load(c)

				// Leavers can remove at most dnOut*d[i] + dsOut from i's
				// candidate energy; joiners add at least |dsIn - dnIn*d[i]|.
				ls := st.ls.Load(i) - out*st.d[i] - sOut + math.Abs(sIn-in*st.d[i])
				if ls < 0 {
					ls = 0
				}
				st.ls.Store(i, ls)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}

	// Reset the consumed deltas and medoid movements for the next round.
	for c := 0; c < t.k; c++ {
		st.dnIn[c].Store(0)
		st.dnOut[c].Store(0)
		st.dsIn.Store(c, 0)
		st.dsOut.Store(c, 0)
		st.p[c] = 0
	}
	return nil
}
