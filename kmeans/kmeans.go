package kmeans

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sync/atomic"

	"gonum.org/v1/gonum/floats"

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

	// Centers holds the final mean vector of every cluster.
	Centers [][]float64

	// Inertia is the sum of squared distances from each point to its
	// assigned center.
	Inertia float64

	// Iterations is the number of outer iterations performed.
	Iterations int

	// Converged reports whether a full pass produced zero reassignments
	// before the iteration cap.
	Converged bool
}

// Hamerly is a bounded k-means engine. It is immutable after New; every
// Cluster call allocates fresh bound/assignment state, so a single engine may
// run concurrent clusterings.
type Hamerly struct {
	data clustergo.Dataset
	k    int
	dim  int
	opts options
}

// New validates the configuration and returns a ready engine. Configuration
// errors (k < 1, fewer points than clusters, a metric without a valid
// triangle inequality, initial centers of the wrong shape) abort here, before
// any clustering state is allocated.
func New(data clustergo.Dataset, k int, optFns ...Option) (*Hamerly, error) {
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

	if k < 1 {
		return nil, clustergo.ErrInvalidK
	}
	if data.Len() < k {
		return nil, fmt.Errorf("%w: n=%d, k=%d", clustergo.ErrTooFewPoints, data.Len(), k)
	}
	if !opts.metric.Subadditive() {
		return nil, clustergo.ErrMetricNotSubadditive
	}
	if opts.initial != nil {
		if len(opts.initial) != k {
			return nil, fmt.Errorf("kmeans: got %d initial centers, want %d", len(opts.initial), k)
		}
		for _, c := range opts.initial {
			if len(c) != data.Dim() {
				return nil, &clustergo.ErrDimensionMismatch{Expected: data.Dim(), Actual: len(c)}
			}
		}
	}

	return &Hamerly{
		data: data,
		k:    k,
		dim:  data.Dim(),
		opts: opts,
	}, nil
}

// state holds all per-call mutable clustering state. It is allocated once per
// Cluster invocation and never shared across calls.
type state struct {
	a []int     // a[i]: assigned cluster of point i
	u []float64 // u[i]: upper bound on distance to assigned center
	l []float64 // l[i]: lower bound on distance to second-closest center

	centers [][]float64
	cP      *atomicx.Float64Slice // per-cluster vector sums, k*dim
	q       []atomic.Int64        // per-cluster point counts
	s       []float64             // s[k]: distance to nearest other center
	p       []float64             // p[k]: distance center k moved last update

	pmax1, pmax2 float64 // largest and second-largest center movement
	pmaxK        int     // cluster index of the largest movement

	evals atomic.Int64 // exact distance evaluations this pass
}

// Cluster runs the bounded loop until a full pass yields zero reassignments
// or the iteration cap is reached.
func (h *Hamerly) Cluster(ctx context.Context) (*Result, error) {
	workers := h.opts.workers
	if workers == 0 {
		workers = runtime.GOMAXPROCS(0)
	}

	logger := h.opts.logger.WithAlgorithm("hamerly").WithN(h.data.Len()).WithK(h.k)

	st, err := h.initState(ctx, workers)
	if err != nil {
		return nil, err
	}

	iter := 0
	converged := false
	for {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		if h.opts.maxIter > 0 && iter >= h.opts.maxIter {
			break
		}
		iter++

		if err := h.moveCenters(st); err != nil {
			return nil, err
		}
		h.computeSeparations(st)

		changed, err := h.assignPass(ctx, st, workers)
		if err != nil {
			return nil, err
		}

		h.opts.stats.RecordIteration(changed)
		h.opts.stats.RecordDistanceEvals(st.evals.Swap(0))
		logger.LogIteration(ctx, iter, changed)

		if changed == 0 {
			converged = true
			break
		}
	}

	inertia, err := h.inertia(ctx, st, workers)
	if err != nil {
		return nil, err
	}

	h.opts.stats.RecordRun(iter, converged, inertia)
	logger.LogConverged(ctx, iter, converged, inertia)

	return &Result{
		Assignments: st.a,
		Centers:     st.centers,
		Inertia:     inertia,
		Iterations:  iter,
		Converged:   converged,
	}, nil
}

// initState seeds the centers and performs the initial full assignment,
// establishing exact bounds for every point.
func (h *Hamerly) initState(ctx context.Context, workers int) (*state, error) {
	n := h.data.Len()

	st := &state{
		a:       make([]int, n),
		u:       make([]float64, n),
		l:       make([]float64, n),
		centers: make([][]float64, h.k),
		cP:      atomicx.NewFloat64Slice(h.k * h.dim),
		q:       make([]atomic.Int64, h.k),
		s:       make([]float64, h.k),
		p:       make([]float64, h.k),
	}

	if h.opts.initial != nil {
		for k := range st.centers {
			st.centers[k] = append([]float64(nil), h.opts.initial[k]...)
		}
	} else {
		idx, err := h.opts.selector.Select(ctx, h.data, h.k, h.opts.metric)
		if err != nil {
			return nil, err
		}
		for k := range st.centers {
			st.centers[k] = append([]float64(nil), h.data.At(idx[k])...)
		}
	}

	err := parallel.For(ctx, n, workers, func(start, end int) error {
		for i := start; i < end; i++ {
			vec := h.data.At(i)
			best, d1, d2 := h.nearestTwo(vec, st.centers)

			st.a[i] = best
			st.u[i] = d1
			st.l[i] = d2

			for d := 0; d < h.dim; d++ {
				st.cP.Add(best*h.dim+d, vec[d])
			}
			st.q[best].Add(1)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return st, nil
}

// moveCenters recomputes every center as cP[k]/q[k] and records how far each
// center moved, tracking the largest and second-largest movements for the
// lower-bound update.
func (h *Hamerly) moveCenters(st *state) error {
	newCenter := make([]float64, h.dim)

	st.pmax1, st.pmax2, st.pmaxK = 0, 0, -1
	for k := 0; k < h.k; k++ {
		cnt := st.q[k].Load()
		if cnt == 0 {
			return fmt.Errorf("%w: cluster %d", clustergo.ErrEmptyCluster, k)
		}

		for d := 0; d < h.dim; d++ {
			newCenter[d] = st.cP.Load(k*h.dim + d)
		}
		floats.Scale(1/float64(cnt), newCenter)

		st.p[k] = h.opts.metric.Distance(st.centers[k], newCenter)
		copy(st.centers[k], newCenter)

		if st.p[k] > st.pmax1 {
			st.pmax2 = st.pmax1
			st.pmax1 = st.p[k]
			st.pmaxK = k
		} else if st.p[k] > st.pmax2 {
			st.pmax2 = st.p[k]
		}
	}
	return nil
}

// computeSeparations recomputes s[k], the distance from center k to its
// nearest other center. One O(k²) pass; with a single cluster s is infinite
// and the bound test skips every point.
func (h *Hamerly) computeSeparations(st *state) {
	for k := 0; k < h.k; k++ {
		st.s[k] = math.Inf(1)
		for j := 0; j < h.k; j++ {
			if j == k {
				continue
			}
			if d := h.opts.metric.Distance(st.centers[k], st.centers[j]); d < st.s[k] {
				st.s[k] = d
			}
		}
	}
}

// assignPass runs one bounded reassignment sweep and returns the number of
// points that changed cluster.
//
// Per point it first repairs the bounds for this round's center movements
// (inflate u by the own center's movement, deflate l by the largest movement
// of any other center), then applies Hamerly's two bound tests before falling
// back to a full scan over all centers.
func (h *Hamerly) assignPass(ctx context.Context, st *state, workers int) (int, error) {
	var changed atomic.Int64

	err := parallel.For(ctx, h.data.Len(), workers, func(start, end int) error {
		var blockChanged, blockEvals int64

		for i := start; i < end; i++ {
			st.u[i] += st.p[st.a[i]]
			if st.pmaxK == st.a[i] {
				st.l[i] -= st.pmax2
			} else {
				st.l[i] -= st.pmax1
			}
			if st.l[i] < 0 {
				st.l[i] = 0
			}

			bound := math.Max(st.s[st.a[i]]/2, st.l[i])
			if st.u[i] <= bound {
				continue
			}

			// First bound test failed on a stale upper bound; tighten it to
			// the exact distance and retest.
			vec := h.data.At(i)
			st.u[i] = h.opts.metric.Distance(vec, st.centers[st.a[i]])
			blockEvals++
			if st.u[i] <= bound {
				continue
			}

			best, d1, d2 := h.nearestTwo(vec, st.centers)
			blockEvals += int64(h.k)

			if best != st.a[i] {
				old := st.a[i]
				for d := 0; d < h.dim; d++ {
					st.cP.Add(old*h.dim+d, -vec[d])
					st.cP.Add(best*h.dim+d, vec[d])
				}
				st.q[old].Add(-1)
				st.q[best].Add(1)
				st.a[i] = best
				blockChanged++
			}
			st.u[i] = d1
			st.l[i] = d2
		}

		changed.Add(blockChanged)
		st.evals.Add(blockEvals)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return int(changed.Load()), nil
}

// nearestTwo scans all centers and returns the nearest center's index along
// with the nearest and second-nearest distances. The strict < keeps the
// lowest-indexed center on ties. With a single cluster the second distance is
// +Inf.
func (h *Hamerly) nearestTwo(vec []float64, centers [][]float64) (int, float64, float64) {
	best := 0
	d1, d2 := math.Inf(1), math.Inf(1)
	for k, c := range centers {
		d := h.opts.metric.Distance(vec, c)
		if d < d1 {
			d2 = d1
			d1 = d
			best = k
		} else if d < d2 {
			d2 = d
		}
	}
	return best, d1, d2
}

// inertia computes the exact sum of squared assigned distances.
func (h *Hamerly) inertia(ctx context.Context, st *state, workers int) (float64, error) {
	var total atomicx.Float64

	err := parallel.For(ctx, h.data.Len(), workers, func(start, end int) error {
		var sum float64
		for i := start; i < end; i++ {
			d := h.opts.metric.Distance(h.data.At(i), st.centers[st.a[i]])
			sum += d * d
		}
		total.Add(sum)
		return nil
	})
	if err != nil {
		return 0, err
	}
	return total.Load(), nil
}
