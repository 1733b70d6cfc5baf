package kmedoids

import (
	"math/rand"

	"github.com/hupe1980/clustergo"
	"github.com/hupe1980/clustergo/distance"
	"github.com/hupe1980/clustergo/seed"
)

const defaultMaxIterations = 100

type options struct {
	metric   distance.Metric
	indexed  distance.IndexedMetric
	workers  int
	maxIter  int
	selector seed.Selector
	initial  []int
	rand     *rand.Rand
	logger   *clustergo.Logger
	stats    clustergo.StatsCollector
}

// Option configures the TRIKMEDS engine.
type Option func(*options)

// WithMetric sets the distance metric. It must report both subadditivity and
// symmetry; New rejects anything else, since an invalid triangle inequality
// silently breaks the bound-skip tests. Default: distance.Euclidean.
func WithMetric(m distance.Metric) Option {
	return func(o *options) { o.metric = m }
}

// WithIndexedMetric supplies a precomputed acceleration cache (or any other
// index-addressed distance source) used for all point-to-point lookups. It
// must agree with the configured Metric. Default: on-demand computation via
// distance.Indexed.
func WithIndexedMetric(im distance.IndexedMetric) Option {
	return func(o *options) { o.indexed = im }
}

// WithWorkers sets the number of goroutines for the per-point phases.
// 0 means runtime.GOMAXPROCS(0); 1 forces the strictly serial path.
func WithWorkers(workers int) Option {
	return func(o *options) { o.workers = workers }
}

// WithMaxIterations caps the number of outer iterations. 0 means iterate
// until convergence. Default: 100.
func WithMaxIterations(maxIter int) Option {
	return func(o *options) { o.maxIter = maxIter }
}

// WithSelector sets the seed selector used to pick initial medoids.
// Default: seed.PlusPlus.
func WithSelector(s seed.Selector) Option {
	return func(o *options) { o.selector = s }
}

// WithInitialMedoids supplies explicit initial medoid indices, bypassing the
// seed selector. len must equal k, all indices must be valid and distinct.
func WithInitialMedoids(medoids []int) Option {
	return func(o *options) { o.initial = medoids }
}

// WithRand sets the randomness source handed to the default seed selector.
func WithRand(r *rand.Rand) Option {
	return func(o *options) { o.rand = r }
}

// WithLogger sets the logger. Default: clustergo.NoopLogger().
func WithLogger(l *clustergo.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithStatsCollector sets the run statistics collector.
// Default: clustergo.NopStatsCollector.
func WithStatsCollector(s clustergo.StatsCollector) Option {
	return func(o *options) { o.stats = s }
}
