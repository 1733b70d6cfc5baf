package kmeans

import (
	"math/rand"

	"github.com/hupe1980/clustergo"
	"github.com/hupe1980/clustergo/distance"
	"github.com/hupe1980/clustergo/seed"
)

const defaultMaxIterations = 100

type options struct {
	metric   distance.Metric
	workers  int
	maxIter  int
	selector seed.Selector
	initial  [][]float64
	rand     *rand.Rand
	logger   *clustergo.Logger
	stats    clustergo.StatsCollector
}

// Option configures the Hamerly engine.
type Option func(*options)

// WithMetric sets the distance metric. It must be subadditive (satisfy the
// triangle inequality); New rejects metrics that report otherwise.
// Default: distance.Euclidean.
func WithMetric(m distance.Metric) Option {
	return func(o *options) { o.metric = m }
}

// WithWorkers sets the number of goroutines for the per-point passes.
// 0 means runtime.GOMAXPROCS(0); 1 forces the strictly serial path.
// Serial and parallel runs produce identical partitions.
func WithWorkers(workers int) Option {
	return func(o *options) { o.workers = workers }
}

// WithMaxIterations caps the number of outer iterations. 0 means iterate
// until convergence. Default: 100.
func WithMaxIterations(maxIter int) Option {
	return func(o *options) { o.maxIter = maxIter }
}

// WithSelector sets the seed selector used to pick initial centers.
// Default: seed.PlusPlus.
func WithSelector(s seed.Selector) Option {
	return func(o *options) { o.selector = s }
}

// WithInitialCenters supplies explicit initial mean vectors, bypassing the
// seed selector. The vectors are copied; len must equal k and every vector
// must match the dataset dimension.
func WithInitialCenters(centers [][]float64) Option {
	return func(o *options) { o.initial = centers }
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
