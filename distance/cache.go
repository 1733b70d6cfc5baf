package distance

import (
	"context"

	"github.com/hupe1980/clustergo"
	"github.com/hupe1980/clustergo/internal/parallel"
)

// IndexedMetric computes point-to-point distances addressed by dataset index.
// The k-medoids engine evaluates candidate medoids through this interface so
// that a precomputed Cache can serve repeated lookups.
type IndexedMetric interface {
	DistanceIdx(i, j int) float64
}

// Indexed adapts a Metric to index addressing by computing distances on
// demand against the given dataset. It performs no caching; every call costs
// one metric evaluation.
func Indexed(data clustergo.Dataset, m Metric) IndexedMetric {
	return onDemand{data: data, m: m}
}

type onDemand struct {
	data clustergo.Dataset
	m    Metric
}

func (o onDemand) DistanceIdx(i, j int) float64 {
	return o.m.Distance(o.data.At(i), o.data.At(j))
}

// Cache is a precomputed n×n pairwise distance matrix over a dataset. It is
// read-only after construction and safe to share across goroutines and
// clustering calls.
type Cache struct {
	n int
	d []float64
}

// NewCache computes the full pairwise matrix for data under m. workers
// controls the degree of parallelism; <= 1 builds the matrix on the calling
// goroutine. For symmetric metrics only the upper triangle is computed and
// mirrored.
func NewCache(ctx context.Context, data clustergo.Dataset, m Metric, workers int) (*Cache, error) {
	n := data.Len()
	c := &Cache{n: n, d: make([]float64, n*n)}

	var err error
	if m.Symmetric() {
		// Row i owns cells (i,j) and their mirrors (j,i) for j > i.
		// Every cell is written exactly once, so row ranges do not race.
		err = parallel.For(ctx, n, workers, func(start, end int) error {
			for i := start; i < end; i++ {
				for j := i + 1; j < n; j++ {
					dist := m.Distance(data.At(i), data.At(j))
					c.d[i*n+j] = dist
					c.d[j*n+i] = dist
				}
			}
			return nil
		})
	} else {
		err = parallel.For(ctx, n, workers, func(start, end int) error {
			for i := start; i < end; i++ {
				for j := 0; j < n; j++ {
					if i == j {
						continue
					}
					c.d[i*n+j] = m.Distance(data.At(i), data.At(j))
				}
			}
			return nil
		})
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}

// Len returns the number of points the cache covers.
func (c *Cache) Len() int { return c.n }

// DistanceIdx returns the cached distance between points i and j.
func (c *Cache) DistanceIdx(i, j int) float64 { return c.d[i*c.n+j] }
