package clustergo

import "sync/atomic"

// StatsCollector defines an interface for collecting clustering run
// statistics. Implement this interface to integrate with monitoring systems
// or to assert on bound effectiveness in tests.
//
// The bounded engines exist to skip exact distance evaluations; the collector
// makes that observable: RecordDistanceEvals reports how many exact
// evaluations a pass actually performed, which a brute-force pass would have
// done N*K times.
type StatsCollector interface {
	// RecordIteration is called after each outer iteration with the number
	// of points that changed cluster.
	RecordIteration(reassigned int)

	// RecordDistanceEvals is called with the number of exact distance
	// evaluations performed since the previous call.
	RecordDistanceEvals(n int64)

	// RecordRun is called once at the end of a clustering call.
	RecordRun(iterations int, converged bool, objective float64)
}

// NopStatsCollector is a no-op implementation of StatsCollector.
// Use this when statistics collection is not needed.
type NopStatsCollector struct{}

func (NopStatsCollector) RecordIteration(int)          {}
func (NopStatsCollector) RecordDistanceEvals(int64)    {}
func (NopStatsCollector) RecordRun(int, bool, float64) {}

// CountingStatsCollector accumulates totals atomically. It is safe for
// concurrent use and handy in tests and benchmarks.
type CountingStatsCollector struct {
	Iterations    atomic.Int64
	Reassignments atomic.Int64
	DistanceEvals atomic.Int64
}

func (c *CountingStatsCollector) RecordIteration(reassigned int) {
	c.Iterations.Add(1)
	c.Reassignments.Add(int64(reassigned))
}

func (c *CountingStatsCollector) RecordDistanceEvals(n int64) {
	c.DistanceEvals.Add(n)
}

func (c *CountingStatsCollector) RecordRun(int, bool, float64) {}
