package clustergo

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidK is returned when k is not positive.
	ErrInvalidK = errors.New("k must be positive")

	// ErrTooFewPoints is returned when the dataset holds fewer points than
	// the requested number of clusters.
	ErrTooFewPoints = errors.New("dataset smaller than cluster count")

	// ErrEmptyCluster is returned when a center update would operate on a
	// cluster with zero members. The engines never fabricate a center for an
	// empty cluster; callers (e.g. hierarchical splitters) must treat this as
	// a failure signal and fall back.
	ErrEmptyCluster = errors.New("cluster has no members")

	// ErrMetricNotSubadditive is returned when a metric does not report a
	// valid triangle inequality. The bounded engines derive their skip tests
	// from subadditivity; running them against such a metric would produce
	// wrong partitions rather than crashes.
	ErrMetricNotSubadditive = errors.New("metric does not satisfy the triangle inequality")

	// ErrMetricNotSymmetric is returned when a metric does not report
	// symmetry, which the k-medoids engine requires.
	ErrMetricNotSymmetric = errors.New("metric is not symmetric")
)

// ErrDimensionMismatch indicates a vector dimensionality mismatch between the
// dataset and a supplied vector (e.g. an initial center).
//
// The original underlying error (if any) can be accessed via errors.Unwrap.
type ErrDimensionMismatch struct {
	Expected int
	Actual   int
	cause    error
}

func (e *ErrDimensionMismatch) Error() string {
	return fmt.Sprintf("dimension mismatch: expected %d, got %d", e.Expected, e.Actual)
}

func (e *ErrDimensionMismatch) Unwrap() error { return e.cause }
