package distance

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Metric computes the distance between two vectors and reports its
// mathematical properties.
//
// Subadditive must return true only if the triangle inequality
// d(x,z) <= d(x,y) + d(y,z) holds for all inputs; Symmetric must return true
// only if d(x,y) == d(y,x). Both engines derive bound-skip tests from these
// properties, so a wrong capability report yields incorrect results.
type Metric interface {
	Distance(a, b []float64) float64
	Subadditive() bool
	Symmetric() bool
}

// Euclidean computes the Euclidean (L2) distance.
type Euclidean struct{}

func (Euclidean) Distance(a, b []float64) float64 { return floats.Distance(a, b, 2) }
func (Euclidean) Subadditive() bool               { return true }
func (Euclidean) Symmetric() bool                 { return true }

// SquaredEuclidean computes the squared Euclidean distance. It is cheaper
// than Euclidean but violates the triangle inequality, so the k-medoids
// engine rejects it.
type SquaredEuclidean struct{}

func (SquaredEuclidean) Distance(a, b []float64) float64 {
	d := floats.Distance(a, b, 2)
	return d * d
}

func (SquaredEuclidean) Subadditive() bool { return false }
func (SquaredEuclidean) Symmetric() bool   { return true }

// Manhattan computes the Manhattan (L1 / city-block) distance.
type Manhattan struct{}

func (Manhattan) Distance(a, b []float64) float64 { return floats.Distance(a, b, 1) }
func (Manhattan) Subadditive() bool               { return true }
func (Manhattan) Symmetric() bool                 { return true }

// Chebyshev computes the Chebyshev (L-infinity) distance.
type Chebyshev struct{}

func (Chebyshev) Distance(a, b []float64) float64 { return floats.Distance(a, b, math.Inf(1)) }
func (Chebyshev) Subadditive() bool               { return true }
func (Chebyshev) Symmetric() bool                 { return true }

// Minkowski computes the Minkowski distance parameterized by P.
// P must be >= 1; Distance panics otherwise, since P < 1 breaks the triangle
// inequality the type claims.
type Minkowski struct {
	P float64
}

func (m Minkowski) Distance(a, b []float64) float64 {
	if m.P < 1 {
		panic("distance: Minkowski P must be >= 1")
	}
	return floats.Distance(a, b, m.P)
}

func (m Minkowski) Subadditive() bool { return true }
func (m Minkowski) Symmetric() bool   { return true }

// Cosine computes the cosine distance 1 - cos(a, b). For two zero vectors the
// result is NaN (0/0). Cosine distance is not a metric: it violates the
// triangle inequality.
type Cosine struct{}

func (Cosine) Distance(a, b []float64) float64 {
	dot := floats.Dot(a, b)
	normA := floats.Dot(a, a)
	normB := floats.Dot(b, b)
	return 1.0 - dot/math.Sqrt(normA*normB)
}

func (Cosine) Subadditive() bool { return false }
func (Cosine) Symmetric() bool   { return true }

// Func adapts a plain function into a Metric. It conservatively reports
// neither subadditivity nor symmetry; use NewFunc to declare the properties
// a custom function actually guarantees.
type Func func(a, b []float64) float64

func (f Func) Distance(a, b []float64) float64 { return f(a, b) }
func (f Func) Subadditive() bool               { return false }
func (f Func) Symmetric() bool                 { return false }

// NewFunc wraps fn as a Metric with explicitly declared properties.
// The caller vouches for the declaration; it is not verified.
func NewFunc(fn func(a, b []float64) float64, subadditive, symmetric bool) Metric {
	return funcMetric{fn: fn, subadditive: subadditive, symmetric: symmetric}
}

type funcMetric struct {
	fn          func(a, b []float64) float64
	subadditive bool
	symmetric   bool
}

func (m funcMetric) Distance(a, b []float64) float64 { return m.fn(a, b) }
func (m funcMetric) Subadditive() bool               { return m.subadditive }
func (m funcMetric) Symmetric() bool                 { return m.symmetric }
