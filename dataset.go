package clustergo

import "fmt"

// Dataset is an indexable collection of N fixed-dimension vectors.
//
// Points are identified by their integer index 0..Len()-1 and are referenced,
// never copied: At must return a view that stays valid for the lifetime of
// the dataset, and callers must not mutate it while a clustering call is
// running.
type Dataset interface {
	// Len returns the number of points N.
	Len() int

	// Dim returns the dimensionality of every point.
	Dim() int

	// At returns the vector of point i.
	At(i int) []float64
}

// MatrixDataset is a Dataset backed by a flat row-major float64 slice with
// Len rows of Dim columns each.
type MatrixDataset struct {
	data []float64
	n    int
	dim  int
}

// NewMatrixDataset wraps a flat row-major slice as a Dataset.
// len(data) must be a positive multiple of dim.
func NewMatrixDataset(data []float64, dim int) (*MatrixDataset, error) {
	if dim <= 0 {
		return nil, fmt.Errorf("clustergo: dim must be positive, got %d", dim)
	}
	if len(data)%dim != 0 {
		return nil, fmt.Errorf("clustergo: data length %d is not a multiple of dim %d", len(data), dim)
	}
	return &MatrixDataset{data: data, n: len(data) / dim, dim: dim}, nil
}

func (m *MatrixDataset) Len() int { return m.n }

func (m *MatrixDataset) Dim() int { return m.dim }

func (m *MatrixDataset) At(i int) []float64 {
	return m.data[i*m.dim : (i+1)*m.dim]
}

// Slice is a Dataset backed by a [][]float64. All rows must share the same
// length; NewSliceDataset validates this once so the engines don't have to.
type Slice struct {
	rows [][]float64
	dim  int
}

// NewSliceDataset wraps pre-split rows as a Dataset.
func NewSliceDataset(rows [][]float64) (*Slice, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("clustergo: empty dataset")
	}
	dim := len(rows[0])
	if dim == 0 {
		return nil, fmt.Errorf("clustergo: zero-dimensional points")
	}
	for i, r := range rows {
		if len(r) != dim {
			return nil, &ErrDimensionMismatch{Expected: dim, Actual: len(r), cause: fmt.Errorf("row %d", i)}
		}
	}
	return &Slice{rows: rows, dim: dim}, nil
}

func (s *Slice) Len() int           { return len(s.rows) }
func (s *Slice) Dim() int           { return s.dim }
func (s *Slice) At(i int) []float64 { return s.rows[i] }
