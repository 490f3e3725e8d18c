package features

import (
	"math"
	"sort"
)

// SparseVector is a fixed-dimension vector storing only non-zero entries.
// Indices are strictly increasing.
type SparseVector struct {
	Dim     int       `json:"dim"`
	Indices []int     `json:"indices"`
	Values  []float64 `json:"values"`
}

func newSparseVector(dim int, entries map[int]float64) SparseVector {
	sv := SparseVector{
		Dim:     dim,
		Indices: make([]int, 0, len(entries)),
		Values:  make([]float64, 0, len(entries)),
	}
	for idx := range entries {
		sv.Indices = append(sv.Indices, idx)
	}
	sort.Ints(sv.Indices)
	for _, idx := range sv.Indices {
		sv.Values = append(sv.Values, entries[idx])
	}
	return sv
}

// NNZ returns the number of stored entries.
func (v SparseVector) NNZ() int {
	return len(v.Indices)
}

// Dot computes the inner product with a dense weight vector of length Dim.
func (v SparseVector) Dot(w []float64) float64 {
	var sum float64
	for i, idx := range v.Indices {
		sum += v.Values[i] * w[idx]
	}
	return sum
}

// SquaredNorm returns the squared L2 norm.
func (v SparseVector) SquaredNorm() float64 {
	var sum float64
	for _, val := range v.Values {
		sum += val * val
	}
	return sum
}

// Dense expands the vector into a slice of length Dim.
func (v SparseVector) Dense() []float64 {
	out := make([]float64, v.Dim)
	for i, idx := range v.Indices {
		out[idx] = v.Values[i]
	}
	return out
}

func (v SparseVector) normalizeL2() {
	norm := math.Sqrt(v.SquaredNorm())
	if norm == 0 {
		return
	}
	for i := range v.Values {
		v.Values[i] /= norm
	}
}
