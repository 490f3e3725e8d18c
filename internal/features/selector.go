package features

import (
	"encoding/json"
	"fmt"
	"sort"
)

// ChiSquareSelector keeps the K features with the highest chi-squared
// association with the label. The retained index set never changes after
// Fit (or after decoding a fitted selector).
type ChiSquareSelector struct {
	K        int       `json:"k"`
	InputDim int       `json:"input_dim"`
	Indices  []int     `json:"indices"`
	Scores   []float64 `json:"scores"`

	positions []int
}

func NewChiSquareSelector(k int) *ChiSquareSelector {
	return &ChiSquareSelector{K: k}
}

// Fit scores every feature of X against labels y. Features are expected to
// be non-negative, as produced by TFIDFVectorizer.
func (s *ChiSquareSelector) Fit(X []SparseVector, y []int) error {
	if len(X) == 0 {
		return ErrEmptyCorpus
	}
	if len(X) != len(y) {
		return fmt.Errorf("chi2 fit: %d samples but %d labels", len(X), len(y))
	}

	dim := X[0].Dim
	classIndex := make(map[int]int)
	var classes []int
	for _, label := range y {
		if _, ok := classIndex[label]; !ok {
			classIndex[label] = len(classes)
			classes = append(classes, label)
		}
	}

	observed := make([][]float64, len(classes))
	for c := range observed {
		observed[c] = make([]float64, dim)
	}
	classCounts := make([]float64, len(classes))
	featureTotals := make([]float64, dim)

	for i, row := range X {
		if row.Dim != dim {
			return fmt.Errorf("chi2 fit: row %d has dim %d, want %d: %w", i, row.Dim, dim, ErrDimensionMismatch)
		}
		c := classIndex[y[i]]
		classCounts[c]++
		for k, idx := range row.Indices {
			observed[c][idx] += row.Values[k]
			featureTotals[idx] += row.Values[k]
		}
	}

	n := float64(len(X))
	scores := make([]float64, dim)
	for j := 0; j < dim; j++ {
		for c := range classes {
			expected := classCounts[c] / n * featureTotals[j]
			if expected == 0 {
				continue
			}
			diff := observed[c][j] - expected
			scores[j] += diff * diff / expected
		}
	}

	k := s.K
	if k <= 0 || k > dim {
		k = dim
	}
	ranked := make([]int, dim)
	for j := range ranked {
		ranked[j] = j
	}
	sort.SliceStable(ranked, func(a, b int) bool {
		return scores[ranked[a]] > scores[ranked[b]]
	})
	kept := append([]int(nil), ranked[:k]...)
	sort.Ints(kept)

	s.InputDim = dim
	s.Indices = kept
	s.Scores = scores
	s.buildPositions()
	return nil
}

// FitTransform fits the selector and projects X.
func (s *ChiSquareSelector) FitTransform(X []SparseVector, y []int) ([]SparseVector, error) {
	if err := s.Fit(X, y); err != nil {
		return nil, err
	}
	out := make([]SparseVector, len(X))
	for i, row := range X {
		projected, err := s.Transform(row)
		if err != nil {
			return nil, err
		}
		out[i] = projected
	}
	return out, nil
}

// Transform projects v onto the retained features, preserving their order.
func (s *ChiSquareSelector) Transform(v SparseVector) (SparseVector, error) {
	if s.positions == nil {
		return SparseVector{}, ErrNotFitted
	}
	if v.Dim != s.InputDim {
		return SparseVector{}, fmt.Errorf("selector expects dim %d, got %d: %w", s.InputDim, v.Dim, ErrDimensionMismatch)
	}

	out := SparseVector{Dim: len(s.Indices)}
	for i, idx := range v.Indices {
		if pos := s.positions[idx]; pos >= 0 {
			out.Indices = append(out.Indices, pos)
			out.Values = append(out.Values, v.Values[i])
		}
	}
	return out, nil
}

// OutputDim returns the number of retained features.
func (s *ChiSquareSelector) OutputDim() int {
	return len(s.Indices)
}

// Top returns up to n retained input indices, highest score first.
func (s *ChiSquareSelector) Top(n int) []int {
	top := append([]int(nil), s.Indices...)
	if len(s.Scores) == s.InputDim {
		sort.SliceStable(top, func(a, b int) bool {
			return s.Scores[top[a]] > s.Scores[top[b]]
		})
	}
	if n = max(n, 0); n < len(top) {
		top = top[:n]
	}
	return top
}

// UnmarshalJSON restores a fitted selector.
func (s *ChiSquareSelector) UnmarshalJSON(data []byte) error {
	type alias ChiSquareSelector
	if err := json.Unmarshal(data, (*alias)(s)); err != nil {
		return err
	}
	for _, idx := range s.Indices {
		if idx < 0 || idx >= s.InputDim {
			return fmt.Errorf("selector index %d outside input dim %d: %w", idx, s.InputDim, ErrDimensionMismatch)
		}
	}
	s.buildPositions()
	return nil
}

func (s *ChiSquareSelector) buildPositions() {
	s.positions = make([]int, s.InputDim)
	for i := range s.positions {
		s.positions[i] = -1
	}
	for pos, idx := range s.Indices {
		s.positions[idx] = pos
	}
}

// Fitted reports whether the selector holds a retained index set.
func (s *ChiSquareSelector) Fitted() bool {
	return s.positions != nil
}
