package features_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scalynx/idea-validator/internal/features"
)

func row(values ...float64) features.SparseVector {
	sv := features.SparseVector{Dim: len(values)}
	for i, v := range values {
		if v != 0 {
			sv.Indices = append(sv.Indices, i)
			sv.Values = append(sv.Values, v)
		}
	}
	return sv
}

// feature 0 only appears in class 1, feature 1 everywhere, feature 2 only in class 0
func informativeCorpus() ([]features.SparseVector, []int) {
	X := []features.SparseVector{
		row(1, 1, 0),
		row(1, 1, 0),
		row(0, 1, 1),
		row(0, 1, 1),
	}
	return X, []int{1, 1, 0, 0}
}

func TestChiSquareSelector_Fit(t *testing.T) {
	X, y := informativeCorpus()
	s := features.NewChiSquareSelector(2)
	require.NoError(t, s.Fit(X, y))

	assert.Equal(t, []int{0, 2}, s.Indices)
	assert.Equal(t, 3, s.InputDim)
	assert.Equal(t, 2, s.OutputDim())
	assert.InDelta(t, 2.0, s.Scores[0], 1e-9)
	assert.InDelta(t, 0.0, s.Scores[1], 1e-9)
	assert.InDelta(t, 2.0, s.Scores[2], 1e-9)
}

func TestChiSquareSelector_Transform(t *testing.T) {
	X, y := informativeCorpus()
	s := features.NewChiSquareSelector(2)
	require.NoError(t, s.Fit(X, y))

	out, err := s.Transform(row(0.3, 0.5, 0.7))
	require.NoError(t, err)
	assert.Equal(t, 2, out.Dim)
	assert.Equal(t, []int{0, 1}, out.Indices)
	assert.Equal(t, []float64{0.3, 0.7}, out.Values)

	empty, err := s.Transform(row(0, 0.5, 0))
	require.NoError(t, err)
	assert.Zero(t, empty.NNZ())
}

func TestChiSquareSelector_KLargerThanDim(t *testing.T) {
	X, y := informativeCorpus()
	s := features.NewChiSquareSelector(8000)
	require.NoError(t, s.Fit(X, y))
	assert.Equal(t, []int{0, 1, 2}, s.Indices)
}

func TestChiSquareSelector_Errors(t *testing.T) {
	s := features.NewChiSquareSelector(2)
	_, err := s.Transform(row(1, 0, 0))
	assert.ErrorIs(t, err, features.ErrNotFitted)

	X, y := informativeCorpus()
	require.NoError(t, s.Fit(X, y))
	_, err = s.Transform(row(1, 0, 0, 1))
	assert.ErrorIs(t, err, features.ErrDimensionMismatch)

	assert.Error(t, s.Fit(X, y[:2]))
	assert.ErrorIs(t, s.Fit(nil, nil), features.ErrEmptyCorpus)
}

func TestChiSquareSelector_Top(t *testing.T) {
	X := []features.SparseVector{
		row(1, 0, 1),
		row(1, 0, 0),
		row(0, 1, 0),
		row(0, 1, 0),
	}
	s := features.NewChiSquareSelector(3)
	require.NoError(t, s.Fit(X, []int{1, 1, 0, 0}))

	top := s.Top(2)
	assert.Len(t, top, 2)
	assert.NotContains(t, top, 2)
}

func TestChiSquareSelector_DecodeRestoresProjection(t *testing.T) {
	X, y := informativeCorpus()
	s := features.NewChiSquareSelector(2)
	require.NoError(t, s.Fit(X, y))

	payload, err := json.Marshal(s)
	require.NoError(t, err)

	var restored features.ChiSquareSelector
	require.NoError(t, json.Unmarshal(payload, &restored))

	in := row(0.3, 0.5, 0.7)
	want, err := s.Transform(in)
	require.NoError(t, err)
	got, err := restored.Transform(in)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestChiSquareSelector_DecodeRejectsBadIndex(t *testing.T) {
	var s features.ChiSquareSelector
	err := json.Unmarshal([]byte(`{"k":1,"input_dim":2,"indices":[5]}`), &s)
	assert.ErrorIs(t, err, features.ErrDimensionMismatch)
}

func TestVectorizerSelector_Deterministic(t *testing.T) {
	corpus := []string{
		"solar powered irrigation pump for farms",
		"ghost detection with crystal energy",
		"mobile app for farmers market prices",
		"telepathy based messaging for pets",
	}
	labels := []int{1, 0, 1, 0}

	v := newVectorizer()
	X, err := v.FitTransform(corpus)
	require.NoError(t, err)
	s := features.NewChiSquareSelector(5)
	require.NoError(t, s.Fit(X, labels))

	apply := func(text string) features.SparseVector {
		vec, err := v.Transform(text)
		require.NoError(t, err)
		out, err := s.Transform(vec)
		require.NoError(t, err)
		return out
	}

	first := apply("solar app for farmers")
	second := apply("solar app for farmers")
	assert.Equal(t, first, second)
	assert.Equal(t, 5, first.Dim)
}
