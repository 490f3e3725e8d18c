// Package classifier trains and evaluates the linear support-vector
// classifier that labels business ideas as valid (1) or invalid (0).
package classifier

import (
	"encoding/json"
	"fmt"
	"math"
	"math/rand"

	"github.com/scalynx/idea-validator/internal/features"
)

// Options controls LinearSVC training.
type Options struct {
	C        float64 `json:"c"`
	Tol      float64 `json:"tol"`
	MaxIter  int     `json:"max_iter"`
	Balanced bool    `json:"balanced"`
	Seed     int64   `json:"seed"`
}

func DefaultOptions() Options {
	return Options{
		C:        1.0,
		Tol:      1e-4,
		MaxIter:  1000,
		Balanced: true,
		Seed:     42,
	}
}

// LinearSVC is an L2-regularized, squared-hinge-loss linear SVM with an
// intercept, trained by dual coordinate descent.
type LinearSVC struct {
	Options      Options         `json:"options"`
	Dim          int             `json:"dim"`
	Weights      []float64       `json:"weights"`
	Bias         float64         `json:"bias"`
	ClassWeights map[int]float64 `json:"class_weights"`
	Converged    bool            `json:"converged"`
	Iterations   int             `json:"iterations"`
}

func NewLinearSVC(opts Options) *LinearSVC {
	if opts.C <= 0 {
		opts.C = 1.0
	}
	if opts.MaxIter <= 0 {
		opts.MaxIter = 1000
	}
	if opts.Tol <= 0 {
		opts.Tol = 1e-4
	}
	return &LinearSVC{Options: opts}
}

// Fit trains on X with labels in {0,1}. Running out of iterations is not an
// error: the last solution is kept and Converged is left false.
func (m *LinearSVC) Fit(X []features.SparseVector, y []int) error {
	if len(X) == 0 {
		return ErrEmptyTrainingSet
	}
	if len(X) != len(y) {
		return fmt.Errorf("svc fit: %d samples but %d labels", len(X), len(y))
	}

	counts := map[int]int{}
	for _, label := range y {
		if label != 0 && label != 1 {
			return fmt.Errorf("svc fit: label %d: %w", label, ErrInvalidLabel)
		}
		counts[label]++
	}
	if len(counts) < 2 {
		return ErrSingleClass
	}

	dim := X[0].Dim
	for i, row := range X {
		if row.Dim != dim {
			return fmt.Errorf("svc fit: row %d has dim %d, want %d: %w", i, row.Dim, dim, ErrDimensionMismatch)
		}
	}

	classWeights := map[int]float64{0: 1, 1: 1}
	if m.Options.Balanced {
		n := float64(len(y))
		for label, count := range counts {
			classWeights[label] = n / (2 * float64(count))
		}
	}

	n := len(X)
	sign := make([]float64, n)
	diag := make([]float64, n)
	qd := make([]float64, n)
	for i, row := range X {
		sign[i] = -1
		if y[i] == 1 {
			sign[i] = 1
		}
		diag[i] = 0.5 / (m.Options.C * classWeights[y[i]])
		// the trailing 1 is the constant intercept feature
		qd[i] = diag[i] + row.SquaredNorm() + 1
	}

	w := make([]float64, dim)
	var b float64
	alpha := make([]float64, n)
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	rng := rand.New(rand.NewSource(m.Options.Seed))

	converged := false
	iter := 0
	for iter < m.Options.MaxIter {
		iter++
		rng.Shuffle(n, func(i, j int) { order[i], order[j] = order[j], order[i] })

		pgMax, pgMin := math.Inf(-1), math.Inf(1)
		for _, i := range order {
			row := X[i]
			g := sign[i]*(row.Dot(w)+b) - 1 + diag[i]*alpha[i]

			pg := g
			if alpha[i] == 0 && g > 0 {
				pg = 0
			}
			pgMax = math.Max(pgMax, pg)
			pgMin = math.Min(pgMin, pg)

			if math.Abs(pg) <= 1e-12 {
				continue
			}
			old := alpha[i]
			alpha[i] = math.Max(alpha[i]-g/qd[i], 0)
			step := (alpha[i] - old) * sign[i]
			for k, idx := range row.Indices {
				w[idx] += step * row.Values[k]
			}
			b += step
		}

		if pgMax-pgMin <= m.Options.Tol {
			converged = true
			break
		}
	}

	m.Dim = dim
	m.Weights = w
	m.Bias = b
	m.ClassWeights = classWeights
	m.Converged = converged
	m.Iterations = iter
	return nil
}

// Decision returns the signed distance-like margin w·v + b.
func (m *LinearSVC) Decision(v features.SparseVector) (float64, error) {
	if m.Weights == nil {
		return 0, ErrNotFitted
	}
	if v.Dim != m.Dim || len(m.Weights) != m.Dim {
		return 0, fmt.Errorf("svc expects dim %d (%d weights), got %d: %w", m.Dim, len(m.Weights), v.Dim, ErrDimensionMismatch)
	}
	return v.Dot(m.Weights) + m.Bias, nil
}

// Predict returns 1 when the margin is strictly positive, otherwise 0.
func (m *LinearSVC) Predict(v features.SparseVector) (int, error) {
	margin, err := m.Decision(v)
	if err != nil {
		return 0, err
	}
	if margin > 0 {
		return 1, nil
	}
	return 0, nil
}

// PredictBatch predicts every row of X in order.
func (m *LinearSVC) PredictBatch(X []features.SparseVector) ([]int, error) {
	out := make([]int, len(X))
	for i, row := range X {
		label, err := m.Predict(row)
		if err != nil {
			return nil, fmt.Errorf("predict row %d: %w", i, err)
		}
		out[i] = label
	}
	return out, nil
}

// Fitted reports whether the model has weights.
func (m *LinearSVC) Fitted() bool {
	return m.Weights != nil
}

// UnmarshalJSON restores a trained model, rejecting a weight vector that
// does not match Dim.
func (m *LinearSVC) UnmarshalJSON(data []byte) error {
	type alias LinearSVC
	if err := json.Unmarshal(data, (*alias)(m)); err != nil {
		return err
	}
	if m.Weights != nil && len(m.Weights) != m.Dim {
		return fmt.Errorf("svc has %d weights for dim %d: %w", len(m.Weights), m.Dim, ErrDimensionMismatch)
	}
	return nil
}
