package classifier

import (
	"fmt"
	"math"

	"github.com/samber/lo"

	"github.com/scalynx/idea-validator/internal/features"
)

// CVResult holds per-fold accuracies of a cross-validation run.
type CVResult struct {
	Scores []float64 `json:"scores"`
	Mean   float64   `json:"mean"`
	Std    float64   `json:"std"`
}

// CrossValidate trains a fresh LinearSVC on each stratified fold and scores
// its accuracy on the held-out part.
func CrossValidate(X []features.SparseVector, y []int, k int, opts Options) (CVResult, error) {
	if len(X) != len(y) {
		return CVResult{}, fmt.Errorf("cross validate: %d samples but %d labels", len(X), len(y))
	}
	folds, err := StratifiedKFold(y, k)
	if err != nil {
		return CVResult{}, err
	}

	scores := make([]float64, 0, len(folds))
	for i, fold := range folds {
		model := NewLinearSVC(opts)
		if err := model.Fit(Subset(X, fold.Train), Subset(y, fold.Train)); err != nil {
			return CVResult{}, fmt.Errorf("fold %d: %w", i, err)
		}
		predicted, err := model.PredictBatch(Subset(X, fold.Test))
		if err != nil {
			return CVResult{}, fmt.Errorf("fold %d: %w", i, err)
		}
		report, err := Evaluate(Subset(y, fold.Test), predicted)
		if err != nil {
			return CVResult{}, fmt.Errorf("fold %d: %w", i, err)
		}
		scores = append(scores, report.Accuracy)
	}

	mean := lo.Mean(scores)
	var variance float64
	for _, s := range scores {
		variance += (s - mean) * (s - mean)
	}
	return CVResult{
		Scores: scores,
		Mean:   mean,
		Std:    math.Sqrt(variance / float64(len(scores))),
	}, nil
}
