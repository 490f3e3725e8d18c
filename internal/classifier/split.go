package classifier

import (
	"fmt"
	"math"
	"math/rand"
	"sort"

	"github.com/samber/lo"
)

// Fold is one train/test partition of sample indices.
type Fold struct {
	Train []int
	Test  []int
}

// StratifiedSplit shuffles each class separately and moves testSize of it
// into the test set, so both sides keep the class proportions. Every class
// with at least two samples contributes to both sides. Returned indices are
// sorted.
func StratifiedSplit(y []int, testSize float64, seed int64) (Fold, error) {
	if testSize <= 0 || testSize >= 1 {
		return Fold{}, fmt.Errorf("test size %.2f outside (0,1): %w", testSize, ErrBadSplit)
	}
	if len(y) < 2 {
		return Fold{}, fmt.Errorf("need at least 2 samples, got %d: %w", len(y), ErrBadSplit)
	}

	rng := rand.New(rand.NewSource(seed))
	var fold Fold
	for _, members := range groupByLabel(y) {
		rng.Shuffle(len(members), func(i, j int) { members[i], members[j] = members[j], members[i] })

		nTest := int(math.Round(testSize * float64(len(members))))
		if len(members) >= 2 {
			nTest = max(nTest, 1)
			nTest = min(nTest, len(members)-1)
		}
		fold.Test = append(fold.Test, members[:nTest]...)
		fold.Train = append(fold.Train, members[nTest:]...)
	}
	sort.Ints(fold.Train)
	sort.Ints(fold.Test)
	return fold, nil
}

// StratifiedKFold deals the samples of each class round-robin into k folds,
// in dataset order, and returns k train/test partitions.
func StratifiedKFold(y []int, k int) ([]Fold, error) {
	if k < 2 || k > len(y) {
		return nil, fmt.Errorf("%d folds for %d samples: %w", k, len(y), ErrBadSplit)
	}

	assignment := make([]int, len(y))
	for _, members := range groupByLabel(y) {
		for j, idx := range members {
			assignment[idx] = j % k
		}
	}

	folds := make([]Fold, k)
	for idx, f := range assignment {
		for j := range folds {
			if j == f {
				folds[j].Test = append(folds[j].Test, idx)
			} else {
				folds[j].Train = append(folds[j].Train, idx)
			}
		}
	}
	return folds, nil
}

// Subset picks items by index.
func Subset[T any](items []T, indices []int) []T {
	return lo.Map(indices, func(idx int, _ int) T {
		return items[idx]
	})
}

// groupByLabel returns sample indices per label, labels in ascending order.
func groupByLabel(y []int) [][]int {
	byLabel := lo.GroupBy(lo.Range(len(y)), func(i int) int { return y[i] })
	labels := lo.Keys(byLabel)
	sort.Ints(labels)
	return lo.Map(labels, func(label int, _ int) []int {
		return byLabel[label]
	})
}
