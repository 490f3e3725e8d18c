package classifier

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/samber/lo"
)

// ClassMetrics holds precision, recall and F1 for one label (or an average).
type ClassMetrics struct {
	Name      string  `json:"name"`
	Precision float64 `json:"precision"`
	Recall    float64 `json:"recall"`
	F1        float64 `json:"f1"`
	Support   int     `json:"support"`
}

// Report captures evaluation information on a labeled set.
type Report struct {
	Total       int            `json:"total"`
	Correct     int            `json:"correct"`
	Accuracy    float64        `json:"accuracy"`
	Labels      []int          `json:"labels"`
	Classes     []ClassMetrics `json:"classes"`
	MacroAvg    ClassMetrics   `json:"macro_avg"`
	WeightedAvg ClassMetrics   `json:"weighted_avg"`
	// Confusion[i][j] counts samples of Labels[i] predicted as Labels[j].
	Confusion [][]int `json:"confusion"`
}

// Evaluate compares predictions against ground truth. Undefined precision
// or recall (no predicted or no actual samples) counts as zero.
func Evaluate(yTrue, yPred []int) (Report, error) {
	if len(yTrue) != len(yPred) {
		return Report{}, fmt.Errorf("evaluate: %d labels but %d predictions", len(yTrue), len(yPred))
	}
	if len(yTrue) == 0 {
		return Report{}, ErrEmptyTrainingSet
	}

	labels := lo.Uniq(append(append([]int(nil), yTrue...), yPred...))
	sort.Ints(labels)
	pos := make(map[int]int, len(labels))
	for i, label := range labels {
		pos[label] = i
	}

	confusion := make([][]int, len(labels))
	for i := range confusion {
		confusion[i] = make([]int, len(labels))
	}
	correct := 0
	for i := range yTrue {
		confusion[pos[yTrue[i]]][pos[yPred[i]]]++
		if yTrue[i] == yPred[i] {
			correct++
		}
	}

	report := Report{
		Total:     len(yTrue),
		Correct:   correct,
		Accuracy:  float64(correct) / float64(len(yTrue)),
		Labels:    labels,
		Confusion: confusion,
	}

	var macro, weighted ClassMetrics
	for i, label := range labels {
		tp := confusion[i][i]
		support := lo.Sum(confusion[i])
		predicted := 0
		for r := range labels {
			predicted += confusion[r][i]
		}

		cm := ClassMetrics{
			Name:      strconv.Itoa(label),
			Precision: ratio(tp, predicted),
			Recall:    ratio(tp, support),
			Support:   support,
		}
		if cm.Precision+cm.Recall > 0 {
			cm.F1 = 2 * cm.Precision * cm.Recall / (cm.Precision + cm.Recall)
		}
		report.Classes = append(report.Classes, cm)

		macro.Precision += cm.Precision
		macro.Recall += cm.Recall
		macro.F1 += cm.F1
		w := float64(support)
		weighted.Precision += w * cm.Precision
		weighted.Recall += w * cm.Recall
		weighted.F1 += w * cm.F1
	}

	k := float64(len(labels))
	total := float64(report.Total)
	report.MacroAvg = ClassMetrics{
		Name:      "macro avg",
		Precision: macro.Precision / k,
		Recall:    macro.Recall / k,
		F1:        macro.F1 / k,
		Support:   report.Total,
	}
	report.WeightedAvg = ClassMetrics{
		Name:      "weighted avg",
		Precision: weighted.Precision / total,
		Recall:    weighted.Recall / total,
		F1:        weighted.F1 / total,
		Support:   report.Total,
	}
	return report, nil
}

// Render writes the report as a precision/recall/F1 table followed by the
// confusion matrix.
func (r Report) Render(w io.Writer) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"", "precision", "recall", "f1-score", "support"})
	table.SetAlignment(tablewriter.ALIGN_RIGHT)
	rows := append(append([]ClassMetrics(nil), r.Classes...), r.MacroAvg, r.WeightedAvg)
	for _, cm := range rows {
		table.Append([]string{
			cm.Name,
			fmt.Sprintf("%.2f", cm.Precision),
			fmt.Sprintf("%.2f", cm.Recall),
			fmt.Sprintf("%.2f", cm.F1),
			strconv.Itoa(cm.Support),
		})
	}
	table.SetFooter([]string{"accuracy", "", "", fmt.Sprintf("%.4f", r.Accuracy), strconv.Itoa(r.Total)})
	table.Render()

	confusion := tablewriter.NewWriter(w)
	header := []string{"actual \\ predicted"}
	for _, label := range r.Labels {
		header = append(header, strconv.Itoa(label))
	}
	confusion.SetHeader(header)
	for i, label := range r.Labels {
		line := []string{strconv.Itoa(label)}
		for _, count := range r.Confusion[i] {
			line = append(line, strconv.Itoa(count))
		}
		confusion.Append(line)
	}
	confusion.Render()
}

func (r Report) String() string {
	var b strings.Builder
	r.Render(&b)
	return b.String()
}

func ratio(num, den int) float64 {
	if den == 0 {
		return 0
	}
	return float64(num) / float64(den)
}
