// Package pipeline composes the fitted text classifier with the keyword
// veto and moves the fitted components to and from the artifact store.
package pipeline

import (
	"fmt"

	"github.com/scalynx/idea-validator/internal/classifier"
	"github.com/scalynx/idea-validator/internal/features"
	"github.com/scalynx/idea-validator/internal/sanity"
	"github.com/scalynx/idea-validator/internal/textproc"
)

// Pipeline is a fitted vectorizer, selector and classifier from one training
// run, plus the sanity filter applied on top. It is read-only once built and
// may be shared between goroutines.
type Pipeline struct {
	Vectorizer *features.TFIDFVectorizer
	Selector   *features.ChiSquareSelector
	Classifier *classifier.LinearSVC
	Filter     *sanity.Filter
	FitID      string
}

// Prediction is the full account of one composed decision.
type Prediction struct {
	Text          string         `json:"idea"`
	Normalized    string         `json:"normalized"`
	EmptyFeatures bool           `json:"empty_features"`
	Margin        float64        `json:"margin"`
	RawLabel      Label          `json:"raw_label"`
	Sanity        sanity.Verdict `json:"sanity"`
	Label         Label          `json:"label"`
}

// New checks that the components are fitted and chain dimensionally. A nil
// filter means sanity.Default().
func New(v *features.TFIDFVectorizer, s *features.ChiSquareSelector, c *classifier.LinearSVC, f *sanity.Filter, fitID string) (*Pipeline, error) {
	switch {
	case v == nil || !v.Fitted():
		return nil, fmt.Errorf("vectorizer: %w", ErrNotFitted)
	case s == nil || !s.Fitted():
		return nil, fmt.Errorf("selector: %w", ErrNotFitted)
	case c == nil || !c.Fitted():
		return nil, fmt.Errorf("classifier: %w", ErrNotFitted)
	}
	if s.InputDim != v.Dim() {
		return nil, fmt.Errorf("selector input dim %d, vectorizer dim %d: %w", s.InputDim, v.Dim(), ErrArtifactMismatch)
	}
	if len(c.Weights) != c.Dim {
		return nil, fmt.Errorf("classifier has %d weights for dim %d: %w", len(c.Weights), c.Dim, ErrArtifactMismatch)
	}
	if c.Dim != s.OutputDim() {
		return nil, fmt.Errorf("classifier dim %d, selector output dim %d: %w", c.Dim, s.OutputDim(), ErrArtifactMismatch)
	}
	if f == nil {
		f = sanity.Default()
	}
	return &Pipeline{Vectorizer: v, Selector: s, Classifier: c, Filter: f, FitID: fitID}, nil
}

// Features runs the training-time feature path on raw text: normalize,
// vectorize, select.
func (p *Pipeline) Features(text string) (features.SparseVector, error) {
	vec, err := p.Vectorizer.Transform(textproc.Normalize(text))
	if err != nil {
		return features.SparseVector{}, err
	}
	return p.Selector.Transform(vec)
}

// Predict labels every text, in input order.
func (p *Pipeline) Predict(texts []string) ([]Label, error) {
	detailed, err := p.PredictDetailed(texts)
	if err != nil {
		return nil, err
	}
	labels := make([]Label, len(detailed))
	for i, d := range detailed {
		labels[i] = d.Label
	}
	return labels, nil
}

// PredictDetailed is Predict with the classifier margin and the sanity
// verdict of each item.
func (p *Pipeline) PredictDetailed(texts []string) ([]Prediction, error) {
	out := make([]Prediction, len(texts))
	for i, text := range texts {
		pred, err := p.predictOne(text)
		if err != nil {
			return nil, fmt.Errorf("predict item %d: %w", i, err)
		}
		out[i] = pred
	}
	return out, nil
}

func (p *Pipeline) predictOne(text string) (Prediction, error) {
	pred := Prediction{Text: text, Normalized: textproc.Normalize(text)}

	vec, err := p.Vectorizer.Transform(pred.Normalized)
	if err != nil {
		return pred, err
	}
	selected, err := p.Selector.Transform(vec)
	if err != nil {
		return pred, err
	}

	// nothing in the vocabulary: no evidence, so invalid
	if selected.NNZ() == 0 {
		pred.EmptyFeatures = true
		pred.RawLabel = Invalid
	} else {
		margin, err := p.Classifier.Decision(selected)
		if err != nil {
			return pred, err
		}
		pred.Margin = margin
		if margin > 0 {
			pred.RawLabel = Valid
		}
	}

	pred.Sanity = p.Filter.Check(text)
	pred.Label = pred.RawLabel
	if !pred.Sanity.Passed {
		pred.Label = Invalid
	}
	return pred, nil
}
