package pipeline

import (
	"errors"
	"fmt"
	"time"

	"github.com/scalynx/idea-validator/internal/classifier"
	"github.com/scalynx/idea-validator/internal/features"
	"github.com/scalynx/idea-validator/internal/sanity"
	"github.com/scalynx/idea-validator/internal/storage"
)

// Artifact names in the store. Each is written as <name>.json.
const (
	VectorizerArtifact = "vectorizer"
	SelectorArtifact   = "selector"
	ClassifierArtifact = "classifier"
)

// ArtifactNames lists the artifacts of one fitted pipeline.
var ArtifactNames = []string{VectorizerArtifact, SelectorArtifact, ClassifierArtifact}

// envelope wraps a fitted component with the run that produced it.
type envelope[T any] struct {
	Kind      string    `json:"kind"`
	FitID     string    `json:"fit_id"`
	CreatedAt time.Time `json:"created_at"`
	Model     T         `json:"model"`
}

// Save writes the three fitted components, each stamped with p.FitID.
func Save(store storage.ArtifactStorage, p *Pipeline) error {
	if p == nil {
		return ErrNotFitted
	}
	now := time.Now().UTC()
	if err := store.Save(VectorizerArtifact, envelope[*features.TFIDFVectorizer]{
		Kind: VectorizerArtifact, FitID: p.FitID, CreatedAt: now, Model: p.Vectorizer,
	}); err != nil {
		return fmt.Errorf("save %s: %w", VectorizerArtifact, err)
	}
	if err := store.Save(SelectorArtifact, envelope[*features.ChiSquareSelector]{
		Kind: SelectorArtifact, FitID: p.FitID, CreatedAt: now, Model: p.Selector,
	}); err != nil {
		return fmt.Errorf("save %s: %w", SelectorArtifact, err)
	}
	if err := store.Save(ClassifierArtifact, envelope[*classifier.LinearSVC]{
		Kind: ClassifierArtifact, FitID: p.FitID, CreatedAt: now, Model: p.Classifier,
	}); err != nil {
		return fmt.Errorf("save %s: %w", ClassifierArtifact, err)
	}
	return nil
}

// Load reads the three components back and rejects a set mixed from
// different runs or whose dimensions do not chain. A nil filter means
// sanity.Default().
func Load(store storage.ArtifactStorage, filter *sanity.Filter) (*Pipeline, error) {
	vec, err := loadEnvelope[*features.TFIDFVectorizer](store, VectorizerArtifact)
	if err != nil {
		return nil, err
	}
	sel, err := loadEnvelope[*features.ChiSquareSelector](store, SelectorArtifact)
	if err != nil {
		return nil, err
	}
	svc, err := loadEnvelope[*classifier.LinearSVC](store, ClassifierArtifact)
	if err != nil {
		return nil, err
	}

	if sel.FitID != vec.FitID || svc.FitID != vec.FitID {
		return nil, fmt.Errorf("fit ids vectorizer=%q selector=%q classifier=%q: %w",
			vec.FitID, sel.FitID, svc.FitID, ErrArtifactMismatch)
	}
	return New(vec.Model, sel.Model, svc.Model, filter, vec.FitID)
}

func loadEnvelope[T any](store storage.ArtifactStorage, name string) (envelope[T], error) {
	var env envelope[T]
	if err := store.Load(name, &env); err != nil {
		if errors.Is(err, features.ErrDimensionMismatch) || errors.Is(err, classifier.ErrDimensionMismatch) {
			return env, fmt.Errorf("load %s: %w: %w", name, ErrArtifactMismatch, err)
		}
		return env, fmt.Errorf("load %s: %w", name, err)
	}
	if env.Kind != name {
		return env, fmt.Errorf("artifact %s holds a %q: %w", name, env.Kind, ErrArtifactMismatch)
	}
	return env, nil
}
