package engine

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/scalynx/idea-validator/internal/config"
	"github.com/scalynx/idea-validator/internal/pipeline"
	"github.com/scalynx/idea-validator/internal/sanity"
	"github.com/scalynx/idea-validator/internal/storage"
)

// Engine serves validations from the fitted pipeline in the artifact store
type Engine struct {
	Config *config.Config
	Logger *logrus.Entry
	Store  storage.ArtifactStorage

	mu       sync.RWMutex
	pipeline *pipeline.Pipeline
	stats    EngineStats
}

type EngineStats struct {
	Validations int64     `json:"validations"`
	Accepted    int64     `json:"accepted"`
	Rejected    int64     `json:"rejected"`
	Reloads     int64     `json:"reloads"`
	LastError   string    `json:"last_error,omitempty"`
	StartTime   time.Time `json:"start_time"`
}

// Verdict is what a caller sees for one idea.
type Verdict struct {
	Idea     string `json:"idea"`
	Valid    bool   `json:"valid"`
	Label    int    `json:"label"`
	Feedback string `json:"feedback"`
}

// NewEngine loads the artifact set once. A missing or mixed set is fatal.
func NewEngine(cfg *config.Config, logger *logrus.Entry, store storage.ArtifactStorage) (*Engine, error) {
	p, err := pipeline.Load(store, sanity.Default())
	if err != nil {
		return nil, fmt.Errorf("load pipeline: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"fit_id":     p.FitID,
		"vocabulary": p.Vectorizer.Dim(),
		"selected":   p.Selector.OutputDim(),
	}).Info("Pipeline loaded")

	return &Engine{
		Config:   cfg,
		Logger:   logger,
		Store:    store,
		pipeline: p,
		stats:    EngineStats{StartTime: time.Now()},
	}, nil
}

// Validate labels each idea, in order. A blank idea fails the whole call
// with pipeline.ErrMalformedInput.
func (e *Engine) Validate(ideas []string) ([]Verdict, error) {
	for i, idea := range ideas {
		if strings.TrimSpace(idea) == "" {
			return nil, fmt.Errorf("idea %d: %w", i, pipeline.ErrMalformedInput)
		}
	}

	e.mu.RLock()
	p := e.pipeline
	e.mu.RUnlock()

	labels, err := p.Predict(ideas)
	if err != nil {
		e.recordError(err)
		return nil, err
	}

	verdicts := make([]Verdict, len(ideas))
	var accepted int64
	for i, label := range labels {
		verdicts[i] = Verdict{
			Idea:     ideas[i],
			Valid:    label.IsValid(),
			Label:    int(label),
			Feedback: label.Feedback(),
		}
		if label.IsValid() {
			accepted++
		}
	}

	e.mu.Lock()
	e.stats.Validations += int64(len(ideas))
	e.stats.Accepted += accepted
	e.stats.Rejected += int64(len(ideas)) - accepted
	e.mu.Unlock()

	return verdicts, nil
}

// Explain returns the detailed composed decision for each idea.
func (e *Engine) Explain(ideas []string) ([]pipeline.Prediction, error) {
	e.mu.RLock()
	p := e.pipeline
	e.mu.RUnlock()
	return p.PredictDetailed(ideas)
}

// Reload swaps in the artifact set currently in the store. On failure the
// running pipeline is kept.
func (e *Engine) Reload() error {
	p, err := pipeline.Load(e.Store, sanity.Default())
	if err != nil {
		e.recordError(err)
		return fmt.Errorf("reload pipeline: %w", err)
	}

	e.mu.Lock()
	previous := e.pipeline.FitID
	e.pipeline = p
	e.stats.Reloads++
	e.mu.Unlock()

	e.Logger.WithFields(logrus.Fields{
		"previous_fit_id": previous,
		"fit_id":          p.FitID,
	}).Info("Pipeline reloaded")
	return nil
}

// FitID identifies the training run being served.
func (e *Engine) FitID() string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.pipeline.FitID
}

// Stats returns a copy of the counters.
func (e *Engine) Stats() EngineStats {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.stats
}

func (e *Engine) recordError(err error) {
	e.Logger.WithError(err).Error("Validation failed")
	e.mu.Lock()
	e.stats.LastError = err.Error()
	e.mu.Unlock()
}
