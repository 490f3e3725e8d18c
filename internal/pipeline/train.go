package pipeline

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"github.com/scalynx/idea-validator/internal/classifier"
	"github.com/scalynx/idea-validator/internal/dataset"
	"github.com/scalynx/idea-validator/internal/features"
	"github.com/scalynx/idea-validator/internal/sanity"
	"github.com/scalynx/idea-validator/internal/textproc"
)

// TrainOptions groups the knobs of one training run.
type TrainOptions struct {
	Vectorizer features.VectorizerOptions
	SelectorK  int
	SVC        classifier.Options
	TestSize   float64
	Folds      int
	Seed       int64
	// TopTerms is how many of the highest-scoring selected terms to report.
	TopTerms int
}

func DefaultTrainOptions() TrainOptions {
	return TrainOptions{
		Vectorizer: features.DefaultVectorizerOptions(),
		SelectorK:  8000,
		SVC:        classifier.DefaultOptions(),
		TestSize:   0.2,
		Folds:      5,
		Seed:       42,
		TopTerms:   15,
	}
}

// TrainResult is a fitted pipeline with its evaluation.
type TrainResult struct {
	Pipeline  *Pipeline
	Report    classifier.Report
	CV        *classifier.CVResult
	TrainSize int
	TestSize  int
	TopTerms  []string
}

// Train fits vectorizer, selector and classifier on records. The classifier
// is fit on the training part of a stratified split and scored on the rest;
// cross-validation runs over the full selected matrix and is skipped, with a
// warning, when the data is too small for it.
func Train(records []dataset.Record, opts TrainOptions, logger *logrus.Entry) (*TrainResult, error) {
	if logger == nil {
		logger = logrus.NewEntry(logrus.StandardLogger())
	}
	if len(records) == 0 {
		return nil, dataset.ErrEmptyDataset
	}

	docs := lo.Map(records, func(r dataset.Record, _ int) string {
		return textproc.Normalize(r.Text)
	})
	y := dataset.Labels(records)

	vec := features.NewTFIDFVectorizer(opts.Vectorizer)
	X, err := vec.FitTransform(docs)
	if err != nil {
		return nil, fmt.Errorf("fit vectorizer: %w", err)
	}
	logger.WithField("vocabulary", vec.Dim()).Info("Vectorizer fitted")

	sel := features.NewChiSquareSelector(opts.SelectorK)
	Xs, err := sel.FitTransform(X, y)
	if err != nil {
		return nil, fmt.Errorf("fit selector: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"requested": opts.SelectorK,
		"selected":  sel.OutputDim(),
	}).Info("Features selected")

	split, err := classifier.StratifiedSplit(y, opts.TestSize, opts.Seed)
	if err != nil {
		return nil, fmt.Errorf("split: %w", err)
	}

	svcOpts := opts.SVC
	svcOpts.Seed = opts.Seed
	svc := classifier.NewLinearSVC(svcOpts)
	if err := svc.Fit(classifier.Subset(Xs, split.Train), classifier.Subset(y, split.Train)); err != nil {
		return nil, fmt.Errorf("fit classifier: %w", err)
	}
	entry := logger.WithFields(logrus.Fields{
		"iterations": svc.Iterations,
		"train_size": len(split.Train),
	})
	if svc.Converged {
		entry.Info("Classifier fitted")
	} else {
		entry.Warn("Classifier hit the iteration limit before converging")
	}

	predicted, err := svc.PredictBatch(classifier.Subset(Xs, split.Test))
	if err != nil {
		return nil, fmt.Errorf("score test split: %w", err)
	}
	report, err := classifier.Evaluate(classifier.Subset(y, split.Test), predicted)
	if err != nil {
		return nil, fmt.Errorf("score test split: %w", err)
	}
	logger.WithFields(logrus.Fields{
		"test_size": report.Total,
		"accuracy":  report.Accuracy,
		"macro_f1":  report.MacroAvg.F1,
	}).Info("Held-out evaluation")

	result := &TrainResult{
		Report:    report,
		TrainSize: len(split.Train),
		TestSize:  len(split.Test),
	}

	if opts.Folds > 1 {
		cv, err := classifier.CrossValidate(Xs, y, opts.Folds, svcOpts)
		if err != nil {
			logger.WithError(err).Warn("Cross-validation skipped")
		} else {
			result.CV = &cv
			logger.WithFields(logrus.Fields{
				"folds": opts.Folds,
				"mean":  cv.Mean,
				"std":   cv.Std,
			}).Info("Cross-validation")
		}
	}

	terms := vec.Terms()
	result.TopTerms = lo.Map(sel.Top(opts.TopTerms), func(idx int, _ int) string {
		return terms[idx]
	})

	p, err := New(vec, sel, svc, sanity.Default(), uuid.NewString())
	if err != nil {
		return nil, err
	}
	result.Pipeline = p
	logger.WithField("fit_id", p.FitID).Info("Training complete")
	return result, nil
}
