package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/scalynx/idea-validator/internal/classifier"
	"github.com/scalynx/idea-validator/internal/config"
	"github.com/scalynx/idea-validator/internal/dataset"
	"github.com/scalynx/idea-validator/internal/features"
	"github.com/scalynx/idea-validator/internal/pipeline"
)

func newTrainCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "train",
		Short: "Fit the pipeline on a labeled dataset and write its artifacts",
		RunE: func(cmd *cobra.Command, args []string) error {
			useSample, _ := cmd.Flags().GetBool("sample")
			path, _ := cmd.Flags().GetString("data")
			if path == "" {
				path = a.cfg.Dataset.Path
			}
			return a.train(cmd.OutOrStdout(), path, useSample)
		},
	}
	cmd.Flags().String("data", "", "Dataset path, CSV or JSON (overrides DATASET_PATH)")
	cmd.Flags().Bool("sample", false, "Train on the built-in sample set instead of a file")
	return cmd
}

func (a *app) train(out io.Writer, path string, useSample bool) error {
	var (
		records []dataset.Record
		stats   dataset.LoadStats
		err     error
	)
	if useSample {
		records = dataset.Sample()
		stats = dataset.LoadStats{Rows: len(records), Kept: len(records)}
		for _, r := range records {
			if r.Label == 1 {
				stats.ValidRecords++
			} else {
				stats.InvalidRecords++
			}
		}
		path = "built-in sample"
	} else {
		records, stats, err = dataset.Load(path)
		if err != nil {
			return fmt.Errorf("load dataset: %w", err)
		}
	}
	a.logger.WithFields(logrus.Fields{
		"source":        path,
		"rows":          stats.Rows,
		"kept":          stats.Kept,
		"dropped_label": stats.DroppedLabel,
		"dropped_empty": stats.DroppedEmpty,
	}).Info("Dataset loaded")

	result, err := pipeline.Train(records, trainOptions(a.cfg), a.logger)
	if err != nil {
		return err
	}

	store, err := a.store()
	if err != nil {
		return err
	}
	defer store.Close()
	if err := pipeline.Save(store, result.Pipeline); err != nil {
		return fmt.Errorf("save artifacts: %w", err)
	}
	a.logger.WithFields(logrus.Fields{
		"dir":    store.Dir(),
		"fit_id": result.Pipeline.FitID,
	}).Info("Artifacts written")

	renderTraining(out, stats, result)
	return nil
}

// trainOptions maps configuration onto a training run.
func trainOptions(cfg *config.Config) pipeline.TrainOptions {
	opts := pipeline.DefaultTrainOptions()
	opts.Vectorizer = features.VectorizerOptions{
		MaxFeatures: cfg.Vectorizer.MaxFeatures,
		NgramMin:    1,
		NgramMax:    cfg.Vectorizer.NgramMax,
		SublinearTF: cfg.Vectorizer.SublinearTF,
		StopWords:   true,
	}
	opts.SelectorK = cfg.Selector.K
	opts.SVC = classifier.Options{
		C:        cfg.SVC.C,
		Tol:      cfg.SVC.Tol,
		MaxIter:  cfg.SVC.MaxIter,
		Balanced: cfg.SVC.Balanced,
		Seed:     cfg.Eval.Seed,
	}
	opts.TestSize = cfg.Eval.TestSize
	opts.Folds = cfg.Eval.Folds
	opts.Seed = cfg.Eval.Seed
	return opts
}

func renderTraining(out io.Writer, stats dataset.LoadStats, result *pipeline.TrainResult) {
	summary := tablewriter.NewWriter(out)
	summary.SetHeader([]string{"Metric", "Value"})
	summary.SetAlignment(tablewriter.ALIGN_LEFT)
	summary.AppendBulk([][]string{
		{"fit id", result.Pipeline.FitID},
		{"records", strconv.Itoa(stats.Kept)},
		{"valid / invalid", fmt.Sprintf("%d / %d", stats.ValidRecords, stats.InvalidRecords)},
		{"dropped", strconv.Itoa(stats.DroppedLabel + stats.DroppedEmpty)},
		{"vocabulary", strconv.Itoa(result.Pipeline.Vectorizer.Dim())},
		{"selected features", strconv.Itoa(result.Pipeline.Selector.OutputDim())},
		{"train / test", fmt.Sprintf("%d / %d", result.TrainSize, result.TestSize)},
		{"converged", strconv.FormatBool(result.Pipeline.Classifier.Converged)},
	})
	if result.CV != nil {
		summary.Append([]string{"cv accuracy", fmt.Sprintf("%.4f (+/- %.4f)", result.CV.Mean, result.CV.Std)})
	}
	summary.Render()

	fmt.Fprintln(out, "\nHeld-out evaluation:")
	result.Report.Render(out)

	if len(result.TopTerms) > 0 {
		terms := tablewriter.NewWriter(out)
		terms.SetHeader([]string{"#", "Top chi2 term"})
		for i, term := range result.TopTerms {
			terms.Append([]string{strconv.Itoa(i + 1), term})
		}
		terms.Render()
	}
}
