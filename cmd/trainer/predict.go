package main

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/scalynx/idea-validator/internal/pipeline"
)

func newPredictCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predict [idea...]",
		Short: "Label ideas with the fitted artifacts",
		Long:  "Label ideas given as arguments, or one per line from --file (\"-\" reads stdin).",
		RunE: func(cmd *cobra.Command, args []string) error {
			file, _ := cmd.Flags().GetString("file")
			explain, _ := cmd.Flags().GetBool("explain")

			ideas := args
			if file != "" {
				fromFile, err := readIdeas(file, cmd.InOrStdin())
				if err != nil {
					return err
				}
				ideas = append(ideas, fromFile...)
			}
			if len(ideas) == 0 {
				return fmt.Errorf("no ideas given: %w", pipeline.ErrMalformedInput)
			}
			return a.predict(cmd.OutOrStdout(), ideas, explain)
		},
	}
	cmd.Flags().StringP("file", "f", "", "Read ideas from a file, one per line")
	cmd.Flags().Bool("explain", false, "Show classifier margin and sanity filter matches")
	return cmd
}

func (a *app) predict(out io.Writer, ideas []string, explain bool) error {
	store, err := a.store()
	if err != nil {
		return err
	}
	defer store.Close()

	p, err := pipeline.Load(store, nil)
	if err != nil {
		return err
	}
	a.logger.WithField("fit_id", p.FitID).Debug("Pipeline loaded")

	predictions, err := p.PredictDetailed(ideas)
	if err != nil {
		return err
	}

	table := tablewriter.NewWriter(out)
	header := []string{"Idea", "Label", "Feedback"}
	if explain {
		header = append(header, "Margin", "Sanity", "Matches")
	}
	table.SetHeader(header)
	table.SetAutoWrapText(false)
	for _, pred := range predictions {
		row := []string{pred.Text, fmt.Sprint(int(pred.Label)), pred.Label.Feedback()}
		if explain {
			matches := append(append([]string(nil), pred.Sanity.Unrealistic...), pred.Sanity.Plausible...)
			row = append(row,
				fmt.Sprintf("%.4f", pred.Margin),
				string(pred.Sanity.Reason),
				strings.Join(matches, ", "),
			)
		}
		table.Append(row)
	}
	table.Render()
	return nil
}

func readIdeas(path string, stdin io.Reader) ([]string, error) {
	r := stdin
	if path != "-" {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("open ideas file: %w", err)
		}
		defer f.Close()
		r = f
	}

	var ideas []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			ideas = append(ideas, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read ideas: %w", err)
	}
	return ideas, nil
}
