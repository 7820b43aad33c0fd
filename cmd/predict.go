package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/shortlist/internal/adapters/repository"
	"github.com/okian/shortlist/internal/evaluate"
)

func newPredictCmd(c *cli) *cobra.Command {
	var (
		queriesPath string
		outPath     string
	)
	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Write predictions for an unlabelled query file",
		Long:  "Read the Query column of --queries, recommend for each query and write a Query,Assessment_url CSV.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			queries, err := repository.LoadQueries(queriesPath)
			if err != nil {
				return err
			}
			engine, err := c.loadEngine(ctx)
			if err != nil {
				return err
			}
			batch, err := evaluate.Predict(ctx, c.pool(engine), queries, evaluate.WithLogger(c.log.Named("predict")))
			if err != nil {
				return err
			}
			if err := evaluate.SavePredictions(outPath, batch.Predictions); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Predictions: %d rows for %d/%d queries\n", len(batch.Predictions), batch.Covered, batch.Total)
			for _, q := range batch.Missing {
				fmt.Fprintf(w, "No predictions: %s\n", q)
			}
			fmt.Fprintf(w, "Output: %s\n", outPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&queriesPath, "queries", "", "CSV file with a Query column (required)")
	cmd.Flags().StringVar(&outPath, "out", "test_predictions.csv", "Predictions CSV output")
	_ = cmd.MarkFlagRequired("queries")
	return cmd
}
