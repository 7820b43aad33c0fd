package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/okian/shortlist/internal/adapters/repository"
	service "github.com/okian/shortlist/internal/app"
	"github.com/okian/shortlist/internal/evaluate"
)

var errNoTrainingRows = errors.New("training file has no rows")

func newEvaluateCmd(c *cli) *cobra.Command {
	var (
		trainPath   string
		outPath     string
		resultsPath string
	)
	cmd := &cobra.Command{
		Use:   "evaluate",
		Short: "Measure mean Recall@10 against a labelled training log",
		Long: "Run every unique training query through the engine, write the predictions CSV " +
			"and the evaluation report, and print a summary.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			if trainPath == "" {
				trainPath = c.cfg.TrainingPath
			}

			records, err := repository.NewFileCatalog(c.cfg.CatalogPath, c.repoOptions()...).LoadCatalog(ctx)
			if err != nil {
				return err
			}
			rows, err := repository.NewFileTraining(trainPath, c.repoOptions()...).LoadTraining(ctx)
			if err != nil {
				return err
			}
			if len(rows) == 0 {
				return fmt.Errorf("%w: %s", errNoTrainingRows, trainPath)
			}

			opts := append(c.engineOptions(), service.WithTrainingRows(rows))
			engine, err := service.NewEngine(ctx, records, opts...)
			if err != nil {
				return err
			}

			report, err := evaluate.Evaluate(ctx, c.pool(engine), rows, evaluate.WithLogger(c.log.Named("evaluate")))
			if err != nil {
				return err
			}
			if err := evaluate.SavePredictions(outPath, report.Predictions); err != nil {
				return err
			}
			if err := evaluate.SaveReport(resultsPath, report); err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Mean Recall@%d: %.4f (%.2f%%)\n", evaluate.K, report.MeanRecallAtK, report.MeanRecallAtK*100)
			fmt.Fprintf(w, "Queries: %d  high: %d  some: %d  zero: %d\n",
				report.TotalQueries, report.Distribution.High, report.Distribution.Some, report.Distribution.Zero)
			fmt.Fprintf(w, "Predictions: %s\nResults: %s\n", outPath, resultsPath)
			return nil
		},
	}
	cmd.Flags().StringVar(&trainPath, "train", "", "Labelled training CSV (defaults to SHORTLIST_TRAINING_PATH)")
	cmd.Flags().StringVar(&outPath, "out", "predictions.csv", "Predictions CSV output")
	cmd.Flags().StringVar(&resultsPath, "results", "evaluation_results.json", "Evaluation report output")
	return cmd
}
