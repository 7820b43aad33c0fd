package main

import (
	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/okian/shortlist/internal/domain/types"
)

type recommendOutput struct {
	Query           string                 `json:"query"`
	Recommendations []types.Recommendation `json:"recommendations"`
	Count           int                    `json:"count"`
}

func newRecommendCmd(c *cli) *cobra.Command {
	var (
		query string
		topK  int
	)
	cmd := &cobra.Command{
		Use:   "recommend",
		Short: "Recommend assessments for one query",
		Long:  "Build the engine and print the ranked recommendations for --query as JSON.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			engine, err := c.loadEngine(cmd.Context())
			if err != nil {
				return err
			}
			recs, err := engine.Recommend(cmd.Context(), query, topK)
			if err != nil {
				return err
			}
			out, err := json.MarshalIndent(recommendOutput{Query: query, Recommendations: recs, Count: len(recs)}, "", "  ")
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(append(out, '\n'))
			return err
		},
	}
	cmd.Flags().StringVarP(&query, "query", "q", "", "Query or job description (required)")
	cmd.Flags().IntVarP(&topK, "top-k", "k", 10, "Number of recommendations (1-10)")
	_ = cmd.MarkFlagRequired("query")
	return cmd
}
