package main

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/okian/shortlist/internal/adapters/repository"
	"github.com/okian/shortlist/internal/loadtest"
)

var errLoadTestFailed = errors.New("load test failed")

// Queries used when no --queries file is given.
var defaultLoadQueries = []string{
	"Java developer who can collaborate with business teams",
	"Entry level sales role, assessment under 30 minutes",
	"Python, SQL and JavaScript skills for a mid-level analyst",
	"Personality and behaviour test for customer support",
	"Cognitive ability test for graduate hires",
}

func newLoadtestCmd(c *cli) *cobra.Command {
	var (
		cfg         loadtest.Config
		queriesPath string
	)
	cmd := &cobra.Command{
		Use:   "loadtest",
		Short: "Drive a running server and check its responses",
		Long:  "Send concurrent /recommend requests to --url, validate every response body and report latency percentiles.",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg.Queries = defaultLoadQueries
			if queriesPath != "" {
				q, err := repository.LoadQueries(queriesPath)
				if err != nil {
					return err
				}
				cfg.Queries = q
			}

			stats, err := loadtest.Run(cmd.Context(), cfg, c.log.Named("loadtest"))
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			fmt.Fprintf(w, "Requests: %d  ok: %d  failed: %d  violations: %d\n",
				stats.Requests, stats.Succeeded, stats.Failed, stats.Violations)
			fmt.Fprintf(w, "Latency p50: %s  p95: %s  p99: %s  total: %s\n",
				stats.P50, stats.P95, stats.P99, stats.Duration)
			for _, m := range stats.Messages {
				fmt.Fprintf(w, "  %s\n", m)
			}
			if !stats.OK() {
				return errLoadTestFailed
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&cfg.BaseURL, "url", "http://localhost:8080", "Server base URL")
	cmd.Flags().IntVar(&cfg.Requests, "requests", 100, "Total requests")
	cmd.Flags().IntVar(&cfg.Workers, "workers", 8, "Concurrent clients")
	cmd.Flags().IntVar(&cfg.TopK, "top-k", 10, "top_k sent with each request")
	cmd.Flags().DurationVar(&cfg.Timeout, "timeout", 10*time.Second, "Per-request timeout")
	cmd.Flags().StringVar(&queriesPath, "queries", "", "Optional CSV file with a Query column")
	return cmd
}
