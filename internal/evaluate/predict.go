package evaluate

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/shortlist/pkg/logger"
)

// Batch is the outcome of a prediction run.
type Batch struct {
	Predictions []Prediction
	Total       int
	Covered     int
	Missing     []string
}

// Predict recommends for every query and flattens the results into rows.
// Blank queries are skipped. A query with no recommendations is reported in
// Missing; with the engine's fallbacks this only happens for an empty catalog.
func Predict(ctx context.Context, runner Runner, queries []string, opts ...Option) (*Batch, error) {
	o := newOptions(opts)

	kept := make([]string, 0, len(queries))
	for _, q := range queries {
		if q = strings.TrimSpace(q); q != "" {
			kept = append(kept, q)
		}
	}
	if len(kept) == 0 {
		return nil, ErrNoQueries
	}

	results, err := runner.Run(ctx, kept, o.k)
	if err != nil {
		return nil, fmt.Errorf("predict: %w", err)
	}

	b := &Batch{Total: len(kept)}
	for i, res := range results {
		if res.Err != nil {
			return nil, fmt.Errorf("predict query %d: %w: %w", i+1, ErrJobFailed, res.Err)
		}
		if len(res.Recommendations) == 0 {
			b.Missing = append(b.Missing, kept[i])
			continue
		}
		b.Covered++
		for _, rec := range res.Recommendations {
			b.Predictions = append(b.Predictions, Prediction{Query: kept[i], URL: rec.URL})
		}
	}

	if len(b.Missing) > 0 {
		o.logger.Warn(ctx, "queries without predictions",
			logger.Int("missing", len(b.Missing)),
			logger.Int("total", b.Total),
		)
	}
	o.logger.Info(ctx, "predictions generated",
		logger.Int("rows", len(b.Predictions)),
		logger.Int("covered", b.Covered),
		logger.Int("total", b.Total),
	)
	return b, nil
}
