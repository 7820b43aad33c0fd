// Package evaluate scores the engine against a labelled training log
// (mean Recall@K) and produces prediction files for unlabelled queries.
package evaluate

import (
	"context"
	"fmt"
	"strings"

	"github.com/okian/shortlist/internal/adapters/mq/worker"
	"github.com/okian/shortlist/internal/domain/training"
	"github.com/okian/shortlist/internal/domain/urlnorm"
	"github.com/okian/shortlist/pkg/logger"
)

// K is the default recall cutoff.
const K = 10

// highRecall is the lower bound of the high recall bucket.
const highRecall = 0.5

const maxQueryLen = 100

// Runner executes a batch of queries. *worker.Pool satisfies it.
type Runner interface {
	Run(ctx context.Context, queries []string, topK int) ([]worker.Result, error)
}

// Prediction is one row of a predictions file.
type Prediction struct {
	Query string
	URL   string
}

// QueryMetric is the recall of one unique query.
type QueryMetric struct {
	QueryNum         int     `json:"query_num"`
	Query            string  `json:"query"`
	GroundTruthCount int     `json:"ground_truth_count"`
	MatchedCount     int     `json:"matched_count"`
	RecallAtK        float64 `json:"recall_at_10"`
}

// Distribution buckets queries by recall.
type Distribution struct {
	High int `json:"high_recall"`
	Some int `json:"some_recall"`
	Zero int `json:"zero_recall"`
}

// Report is the outcome of an evaluation run.
type Report struct {
	MeanRecallAtK float64       `json:"mean_recall_at_10"`
	TotalQueries  int           `json:"total_queries"`
	PerQuery      []QueryMetric `json:"per_query_metrics"`
	Distribution  Distribution  `json:"distribution"`
	Predictions   []Prediction  `json:"-"`
}

// GroundTruth groups training rows by query in order of first appearance.
// Rows with a blank query or URL are ignored.
func GroundTruth(rows []training.Row) ([]string, map[string]map[urlnorm.URL]struct{}) {
	var queries []string
	truth := make(map[string]map[urlnorm.URL]struct{})
	for _, r := range rows {
		q := strings.TrimSpace(r.Query)
		if q == "" || strings.TrimSpace(r.URL) == "" {
			continue
		}
		set, ok := truth[q]
		if !ok {
			set = make(map[urlnorm.URL]struct{})
			truth[q] = set
			queries = append(queries, q)
		}
		set[urlnorm.Normalize(r.URL)] = struct{}{}
	}
	return queries, truth
}

// Recall returns the share of relevant URLs found in the first k predicted
// URLs. URLs are compared in normalized form.
func Recall(predicted []string, relevant map[urlnorm.URL]struct{}, k int) (matched int, recall float64) {
	if len(relevant) == 0 {
		return 0, 0
	}
	if len(predicted) > k {
		predicted = predicted[:k]
	}
	seen := make(map[urlnorm.URL]struct{}, len(predicted))
	for _, p := range predicted {
		n := urlnorm.Normalize(p)
		if _, dup := seen[n]; dup {
			continue
		}
		seen[n] = struct{}{}
		if _, ok := relevant[n]; ok {
			matched++
		}
	}
	return matched, float64(matched) / float64(len(relevant))
}

// Evaluate runs every unique training query and computes mean Recall@K.
func Evaluate(ctx context.Context, runner Runner, rows []training.Row, opts ...Option) (*Report, error) {
	o := newOptions(opts)
	queries, truth := GroundTruth(rows)
	if len(queries) == 0 {
		return nil, ErrNoQueries
	}

	results, err := runner.Run(ctx, queries, o.k)
	if err != nil {
		return nil, fmt.Errorf("evaluate: %w", err)
	}

	report := &Report{TotalQueries: len(queries)}
	var sum float64
	for i, res := range results {
		if res.Err != nil {
			return nil, fmt.Errorf("evaluate query %d: %w: %w", i+1, ErrJobFailed, res.Err)
		}
		q := queries[i]
		urls := make([]string, len(res.Recommendations))
		for j, rec := range res.Recommendations {
			urls[j] = rec.URL
			report.Predictions = append(report.Predictions, Prediction{Query: q, URL: rec.URL})
		}

		matched, recall := Recall(urls, truth[q], o.k)
		sum += recall
		report.PerQuery = append(report.PerQuery, QueryMetric{
			QueryNum:         i + 1,
			Query:            truncate(q, maxQueryLen),
			GroundTruthCount: len(truth[q]),
			MatchedCount:     matched,
			RecallAtK:        recall,
		})
		switch {
		case recall >= highRecall:
			report.Distribution.High++
		case recall > 0:
			report.Distribution.Some++
		default:
			report.Distribution.Zero++
		}

		o.logger.Debug(ctx, "query evaluated",
			logger.Int("query_num", i+1),
			logger.Int("matched", matched),
			logger.Int("relevant", len(truth[q])),
			logger.Float64("recall", recall),
		)
	}
	report.MeanRecallAtK = sum / float64(len(queries))

	o.logger.Info(ctx, "evaluation complete",
		logger.Int("queries", report.TotalQueries),
		logger.Float64("mean_recall", report.MeanRecallAtK),
		logger.Int("high_recall", report.Distribution.High),
		logger.Int("some_recall", report.Distribution.Some),
		logger.Int("zero_recall", report.Distribution.Zero),
	)
	return report, nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
