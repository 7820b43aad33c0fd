package loadtest

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/okian/shortlist/pkg/logger"
)

// maxMessages bounds how many violation messages Stats keeps.
const maxMessages = 20

// Run sends cfg.Requests recommend calls, cycling through cfg.Queries, with
// at most cfg.Workers in flight.
func Run(ctx context.Context, cfg Config, log logger.Logger) (*Stats, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if log == nil {
		log = logger.Default()
	}

	c := newClient(&cfg)
	stats := &Stats{Requests: cfg.Requests}
	latencies := make([]time.Duration, 0, cfg.Requests)
	var mu sync.Mutex

	log.Info(ctx, "load test starting",
		logger.String("url", cfg.BaseURL),
		logger.Int("requests", cfg.Requests),
		logger.Int("workers", cfg.Workers),
	)

	start := time.Now()
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	for i := 0; i < cfg.Requests; i++ {
		query := cfg.Queries[i%len(cfg.Queries)]
		g.Go(func() error {
			t0 := time.Now()
			r, err := c.recommend(gctx, query, cfg.TopK)
			elapsed := time.Since(t0)

			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				stats.Failed++
				stats.note(fmt.Sprintf("request failed: %v", err))
				return nil
			}
			latencies = append(latencies, elapsed)
			problems := verify(query, r)
			if len(problems) > 0 {
				stats.Violations++
				for _, p := range problems {
					stats.note(p)
				}
				return nil
			}
			stats.Succeeded++
			return nil
		})
	}
	_ = g.Wait()
	stats.Duration = time.Since(start)
	stats.P50, stats.P95, stats.P99 = percentiles(latencies)

	if err := ctx.Err(); err != nil {
		return stats, fmt.Errorf("load test interrupted: %w", err)
	}

	log.Info(ctx, "load test complete",
		logger.Int("succeeded", stats.Succeeded),
		logger.Int("failed", stats.Failed),
		logger.Int("violations", stats.Violations),
		logger.Duration("p95", stats.P95),
		logger.Duration("elapsed", stats.Duration),
	)
	return stats, nil
}

func (s *Stats) note(msg string) {
	if len(s.Messages) < maxMessages {
		s.Messages = append(s.Messages, msg)
	}
}

// percentiles returns the nearest-rank p50, p95 and p99 of d.
func percentiles(d []time.Duration) (p50, p95, p99 time.Duration) {
	if len(d) == 0 {
		return 0, 0, 0
	}
	sorted := append([]time.Duration(nil), d...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	at := func(p float64) time.Duration {
		i := int(math.Ceil(p*float64(len(sorted)))) - 1
		return sorted[max(0, min(i, len(sorted)-1))]
	}
	return at(0.50), at(0.95), at(0.99)
}
