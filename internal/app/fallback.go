package service

import (
	"context"
	"sort"

	"github.com/okian/shortlist/internal/domain/enrich"
	"github.com/okian/shortlist/internal/domain/model"
	"github.com/okian/shortlist/internal/domain/vectorspace"
	"github.com/okian/shortlist/pkg/logger"
	"github.com/okian/shortlist/pkg/metrics"
)

// fallbackTier widens a short result. Each tier reads the request state
// and returns the candidate list to use from then on.
type fallbackTier struct {
	name  string
	apply func(e *Engine, r request) []model.Candidate
}

// fallbackTiers run in order until the result is long enough.
var fallbackTiers = []fallbackTier{
	{name: "backfill_eligible", apply: backfillEligible},
	{name: "unfiltered_pool", apply: backfillPool},
	{name: "raw_similarity", apply: rawSimilarity},
}

// threshold is the result size the tiers aim for.
func (e *Engine) threshold() int {
	return min(e.minResults, e.catalog.Len())
}

func (e *Engine) applyFallbacks(ctx context.Context, r request) []model.Candidate {
	want := e.threshold()
	for _, tier := range fallbackTiers {
		if len(r.result) >= want {
			break
		}
		before := len(r.result)
		r.result = tier.apply(e, r)
		if len(r.result) != before {
			metrics.RecordFallback(tier.name)
			e.logger.Warn(ctx, "fallback tier applied",
				logger.String("tier", tier.name),
				logger.String("query", r.query),
				logger.Int("before", before),
				logger.Int("after", len(r.result)),
			)
		}
	}
	return r.result
}

// backfillEligible appends duration-eligible candidates by score, skipping
// ones already present, up to max(minResults, topK).
func backfillEligible(e *Engine, r request) []model.Candidate {
	limit := max(e.minResults, r.topK)
	out := append([]model.Candidate(nil), r.result...)
	seen := make(map[string]struct{}, len(out))
	for _, c := range out {
		seen[c.Assessment.Key] = struct{}{}
	}
	for _, c := range r.eligible {
		if len(out) >= limit {
			break
		}
		if _, dup := seen[c.Assessment.Key]; dup {
			continue
		}
		out = append(out, c)
		seen[c.Assessment.Key] = struct{}{}
	}
	return out
}

// backfillPool tops the result up from the unfiltered pool by score,
// skipping ones already present, until the threshold is met. Duration
// eligible candidates were taken first, so excluded ones only fill the tail.
func backfillPool(e *Engine, r request) []model.Candidate {
	want := e.threshold()
	out := append([]model.Candidate(nil), r.result...)
	seen := make(map[string]struct{}, len(out))
	for _, c := range out {
		seen[c.Assessment.Key] = struct{}{}
	}
	for _, c := range r.pool {
		if len(out) >= want {
			break
		}
		if _, dup := seen[c.Assessment.Key]; dup {
			continue
		}
		out = append(out, c)
		seen[c.Assessment.Key] = struct{}{}
	}
	return out
}

// rawSimilarity ranks by plain query similarity with no enrichment or
// boost, but only when the pool itself is empty.
func rawSimilarity(e *Engine, r request) []model.Candidate {
	if len(r.pool) > 0 || len(r.result) > 0 {
		return r.result
	}
	qv := e.space.Transform(enrich.RawDocument(r.query))
	all := make([]model.Candidate, e.catalog.Len())
	for i, a := range e.catalog.All() {
		all[i] = model.Candidate{Assessment: a, Score: vectorspace.Dot(qv, e.space.Row(i))}
	}
	sort.SliceStable(all, func(i, j int) bool { return all[i].Score > all[j].Score })
	return all[:min(r.topK, len(all))]
}
