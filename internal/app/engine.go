// Package service provides the recommendation engine that the HTTP API,
// the CLI and the batch runner share.
package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/okian/shortlist/internal/domain/balance"
	"github.com/okian/shortlist/internal/domain/catalog"
	"github.com/okian/shortlist/internal/domain/enrich"
	"github.com/okian/shortlist/internal/domain/model"
	"github.com/okian/shortlist/internal/domain/query"
	"github.com/okian/shortlist/internal/domain/scoring"
	"github.com/okian/shortlist/internal/domain/training"
	"github.com/okian/shortlist/internal/domain/types"
	"github.com/okian/shortlist/internal/domain/urlnorm"
	"github.com/okian/shortlist/internal/domain/vectorspace"
	"github.com/okian/shortlist/pkg/logger"
	"github.com/okian/shortlist/pkg/metrics"
)

// Engine ranks catalog assessments for free-text queries. It is immutable
// after NewEngine and safe for concurrent use; rebuilding means creating a
// new Engine.
type Engine struct {
	catalog *catalog.Store
	report  catalog.Report
	index   *training.Index
	booster *scoring.Booster
	space   *vectorspace.Space
	keys    []urlnorm.URL // normalized key per catalog position

	// Configuration
	defaultTopK       int
	maxResults        int
	candidatePool     int
	minResults        int
	durationTolerance float64
	trainingRows      []training.Row
	boostOpts         []scoring.Option
	vectorOpts        []vectorspace.Option

	logger logger.Logger
}

// NewEngine builds the catalog, training index and vector space from records.
func NewEngine(ctx context.Context, records []catalog.Record, opts ...Option) (*Engine, error) {
	start := time.Now()
	e := &Engine{
		defaultTopK:       DefaultTopK,
		maxResults:        DefaultMaxResults,
		candidatePool:     DefaultCandidatePool,
		minResults:        DefaultMinResults,
		durationTolerance: DefaultDurationTolerance,
		logger:            logger.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.logger = e.logger.Named("engine")

	store, report, err := catalog.Build(ctx, records, catalog.WithLogger(e.logger))
	if err != nil {
		return nil, fmt.Errorf("build catalog: %w", err)
	}
	e.catalog, e.report = store, report
	metrics.UpdateCatalogSize(store.Len())
	metrics.RecordCatalogSkipped("invalid", report.Invalid)
	metrics.RecordCatalogSkipped("duplicate", report.Duplicates)
	for v, n := range report.UnknownTestTypes {
		metrics.RecordCatalogUnknownTestType(v, n)
	}

	e.keys = make([]urlnorm.URL, store.Len())
	docs := make([]vectorspace.WeightedDoc, store.Len())
	for i, a := range store.All() {
		e.keys[i] = urlnorm.Normalize(a.Key)
		docs[i] = enrich.Document(a)
	}
	e.space, err = vectorspace.Fit(docs, e.vectorOpts...)
	if err != nil {
		return nil, fmt.Errorf("fit vector space: %w", err)
	}
	metrics.UpdateVocabularySize(e.space.VocabularySize())

	if len(e.trainingRows) > 0 {
		e.index = training.Build(ctx, e.trainingRows, store, training.WithLogger(e.logger))
	} else {
		e.index = training.Empty()
	}
	e.trainingRows = nil
	st := e.index.Stats()
	metrics.UpdateTrainingStats(st.Matched, st.Dropped, st.UniqueQueries, st.MatchRate())

	e.booster = scoring.NewBooster(e.index, append([]scoring.Option{scoring.WithLogger(e.logger)}, e.boostOpts...)...)

	elapsed := time.Since(start)
	metrics.UpdateIndexBuildDuration(float64(elapsed.Microseconds()) / 1000)
	e.logger.Info(ctx, "recommendation engine ready",
		logger.Int("assessments", store.Len()),
		logger.Int("vocabulary", e.space.VocabularySize()),
		logger.Int("training_queries", st.UniqueQueries),
		logger.Duration("took", elapsed),
	)
	return e, nil
}

// Recommend returns up to the configured maximum of records for q, best
// first. topK outside [1, max] is clamped. The result is empty only when
// ctx is done; any string, even blank, is treated as a query.
func (e *Engine) Recommend(ctx context.Context, q string, topK int) ([]types.Recommendation, error) {
	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("recommend: %w", err)
	}
	start := time.Now()
	topK = e.clampTopK(topK)

	req := e.candidates(ctx, q, topK)
	result := e.applyFallbacks(ctx, req)
	if len(result) > e.maxResults {
		result = result[:e.maxResults]
	}

	out := make([]types.Recommendation, len(result))
	for i, c := range result {
		out[i] = toRecommendation(c)
	}

	metrics.RecordRecommendation(float64(time.Since(start).Microseconds())/1000, len(out))
	e.logger.Debug(ctx, "recommendation served",
		logger.String("query", q),
		logger.Int("top_k", topK),
		logger.Int("results", len(out)),
		logger.Duration("took", time.Since(start)),
	)
	return out, nil
}

// request is the per-call state the fallback tiers read.
type request struct {
	query    string
	features query.Features
	topK     int
	pool     []model.Candidate // top scored, before the duration filter
	eligible []model.Candidate // pool after the duration filter
	result   []model.Candidate
}

// candidates runs the ranking steps up to category balancing.
func (e *Engine) candidates(ctx context.Context, q string, topK int) request {
	f := query.Extract(q)
	qv := e.space.Transform(enrich.QueryDocument(q, f))

	scored := make([]model.Candidate, e.catalog.Len())
	exact, fuzzy := 0, 0
	for i, a := range e.catalog.All() {
		score, kind := e.booster.Score(q, e.keys[i], vectorspace.Dot(qv, e.space.Row(i)))
		switch kind {
		case scoring.MatchExact:
			exact++
		case scoring.MatchFuzzy:
			fuzzy++
		case scoring.MatchNone:
		}
		scored[i] = model.Candidate{Assessment: a, Score: score}
	}
	metrics.RecordBoostMatches(scoring.MatchExact.String(), exact)
	metrics.RecordBoostMatches(scoring.MatchFuzzy.String(), fuzzy)

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	pool := scored[:min(e.candidatePool, len(scored))]

	eligible := e.filterDuration(pool, f.DurationMax)
	if dropped := len(pool) - len(eligible); dropped > 0 {
		metrics.RecordDurationFiltered(dropped)
	}
	if len(eligible) < e.minResults {
		metrics.RecordLowCandidates()
		e.logger.Warn(ctx, "few candidates left after filtering",
			logger.String("query", q),
			logger.Int("candidates", len(eligible)),
			logger.Int("pool", len(pool)),
		)
	}

	var result []model.Candidate
	if f.NeedsBalancing() {
		metrics.RecordBalancerInvocation()
		result = balance.Balance(eligible, f.RequiredCategories, f.SoftSkillsRequired, topK)
	} else {
		result = append([]model.Candidate(nil), eligible[:min(topK, len(eligible))]...)
	}

	return request{
		query:    q,
		features: f,
		topK:     topK,
		pool:     pool,
		eligible: eligible,
		result:   result,
	}
}

// filterDuration drops candidates whose declared duration exceeds
// max * tolerance. Unknown durations always pass.
func (e *Engine) filterDuration(pool []model.Candidate, maxMinutes *int) []model.Candidate {
	if maxMinutes == nil {
		return pool
	}
	limit := float64(*maxMinutes) * e.durationTolerance
	out := make([]model.Candidate, 0, len(pool))
	for _, c := range pool {
		if d := c.Assessment.Duration; d != nil && float64(*d) > limit {
			continue
		}
		out = append(out, c)
	}
	return out
}

func (e *Engine) clampTopK(k int) int {
	switch {
	case k <= 0:
		k = e.defaultTopK
	case k > e.maxResults:
		k = e.maxResults
	}
	return min(k, e.maxResults)
}

func toRecommendation(c model.Candidate) types.Recommendation {
	a := c.Assessment
	codes := make([]string, len(a.TestTypes))
	for i, t := range a.TestTypes {
		codes[i] = string(t)
	}
	var dur *int
	if a.Duration != nil {
		d := *a.Duration
		dur = &d
	}
	return types.Recommendation{
		Name:            a.Name,
		URL:             a.URL,
		Description:     a.Description,
		Duration:        dur,
		AdaptiveSupport: a.AdaptiveSupport,
		RemoteSupport:   a.RemoteSupport,
		TestType:        codes,
		Score:           c.Score,
	}
}

// CatalogSize returns the number of assessments loaded.
func (e *Engine) CatalogSize() int { return e.catalog.Len() }
