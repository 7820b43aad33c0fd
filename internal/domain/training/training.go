// Package training indexes the historical query log that links recruiter
// queries to catalog assessments.
package training

import (
	"context"
	"sort"
	"strings"

	"github.com/okian/shortlist/internal/domain/model"
	"github.com/okian/shortlist/internal/domain/urlnorm"
	"github.com/okian/shortlist/pkg/logger"
)

// lowMatchRate is the match rate under which the log is reported as suspect.
const lowMatchRate = 0.5

// Row is one (query, assessment URL) pair from the training log.
type Row struct {
	Query string
	URL   string
}

// Resolver resolves normalized URLs against the catalog.
type Resolver interface {
	LookupNormalized(u urlnorm.URL) (*model.Assessment, bool)
}

// Stats describes how much of the log survived the catalog join.
type Stats struct {
	Total         int
	Matched       int
	Dropped       int
	UniqueQueries int
}

// MatchRate returns Matched/Total, or 0 for an empty log.
func (s Stats) MatchRate() float64 {
	if s.Total == 0 {
		return 0
	}
	return float64(s.Matched) / float64(s.Total)
}

// Index maps queries to assessment keys and back. It is read-only after Build.
type Index struct {
	queryToKeys  map[string]map[urlnorm.URL]struct{}
	keyToQueries map[urlnorm.URL]map[string]struct{}
	stats        Stats
}

// Empty returns an index with no entries.
func Empty() *Index {
	return &Index{
		queryToKeys:  map[string]map[urlnorm.URL]struct{}{},
		keyToQueries: map[urlnorm.URL]map[string]struct{}{},
	}
}

// Option configures Build.
type Option func(*options)

type options struct {
	log logger.Logger
}

// WithLogger sets the logger used for the match-rate warning.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.log = l
		}
	}
}

// NormalizeQuery is the lookup form of a query: lower-cased and trimmed.
func NormalizeQuery(q string) string {
	return strings.ToLower(strings.TrimSpace(q))
}

// Build joins rows against the catalog. Rows with a blank query or a URL the
// catalog does not know are dropped and counted.
func Build(ctx context.Context, rows []Row, catalog Resolver, opts ...Option) *Index {
	o := &options{log: logger.Default()}
	for _, opt := range opts {
		opt(o)
	}

	idx := Empty()
	idx.stats.Total = len(rows)
	for _, r := range rows {
		q := NormalizeQuery(r.Query)
		if q == "" {
			idx.stats.Dropped++
			continue
		}
		a, ok := catalog.LookupNormalized(urlnorm.Normalize(r.URL))
		if !ok {
			idx.stats.Dropped++
			continue
		}
		key := urlnorm.Normalize(a.Key)
		idx.stats.Matched++

		if idx.queryToKeys[q] == nil {
			idx.queryToKeys[q] = map[urlnorm.URL]struct{}{}
		}
		idx.queryToKeys[q][key] = struct{}{}
		if idx.keyToQueries[key] == nil {
			idx.keyToQueries[key] = map[string]struct{}{}
		}
		idx.keyToQueries[key][q] = struct{}{}
	}
	idx.stats.UniqueQueries = len(idx.queryToKeys)

	fields := []logger.Field{
		logger.Int("rows", idx.stats.Total),
		logger.Int("matched", idx.stats.Matched),
		logger.Int("dropped", idx.stats.Dropped),
		logger.Int("queries", idx.stats.UniqueQueries),
		logger.Float64("match_rate", idx.stats.MatchRate()),
	}
	if idx.stats.Total > 0 && idx.stats.MatchRate() < lowMatchRate {
		o.log.Warn(ctx, "training log match rate is low", fields...)
	} else {
		o.log.Info(ctx, "training index built", fields...)
	}
	return idx
}

// Stats returns the build statistics.
func (i *Index) Stats() Stats { return i.stats }

// Len returns the number of unique queries.
func (i *Index) Len() int { return len(i.queryToKeys) }

// Has reports whether query q was logged against key.
func (i *Index) Has(q string, key urlnorm.URL) bool {
	keys, ok := i.queryToKeys[NormalizeQuery(q)]
	if !ok {
		return false
	}
	_, ok = keys[key]
	return ok
}

// KeysFor returns the sorted keys logged for query q.
func (i *Index) KeysFor(q string) []urlnorm.URL {
	keys := i.queryToKeys[NormalizeQuery(q)]
	out := make([]urlnorm.URL, 0, len(keys))
	for k := range keys {
		out = append(out, k)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}

// QueriesFor returns the sorted queries logged against key.
func (i *Index) QueriesFor(key urlnorm.URL) []string {
	qs := i.keyToQueries[key]
	out := make([]string, 0, len(qs))
	for q := range qs {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

// Queries returns every unique query, sorted.
func (i *Index) Queries() []string {
	out := make([]string, 0, len(i.queryToKeys))
	for q := range i.queryToKeys {
		out = append(out, q)
	}
	sort.Strings(out)
	return out
}

// Keys returns every assessment key with at least one logged query, sorted.
func (i *Index) Keys() []urlnorm.URL {
	out := make([]urlnorm.URL, 0, len(i.keyToQueries))
	for k := range i.keyToQueries {
		out = append(out, k)
	}
	sort.Slice(out, func(a, b int) bool { return out[a] < out[b] })
	return out
}
