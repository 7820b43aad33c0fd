// Package catalog holds the immutable set of assessments the engine ranks.
package catalog

import (
	"context"
	"sort"
	"strings"

	"github.com/okian/shortlist/internal/domain/model"
	"github.com/okian/shortlist/internal/domain/urlnorm"
	"github.com/okian/shortlist/internal/validation"
	"github.com/okian/shortlist/pkg/logger"
)

// Record is one raw catalog entry before normalization.
type Record struct {
	Name            string   `json:"name" validate:"required,notblank"`
	URL             string   `json:"url" validate:"required,notblank"`
	Description     string   `json:"description"`
	Duration        *int     `json:"duration" validate:"omitempty,min=0"`
	AdaptiveSupport bool     `json:"adaptive_support"`
	RemoteSupport   bool     `json:"remote_support"`
	TestTypes       []string `json:"test_type"`
}

// Report summarizes what Build accepted and skipped.
type Report struct {
	Total            int
	Accepted         int
	Invalid          int
	Duplicates       int
	UnknownTestTypes map[string]int
}

// UnknownCount returns the number of unknown test type occurrences.
func (r Report) UnknownCount() int {
	n := 0
	for _, c := range r.UnknownTestTypes {
		n += c
	}
	return n
}

// Store is the read-only assessment catalog. Iteration order is load order.
type Store struct {
	items  []*model.Assessment
	byKey  map[string]*model.Assessment
	byNorm map[urlnorm.URL]*model.Assessment
}

type builder struct {
	log logger.Logger
}

// Build validates and normalizes records into a Store. Invalid records and
// duplicate keys are skipped and counted; the first occurrence of a key wins.
func Build(ctx context.Context, records []Record, opts ...Option) (*Store, Report, error) {
	b := &builder{log: logger.Default()}
	for _, opt := range opts {
		opt(b)
	}

	rep := Report{Total: len(records), UnknownTestTypes: map[string]int{}}
	s := &Store{
		items:  make([]*model.Assessment, 0, len(records)),
		byKey:  make(map[string]*model.Assessment, len(records)),
		byNorm: make(map[urlnorm.URL]*model.Assessment, len(records)),
	}

	for i := range records {
		rec := records[i]
		if err := validation.Struct(rec); err != nil {
			rep.Invalid++
			b.log.Warn(ctx, "skipping invalid catalog record",
				logger.Int("index", i),
				logger.String("name", rec.Name),
				logger.Error(err))
			continue
		}

		key := urlnorm.Canonicalize(rec.URL)
		if _, dup := s.byKey[key]; dup {
			rep.Duplicates++
			b.log.Warn(ctx, "skipping duplicate catalog record",
				logger.Int("index", i),
				logger.String("key", key))
			continue
		}

		a := &model.Assessment{
			Key:             key,
			Name:            strings.TrimSpace(rec.Name),
			URL:             key,
			Description:     strings.TrimSpace(rec.Description),
			Duration:        rec.Duration,
			AdaptiveSupport: rec.AdaptiveSupport,
			RemoteSupport:   rec.RemoteSupport,
			TestTypes:       parseTypes(rec.TestTypes, rep.UnknownTestTypes),
		}
		if a.Description == "" {
			a.Description = a.Name
		}

		s.items = append(s.items, a)
		s.byKey[key] = a
		norm := urlnorm.Normalize(key)
		if _, taken := s.byNorm[norm]; !taken {
			s.byNorm[norm] = a
		}
	}
	rep.Accepted = len(s.items)

	if len(rep.UnknownTestTypes) > 0 {
		values := make([]string, 0, len(rep.UnknownTestTypes))
		for v := range rep.UnknownTestTypes {
			values = append(values, v)
		}
		sort.Strings(values)
		b.log.Warn(ctx, "catalog contains unknown test types",
			logger.Strings("values", values),
			logger.Int("occurrences", rep.UnknownCount()))
	}

	if rep.Accepted == 0 {
		return nil, rep, ErrEmptyCatalog
	}
	return s, rep, nil
}

// parseTypes maps raw values onto known codes, deduplicated in load order.
// Unknown values are tallied in unknown. An empty result becomes General.
func parseTypes(raw []string, unknown map[string]int) []model.TestType {
	seen := model.NewTestTypeSet()
	out := make([]model.TestType, 0, len(raw))
	for _, r := range raw {
		if strings.TrimSpace(r) == "" {
			continue
		}
		tt, ok := model.ParseTestType(r)
		if !ok {
			unknown[strings.TrimSpace(r)]++
			continue
		}
		if seen.Has(tt) {
			continue
		}
		seen.Add(tt)
		out = append(out, tt)
	}
	if len(out) == 0 {
		out = append(out, model.TestTypeGeneral)
	}
	return out
}

// Len returns the number of assessments.
func (s *Store) Len() int { return len(s.items) }

// At returns the i-th assessment in load order.
func (s *Store) At(i int) *model.Assessment { return s.items[i] }

// All returns every assessment in load order. Callers must not modify the slice.
func (s *Store) All() []*model.Assessment { return s.items }

// Lookup finds an assessment by raw catalog URL.
func (s *Store) Lookup(rawURL string) (*model.Assessment, bool) {
	a, ok := s.byKey[urlnorm.Canonicalize(rawURL)]
	return a, ok
}

// LookupNormalized finds an assessment by normalized URL.
func (s *Store) LookupNormalized(u urlnorm.URL) (*model.Assessment, bool) {
	a, ok := s.byNorm[u]
	return a, ok
}
