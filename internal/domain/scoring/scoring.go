// Package scoring applies the training-log boost on top of text similarity.
//
// A query seen verbatim in the log for an assessment multiplies its score by
// the exact multiplier; a query sharing enough words with a logged one gets a
// smaller, similarity-proportional boost.
package scoring

import (
	"context"
	"strings"

	"github.com/okian/shortlist/internal/domain/training"
	"github.com/okian/shortlist/internal/domain/urlnorm"
	"github.com/okian/shortlist/pkg/logger"
)

// Default boost configuration constants.
const (
	DefaultExactMultiplier = 1000.0
	DefaultFuzzyMultiplier = 100.0
	DefaultFuzzyThreshold  = 0.3
)

// MatchKind classifies how a query relates to the training log for one key.
type MatchKind int

// Match kinds in decreasing strength.
const (
	MatchNone MatchKind = iota
	MatchFuzzy
	MatchExact
)

// String returns the metric label of k.
func (k MatchKind) String() string {
	switch k {
	case MatchExact:
		return "exact"
	case MatchFuzzy:
		return "fuzzy"
	case MatchNone:
		return "none"
	default:
		return "unknown"
	}
}

// Index is the part of the training index the booster reads.
type Index interface {
	Has(q string, key urlnorm.URL) bool
	Keys() []urlnorm.URL
	QueriesFor(key urlnorm.URL) []string
}

// Scorer boosts a base similarity score for a (query, assessment) pair.
type Scorer interface {
	Boost(q string, key urlnorm.URL, base float64) float64
}

// Option applies a configuration option to the Booster.
type Option func(*Booster)

// WithExactMultiplier sets the factor applied on an exact query match.
func WithExactMultiplier(m float64) Option {
	return func(b *Booster) { b.exact = m }
}

// WithFuzzyMultiplier sets the factor scaled by similarity on a fuzzy match.
func WithFuzzyMultiplier(m float64) Option {
	return func(b *Booster) { b.fuzzy = m }
}

// WithFuzzyThreshold sets the Jaccard similarity a fuzzy match must exceed.
func WithFuzzyThreshold(t float64) Option {
	return func(b *Booster) { b.threshold = t }
}

// WithLogger sets the logger used to report rejected settings.
func WithLogger(l logger.Logger) Option {
	return func(b *Booster) {
		if l != nil {
			b.log = l
		}
	}
}

type wordSet map[string]struct{}

// Booster implements Scorer over a training index. It is immutable after
// NewBooster and safe for concurrent use.
type Booster struct {
	index     Index
	patterns  map[urlnorm.URL][]wordSet
	exact     float64
	fuzzy     float64
	threshold float64
	log       logger.Logger
}

// NewBooster creates a booster over idx. A nil idx boosts nothing.
// Settings that would let a fuzzy match reach or beat an exact match fall
// back to the defaults.
func NewBooster(idx Index, opts ...Option) *Booster {
	if idx == nil {
		idx = training.Empty()
	}
	b := &Booster{
		index:     idx,
		patterns:  make(map[urlnorm.URL][]wordSet),
		exact:     DefaultExactMultiplier,
		fuzzy:     DefaultFuzzyMultiplier,
		threshold: DefaultFuzzyThreshold,
		log:       logger.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}

	if !validSettings(b.exact, b.fuzzy, b.threshold) {
		b.log.Warn(context.Background(), "boost multipliers break exact > fuzzy > none ordering, using defaults",
			logger.Float64("exact_multiplier", b.exact),
			logger.Float64("fuzzy_multiplier", b.fuzzy),
			logger.Float64("fuzzy_threshold", b.threshold))
		b.exact, b.fuzzy, b.threshold = DefaultExactMultiplier, DefaultFuzzyMultiplier, DefaultFuzzyThreshold
	}

	for _, key := range idx.Keys() {
		for _, q := range idx.QueriesFor(key) {
			b.patterns[key] = append(b.patterns[key], words(q))
		}
	}
	return b
}

// validSettings holds when none < fuzzy < exact for every similarity in (threshold, 1].
func validSettings(exact, fuzzy, threshold float64) bool {
	return fuzzy > 0 && threshold >= 0 && threshold < 1 && exact > 1+fuzzy
}

// Boost returns base multiplied according to the strongest match of q for key.
func (b *Booster) Boost(q string, key urlnorm.URL, base float64) float64 {
	score, _ := b.Score(q, key, base)
	return score
}

// Score is Boost that also reports the match kind.
func (b *Booster) Score(q string, key urlnorm.URL, base float64) (float64, MatchKind) {
	kind, sim := b.Match(q, key)
	switch kind {
	case MatchExact:
		return base * b.exact, kind
	case MatchFuzzy:
		return base * (1 + sim*b.fuzzy), kind
	case MatchNone:
		return base, kind
	default:
		return base, kind
	}
}

// Match reports how q matches key and, for fuzzy matches, the best similarity.
func (b *Booster) Match(q string, key urlnorm.URL) (MatchKind, float64) {
	if b.index.Has(q, key) {
		return MatchExact, 1
	}
	patterns := b.patterns[key]
	if len(patterns) == 0 {
		return MatchNone, 0
	}
	qw := words(q)
	best := 0.0
	for _, p := range patterns {
		if s := jaccard(qw, p); s > best {
			best = s
		}
	}
	if best > b.threshold {
		return MatchFuzzy, best
	}
	return MatchNone, best
}

// Multipliers returns the effective exact multiplier, fuzzy multiplier and threshold.
func (b *Booster) Multipliers() (exact, fuzzy, threshold float64) {
	return b.exact, b.fuzzy, b.threshold
}

func words(q string) wordSet {
	fields := strings.Fields(training.NormalizeQuery(q))
	s := make(wordSet, len(fields))
	for _, f := range fields {
		s[f] = struct{}{}
	}
	return s
}

// jaccard returns |a∩b|/|a∪b|, or 0 if either set is empty.
func jaccard(a, b wordSet) float64 {
	if len(a) == 0 || len(b) == 0 {
		return 0
	}
	inter := 0
	for w := range a {
		if _, ok := b[w]; ok {
			inter++
		}
	}
	return float64(inter) / float64(len(a)+len(b)-inter)
}
