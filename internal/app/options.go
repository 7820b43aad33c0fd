package service

import (
	"github.com/okian/shortlist/internal/domain/scoring"
	"github.com/okian/shortlist/internal/domain/training"
	"github.com/okian/shortlist/internal/domain/vectorspace"
	"github.com/okian/shortlist/pkg/logger"
)

// Default pipeline configuration constants.
const (
	DefaultTopK              = 10
	DefaultMaxResults        = 10
	DefaultCandidatePool     = 100
	DefaultMinResults        = 5
	DefaultDurationTolerance = 1.2
)

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// WithTrainingRows supplies the historical query log. Without it the engine
// ranks on text similarity alone.
func WithTrainingRows(rows []training.Row) Option {
	return func(e *Engine) {
		e.trainingRows = rows
	}
}

// WithDefaultTopK sets the result count used when a caller passes top_k <= 0.
func WithDefaultTopK(k int) Option {
	return func(e *Engine) {
		if k > 0 {
			e.defaultTopK = k
		}
	}
}

// WithMaxResults sets the hard cap on returned records.
func WithMaxResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.maxResults = n
		}
	}
}

// WithCandidatePool sets how many top-scored assessments survive to filtering.
func WithCandidatePool(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.candidatePool = n
		}
	}
}

// WithMinResults sets the result count the fallback tiers aim for.
func WithMinResults(n int) Option {
	return func(e *Engine) {
		if n > 0 {
			e.minResults = n
		}
	}
}

// WithDurationTolerance sets the factor applied to a query's time limit
// before assessments are excluded.
func WithDurationTolerance(f float64) Option {
	return func(e *Engine) {
		if f >= 1 {
			e.durationTolerance = f
		}
	}
}

// WithBoostOptions passes options to the training booster.
func WithBoostOptions(opts ...scoring.Option) Option {
	return func(e *Engine) {
		e.boostOpts = append(e.boostOpts, opts...)
	}
}

// WithVectorOptions passes options to the vector space fit.
func WithVectorOptions(opts ...vectorspace.Option) Option {
	return func(e *Engine) {
		e.vectorOpts = append(e.vectorOpts, opts...)
	}
}
