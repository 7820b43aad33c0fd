// Package repository loads the assessment catalog and the training log
// from disk.
package repository

import "github.com/okian/shortlist/pkg/logger"

// Option applies a configuration option to a file source.
type Option func(*source)

type source struct {
	path   string
	logger logger.Logger
}

// WithLogger sets the logger used for load diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(s *source) {
		if l != nil {
			s.logger = l
		}
	}
}

func newSource(path string, opts []Option) source {
	s := source{path: path, logger: logger.Default()}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}
