package catalog

import "github.com/okian/shortlist/pkg/logger"

// Option configures Build.
type Option func(*builder)

// WithLogger sets the logger used for data-quality warnings.
func WithLogger(l logger.Logger) Option {
	return func(b *builder) {
		if l != nil {
			b.log = l
		}
	}
}
