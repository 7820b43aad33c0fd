package evaluate

import "github.com/okian/shortlist/pkg/logger"

// Option configures Evaluate and Predict.
type Option func(*options)

type options struct {
	logger logger.Logger
	k      int
}

func newOptions(opts []Option) *options {
	o := &options{logger: logger.Default(), k: K}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// WithLogger sets the logger used for per-query and summary lines.
func WithLogger(l logger.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithK overrides the cutoff used for recall and predictions.
func WithK(k int) Option {
	return func(o *options) {
		if k > 0 {
			o.k = k
		}
	}
}
