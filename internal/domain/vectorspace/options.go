package vectorspace

// Default fitting parameters.
const (
	DefaultMaxFeatures = 15000
	DefaultMaxDF       = 0.85
	DefaultMinNGram    = 1
	DefaultMaxNGram    = 3
)

// Option configures Fit.
type Option func(*config)

type config struct {
	maxFeatures int
	maxDF       float64
	minN, maxN  int
}

func defaultConfig() config {
	return config{
		maxFeatures: DefaultMaxFeatures,
		maxDF:       DefaultMaxDF,
		minN:        DefaultMinNGram,
		maxN:        DefaultMaxNGram,
	}
}

// WithMaxFeatures caps the vocabulary size. Non-positive values disable the cap.
func WithMaxFeatures(n int) Option {
	return func(c *config) { c.maxFeatures = n }
}

// WithMaxDF drops terms present in more than the given fraction of documents.
// Values outside (0, 1) disable pruning.
func WithMaxDF(f float64) Option {
	return func(c *config) { c.maxDF = f }
}

// WithNGramRange sets the n-gram lengths generated within each fragment.
func WithNGramRange(minN, maxN int) Option {
	return func(c *config) {
		if minN >= 1 && maxN >= minN {
			c.minN, c.maxN = minN, maxN
		}
	}
}
