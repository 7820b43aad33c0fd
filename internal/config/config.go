// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - Provide New() to build a Config with defaults.
// - Load layers a YAML file and SHORTLIST_* env vars over those defaults.
// - External errors are wrapped with this package's sentinels.
package config

import (
	"fmt"
	"regexp"
	"runtime"
	"time"

	"github.com/okian/shortlist/internal/validation"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level" json:"log_level" validate:"oneof=debug info warn warning error"`

	// LogFormat selects the slog handler: text or json.
	LogFormat string `koanf:"log_format" json:"log_format" validate:"oneof=text json"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr" json:"addr" validate:"required,notblank"`

	// CatalogPath is the JSON catalog file.
	CatalogPath string `koanf:"catalog_path" json:"catalog_path" validate:"required,notblank"`

	// TrainingPath is the optional labelled query log. A missing file
	// disables the training boost.
	TrainingPath string `koanf:"training_path" json:"training_path"`

	// DefaultTopK is used when a caller asks for zero or fewer results.
	DefaultTopK int `koanf:"default_top_k" json:"default_top_k" validate:"min=1"`

	// MaxResults caps every response.
	MaxResults int `koanf:"max_results" json:"max_results" validate:"min=1"`

	// CandidatePool is how many similarity hits enter filtering.
	CandidatePool int `koanf:"candidate_pool" json:"candidate_pool" validate:"min=1"`

	// MinResults is the fallback threshold.
	MinResults int `koanf:"min_results" json:"min_results" validate:"min=0"`

	// DurationTolerance widens a requested time limit.
	DurationTolerance float64 `koanf:"duration_tolerance" json:"duration_tolerance" validate:"gte=1"`

	// ExactBoost, FuzzyBoost and FuzzyThreshold tune the training boost.
	ExactBoost     float64 `koanf:"exact_boost" json:"exact_boost" validate:"gt=1"`
	FuzzyBoost     float64 `koanf:"fuzzy_boost" json:"fuzzy_boost" validate:"gt=0"`
	FuzzyThreshold float64 `koanf:"fuzzy_threshold" json:"fuzzy_threshold" validate:"gte=0,lt=1"`

	// MaxFeatures and MaxDF bound the TF-IDF vocabulary.
	MaxFeatures int     `koanf:"max_features" json:"max_features" validate:"min=1"`
	MaxDF       float64 `koanf:"max_df" json:"max_df" validate:"gt=0,lte=1"`

	// BatchWorkers and BatchQueueSize size the batch runner.
	BatchWorkers   int `koanf:"batch_workers" json:"batch_workers" validate:"min=1"`
	BatchQueueSize int `koanf:"batch_queue_size" json:"batch_queue_size" validate:"min=1"`

	// MetricsEnabled toggles recommendation request metrics.
	MetricsEnabled bool `koanf:"metrics_enabled" json:"metrics_enabled"`

	// MetricsNamespace, MetricsSubsystem and MetricsPrefix build metric names
	// as namespace_subsystem_prefixname.
	MetricsNamespace string `koanf:"metrics_namespace" json:"metrics_namespace" validate:"required,notblank"`
	MetricsSubsystem string `koanf:"metrics_subsystem" json:"metrics_subsystem"`
	MetricsPrefix    string `koanf:"metrics_prefix" json:"metrics_prefix"`

	// MetricsBuckets overrides the HTTP latency histogram buckets (ms).
	MetricsBuckets []float64 `koanf:"metrics_buckets" json:"metrics_buckets" validate:"omitempty,dive,gt=0"`

	// MetricsRefreshInterval is the system collector sampling period.
	MetricsRefreshInterval time.Duration `koanf:"metrics_refresh_interval" json:"metrics_refresh_interval" validate:"gt=0"`

	// MetricsLabels are constant labels on every metric (YAML only).
	MetricsLabels map[string]string `koanf:"metrics_labels" json:"metrics_labels"`
}

// metricNamePattern is the Prometheus name grammar without colons.
var metricNamePattern = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// New creates a Config holding the defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":8080",
		CatalogPath:       "data/catalog.json",
		TrainingPath:      "data/Train_file.csv",
		DefaultTopK:       10,
		MaxResults:        10,
		CandidatePool:     100,
		MinResults:        5,
		DurationTolerance: 1.2,
		ExactBoost:        1000,
		FuzzyBoost:        100,
		FuzzyThreshold:    0.3,
		MaxFeatures:       15000,
		MaxDF:             0.85,
		BatchWorkers:      runtime.NumCPU(),
		BatchQueueSize:    256,

		MetricsEnabled:         true,
		MetricsNamespace:       "shortlist",
		MetricsSubsystem:       "recommender",
		MetricsRefreshInterval: 10 * time.Second,
	}
}

// Validate checks field ranges and the rules that span fields.
func (c *Config) Validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	switch {
	case c.DefaultTopK > c.MaxResults:
		return fmt.Errorf("%w: default_top_k %d exceeds max_results %d", ErrInvalidConfig, c.DefaultTopK, c.MaxResults)
	case c.CandidatePool < c.MaxResults:
		return fmt.Errorf("%w: candidate_pool %d is below max_results %d", ErrInvalidConfig, c.CandidatePool, c.MaxResults)
	case c.MinResults > c.MaxResults:
		return fmt.Errorf("%w: min_results %d exceeds max_results %d", ErrInvalidConfig, c.MinResults, c.MaxResults)
	case c.ExactBoost <= 1+c.FuzzyBoost:
		return fmt.Errorf("%w: exact_boost must exceed 1+fuzzy_boost so exact matches outrank fuzzy ones", ErrInvalidConfig)
	case !strictlyAscending(c.MetricsBuckets):
		return fmt.Errorf("%w: metrics_buckets must be strictly ascending", ErrInvalidConfig)
	}
	for key, v := range map[string]string{
		"metrics_namespace": c.MetricsNamespace,
		"metrics_subsystem": c.MetricsSubsystem,
		"metrics_prefix":    c.MetricsPrefix,
	} {
		if v != "" && !metricNamePattern.MatchString(v) {
			return fmt.Errorf("%w: %s %q is not a valid metric name part", ErrInvalidConfig, key, v)
		}
	}
	for name := range c.MetricsLabels {
		if !metricNamePattern.MatchString(name) {
			return fmt.Errorf("%w: metrics label %q is not a valid label name", ErrInvalidConfig, name)
		}
	}
	return nil
}

func strictlyAscending(v []float64) bool {
	for i := 1; i < len(v); i++ {
		if v[i] <= v[i-1] {
			return false
		}
	}
	return true
}
