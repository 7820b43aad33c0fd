// Package loadtest drives a running recommendation server over HTTP and
// checks every response against the API contract.
package loadtest

import (
	"errors"
	"fmt"
	"time"

	"github.com/okian/shortlist/internal/validation"
)

// ErrInvalidConfig is returned by Run for an unusable Config.
var ErrInvalidConfig = errors.New("invalid load test config")

// Config holds configuration for a load test.
type Config struct {
	BaseURL  string        `json:"url" validate:"required,url"`
	Queries  []string      `json:"queries" validate:"required,min=1,dive,notblank"`
	Requests int           `json:"requests" validate:"min=1"`
	Workers  int           `json:"workers" validate:"min=1"`
	TopK     int           `json:"top_k" validate:"min=1,max=10"`
	Timeout  time.Duration `json:"timeout" validate:"gt=0"`
}

func (c *Config) validate() error {
	if err := validation.Struct(c); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidConfig, err)
	}
	return nil
}

// Stats holds load test statistics.
type Stats struct {
	Requests   int
	Succeeded  int
	Failed     int
	Violations int
	Messages   []string
	P50        time.Duration
	P95        time.Duration
	P99        time.Duration
	Duration   time.Duration
}

// OK reports whether every request succeeded without contract violations.
func (s *Stats) OK() bool { return s.Failed == 0 && s.Violations == 0 }
