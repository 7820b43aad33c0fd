package evaluate

import "errors"

// Sentinel errors.
var (
	ErrNoQueries = errors.New("no queries to evaluate")
	ErrJobFailed = errors.New("recommendation job failed")
)
