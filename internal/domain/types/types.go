// Package types contains common types used across the application
package types

// Recommendation is a single ranked assessment returned to callers.
type Recommendation struct {
	Name            string   `json:"name"`
	URL             string   `json:"url"`
	Description     string   `json:"description"`
	Duration        *int     `json:"duration"`
	AdaptiveSupport bool     `json:"adaptive_support"`
	RemoteSupport   bool     `json:"remote_support"`
	TestType        []string `json:"test_type"`
	Score           float64  `json:"score"`
}
