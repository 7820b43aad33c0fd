// Package model contains domain models passed between layers.
package model

// Assessment is one catalog entry. Values are immutable once the catalog is built.
type Assessment struct {
	Key             string     // lower-cased canonical catalog URL, unique
	Name            string     // display title
	URL             string     // canonical catalog URL as published
	Description     string     // free text, falls back to Name
	Duration        *int       // minutes, nil when unknown
	AdaptiveSupport bool       // supports adaptive/IRT delivery
	RemoteSupport   bool       // supports remote testing
	TestTypes       []TestType // never empty
}

// HasType reports whether the assessment carries code t.
func (a *Assessment) HasType(t TestType) bool {
	for _, tt := range a.TestTypes {
		if tt == t {
			return true
		}
	}
	return false
}

// Candidate is an assessment scored for a single request.
type Candidate struct {
	Assessment *Assessment
	Score      float64
}
