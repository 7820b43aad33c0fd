package vectorspace

import "errors"

// Sentinel errors returned by Fit.
var (
	ErrEmptyCorpus     = errors.New("vectorspace: no documents")
	ErrEmptyVocabulary = errors.New("vectorspace: documents contain no terms")
)
