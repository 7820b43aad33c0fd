package catalog

import "errors"

// Sentinel errors for catalog construction.
var (
	ErrEmptyCatalog = errors.New("catalog has no valid records")
)
