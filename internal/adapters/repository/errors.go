package repository

import "errors"

// Sentinel kinds for data file errors.
var (
	ErrLoadCatalog  = errors.New("load catalog")
	ErrLoadTraining = errors.New("load training log")
)
