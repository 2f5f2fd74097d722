package metrics

import (
	"errors"
)

// Sentinel kinds for metrics errors.
var (
	ErrEmptyPath   = errors.New("metrics textfile path is empty")
	ErrWriteFailed = errors.New("metrics textfile write failed")
)
