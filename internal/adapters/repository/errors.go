package repository

import "errors"

// Sentinel kinds for result store errors.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateSeq = errors.New("record already stored for sequence")
	ErrInvalidLimit = errors.New("invalid record limit")
)
