package significance

import "errors"

// Sentinel kinds for significance errors.
var (
	// ErrInvalidSampleSize is returned when fewer than two codons are fed to
	// the p-value model; the non-centrality 2/(n-1) is undefined at n=1.
	ErrInvalidSampleSize = errors.New("invalid sample size")
	// ErrInvalidWalkLength is returned for phase-vector densities with k < 1.
	ErrInvalidWalkLength = errors.New("invalid number of phase vectors")
)
