package periodicity

import "errors"

var (
	ErrInvalidWindow  = errors.New("invalid spectral window")
	ErrLengthMismatch = errors.New("signals differ in length")
)
