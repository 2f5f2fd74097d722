package wig

import "errors"

// ErrMalformedWig is returned for tracks that are not valid variableStep wig.
var ErrMalformedWig = errors.New("malformed wig")
