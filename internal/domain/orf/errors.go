package orf

import "errors"

// ErrMalformedIndex is returned for index lines that cannot be parsed.
var ErrMalformedIndex = errors.New("malformed ORF index")
