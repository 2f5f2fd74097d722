package config

import "errors"

var (
	// ErrInvalidConfig marks a setting that fails Validate.
	ErrInvalidConfig = errors.New("invalid config")
	// ErrLoadConfig marks a file, .env or env layer that could not be read.
	ErrLoadConfig = errors.New("load config failed")
)
