package config

import "errors"

// Both errors are reported before any request is sent; the CLI maps them
// to its configuration exit code.
var (
	// ErrInvalidConfig covers bad values and conflicting options.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrMissingRequired is returned when --url is not given.
	ErrMissingRequired = errors.New("config: missing required field")
)
