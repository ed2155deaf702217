package config

import "errors"

var (
	// ErrInvalidConfig indicates the configuration failed validation.
	ErrInvalidConfig = errors.New("config: invalid configuration")

	// ErrMissingCheckField indicates a check lacks a field its type requires.
	ErrMissingCheckField = errors.New("config: missing required check field")
)
