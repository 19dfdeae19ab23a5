package config

import "errors"

// Error variables for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrOutputEmpty        = errors.New("output cannot be empty")
	ErrJobsInvalid        = errors.New("jobs must be at least 1")
	ErrFormatUnknown      = errors.New("unknown format (want json|yaml)")
)
