package config

import "errors"

// Error variables for configuration loading.
var (
	ErrConfigFileNotFound = errors.New("config file not found")
	ErrConfigFileRead     = errors.New("cannot read config file")
	ErrConfigInvalid      = errors.New("invalid config file")
	ErrDBEmpty            = errors.New("db cannot be empty")
	ErrPageSizeInvalid    = errors.New("page_size must be positive")
)
