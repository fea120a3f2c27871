package config

import "errors"

var (
	ErrMissingDatabaseURL = errors.New("DATABASE_URL or NEON_DATABASE_URL must be set")
	ErrInvalidConfig      = errors.New("invalid config")
)
