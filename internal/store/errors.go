package store

import "errors"

// ErrRolledBack marks a persistence failure that discarded the whole run.
var ErrRolledBack = errors.New("upsert rolled back")

// ConnectionError reports that Postgres is unreachable or misconfigured.
type ConnectionError struct {
	Err error
}

func (e *ConnectionError) Error() string { return "database connection: " + e.Err.Error() }

func (e *ConnectionError) Unwrap() error { return e.Err }
