package pipeline

import (
	"errors"
	"fmt"
)

// ErrEmptyResult means every unit failed or returned nothing. Nothing is
// persisted; callers treat it as a clean early exit.
var ErrEmptyResult = errors.New("no data fetched")

// FetchError is one unit's fetch failure. The unit is skipped.
type FetchError struct {
	Source string
	Unit   string
	Err    error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Source, e.Unit, e.Err)
}

func (e *FetchError) Unwrap() error { return e.Err }
