package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/futplot/futplot-data/internal/metrics"
)

// Loop configures FetchEach.
type Loop struct {
	Source  string
	Delay   time.Duration // pause between consecutive units
	Logger  *slog.Logger
	Metrics *metrics.Manager
}

// UnitResult is the outcome of fetching one unit. Err is a *FetchError
// when the unit was skipped.
type UnitResult[T any] struct {
	Unit  string
	Value T
	Err   error
}

// Skipped reports whether the unit failed.
func (u UnitResult[T]) Skipped() bool { return u.Err != nil }

// FetchEach fetches units one at a time in order. A failed unit is logged
// once and recorded as skipped; it is never retried. Between units the
// loop sleeps for l.Delay. Cancelling ctx stops the loop and returns the
// units attempted so far.
func FetchEach[T any](ctx context.Context, l Loop, units []string, fetch func(ctx context.Context, unit string) (T, error)) []UnitResult[T] {
	logger := l.Logger
	if logger == nil {
		logger = slog.Default()
	}
	m := l.Metrics
	if m == nil {
		m = metrics.Default()
	}

	results := make([]UnitResult[T], 0, len(units))
	for i, unit := range units {
		if i > 0 {
			if err := sleep(ctx, l.Delay); err != nil {
				logger.Warn("fetch loop cancelled", "remaining", len(units)-i, "error", err)
				break
			}
		}

		v, err := fetch(ctx, unit)
		if err != nil {
			fe := &FetchError{Source: l.Source, Unit: unit, Err: err}
			logger.Warn("skipping unit", "unit", unit, "error", err)
			m.RecordUnitSkipped(l.Source)
			results = append(results, UnitResult[T]{Unit: unit, Err: fe})
			continue
		}
		m.RecordUnitFetched(l.Source)
		results = append(results, UnitResult[T]{Unit: unit, Value: v})
	}
	return results
}

// sleep blocks for d or until ctx is done.
func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
