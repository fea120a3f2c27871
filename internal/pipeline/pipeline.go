// Package pipeline runs the three single-shot ingest pipelines: fetch every
// unit with skip-on-failure, transform, then persist.
package pipeline

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/futplot/futplot-data/internal/config"
	"github.com/futplot/futplot-data/internal/metrics"
	"github.com/futplot/futplot-data/internal/provider/whoscored"
	"github.com/futplot/futplot-data/internal/stats"
)

// UnderstatSource returns a league's player season totals.
type UnderstatSource interface {
	PlayerSeasonStats(ctx context.Context, league string, season int) ([]stats.PlayerSeason, error)
}

// FBrefSource returns one stat category's player table.
type FBrefSource interface {
	CategoryTable(ctx context.Context, group, category string, season int) (stats.Table, error)
}

// WhoScoredSource lists a league's matches and returns per-match events.
type WhoScoredSource interface {
	Schedule(ctx context.Context, league string, season int) ([]whoscored.Match, error)
	MatchEvents(ctx context.Context, m whoscored.Match) (stats.Table, error)
}

// Runner holds what every pipeline shares.
type Runner struct {
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metrics.Manager
}

// NewRunner creates a Runner. A nil logger or metrics manager falls back
// to the process defaults.
func NewRunner(cfg *config.Config, logger *slog.Logger, m *metrics.Manager) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	if m == nil {
		m = metrics.Default()
	}
	return &Runner{cfg: cfg, logger: logger, metrics: m}
}

// start tags a run with a fresh id and returns its logger and result.
func (r *Runner) start(source string, season int) (*slog.Logger, *Result, time.Time) {
	res := &Result{Source: source, RunID: uuid.NewString(), Season: season}
	logger := r.logger.With("run_id", res.RunID, "source", source)
	return logger, res, time.Now()
}

// finish stamps the duration and records the outcome.
func (r *Runner) finish(res *Result, began time.Time, err error) {
	res.Duration = time.Since(began)
	outcome := "ok"
	switch {
	case errors.Is(err, ErrEmptyResult):
		outcome = "empty"
	case err != nil:
		outcome = "failed"
	}
	r.metrics.ObservePipeline(res.Source, outcome, res.Duration)
}

func (r *Runner) loop(source string, logger *slog.Logger) Loop {
	return Loop{Source: source, Delay: r.cfg.RequestDelay, Logger: logger, Metrics: r.metrics}
}

// tally folds unit outcomes into res.
func tally[T any](res *Result, units []UnitResult[T]) {
	for _, u := range units {
		if u.Skipped() {
			res.UnitsSkipped++
			res.AddError(u.Err.Error())
			continue
		}
		res.UnitsFetched++
	}
}
