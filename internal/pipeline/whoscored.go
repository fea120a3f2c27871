package pipeline

import (
	"context"
	"fmt"
	"strconv"

	"github.com/futplot/futplot-data/internal/aggregate"
	"github.com/futplot/futplot-data/internal/export"
	"github.com/futplot/futplot-data/internal/provider/whoscored"
	"github.com/futplot/futplot-data/internal/stats"
)

// WhoScoredOptions selects the season and output of a WhoScored run.
type WhoScoredOptions struct {
	Season int
	Output string
}

// RunWhoScored fetches every match event of the configured leagues, sums
// the numeric event columns per player, season and team, and writes CSV.
// Leagues and matches are both fetch units: a failed schedule skips the
// league, a failed match skips only that match.
func (r *Runner) RunWhoScored(ctx context.Context, src WhoScoredSource, opts WhoScoredOptions) (res *Result, err error) {
	logger, res, began := r.start("whoscored", opts.Season)
	defer func() { r.finish(res, began, err) }()

	logger.Info("Phase 1/3: Fetching schedules...", "leagues", len(r.cfg.Leagues), "season", opts.Season)
	schedules := FetchEach(ctx, r.loop("whoscored", logger), r.cfg.Leagues,
		func(ctx context.Context, league string) ([]whoscored.Match, error) {
			return src.Schedule(ctx, league, opts.Season)
		})
	tally(res, schedules)

	byID := map[string]whoscored.Match{}
	var ids []string
	for _, u := range schedules {
		for _, m := range u.Value {
			id := strconv.Itoa(m.ID)
			if _, dup := byID[id]; dup {
				continue
			}
			byID[id] = m
			ids = append(ids, id)
		}
		if !u.Skipped() {
			logger.Info("Schedule fetched", "league", u.Unit, "matches", len(u.Value))
		}
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	logger.Info("Fetching match events (this may take a while)...", "matches", len(ids))
	if len(ids) > 0 {
		if err := sleep(ctx, r.cfg.RequestDelay); err != nil {
			return res, err
		}
	}
	matches := FetchEach(ctx, r.loop("whoscored", logger), ids,
		func(ctx context.Context, id string) (stats.Table, error) {
			return src.MatchEvents(ctx, byID[id])
		})
	tally(res, matches)
	if err := ctx.Err(); err != nil {
		return res, err
	}

	tables := make([]stats.Table, 0, len(matches))
	for _, u := range matches {
		tables = append(tables, u.Value)
	}
	events := stats.Concat(tables...)
	if events.Empty() {
		logger.Info("No data fetched, nothing to write", "skipped", res.UnitsSkipped)
		return res, ErrEmptyResult
	}

	logger.Info("Phase 2/3: Aggregating player stats...", "events", events.Len())
	out := aggregate.SumByKey(events.Rows, events.Columns)
	res.Rows = out.Len()

	path := opts.Output
	if path == "" {
		path = r.cfg.WhoScoredOutput
	}
	logger.Info("Phase 3/3: Writing CSV...", "path", path)
	if err := export.WriteCSV(path, out); err != nil {
		res.AddErrorf("csv: %v", err)
		return res, fmt.Errorf("write csv: %w", err)
	}
	res.Destinations = append(res.Destinations, path)
	r.metrics.RecordRowsWritten("whoscored", "csv", out.Len())
	logger.Info("Saved CSV", "path", path, "players", out.Len(), "columns", len(out.Header()))
	return res, nil
}
