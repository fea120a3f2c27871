package pipeline

import (
	"context"
	"fmt"

	"github.com/futplot/futplot-data/internal/export"
	"github.com/futplot/futplot-data/internal/merge"
	"github.com/futplot/futplot-data/internal/stats"
)

// FBrefOptions selects the season and output of an FBref run.
type FBrefOptions struct {
	Season int
	Output string
}

// RunFBref fetches every category for each configured league group, merges
// the categories onto the first one and writes the merged table as CSV.
func (r *Runner) RunFBref(ctx context.Context, src FBrefSource, opts FBrefOptions) (res *Result, err error) {
	logger, res, began := r.start("fbref", opts.Season)
	defer func() { r.finish(res, began, err) }()

	categories := r.cfg.FBrefCategories
	if len(categories) == 0 {
		return res, fmt.Errorf("no fbref categories configured")
	}
	base := categories[0]

	logger.Info("Phase 1/3: Fetching categories...",
		"groups", r.cfg.FBrefGroups, "categories", len(categories), "season", opts.Season)

	var merged []stats.Table
	for i, group := range r.cfg.FBrefGroups {
		if i > 0 {
			if err := sleep(ctx, r.cfg.RequestDelay); err != nil {
				return res, err
			}
		}
		glog := logger.With("group", group)
		units := FetchEach(ctx, r.loop("fbref", glog), categories,
			func(ctx context.Context, category string) (stats.Table, error) {
				t, err := src.CategoryTable(ctx, group, category, opts.Season)
				if err == nil {
					glog.Info("Category fetched", "category", category, "rows", t.Len())
				}
				return t, err
			})
		tally(res, units)

		tables := make(map[string]stats.Table, len(units))
		for _, u := range units {
			if !u.Skipped() && !u.Value.Empty() {
				tables[u.Unit] = u.Value
			}
		}
		if len(tables) == 0 {
			continue
		}

		logger.Info("Phase 2/3: Merging categories...", "group", group, "fetched", len(tables))
		t, err := merge.Categories(base, categories, tables)
		if err != nil {
			glog.Warn("skipping group", "error", err)
			res.AddErrorf("fbref %s: %v", group, err)
			continue
		}
		merged = append(merged, t)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}

	out := stats.Concat(merged...)
	if out.Empty() {
		logger.Info("No data fetched, nothing to write", "skipped", res.UnitsSkipped)
		return res, ErrEmptyResult
	}
	res.Rows = out.Len()

	path := opts.Output
	if path == "" {
		path = r.cfg.FBrefOutput(opts.Season)
	}
	logger.Info("Phase 3/3: Writing CSV...", "path", path)
	if err := export.WriteCSV(path, out); err != nil {
		res.AddErrorf("csv: %v", err)
		return res, fmt.Errorf("write csv: %w", err)
	}
	res.Destinations = append(res.Destinations, path)
	r.metrics.RecordRowsWritten("fbref", "csv", out.Len())
	logger.Info("Saved CSV", "path", path, "rows", out.Len(), "columns", len(out.Header()))
	return res, nil
}
