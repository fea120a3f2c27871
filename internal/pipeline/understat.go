package pipeline

import (
	"context"
	"fmt"

	"github.com/futplot/futplot-data/internal/derived"
	"github.com/futplot/futplot-data/internal/export"
	"github.com/futplot/futplot-data/internal/stats"
	"github.com/futplot/futplot-data/internal/store"
)

// UnderstatOptions selects the season and destinations of an Understat run.
type UnderstatOptions struct {
	Season int
	// DB receives the upsert. Nil skips Postgres.
	DB store.TxBeginner
	// CSVPath, when set, also writes the derived rows as CSV.
	CSVPath string
}

// RunUnderstat fetches every configured league, derives per-90 metrics and
// upserts the rows. Returns ErrEmptyResult when no league produced rows.
func (r *Runner) RunUnderstat(ctx context.Context, src UnderstatSource, opts UnderstatOptions) (res *Result, err error) {
	logger, res, began := r.start("understat", opts.Season)
	defer func() { r.finish(res, began, err) }()

	logger.Info("Phase 1/3: Fetching leagues...", "leagues", len(r.cfg.Leagues), "season", opts.Season)
	units := FetchEach(ctx, r.loop("understat", logger), r.cfg.Leagues,
		func(ctx context.Context, league string) ([]stats.PlayerSeason, error) {
			rows, err := src.PlayerSeasonStats(ctx, league, opts.Season)
			if err == nil {
				logger.Info("League fetched", "league", league, "players", len(rows))
			}
			return rows, err
		})
	tally(res, units)

	var rows []stats.PlayerSeason
	for _, u := range units {
		rows = append(rows, u.Value...)
	}
	if err := ctx.Err(); err != nil {
		return res, err
	}
	if len(rows) == 0 {
		logger.Info("No data fetched, nothing to write", "skipped", res.UnitsSkipped)
		return res, ErrEmptyResult
	}

	logger.Info("Phase 2/3: Deriving metrics...", "rows", len(rows))
	out := derived.Compute(rows)
	res.Rows = len(out)

	logger.Info("Phase 3/3: Writing...")
	if opts.DB != nil {
		n, err := store.UpsertPlayers(ctx, opts.DB, out, r.cfg.UpsertBatchSize)
		if err != nil {
			res.AddErrorf("upsert: %v", err)
			return res, fmt.Errorf("upsert players: %w", err)
		}
		res.Destinations = append(res.Destinations, "postgres")
		r.metrics.RecordRowsWritten("understat", "postgres", n)
		logger.Info("Upserted players", "rows", n)
	}
	if opts.CSVPath != "" {
		if err := export.WritePlayersCSV(opts.CSVPath, out); err != nil {
			res.AddErrorf("csv: %v", err)
			return res, fmt.Errorf("write csv: %w", err)
		}
		res.Destinations = append(res.Destinations, opts.CSVPath)
		r.metrics.RecordRowsWritten("understat", "csv", len(out))
		logger.Info("Saved CSV", "path", opts.CSVPath, "rows", len(out))
	}
	return res, nil
}
