// Command ingest is the FutPlot data ingestion CLI.
//
// Usage:
//
//	futplot-ingest understat [--season 2025] [--csv] [--no-db]
//	futplot-ingest fbref [--season 2025] [--out data/fbref_2025.csv]
//	futplot-ingest whoscored [--season 2025] [--out data/whoscored_current_season.csv]
//	futplot-ingest migrate
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/futplot/futplot-data/internal/config"
	"github.com/futplot/futplot-data/internal/db"
	"github.com/futplot/futplot-data/internal/metrics"
	"github.com/futplot/futplot-data/internal/pipeline"
	"github.com/futplot/futplot-data/internal/provider"
	"github.com/futplot/futplot-data/internal/provider/fbref"
	"github.com/futplot/futplot-data/internal/provider/understat"
	"github.com/futplot/futplot-data/internal/provider/whoscored"
	"github.com/futplot/futplot-data/internal/season"
	"github.com/futplot/futplot-data/internal/store"
)

var logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

func main() {
	// Load .env if present
	_ = godotenv.Load(".env")

	root := &cobra.Command{
		Use:           "futplot-ingest",
		Short:         "FutPlot football stats ingestion CLI",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(understatCmd())
	root.AddCommand(fbrefCmd())
	root.AddCommand(whoscoredCmd())
	root.AddCommand(migrateCmd())

	if err := root.Execute(); err != nil {
		logger.Error("ingest failed", "error", err)
		os.Exit(1)
	}
}

// --------------------------------------------------------------------------
// Pipelines
// --------------------------------------------------------------------------

func understatCmd() *cobra.Command {
	var (
		seasonStart int
		writeCSV    bool
		noDB        bool
	)
	cmd := &cobra.Command{
		Use:   "understat",
		Short: "Fetch Understat player stats and upsert them into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("understat", func(ctx context.Context, cfg *config.Config, runner *pipeline.Runner) error {
				opts := pipeline.UnderstatOptions{Season: seasonStart}
				if writeCSV || noDB {
					opts.CSVPath = cfg.UnderstatOutput
				}
				if !noDB {
					pool, err := db.New(ctx, cfg)
					if err != nil {
						return err
					}
					defer pool.Close()
					opts.DB = pool
				}

				src := understat.NewClient(httpClient(cfg), "", logger)
				res, err := runner.RunUnderstat(ctx, src, opts)
				return report(logger, res, err)
			})
		},
	}
	cmd.Flags().IntVar(&seasonStart, "season", season.Current(), "Season start year")
	cmd.Flags().BoolVar(&writeCSV, "csv", false, "Also write the derived rows to the Understat CSV")
	cmd.Flags().BoolVar(&noDB, "no-db", false, "Skip Postgres and only write CSV")
	return cmd
}

func fbrefCmd() *cobra.Command {
	var (
		seasonStart int
		out         string
	)
	cmd := &cobra.Command{
		Use:   "fbref",
		Short: "Fetch FBref stat categories, merge them and write CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("fbref", func(ctx context.Context, cfg *config.Config, runner *pipeline.Runner) error {
				src := fbref.NewClient(httpClient(cfg), "", logger)
				res, err := runner.RunFBref(ctx, src, pipeline.FBrefOptions{Season: seasonStart, Output: out})
				return report(logger, res, err)
			})
		},
	}
	cmd.Flags().IntVar(&seasonStart, "season", season.Current(), "Season start year")
	cmd.Flags().StringVar(&out, "out", "", "Output CSV (default data/fbref_<season>.csv)")
	return cmd
}

func whoscoredCmd() *cobra.Command {
	var (
		seasonStart int
		out         string
	)
	cmd := &cobra.Command{
		Use:   "whoscored",
		Short: "Fetch WhoScored match events, aggregate per player and write CSV",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("whoscored", func(ctx context.Context, cfg *config.Config, runner *pipeline.Runner) error {
				renderer, err := whoscored.NewChromeRenderer(whoscored.ChromeOptions{
					Headless:          cfg.Headless,
					ExecPath:          cfg.ChromePath,
					UserAgent:         cfg.UserAgent,
					Timeout:           cfg.HTTPTimeout,
					RequestsPerMinute: cfg.RequestsPerMinute,
				})
				if err != nil {
					return err
				}
				defer renderer.Close()

				src := whoscored.NewClient(renderer, "", logger)
				res, err := runner.RunWhoScored(ctx, src, pipeline.WhoScoredOptions{Season: seasonStart, Output: out})
				return report(logger, res, err)
			})
		},
	}
	cmd.Flags().IntVar(&seasonStart, "season", season.Current(), "Season start year")
	cmd.Flags().StringVar(&out, "out", "", "Output CSV (default data/whoscored_current_season.csv)")
	return cmd
}

func migrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create the players table if it does not exist",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run("", func(ctx context.Context, cfg *config.Config, _ *pipeline.Runner) error {
				pool, err := db.New(ctx, cfg)
				if err != nil {
					return err
				}
				defer pool.Close()
				if err := store.EnsureSchema(ctx, pool); err != nil {
					return err
				}
				logger.Info("Schema ready", "table", config.PlayersTable)
				return nil
			})
		},
	}
}

// --------------------------------------------------------------------------
// Shared setup
// --------------------------------------------------------------------------

// run handles config loading, logger level and context cancellation, then
// pushes the metrics of a pipeline run. source is empty for commands that
// run no pipeline.
func run(source string, fn func(ctx context.Context, cfg *config.Config, runner *pipeline.Runner) error) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	logger = slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	m := metrics.Default()
	err = fn(ctx, cfg, pipeline.NewRunner(cfg, logger, m))
	pushMetrics(ctx, logger, cfg.PushgatewayURL, m, source)
	return err
}

func httpClient(cfg *config.Config) *provider.Client {
	return provider.NewClient(cfg.UserAgent, cfg.RequestsPerMinute, cfg.HTTPTimeout, logger)
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
