package main

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/futplot/futplot-data/internal/metrics"
	"github.com/futplot/futplot-data/internal/pipeline"
	"github.com/futplot/futplot-data/internal/store"
)

const (
	pushJob     = "futplot_ingest"
	pushTimeout = 10 * time.Second
)

// report logs the run summary and decides the exit status. Failures after
// startup are handled: the process still exits 0 so a scheduled job is not
// marked crashed. Connection errors are the exception.
func report(logger *slog.Logger, res *pipeline.Result, err error) error {
	if res != nil {
		logger.Info("Run finished", "run_id", res.RunID, "summary", res.Summary())
		// Skips were already logged by the fetch loop.
		for _, e := range res.Errors {
			logger.Debug("run error", "run_id", res.RunID, "error", e)
		}
	}

	var connErr *store.ConnectionError
	switch {
	case err == nil:
		return nil
	case errors.Is(err, pipeline.ErrEmptyResult):
		logger.Info("No data to save")
		return nil
	case errors.As(err, &connErr):
		return err
	case errors.Is(err, context.Canceled):
		logger.Warn("Interrupted")
		return nil
	default:
		logger.Error("Run failed", "error", err)
		return nil
	}
}

// pushMetrics sends the process metrics to the Pushgateway, if one is
// configured. An interrupted run still pushes; a failed push is only logged.
func pushMetrics(ctx context.Context, logger *slog.Logger, url string, m *metrics.Manager, source string) {
	if url == "" || source == "" {
		return
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()

	if err := m.Push(ctx, url, pushJob, map[string]string{"pipeline": source}); err != nil {
		logger.Warn("Metrics push failed", "url", url, "error", err)
		return
	}
	logger.Debug("Metrics pushed", "url", url, "pipeline", source)
}
