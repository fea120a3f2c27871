// Package handler provides HTTP handlers for all API endpoints.
// Handlers read the players table through a PlayerStore; responses are
// cached as encoded JSON with ETags.
package handler

import (
	"context"
	"net/http"
	"time"

	"github.com/futplot/futplot-data/internal/api/respond"
	"github.com/futplot/futplot-data/internal/cache"
	"github.com/futplot/futplot-data/internal/config"
	"github.com/futplot/futplot-data/internal/store"
)

// PlayerStore is the read side of the players table.
type PlayerStore interface {
	ListPlayers(ctx context.Context) ([]store.Player, error)
	FindPlayer(ctx context.Context, name string) (store.Player, error)
	LeaguePlayers(ctx context.Context, league, stat string, desc bool) ([]store.Player, error)
	CountPlayers(ctx context.Context) (int, error)
}

// Pinger checks database reachability.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Handler holds shared dependencies for all endpoint handlers.
type Handler struct {
	players PlayerStore
	db      Pinger
	cache   *cache.Cache
	cfg     *config.Config
}

// New creates a Handler with shared dependencies.
func New(players PlayerStore, db Pinger, c *cache.Cache, cfg *config.Config) *Handler {
	return &Handler{players: players, db: db, cache: c, cfg: cfg}
}

// Root serves API info at /.
// @Summary API root info
// @Description Returns API name, version, status and docs location.
// @Tags meta
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router / [get]
func (h *Handler) Root(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"name":    "FutPlot Data API",
		"version": "1.0.0",
		"status":  "running",
		"docs":    "/docs",
		"metrics": "/metrics",
	})
}

// HealthCheck returns basic health status.
// @Summary Health check
// @Description Returns basic health status and timestamp.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health [get]
func (h *Handler) HealthCheck(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

// HealthCheckDB verifies database connectivity and reports the row count.
// @Summary Database health check
// @Description Verifies Postgres connectivity.
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 503 {object} map[string]interface{}
// @Router /health/db [get]
func (h *Handler) HealthCheckDB(w http.ResponseWriter, r *http.Request) {
	now := time.Now().UTC().Format(time.RFC3339)
	if err := h.db.HealthCheck(r.Context()); err != nil {
		respond.WriteJSONObject(w, http.StatusServiceUnavailable, map[string]any{
			"status":    "unhealthy",
			"database":  "disconnected",
			"error":     "Database connection check failed",
			"timestamp": now,
		})
		return
	}
	body := map[string]any{
		"status":    "healthy",
		"database":  "connected",
		"timestamp": now,
	}
	if n, err := h.players.CountPlayers(r.Context()); err == nil {
		body["players"] = n
	}
	respond.WriteJSONObject(w, http.StatusOK, body)
}

// HealthCheckCache returns cache statistics.
// @Summary Cache health check
// @Description Returns in-memory cache statistics (active keys, expired keys).
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Router /health/cache [get]
func (h *Handler) HealthCheckCache(w http.ResponseWriter, r *http.Request) {
	respond.WriteJSONObject(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"cache":     h.cache.Stats(),
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
