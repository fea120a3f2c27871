package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/futplot/futplot-data/internal/api/respond"
	"github.com/futplot/futplot-data/internal/cache"
	"github.com/futplot/futplot-data/internal/store"
)

// PlayerResponse wraps a single player lookup.
type PlayerResponse struct {
	Success bool         `json:"success"`
	Data    store.Player `json:"data"`
}

// LeagueResponse wraps a league listing.
type LeagueResponse struct {
	Success bool           `json:"success"`
	Data    []store.Player `json:"data"`
	Count   int            `json:"count"`
}

// ListPlayers returns every player ordered by goals.
// @Summary List players
// @Description Returns every player ordered by goals, most first, with positions normalised to GK, DEF, MID or FWD.
// @Tags players
// @Produce json
// @Success 200 {array} store.Player
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/players [get]
func (h *Handler) ListPlayers(w http.ResponseWriter, r *http.Request) {
	h.serveCached(w, r, "players:all", cache.TTLPlayerList, func() (any, error) {
		players, err := h.players.ListPlayers(r.Context())
		if err != nil {
			return nil, err
		}
		for i := range players {
			players[i].Position = NormalizePosition(players[i].Position)
		}
		return players, nil
	})
}

// GetPlayer returns the best match for a player name.
// @Summary Get player by name
// @Description Case-insensitive substring match on player name; the match with the most minutes wins.
// @Tags players
// @Produce json
// @Param name path string true "Player name or part of it"
// @Success 200 {object} PlayerResponse
// @Failure 404 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/players/{name} [get]
func (h *Handler) GetPlayer(w http.ResponseWriter, r *http.Request) {
	name := strings.TrimSpace(pathParam(r, "name"))
	if name == "" {
		respond.WriteError(w, http.StatusBadRequest, "MISSING_NAME", "player name is required")
		return
	}
	key := "player:" + strings.ToLower(name)
	h.serveCached(w, r, key, cache.TTLPlayer, func() (any, error) {
		p, err := h.players.FindPlayer(r.Context(), name)
		if err != nil {
			return nil, err
		}
		return PlayerResponse{Success: true, Data: p}, nil
	})
}

// GetLeaguePlayers returns a league's players sorted by a stat.
// @Summary List a league's players
// @Description Players of one league ordered by a players-table column. Ascending unless order=desc.
// @Tags players
// @Produce json
// @Param league path string true "League name, e.g. ENG-Premier League"
// @Param sort query string false "Column to sort by" default(goals)
// @Param order query string false "asc or desc" Enums(asc, desc)
// @Success 200 {object} LeagueResponse
// @Failure 400 {object} respond.ErrorResponse
// @Failure 500 {object} respond.ErrorResponse
// @Router /api/v1/leagues/{league}/players [get]
func (h *Handler) GetLeaguePlayers(w http.ResponseWriter, r *http.Request) {
	league := pathParam(r, "league")
	stat := r.URL.Query().Get("sort")
	if stat == "" {
		stat = "goals"
	}
	col, ok := store.SortColumn(stat)
	if !ok {
		respond.WriteError(w, http.StatusBadRequest, "INVALID_STAT", fmt.Sprintf("cannot sort by %q", stat))
		return
	}
	desc := strings.EqualFold(r.URL.Query().Get("order"), "desc")

	key := fmt.Sprintf("league:%s:%s:%t", league, col, desc)
	h.serveCached(w, r, key, cache.TTLLeague, func() (any, error) {
		players, err := h.players.LeaguePlayers(r.Context(), league, col, desc)
		if err != nil {
			return nil, err
		}
		if players == nil {
			players = []store.Player{}
		}
		return LeagueResponse{Success: true, Data: players, Count: len(players)}, nil
	})
}

// serveCached answers from the cache when possible, otherwise builds,
// encodes and caches the response.
func (h *Handler) serveCached(w http.ResponseWriter, r *http.Request, key string, ttl time.Duration, build func() (any, error)) {
	if data, etag, ok := h.cache.Get(key); ok {
		if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
			respond.WriteNotModified(w, etag)
			return
		}
		respond.WriteJSON(w, data, etag, ttl, true)
		return
	}

	v, err := build()
	switch {
	case errors.Is(err, store.ErrNotFound):
		respond.WriteError(w, http.StatusNotFound, "NOT_FOUND", "Player not found")
		return
	case err != nil && h.cfg.IsProduction():
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to fetch players")
		return
	case err != nil:
		respond.WriteError(w, http.StatusInternalServerError, "QUERY_FAILED", "Failed to fetch players", err.Error())
		return
	}

	data, err := json.Marshal(v)
	if err != nil {
		respond.WriteError(w, http.StatusInternalServerError, "ENCODE_FAILED", "Failed to encode response")
		return
	}
	etag := h.cache.Set(key, data, ttl)
	if cache.CheckETagMatch(r.Header.Get("If-None-Match"), etag) {
		respond.WriteNotModified(w, etag)
		return
	}
	respond.WriteJSON(w, data, etag, ttl, false)
}

func pathParam(r *http.Request, name string) string {
	v := chi.URLParam(r, name)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}
