// Package fbref fetches per-category player tables from fbref.com.
//
// Each category (standard, shooting, ...) is a separate page whose player
// table has id stats_<category>. FBref ships most tables inside HTML
// comments and renders them client side, so comment markers are stripped
// before parsing.
package fbref

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/futplot/futplot-data/internal/provider"
	"github.com/futplot/futplot-data/internal/season"
	"github.com/futplot/futplot-data/internal/stats"
)

const DefaultBaseURL = "https://fbref.com"

// comp is an FBref competition: its id in URLs and its page name suffix.
type comp struct {
	id   string
	name string
}

var comps = map[string]comp{
	"Big5":               {"Big5", "Big-5-European-Leagues"},
	"ENG-Premier League": {"9", "Premier-League"},
	"ESP-La Liga":        {"12", "La-Liga"},
	"GER-Bundesliga":     {"20", "Bundesliga"},
	"ITA-Serie A":        {"11", "Serie-A"},
	"FRA-Ligue 1":        {"13", "Ligue-1"},
}

// pages maps a category to its URL path segment.
var pages = map[string]string{
	"standard": "stats",
	"shooting": "shooting",
	"passing":  "passing",
	"defense":  "defense",
	"misc":     "misc",
	"keeper":   "keepers",
}

var (
	ErrUnknownGroup    = errors.New("unknown fbref league group")
	ErrUnknownCategory = errors.New("unknown fbref stat category")
	ErrTableNotFound   = errors.New("stats table not found")
)

// Client fetches FBref category tables.
type Client struct {
	http    *provider.Client
	baseURL string
	logger  *slog.Logger
}

// NewClient creates an FBref client. An empty baseURL uses DefaultBaseURL.
func NewClient(httpClient *provider.Client, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// PageURL returns the category page for a league group and season start
// year, e.g. /en/comps/9/2024-2025/shooting/2024-2025-Premier-League-Stats.
func (c *Client) PageURL(group, category string, start int) (string, error) {
	cp, ok := comps[group]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownGroup, group)
	}
	seg, ok := pages[category]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownCategory, category)
	}
	label := season.Label(start)
	path := fmt.Sprintf("/en/comps/%s/%s/%s/%s-%s-Stats", cp.id, label, seg, label, cp.name)
	if cp.id == "Big5" {
		path = fmt.Sprintf("/en/comps/Big5/%s/%s/players/%s-%s-Stats", label, seg, label, cp.name)
	}
	return c.baseURL + path, nil
}

// CategoryTable fetches one category's player table for a league group.
func (c *Client) CategoryTable(ctx context.Context, group, category string, start int) (stats.Table, error) {
	u, err := c.PageURL(group, category, start)
	if err != nil {
		return stats.Table{}, err
	}
	body, err := c.http.Get(ctx, u, nil)
	if err != nil {
		return stats.Table{}, err
	}
	t, err := ParseTable(body, "stats_"+category, season.Label(start))
	if err != nil {
		return stats.Table{}, fmt.Errorf("fbref %s %s: %w", group, category, err)
	}
	c.logger.Debug("fbref table parsed", "group", group, "category", category, "rows", t.Len(), "columns", len(t.Columns))
	return t, nil
}
