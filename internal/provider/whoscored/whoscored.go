// Package whoscored fetches match events from whoscored.com.
//
// WhoScored pages only work in a real browser, so every page goes through a
// Renderer. A league's season schedule yields match links; each match page
// embeds its events as matchCentreData JSON.
package whoscored

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/futplot/futplot-data/internal/season"
	"github.com/futplot/futplot-data/internal/stats"
)

const DefaultBaseURL = "https://www.whoscored.com"

// tournaments maps league names to their WhoScored tournament page.
var tournaments = map[string]string{
	"ENG-Premier League": "/Regions/252/Tournaments/2/England-Premier-League",
	"ESP-La Liga":        "/Regions/206/Tournaments/4/Spain-LaLiga",
	"GER-Bundesliga":     "/Regions/81/Tournaments/3/Germany-Bundesliga",
	"ITA-Serie A":        "/Regions/108/Tournaments/5/Italy-Serie-A",
	"FRA-Ligue 1":        "/Regions/74/Tournaments/22/France-Ligue-1",
}

var (
	ErrUnknownLeague  = errors.New("unknown whoscored league")
	ErrSeasonNotFound = errors.New("season not listed")
	ErrNoMatchData    = errors.New("matchCentreData not found")
)

var matchLinkRe = regexp.MustCompile(`/Matches/(\d+)/Live`)

// Match is one scheduled fixture.
type Match struct {
	ID     int
	League string
	Season string
}

// Client fetches WhoScored schedules and match events.
type Client struct {
	renderer Renderer
	baseURL  string
	logger   *slog.Logger
}

// NewClient creates a WhoScored client. An empty baseURL uses
// DefaultBaseURL.
func NewClient(r Renderer, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{renderer: r, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// Schedule returns the matches listed on a league's fixtures page for the
// season starting in start, in page order without duplicates.
func (c *Client) Schedule(ctx context.Context, league string, start int) ([]Match, error) {
	path, ok := tournaments[league]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLeague, league)
	}

	doc, err := c.document(ctx, c.baseURL+path)
	if err != nil {
		return nil, err
	}
	// The season selector labels seasons "2024/2025".
	want := fmt.Sprintf("%d/%d", start, start+1)
	seasonPath := ""
	doc.Find("select#seasons option").EachWithBreak(func(_ int, opt *goquery.Selection) bool {
		if strings.TrimSpace(opt.Text()) == want {
			seasonPath = opt.AttrOr("value", "")
			return false
		}
		return true
	})
	if seasonPath == "" {
		return nil, fmt.Errorf("%w: %s %s", ErrSeasonNotFound, league, want)
	}

	doc, err = c.document(ctx, c.baseURL+seasonPath)
	if err != nil {
		return nil, err
	}
	fixtures, ok := doc.Find(`a[href*="/Fixtures/"]`).First().Attr("href")
	if !ok {
		return nil, fmt.Errorf("fixtures link not found for %s %s", league, want)
	}

	doc, err = c.document(ctx, c.baseURL+fixtures)
	if err != nil {
		return nil, err
	}

	label := season.Label(start)
	var matches []Match
	seen := map[int]bool{}
	doc.Find(`a[href*="/Matches/"]`).Each(func(_ int, a *goquery.Selection) {
		m := matchLinkRe.FindStringSubmatch(a.AttrOr("href", ""))
		if m == nil {
			return
		}
		id, err := strconv.Atoi(m[1])
		if err != nil || seen[id] {
			return
		}
		seen[id] = true
		matches = append(matches, Match{ID: id, League: league, Season: label})
	})
	c.logger.Debug("whoscored schedule", "league", league, "season", label, "matches", len(matches))
	return matches, nil
}

// MatchURL returns the live page of a match.
func (c *Client) MatchURL(id int) string {
	return fmt.Sprintf("%s/Matches/%d/Live", c.baseURL, id)
}

// MatchEvents renders a match page and returns its flattened events, one
// row per event with a known player.
func (c *Client) MatchEvents(ctx context.Context, m Match) (stats.Table, error) {
	html, err := c.renderer.Render(ctx, c.MatchURL(m.ID))
	if err != nil {
		return stats.Table{}, err
	}
	data, err := extractMatchCentre(html)
	if err != nil {
		return stats.Table{}, fmt.Errorf("match %d: %w", m.ID, err)
	}
	return flattenEvents(data, m.Season), nil
}

func (c *Client) document(ctx context.Context, url string) (*goquery.Document, error) {
	html, err := c.renderer.Render(ctx, url)
	if err != nil {
		return nil, err
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("parse %s: %w", url, err)
	}
	return doc, nil
}
