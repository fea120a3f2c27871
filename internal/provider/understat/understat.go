// Package understat fetches per-player season totals from understat.com.
//
// The league JSON endpoint is tried first. When it fails the league page is
// fetched instead and the playersData/teamsData blobs embedded in its
// scripts are decoded.
package understat

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/futplot/futplot-data/internal/provider"
	"github.com/futplot/futplot-data/internal/stats"
)

const DefaultBaseURL = "https://understat.com"

// league maps a soccerdata-style league name to Understat's URL slug and
// league id.
type league struct {
	slug string
	id   int
}

var leagues = map[string]league{
	"ENG-Premier League": {"EPL", 1},
	"ESP-La Liga":        {"La_liga", 2},
	"GER-Bundesliga":     {"Bundesliga", 3},
	"ITA-Serie A":        {"Serie_A", 4},
	"FRA-Ligue 1":        {"Ligue_1", 5},
	"RUS-Premier League": {"RFPL", 6},
}

// ErrUnknownLeague is returned for league names Understat does not cover.
var ErrUnknownLeague = errors.New("unknown understat league")

// Client fetches Understat league data.
type Client struct {
	http    *provider.Client
	baseURL string
	logger  *slog.Logger
}

// NewClient creates an Understat client. An empty baseURL uses
// DefaultBaseURL.
func NewClient(httpClient *provider.Client, baseURL string, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{http: httpClient, baseURL: strings.TrimRight(baseURL, "/"), logger: logger}
}

// leagueData is the payload of getLeagueData and of the page blobs.
// Understat serialises every number as a string.
type leagueData struct {
	Players []rawPlayer        `json:"players"`
	Teams   map[string]rawTeam `json:"teams"`
}

type rawPlayer struct {
	ID          string `json:"id"`
	Name        string `json:"player_name"`
	Games       string `json:"games"`
	Time        string `json:"time"`
	Goals       string `json:"goals"`
	XG          string `json:"xG"`
	Assists     string `json:"assists"`
	XA          string `json:"xA"`
	Shots       string `json:"shots"`
	KeyPasses   string `json:"key_passes"`
	YellowCards string `json:"yellow_cards"`
	RedCards    string `json:"red_cards"`
	Position    string `json:"position"`
	TeamTitle   string `json:"team_title"`
	NPG         string `json:"npg"`
	NPXG        string `json:"npxG"`
	XGChain     string `json:"xGChain"`
	XGBuildup   string `json:"xGBuildup"`
}

type rawTeam struct {
	ID    string `json:"id"`
	Title string `json:"title"`
}

// PlayerSeasonStats returns every player's totals for one league and
// season start year.
func (c *Client) PlayerSeasonStats(ctx context.Context, leagueName string, season int) ([]stats.PlayerSeason, error) {
	lg, ok := leagues[leagueName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownLeague, leagueName)
	}

	data, err := c.fetchJSON(ctx, lg.slug, season)
	if err != nil {
		c.logger.Debug("league endpoint failed, trying page", "league", leagueName, "error", err)
		var pageErr error
		data, pageErr = c.fetchPage(ctx, lg.slug, season)
		if pageErr != nil {
			return nil, fmt.Errorf("understat %s %d: %w", leagueName, season, errors.Join(err, pageErr))
		}
	}

	return convert(data, leagueName, lg.id)
}

func (c *Client) fetchJSON(ctx context.Context, slug string, season int) (*leagueData, error) {
	h := http.Header{}
	h.Set("X-Requested-With", "XMLHttpRequest")
	body, err := c.http.Get(ctx, fmt.Sprintf("%s/getLeagueData/%s/%d", c.baseURL, slug, season), h)
	if err != nil {
		return nil, err
	}
	var data leagueData
	if err := json.Unmarshal(body, &data); err != nil {
		return nil, fmt.Errorf("decode league data: %w", err)
	}
	return &data, nil
}

func (c *Client) fetchPage(ctx context.Context, slug string, season int) (*leagueData, error) {
	body, err := c.http.Get(ctx, fmt.Sprintf("%s/league/%s/%d", c.baseURL, slug, season), nil)
	if err != nil {
		return nil, err
	}
	blobs, err := extractBlobs(body)
	if err != nil {
		return nil, err
	}

	var data leagueData
	raw, ok := blobs["playersData"]
	if !ok {
		return nil, errors.New("playersData not found on league page")
	}
	if err := json.Unmarshal(raw, &data.Players); err != nil {
		return nil, fmt.Errorf("decode playersData: %w", err)
	}
	if raw, ok := blobs["teamsData"]; ok {
		if err := json.Unmarshal(raw, &data.Teams); err != nil {
			return nil, fmt.Errorf("decode teamsData: %w", err)
		}
	}
	return &data, nil
}

func convert(data *leagueData, leagueName string, leagueID int) ([]stats.PlayerSeason, error) {
	teamIDs := make(map[string]int, len(data.Teams))
	for _, t := range data.Teams {
		id, err := strconv.Atoi(t.ID)
		if err != nil {
			continue
		}
		teamIDs[t.Title] = id
	}

	out := make([]stats.PlayerSeason, 0, len(data.Players))
	for _, p := range data.Players {
		var n numParser
		row := stats.PlayerSeason{
			League:      leagueName,
			Team:        p.TeamTitle,
			Player:      p.Name,
			LeagueID:    leagueID,
			PlayerID:    n.atoi("id", p.ID),
			Position:    p.Position,
			Matches:     n.atoi("games", p.Games),
			Minutes:     n.atoi("time", p.Time),
			Goals:       n.atoi("goals", p.Goals),
			XG:          n.atof("xG", p.XG),
			NPGoals:     n.atoi("npg", p.NPG),
			NPXG:        n.atof("npxG", p.NPXG),
			Assists:     n.atoi("assists", p.Assists),
			XA:          n.atof("xA", p.XA),
			Shots:       n.atoi("shots", p.Shots),
			KeyPasses:   n.atoi("key_passes", p.KeyPasses),
			YellowCards: n.atoi("yellow_cards", p.YellowCards),
			RedCards:    n.atoi("red_cards", p.RedCards),
			XGChain:     n.atof("xGChain", p.XGChain),
			XGBuildup:   n.atof("xGBuildup", p.XGBuildup),
		}
		if n.err != nil {
			return nil, fmt.Errorf("player %q: %w", p.Name, n.err)
		}
		// Players who moved mid-season list every club, comma separated.
		first, _, _ := strings.Cut(p.TeamTitle, ",")
		row.TeamID = teamIDs[first]
		out = append(out, row)
	}
	return out, nil
}

// numParser records the first parse failure so a row converts in one pass.
type numParser struct{ err error }

func (n *numParser) atoi(field, s string) int {
	if s == "" {
		return 0
	}
	v, err := strconv.Atoi(s)
	if err != nil && n.err == nil {
		n.err = fmt.Errorf("%s: %w", field, err)
	}
	return v
}

func (n *numParser) atof(field, s string) float64 {
	if s == "" {
		return 0
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil && n.err == nil {
		n.err = fmt.Errorf("%s: %w", field, err)
	}
	return v
}
