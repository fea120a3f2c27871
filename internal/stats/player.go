// Package stats defines the typed row schemas that flow between pipeline
// stages: the raw Understat fetch schema, the derived schema written to
// Postgres, and the keyed table used by the FBref and WhoScored pipelines.
package stats

import "strconv"

// PlayerSeason is one player's season totals as fetched from Understat.
type PlayerSeason struct {
	League      string  `json:"league"`
	Team        string  `json:"team"`
	Player      string  `json:"player"`
	LeagueID    int     `json:"league_id"`
	TeamID      int     `json:"team_id"`
	PlayerID    int     `json:"player_id"`
	Position    string  `json:"position"`
	Matches     int     `json:"matches"`
	Minutes     int     `json:"minutes"`
	Goals       int     `json:"goals"`
	XG          float64 `json:"xg"`
	NPGoals     int     `json:"np_goals"`
	NPXG        float64 `json:"np_xg"`
	Assists     int     `json:"assists"`
	XA          float64 `json:"xa"`
	Shots       int     `json:"shots"`
	KeyPasses   int     `json:"key_passes"`
	YellowCards int     `json:"yellow_cards"`
	RedCards    int     `json:"red_cards"`
	XGChain     float64 `json:"xg_chain"`
	XGBuildup   float64 `json:"xg_buildup"`
}

// Derived holds the columns computed from PlayerSeason, never fetched.
type Derived struct {
	Nineties       float64 `json:"90s"`
	Penalties      int     `json:"penalties"`
	GoalsAssists   int     `json:"G+A"`
	NPGoalsAssists int     `json:"npG+A"`
	GoalsPer90     float64 `json:"goals_per90"`
	AssistsPer90   float64 `json:"assists_per90"`
	XGPer90        float64 `json:"xg_per90"`
	XAPer90        float64 `json:"xa_per90"`
}

// DerivedPlayer is the row shape persisted to the players table.
type DerivedPlayer struct {
	PlayerSeason
	Derived
}

// PlayerColumns is the column order of the players table and of the
// Understat CSV dump.
var PlayerColumns = []string{
	"league", "team", "player", "league_id", "team_id", "player_id", "position",
	"matches", "minutes", "goals", "xg", "np_goals", "np_xg", "penalties",
	"assists", "xa", "G+A", "npG+A", "shots", "key_passes",
	"yellow_cards", "red_cards", "xg_chain", "xg_buildup",
	"90s", "goals_per90", "assists_per90", "xg_per90", "xa_per90",
}

// Values returns the row in PlayerColumns order.
func (p DerivedPlayer) Values() []any {
	return []any{
		p.League, p.Team, p.Player, p.LeagueID, p.TeamID, p.PlayerID, p.Position,
		p.Matches, p.Minutes, p.Goals, p.XG, p.NPGoals, p.NPXG, p.Penalties,
		p.Assists, p.XA, p.GoalsAssists, p.NPGoalsAssists, p.Shots, p.KeyPasses,
		p.YellowCards, p.RedCards, p.XGChain, p.XGBuildup,
		p.Nineties, p.GoalsPer90, p.AssistsPer90, p.XGPer90, p.XAPer90,
	}
}

// Strings returns Values formatted for CSV output.
func (p DerivedPlayer) Strings() []string {
	vals := p.Values()
	out := make([]string, len(vals))
	for i, v := range vals {
		switch x := v.(type) {
		case string:
			out[i] = x
		case int:
			out[i] = strconv.Itoa(x)
		case float64:
			out[i] = FormatFloat(x)
		}
	}
	return out
}

// FormatFloat renders a float without trailing zeros ("0.9", "10").
func FormatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
