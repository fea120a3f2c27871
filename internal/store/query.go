package store

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/futplot/futplot-data/internal/config"
	"github.com/futplot/futplot-data/internal/stats"
)

// ErrNotFound is returned when a lookup matches no row.
var ErrNotFound = errors.New("not found")

// Querier is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// Player is the players row as served by the API.
type Player struct {
	ID             int       `db:"id" json:"id"`
	Player         string    `db:"player" json:"player"`
	Team           string    `db:"team" json:"team"`
	League         string    `db:"league" json:"league"`
	Position       string    `db:"position" json:"position"`
	Matches        int       `db:"matches" json:"matches"`
	Minutes        int       `db:"minutes" json:"minutes"`
	Goals          int       `db:"goals" json:"goals"`
	Assists        int       `db:"assists" json:"assists"`
	XA             float64   `db:"xa" json:"xa"`
	XG             float64   `db:"xg" json:"xg"`
	NPGoals        int       `db:"np_goals" json:"np_goals"`
	NPXG           float64   `db:"np_xg" json:"np_xg"`
	Penalties      int       `db:"penalties" json:"penalties"`
	GoalsAssists   int       `db:"G+A" json:"G+A"`
	NPGoalsAssists int       `db:"npG+A" json:"npG+A"`
	GoalsPer90     float64   `db:"goals_per90" json:"goals_per90"`
	AssistsPer90   float64   `db:"assists_per90" json:"assists_per90"`
	XGPer90        float64   `db:"xg_per90" json:"xg_per90"`
	XAPer90        float64   `db:"xa_per90" json:"xa_per90"`
	Shots          int       `db:"shots" json:"shots"`
	KeyPasses      int       `db:"key_passes" json:"key_passes"`
	XGChain        float64   `db:"xg_chain" json:"xg_chain"`
	XGBuildup      float64   `db:"xg_buildup" json:"xg_buildup"`
	UpdatedAt      time.Time `db:"updated_at" json:"updated_at"`
}

const playerSelect = `SELECT id, player, team, league, position, matches, minutes,
	goals, assists, xa, xg, np_goals, np_xg, penalties, "G+A", "npG+A",
	goals_per90, assists_per90, xg_per90, xa_per90,
	shots, key_passes, xg_chain, xg_buildup, updated_at
	FROM ` + config.PlayersTable

// Prepared statement names. The db package registers Statements on every
// new pool connection.
const (
	StmtHealthCheck  = "health_check"
	StmtPlayersAll   = "players_all"
	StmtPlayerByName = "player_by_name"
	StmtPlayersCount = "players_count"
)

// Statements maps prepared statement names to SQL.
var Statements = map[string]string{
	StmtHealthCheck:  "SELECT 1",
	StmtPlayersAll:   playerSelect + " ORDER BY goals DESC",
	StmtPlayerByName: playerSelect + " WHERE player ILIKE $1 ORDER BY minutes DESC LIMIT 1",
	StmtPlayersCount: "SELECT COUNT(*) FROM " + config.PlayersTable,
}

// ListPlayers returns every player ordered by goals, most first.
func ListPlayers(ctx context.Context, q Querier) ([]Player, error) {
	return collectPlayers(q.Query(ctx, StmtPlayersAll))
}

// LeaguePlayers returns a league's players ordered by a whitelisted stat.
func LeaguePlayers(ctx context.Context, q Querier, league, stat string, desc bool) ([]Player, error) {
	col, ok := SortColumn(stat)
	if !ok {
		return nil, fmt.Errorf("unknown stat %q", stat)
	}
	dir := "ASC"
	if desc {
		dir = "DESC"
	}
	sql := playerSelect + " WHERE league = $1 ORDER BY " + pgx.Identifier{col}.Sanitize() + " " + dir
	return collectPlayers(q.Query(ctx, sql, league))
}

// FindPlayer returns the most-played player whose name contains name,
// case-insensitively.
func FindPlayer(ctx context.Context, q Querier, name string) (Player, error) {
	rows, err := q.Query(ctx, StmtPlayerByName, "%"+escapeLike(name)+"%")
	if err != nil {
		return Player{}, fmt.Errorf("find player: %w", err)
	}
	p, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[Player])
	if errors.Is(err, pgx.ErrNoRows) {
		return Player{}, ErrNotFound
	}
	if err != nil {
		return Player{}, fmt.Errorf("find player: %w", err)
	}
	return p, nil
}

// CountPlayers returns the number of rows in the players table.
func CountPlayers(ctx context.Context, q Querier) (int, error) {
	var n int
	if err := q.QueryRow(ctx, StmtPlayersCount).Scan(&n); err != nil {
		return 0, fmt.Errorf("count players: %w", err)
	}
	return n, nil
}

// SortColumn resolves a user-supplied stat name to a players column,
// case-insensitively. Only known columns are accepted.
func SortColumn(stat string) (string, bool) {
	for _, c := range stats.PlayerColumns {
		if strings.EqualFold(c, stat) {
			return c, true
		}
	}
	return "", false
}

func collectPlayers(rows pgx.Rows, err error) ([]Player, error) {
	if err != nil {
		return nil, fmt.Errorf("query players: %w", err)
	}
	players, err := pgx.CollectRows(rows, pgx.RowToStructByName[Player])
	if err != nil {
		return nil, fmt.Errorf("scan players: %w", err)
	}
	return players, nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// Reader binds the read queries to one Querier.
type Reader struct {
	q Querier
}

// NewReader returns a Reader over q.
func NewReader(q Querier) *Reader { return &Reader{q: q} }

func (r *Reader) ListPlayers(ctx context.Context) ([]Player, error) { return ListPlayers(ctx, r.q) }

func (r *Reader) FindPlayer(ctx context.Context, name string) (Player, error) {
	return FindPlayer(ctx, r.q, name)
}

func (r *Reader) LeaguePlayers(ctx context.Context, league, stat string, desc bool) ([]Player, error) {
	return LeaguePlayers(ctx, r.q, league, stat, desc)
}

func (r *Reader) CountPlayers(ctx context.Context) (int, error) { return CountPlayers(ctx, r.q) }
