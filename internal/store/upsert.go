// Package store persists derived player rows to Postgres and reads them
// back for the API.
package store

import (
	"context"
	_ "embed"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"github.com/futplot/futplot-data/internal/config"
	"github.com/futplot/futplot-data/internal/stats"
)

// DefaultBatchSize is the number of rows queued per pgx.Batch.
const DefaultBatchSize = 500

//go:embed schema.sql
var schemaSQL string

// TxBeginner is satisfied by *pgxpool.Pool and *pgx.Conn.
type TxBeginner interface {
	Begin(ctx context.Context) (pgx.Tx, error)
}

// Execer is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type Execer interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
}

var upsertPlayerSQL = buildUpsertSQL()

// buildUpsertSQL inserts every players column and, on a player_id conflict,
// overwrites every non-key column and refreshes updated_at.
func buildUpsertSQL() string {
	cols := make([]string, len(stats.PlayerColumns))
	params := make([]string, len(stats.PlayerColumns))
	var sets []string
	for i, c := range stats.PlayerColumns {
		q := pgx.Identifier{c}.Sanitize()
		cols[i] = q
		params[i] = fmt.Sprintf("$%d", i+1)
		if c != "player_id" {
			sets = append(sets, q+" = EXCLUDED."+q)
		}
	}
	sets = append(sets, "updated_at = NOW()")

	return `INSERT INTO ` + config.PlayersTable + ` (` + strings.Join(cols, ", ") + `)
		VALUES (` + strings.Join(params, ",") + `)
		ON CONFLICT (player_id) DO UPDATE SET
			` + strings.Join(sets, ",\n\t\t\t")
}

// UpsertPlayers writes rows in micro-batches inside a single transaction.
// Any failure rolls back the whole run; nothing from earlier batches stays
// committed. Returns the number of rows written.
func UpsertPlayers(ctx context.Context, db TxBeginner, rows []stats.DerivedPlayer, batchSize int) (int, error) {
	if len(rows) == 0 {
		return 0, nil
	}
	if batchSize < 1 {
		batchSize = DefaultBatchSize
	}

	tx, err := db.Begin(ctx)
	if err != nil {
		return 0, &ConnectionError{Err: fmt.Errorf("begin: %w", err)}
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback(ctx)

	for start := 0; start < len(rows); start += batchSize {
		end := min(start+batchSize, len(rows))

		batch := &pgx.Batch{}
		for _, r := range rows[start:end] {
			batch.Queue(upsertPlayerSQL, r.Values()...)
		}
		if err := tx.SendBatch(ctx, batch).Close(); err != nil {
			return 0, fmt.Errorf("%w: batch rows %d-%d: %w", ErrRolledBack, start, end-1, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return 0, fmt.Errorf("%w: commit: %w", ErrRolledBack, err)
	}
	return len(rows), nil
}

// EnsureSchema creates the players table and its indexes if absent.
func EnsureSchema(ctx context.Context, db Execer) error {
	if _, err := db.Exec(ctx, schemaSQL); err != nil {
		return fmt.Errorf("apply schema: %w", err)
	}
	return nil
}
