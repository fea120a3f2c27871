package store

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/futplot/futplot-data/internal/stats"
)

// fakeDB is an in-memory players table keyed by player_id. Writes are
// staged per transaction and only become visible on Commit.
type fakeDB struct {
	rows        map[int][]any
	updatedAt   map[int]int
	clock       int
	batches     int
	failOnBatch int
	beginErr    error
	commits     int
	rollbacks   int
	lastSQL     string
}

func newFakeDB() *fakeDB {
	return &fakeDB{rows: map[int][]any{}, updatedAt: map[int]int{}}
}

func (f *fakeDB) Begin(ctx context.Context) (pgx.Tx, error) {
	if f.beginErr != nil {
		return nil, f.beginErr
	}
	return &fakeTx{db: f, staged: map[int][]any{}, stagedAt: map[int]int{}}, nil
}

type fakeTx struct {
	pgx.Tx
	db       *fakeDB
	staged   map[int][]any
	stagedAt map[int]int
	done     bool
}

func (t *fakeTx) SendBatch(ctx context.Context, b *pgx.Batch) pgx.BatchResults {
	t.db.batches++
	if t.db.batches == t.db.failOnBatch {
		return fakeResults{err: errors.New("deadlock detected")}
	}
	for _, q := range b.QueuedQueries {
		t.db.lastSQL = q.SQL
		id := q.Arguments[5].(int)
		t.db.clock++
		t.staged[id] = q.Arguments
		t.stagedAt[id] = t.db.clock
	}
	return fakeResults{}
}

func (t *fakeTx) Commit(ctx context.Context) error {
	for id, args := range t.staged {
		t.db.rows[id] = args
		t.db.updatedAt[id] = t.stagedAt[id]
	}
	t.db.commits++
	t.done = true
	return nil
}

func (t *fakeTx) Rollback(ctx context.Context) error {
	if !t.done {
		t.db.rollbacks++
		t.done = true
	}
	return nil
}

type fakeResults struct {
	pgx.BatchResults
	err error
}

func (r fakeResults) Exec() (pgconn.CommandTag, error) { return pgconn.NewCommandTag("INSERT 0 1"), r.err }
func (r fakeResults) Close() error                      { return r.err }

func players(n int) []stats.DerivedPlayer {
	out := make([]stats.DerivedPlayer, n)
	for i := range out {
		out[i] = stats.DerivedPlayer{
			PlayerSeason: stats.PlayerSeason{
				League: "ENG-Premier League", Team: "Arsenal",
				Player: fmt.Sprintf("P%03d", i), PlayerID: 1000 + i,
				Minutes: 900, Goals: i % 5,
			},
			Derived: stats.Derived{Nineties: 10},
		}
	}
	return out
}

func TestUpsertPlayers(t *testing.T) {
	ctx := context.Background()

	Convey("Given 1200 derived rows and a batch size of 500", t, func() {
		db := newFakeDB()
		rows := players(1200)

		n, err := UpsertPlayers(ctx, db, rows, 500)

		Convey("Then all rows land in three batches and one commit", func() {
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 1200)
			So(db.batches, ShouldEqual, 3)
			So(db.commits, ShouldEqual, 1)
			So(len(db.rows), ShouldEqual, 1200)
		})

		Convey("When the same rows are upserted again", func() {
			before := make(map[int][]any, len(db.rows))
			stamps := make(map[int]int, len(db.updatedAt))
			for id, r := range db.rows {
				before[id] = r
				stamps[id] = db.updatedAt[id]
			}

			_, err := UpsertPlayers(ctx, db, rows, 500)

			Convey("Then row count and values are unchanged and only updated_at moves", func() {
				So(err, ShouldBeNil)
				So(len(db.rows), ShouldEqual, 1200)
				for id, r := range db.rows {
					So(r, ShouldResemble, before[id])
					So(db.updatedAt[id], ShouldBeGreaterThan, stamps[id])
				}
			})
		})

		Convey("When a player's row changes", func() {
			changed := players(1)
			changed[0].Team = "Chelsea"
			changed[0].Goals = 12

			_, err := UpsertPlayers(ctx, db, changed, 500)

			Convey("Then the last scrape wins", func() {
				So(err, ShouldBeNil)
				So(db.rows[1000][1], ShouldEqual, "Chelsea")
				So(db.rows[1000][9], ShouldEqual, 12)
			})
		})
	})

	Convey("Given a batch that fails after earlier batches succeeded", t, func() {
		db := newFakeDB()
		db.failOnBatch = 2

		n, err := UpsertPlayers(ctx, db, players(1200), 500)

		Convey("Then the whole transaction is rolled back", func() {
			So(errors.Is(err, ErrRolledBack), ShouldBeTrue)
			So(n, ShouldEqual, 0)
			So(db.commits, ShouldEqual, 0)
			So(db.rollbacks, ShouldEqual, 1)
			So(db.rows, ShouldBeEmpty)
		})
	})

	Convey("Given the database cannot start a transaction", t, func() {
		db := newFakeDB()
		db.beginErr = errors.New("connection refused")

		_, err := UpsertPlayers(ctx, db, players(3), 500)

		Convey("Then a ConnectionError is returned", func() {
			var connErr *ConnectionError
			So(errors.As(err, &connErr), ShouldBeTrue)
		})
	})

	Convey("Given no rows", t, func() {
		db := newFakeDB()
		n, err := UpsertPlayers(ctx, db, nil, 500)

		Convey("Then nothing is written and no transaction opens", func() {
			So(err, ShouldBeNil)
			So(n, ShouldEqual, 0)
			So(db.batches, ShouldEqual, 0)
		})
	})
}

func TestUpsertSQL(t *testing.T) {
	Convey("Given the generated upsert statement", t, func() {
		sql := upsertPlayerSQL

		Convey("Then it conflicts on player_id and overwrites non-key columns", func() {
			So(sql, ShouldContainSubstring, "ON CONFLICT (player_id) DO UPDATE SET")
			So(sql, ShouldContainSubstring, `"G+A" = EXCLUDED."G+A"`)
			So(sql, ShouldContainSubstring, `"team" = EXCLUDED."team"`)
			So(sql, ShouldContainSubstring, "updated_at = NOW()")
			So(sql, ShouldNotContainSubstring, `"player_id" = EXCLUDED`)
			So(sql, ShouldContainSubstring, "$29")
		})
	})
}

func TestSortColumn(t *testing.T) {
	Convey("Given user-supplied sort stats", t, func() {
		Convey("Known columns resolve case-insensitively", func() {
			col, ok := SortColumn("XG_PER90")
			So(ok, ShouldBeTrue)
			So(col, ShouldEqual, "xg_per90")
		})

		Convey("Anything else is rejected", func() {
			_, ok := SortColumn("goals; DROP TABLE players")
			So(ok, ShouldBeFalse)
		})
	})

	Convey("LIKE metacharacters are escaped", t, func() {
		So(escapeLike(`50%_off\`), ShouldEqual, `50\%\_off\\`)
	})
}
