package pipeline

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/prometheus/client_golang/prometheus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/futplot/futplot-data/internal/config"
	"github.com/futplot/futplot-data/internal/metrics"
	"github.com/futplot/futplot-data/internal/provider/whoscored"
	"github.com/futplot/futplot-data/internal/stats"
	"github.com/futplot/futplot-data/internal/store"
)

func testRunner(t *testing.T) (*Runner, *config.Config, *bytes.Buffer) {
	cfg := config.Default()
	cfg.RequestDelay = 0
	cfg.DataDir = t.TempDir()
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))
	m := metrics.NewManager(metrics.WithRegistry(prometheus.NewRegistry()))
	return NewRunner(cfg, logger, m), cfg, &logs
}

func readCSV(path string) [][]string {
	f, err := os.Open(path)
	So(err, ShouldBeNil)
	defer f.Close()
	records, err := csv.NewReader(f).ReadAll()
	So(err, ShouldBeNil)
	return records
}

// --- fakes ---------------------------------------------------------------

type fakeUnderstat struct {
	fail map[string]bool
}

func (f fakeUnderstat) PlayerSeasonStats(ctx context.Context, league string, season int) ([]stats.PlayerSeason, error) {
	if f.fail[league] {
		return nil, fmt.Errorf("%s: 503", league)
	}
	id := len(league) * 100
	return []stats.PlayerSeason{
		{League: league, Team: "A", Player: league + " striker", PlayerID: id, Minutes: 900, Goals: 9, NPGoals: 7},
		{League: league, Team: "B", Player: league + " keeper", PlayerID: id + 1, Minutes: 0},
	}, nil
}

type fakeFBref struct {
	fail map[string]bool
}

func (f fakeFBref) CategoryTable(ctx context.Context, group, category string, season int) (stats.Table, error) {
	if f.fail[category] {
		return stats.Table{}, errors.New("429 too many requests")
	}
	t := stats.Table{Columns: []string{"Pos", "Gls"}}
	for _, p := range []string{"Saka", "Palmer"} {
		r := stats.NewRecord(stats.Key{Player: p, Season: "2024-2025", Team: "T" + p})
		r.Text["Pos"] = "FW"
		r.Num["Gls"] = float64(len(p))
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

type fakeWhoScored struct {
	failMatch int
}

func (f fakeWhoScored) Schedule(ctx context.Context, league string, season int) ([]whoscored.Match, error) {
	if league != "ENG-Premier League" {
		return nil, nil
	}
	return []whoscored.Match{{ID: 1, League: league}, {ID: 2, League: league}, {ID: 3, League: league}}, nil
}

func (f fakeWhoScored) MatchEvents(ctx context.Context, m whoscored.Match) (stats.Table, error) {
	if m.ID == f.failMatch {
		return stats.Table{}, errors.New("render timeout")
	}
	t := stats.Table{Columns: []string{"isShot", "type_displayName"}}
	for range m.ID {
		r := stats.NewRecord(stats.Key{Player: "Saka", Season: "2024-2025", Team: "Arsenal"})
		r.Num["isShot"] = 1
		r.Text["type_displayName"] = "SavedShot"
		t.Rows = append(t.Rows, r)
	}
	return t, nil
}

type failingDB struct{}

func (failingDB) Begin(ctx context.Context) (pgx.Tx, error) {
	return nil, errors.New("dial tcp: connection refused")
}

// --- tests ---------------------------------------------------------------

func TestFetchEach(t *testing.T) {
	Convey("Given five leagues where one fails", t, func() {
		var logs bytes.Buffer
		loop := Loop{
			Source:  "understat",
			Logger:  slog.New(slog.NewTextHandler(&logs, nil)),
			Metrics: metrics.NewManager(metrics.WithRegistry(prometheus.NewRegistry())),
		}
		var calls []string

		results := FetchEach(context.Background(), loop, config.Big5,
			func(ctx context.Context, league string) (int, error) {
				calls = append(calls, league)
				if league == "ITA-Serie A" {
					return 0, errors.New("timeout")
				}
				return len(league), nil
			})

		Convey("Then every league is attempted once, in order", func() {
			So(calls, ShouldResemble, config.Big5)
		})

		Convey("Then four succeed and one is skipped with a single notice", func() {
			So(results, ShouldHaveLength, 5)
			skipped := 0
			for _, r := range results {
				if r.Skipped() {
					skipped++
					var fe *FetchError
					So(errors.As(r.Err, &fe), ShouldBeTrue)
					So(fe.Unit, ShouldEqual, "ITA-Serie A")
					So(fe.Source, ShouldEqual, "understat")
				}
			}
			So(skipped, ShouldEqual, 1)
			So(strings.Count(logs.String(), "skipping unit"), ShouldEqual, 1)
		})
	})

	Convey("Given a long delay and a cancelled context", t, func() {
		ctx, cancel := context.WithCancel(context.Background())
		loop := Loop{Source: "fbref", Delay: time.Hour, Logger: slog.New(slog.NewTextHandler(&bytes.Buffer{}, nil))}

		began := time.Now()
		results := FetchEach(ctx, loop, []string{"a", "b", "c"},
			func(ctx context.Context, unit string) (string, error) {
				cancel()
				return unit, nil
			})

		Convey("Then the loop stops during the delay", func() {
			So(results, ShouldHaveLength, 1)
			So(time.Since(began), ShouldBeLessThan, time.Minute)
		})
	})
}

func TestRunUnderstat(t *testing.T) {
	ctx := context.Background()

	Convey("Given one failing league and a CSV destination", t, func() {
		r, cfg, logs := testRunner(t)
		path := filepath.Join(cfg.DataDir, "understat_current_season.csv")

		res, err := r.RunUnderstat(ctx, fakeUnderstat{fail: map[string]bool{"GER-Bundesliga": true}},
			UnderstatOptions{Season: 2024, CSVPath: path})

		Convey("Then the other leagues are derived and written", func() {
			So(err, ShouldBeNil)
			So(res.UnitsFetched, ShouldEqual, 4)
			So(res.UnitsSkipped, ShouldEqual, 1)
			So(res.Rows, ShouldEqual, 8)
			So(res.Destinations, ShouldResemble, []string{path})
			So(res.RunID, ShouldNotBeEmpty)
			So(logs.String(), ShouldContainSubstring, "run_id="+res.RunID)

			records := readCSV(path)
			So(records[0], ShouldResemble, stats.PlayerColumns)
			So(records, ShouldHaveLength, 9)

			striker := records[1]
			So(striker[13], ShouldEqual, "2")    // penalties
			So(striker[24], ShouldEqual, "10")   // 90s
			So(striker[25], ShouldEqual, "0.9")  // goals_per90
			So(records[2][25], ShouldEqual, "0") // zero minutes
		})
	})

	Convey("Given every league fails", t, func() {
		r, cfg, _ := testRunner(t)
		fail := map[string]bool{}
		for _, l := range cfg.Leagues {
			fail[l] = true
		}
		path := filepath.Join(cfg.DataDir, "out.csv")

		res, err := r.RunUnderstat(ctx, fakeUnderstat{fail: fail}, UnderstatOptions{Season: 2024, CSVPath: path})

		Convey("Then the run ends empty and nothing is written", func() {
			So(errors.Is(err, ErrEmptyResult), ShouldBeTrue)
			So(res.UnitsSkipped, ShouldEqual, 5)
			_, statErr := os.Stat(path)
			So(os.IsNotExist(statErr), ShouldBeTrue)
		})
	})

	Convey("Given the database is unreachable", t, func() {
		r, _, _ := testRunner(t)

		_, err := r.RunUnderstat(ctx, fakeUnderstat{}, UnderstatOptions{Season: 2024, DB: failingDB{}})

		Convey("Then a connection error is returned", func() {
			var connErr *store.ConnectionError
			So(errors.As(err, &connErr), ShouldBeTrue)
		})
	})
}

func TestRunFBref(t *testing.T) {
	Convey("Given a failing non-base category", t, func() {
		r, cfg, _ := testRunner(t)
		cfg.FBrefCategories = []string{"standard", "shooting", "passing"}

		res, err := r.RunFBref(context.Background(), fakeFBref{fail: map[string]bool{"passing": true}}, FBrefOptions{Season: 2024})

		Convey("Then the fetched categories are merged and written", func() {
			So(err, ShouldBeNil)
			So(res.UnitsFetched, ShouldEqual, 2)
			So(res.UnitsSkipped, ShouldEqual, 1)
			So(res.Rows, ShouldEqual, 2)

			records := readCSV(cfg.FBrefOutput(2024))
			So(records[0], ShouldResemble, []string{"player", "season", "team", "Pos", "Gls", "Pos_shooting", "Gls_shooting"})
			So(records[1], ShouldResemble, []string{"Saka", "2024-2025", "TSaka", "FW", "4", "FW", "4"})
		})
	})

	Convey("Given the base category fails", t, func() {
		r, cfg, _ := testRunner(t)
		cfg.FBrefCategories = []string{"standard", "shooting"}

		_, err := r.RunFBref(context.Background(), fakeFBref{fail: map[string]bool{"standard": true}}, FBrefOptions{Season: 2024})

		Convey("Then there is nothing to merge onto", func() {
			So(errors.Is(err, ErrEmptyResult), ShouldBeTrue)
		})
	})
}

func TestRunWhoScored(t *testing.T) {
	Convey("Given three matches where one fails", t, func() {
		r, cfg, _ := testRunner(t)
		cfg.WhoScoredOutput = filepath.Join(cfg.DataDir, "ws.csv")

		res, err := r.RunWhoScored(context.Background(), fakeWhoScored{failMatch: 2}, WhoScoredOptions{Season: 2024})

		Convey("Then events from the other matches are summed per player", func() {
			So(err, ShouldBeNil)
			So(res.UnitsSkipped, ShouldEqual, 1)
			So(res.Rows, ShouldEqual, 1)

			records := readCSV(cfg.WhoScoredOutput)
			So(records, ShouldResemble, [][]string{
				{"player", "season", "team", "isShot"},
				{"Saka", "2024-2025", "Arsenal", "4"},
			})
		})
	})
}
