package export

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/futplot/futplot-data/internal/stats"
)

func TestWriteCSV(t *testing.T) {
	Convey("Given a keyed table and a missing output directory", t, func() {
		path := filepath.Join(t.TempDir(), "data", "fbref_2025.csv")
		r := stats.NewRecord(stats.Key{Player: "Bukayo Saka", Season: "2025-2026", Team: "Arsenal"})
		r.Num["Performance_Gls"] = 4
		r.Text["Pos"] = "FW,MF"
		table := stats.Table{Columns: []string{"Pos", "Performance_Gls", "Standard_Sh"}, Rows: []stats.Record{r}}

		err := WriteCSV(path, table)

		Convey("Then the directory is created and the file has a header", func() {
			So(err, ShouldBeNil)
			b, err := os.ReadFile(path)
			So(err, ShouldBeNil)
			lines := strings.Split(strings.TrimSpace(string(b)), "\n")
			So(lines, ShouldHaveLength, 2)
			So(lines[0], ShouldEqual, "player,season,team,Pos,Performance_Gls,Standard_Sh")
			So(lines[1], ShouldEqual, `Bukayo Saka,2025-2026,Arsenal,"FW,MF",4,`)
		})

		Convey("And a second write overwrites rather than appends", func() {
			So(WriteCSV(path, stats.Table{}), ShouldBeNil)
			b, _ := os.ReadFile(path)
			So(strings.TrimSpace(string(b)), ShouldEqual, "player,season,team")
		})

		Convey("And the file is readable by other users", func() {
			fi, err := os.Stat(path)
			So(err, ShouldBeNil)
			So(fi.Mode().Perm(), ShouldEqual, os.FileMode(0o644))
		})

		Convey("And an overwrite keeps the existing file's mode", func() {
			So(os.Chmod(path, 0o640), ShouldBeNil)
			So(WriteCSV(path, stats.Table{}), ShouldBeNil)
			fi, err := os.Stat(path)
			So(err, ShouldBeNil)
			So(fi.Mode().Perm(), ShouldEqual, os.FileMode(0o640))
		})

		Convey("And no temp files are left behind", func() {
			entries, _ := os.ReadDir(filepath.Dir(path))
			So(entries, ShouldHaveLength, 1)
		})
	})
}

func TestWritePlayersCSV(t *testing.T) {
	Convey("Given derived Understat rows", t, func() {
		path := filepath.Join(t.TempDir(), "understat.csv")
		rows := []stats.DerivedPlayer{{
			PlayerSeason: stats.PlayerSeason{League: "ENG-Premier League", Team: "Arsenal", Player: "Saka", PlayerID: 7322, Minutes: 900, Goals: 9},
			Derived:      stats.Derived{Nineties: 10, GoalsPer90: 0.9, GoalsAssists: 9},
		}}

		err := WritePlayersCSV(path, rows)

		Convey("Then columns follow the players table order", func() {
			So(err, ShouldBeNil)
			b, _ := os.ReadFile(path)
			lines := strings.Split(strings.TrimSpace(string(b)), "\n")
			So(lines[0], ShouldStartWith, "league,team,player,league_id,team_id,player_id")
			fields := strings.Split(lines[1], ",")
			So(fields, ShouldHaveLength, len(stats.PlayerColumns))
			So(fields[5], ShouldEqual, "7322")
			So(fields[25], ShouldEqual, "0.9")
		})
	})
}
