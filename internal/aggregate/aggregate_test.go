package aggregate

import (
	"testing"

	. "github.com/smartystreets/goconvey/convey"

	"github.com/futplot/futplot-data/internal/stats"
)

func event(player, team string, num map[string]float64, text map[string]string) stats.Record {
	r := stats.NewRecord(stats.Key{Player: player, Season: "2024-2025", Team: team})
	for k, v := range num {
		r.Num[k] = v
	}
	for k, v := range text {
		r.Text[k] = v
	}
	return r
}

func TestSumByKey(t *testing.T) {
	Convey("Given two events for the same player-season-team", t, func() {
		events := []stats.Record{
			event("A", "X", map[string]float64{"shots": 1, "minute": 10}, map[string]string{"type_displayName": "Pass"}),
			event("A", "X", map[string]float64{"shots": 2, "minute": 50}, map[string]string{"type_displayName": "Shot"}),
		}

		out := SumByKey(events, []string{"minute", "shots", "type_displayName"})

		Convey("Then they collapse into one summed row", func() {
			So(out.Len(), ShouldEqual, 1)
			So(out.Rows[0].Num["shots"], ShouldEqual, 3)
			So(out.Rows[0].Num["minute"], ShouldEqual, 60)
		})

		Convey("And non-numeric columns are dropped", func() {
			So(out.Columns, ShouldResemble, []string{"minute", "shots"})
			So(out.Rows[0].Text, ShouldBeEmpty)
		})
	})

	Convey("Given events for different teams of the same player", t, func() {
		events := []stats.Record{
			event("A", "X", map[string]float64{"shots": 1}, nil),
			event("B", "Y", map[string]float64{"shots": 4}, nil),
			event("A", "Z", map[string]float64{"shots": 2}, nil),
			event("A", "X", map[string]float64{}, nil),
		}

		out := SumByKey(events, []string{"shots"})

		Convey("Then each key gets its own row in first-seen order", func() {
			So(out.Len(), ShouldEqual, 3)
			So(out.Rows[0].Key.Team, ShouldEqual, "X")
			So(out.Rows[0].Num["shots"], ShouldEqual, 1)
			So(out.Rows[1].Key.Player, ShouldEqual, "B")
			So(out.Rows[2].Key.Team, ShouldEqual, "Z")
		})
	})

	Convey("Given a column that is text in some events", t, func() {
		events := []stats.Record{
			event("A", "X", map[string]float64{"card": 1}, nil),
			event("A", "X", nil, map[string]string{"card": "Yellow"}),
		}

		out := SumByKey(events, []string{"card"})

		Convey("Then the mixed column is dropped", func() {
			So(out.Columns, ShouldBeEmpty)
		})
	})
}
