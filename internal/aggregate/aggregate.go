// Package aggregate rolls event-level rows up into one row per
// player-season-team.
package aggregate

import (
	"github.com/futplot/futplot-data/internal/stats"
)

// SumByKey groups events by key and sums every numeric column. Output rows
// keep first-seen key order. A column survives only when it is numeric in
// every event that carries it; text columns outside the key are dropped.
// Events missing a surviving column contribute nothing to it.
func SumByKey(events []stats.Record, columns []string) stats.Table {
	var out stats.Table
	for _, c := range columns {
		if numericColumn(events, c) {
			out.Columns = append(out.Columns, c)
		}
	}

	index := make(map[stats.Key]int)
	for _, e := range events {
		i, ok := index[e.Key]
		if !ok {
			row := stats.NewRecord(e.Key)
			for _, c := range out.Columns {
				row.Num[c] = 0
			}
			out.Rows = append(out.Rows, row)
			i = len(out.Rows) - 1
			index[e.Key] = i
		}
		for _, c := range out.Columns {
			out.Rows[i].Num[c] += e.Num[c]
		}
	}
	return out
}

func numericColumn(events []stats.Record, col string) bool {
	seen := false
	for _, e := range events {
		if _, ok := e.Text[col]; ok {
			return false
		}
		if _, ok := e.Num[col]; ok {
			seen = true
		}
	}
	return seen
}
