// Package merge joins per-category FBref tables onto the base category.
package merge

import (
	"fmt"

	"github.com/futplot/futplot-data/internal/stats"
)

// Categories left-outer-joins every category table onto base, visiting the
// others in order. Categories missing from tables (failed fetches) are
// skipped rather than null-filled. A column that collides with one already
// present is renamed "<column>_<category>".
func Categories(base string, order []string, tables map[string]stats.Table) (stats.Table, error) {
	left, ok := tables[base]
	if !ok {
		return stats.Table{}, fmt.Errorf("base category %q not fetched", base)
	}

	merged := stats.Table{
		Columns: append([]string(nil), left.Columns...),
		Rows:    make([]stats.Record, len(left.Rows)),
	}
	for i, r := range left.Rows {
		merged.Rows[i] = cloneRecord(r)
	}

	for _, category := range order {
		if category == base {
			continue
		}
		right, ok := tables[category]
		if !ok {
			continue
		}
		merged = LeftJoin(merged, right, category)
	}
	return merged, nil
}

// LeftJoin adds right's columns to every left row with an equal key. Right
// rows with no left match are dropped; for duplicate right keys the first
// row wins.
func LeftJoin(left, right stats.Table, suffix string) stats.Table {
	rename := make(map[string]string, len(right.Columns))
	cols := append([]string(nil), left.Columns...)
	out := stats.Table{Columns: cols}
	for _, c := range right.Columns {
		name := c
		if out.HasColumn(c) {
			name = c + "_" + suffix
		}
		rename[c] = name
		out.Columns = append(out.Columns, name)
	}

	index := make(map[stats.Key]stats.Record, len(right.Rows))
	for _, r := range right.Rows {
		if _, dup := index[r.Key]; !dup {
			index[r.Key] = r
		}
	}

	out.Rows = make([]stats.Record, 0, len(left.Rows))
	for _, l := range left.Rows {
		row := cloneRecord(l)
		if r, ok := index[l.Key]; ok {
			for c, v := range r.Text {
				row.Text[rename[c]] = v
			}
			for c, v := range r.Num {
				row.Num[rename[c]] = v
			}
		}
		out.Rows = append(out.Rows, row)
	}
	return out
}

func cloneRecord(r stats.Record) stats.Record {
	c := stats.NewRecord(r.Key)
	for k, v := range r.Text {
		c.Text[k] = v
	}
	for k, v := range r.Num {
		c.Num[k] = v
	}
	return c
}
