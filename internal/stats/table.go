package stats

// KeyColumns are the identity columns of a keyed table, in header order.
var KeyColumns = []string{"player", "season", "team"}

// Key identifies one player-season-team row. Equality is exact: case and
// whitespace must match.
type Key struct {
	Player string
	Season string
	Team   string
}

// Record is one keyed row. A column present in neither map is missing.
type Record struct {
	Key  Key
	Text map[string]string
	Num  map[string]float64
}

// NewRecord returns a Record with initialised cell maps.
func NewRecord(k Key) Record {
	return Record{Key: k, Text: map[string]string{}, Num: map[string]float64{}}
}

// Cell renders a column for output. Missing cells are empty.
func (r Record) Cell(col string) string {
	switch col {
	case "player":
		return r.Key.Player
	case "season":
		return r.Key.Season
	case "team":
		return r.Key.Team
	}
	if v, ok := r.Num[col]; ok {
		return FormatFloat(v)
	}
	return r.Text[col]
}

// Table is an ordered set of non-key columns plus keyed rows.
type Table struct {
	Columns []string
	Rows    []Record
}

// Header returns the key columns followed by Columns.
func (t Table) Header() []string {
	h := make([]string, 0, len(KeyColumns)+len(t.Columns))
	h = append(h, KeyColumns...)
	return append(h, t.Columns...)
}

// HasColumn reports whether col is a key column or one of Columns.
func (t Table) HasColumn(col string) bool {
	for _, k := range KeyColumns {
		if k == col {
			return true
		}
	}
	for _, c := range t.Columns {
		if c == col {
			return true
		}
	}
	return false
}

// Len returns the number of rows.
func (t Table) Len() int { return len(t.Rows) }

// Empty reports whether the table has no rows.
func (t Table) Empty() bool { return len(t.Rows) == 0 }

// Concat appends the rows of every table. Columns are the union of the
// inputs' columns in first-seen order.
func Concat(tables ...Table) Table {
	var out Table
	seen := map[string]bool{}
	for _, t := range tables {
		for _, c := range t.Columns {
			if !seen[c] {
				seen[c] = true
				out.Columns = append(out.Columns, c)
			}
		}
		out.Rows = append(out.Rows, t.Rows...)
	}
	return out
}
