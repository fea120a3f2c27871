package fbref

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/futplot/futplot-data/internal/provider"
	"github.com/futplot/futplot-data/internal/stats"
)

// skipStats are row-number and link columns that carry no data.
var skipStats = map[string]bool{"ranker": true, "matches": true}

// column is one flattened header cell.
type column struct {
	stat string // data-stat attribute
	name string // "<group>_<header>" or just "<header>"
}

// ParseTable extracts the table with the given id from an FBref page.
// Rows are keyed by player and team; seasonLabel fills the season key.
func ParseTable(page []byte, id, seasonLabel string) (stats.Table, error) {
	clean := strings.ReplaceAll(string(page), "<!--", "")
	clean = strings.ReplaceAll(clean, "-->", "")

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(clean))
	if err != nil {
		return stats.Table{}, fmt.Errorf("parse page: %w", err)
	}
	tbl := doc.Find("table#" + id).First()
	if tbl.Length() == 0 {
		return stats.Table{}, fmt.Errorf("%w: %s", ErrTableNotFound, id)
	}

	cols := headerColumns(tbl)
	out := stats.Table{}
	for _, c := range cols {
		if !isKeyStat(c.stat) {
			out.Columns = append(out.Columns, c.name)
		}
	}
	byStat := make(map[string]string, len(cols))
	for _, c := range cols {
		byStat[c.stat] = c.name
	}

	tbl.Find("tbody tr").Each(func(_ int, tr *goquery.Selection) {
		cls := tr.AttrOr("class", "")
		if strings.Contains(cls, "thead") || strings.Contains(cls, "spacer") {
			return
		}
		player := cellText(tr.Find(`[data-stat="player"]`).First())
		if player == "" {
			return
		}
		team := cellText(tr.Find(`[data-stat="team"], [data-stat="squad"]`).First())
		rec := stats.NewRecord(stats.Key{Player: player, Season: seasonLabel, Team: team})

		tr.Find("th, td").Each(func(_ int, cell *goquery.Selection) {
			stat := cell.AttrOr("data-stat", "")
			name, ok := byStat[stat]
			if !ok || isKeyStat(stat) {
				return
			}
			text := cellText(cell)
			if v, ok := provider.ParseNumber(text); ok {
				rec.Num[name] = v
			} else if text != "" {
				rec.Text[name] = text
			}
		})
		out.Rows = append(out.Rows, rec)
	})
	return out, nil
}

func isKeyStat(stat string) bool {
	return stat == "player" || stat == "team" || stat == "squad"
}

// headerColumns flattens a one- or two-row thead. The over_header row
// groups columns by colspan; an empty group leaves the name unprefixed.
func headerColumns(tbl *goquery.Selection) []column {
	rows := tbl.Find("thead tr")
	if rows.Length() == 0 {
		return nil
	}
	last := rows.Last()

	var groups []string
	if rows.Length() > 1 {
		rows.First().Find("th, td").Each(func(_ int, th *goquery.Selection) {
			span := 1
			if _, err := fmt.Sscanf(th.AttrOr("colspan", "1"), "%d", &span); err != nil || span < 1 {
				span = 1
			}
			g := cellText(th)
			for range span {
				groups = append(groups, g)
			}
		})
	}

	var cols []column
	seen := map[string]int{}
	last.Find("th, td").Each(func(i int, th *goquery.Selection) {
		stat := th.AttrOr("data-stat", "")
		if stat == "" || skipStats[stat] {
			return
		}
		name := cellText(th)
		if name == "" {
			name = stat
		}
		if i < len(groups) && groups[i] != "" && !isKeyStat(stat) {
			name = groups[i] + "_" + name
		}
		if isKeyStat(stat) {
			name = stat
		}
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s_%d", name, n)
		}
		cols = append(cols, column{stat: stat, name: name})
	})
	return cols
}

func cellText(s *goquery.Selection) string {
	return strings.Join(strings.Fields(s.Text()), " ")
}
