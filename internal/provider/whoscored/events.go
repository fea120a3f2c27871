package whoscored

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"slices"
	"strconv"

	"github.com/futplot/futplot-data/internal/provider"
	"github.com/futplot/futplot-data/internal/stats"
)

var matchCentreRe = regexp.MustCompile(`matchCentreData\s*[:=]\s*\{`)

type matchCentre struct {
	PlayerNames map[string]string `json:"playerIdNameDictionary"`
	Home        side              `json:"home"`
	Away        side              `json:"away"`
	Events      []map[string]any  `json:"events"`
}

type side struct {
	TeamID int    `json:"teamId"`
	Name   string `json:"name"`
}

// extractMatchCentre finds the matchCentreData object literal in a match
// page and decodes it. Numbers decode as json.Number.
func extractMatchCentre(html string) (*matchCentre, error) {
	loc := matchCentreRe.FindStringIndex(html)
	if loc == nil {
		return nil, ErrNoMatchData
	}
	start := loc[1] - 1
	end, err := objectEnd(html, start)
	if err != nil {
		return nil, err
	}

	dec := json.NewDecoder(bytes.NewReader([]byte(html[start:end])))
	dec.UseNumber()
	var mc matchCentre
	if err := dec.Decode(&mc); err != nil {
		return nil, fmt.Errorf("decode matchCentreData: %w", err)
	}
	return &mc, nil
}

// objectEnd returns the index just past the brace that closes the object
// opening at s[start]. Braces inside string literals are ignored.
func objectEnd(s string, start int) (int, error) {
	depth := 0
	inString := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch c {
			case '\\':
				i++
			case '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i + 1, nil
			}
		}
	}
	return 0, fmt.Errorf("%w: unterminated object", ErrNoMatchData)
}

// flattenEvents turns each player event into a keyed record. Nested objects
// become "<parent>_<child>" columns; arrays such as qualifiers are dropped.
func flattenEvents(mc *matchCentre, seasonLabel string) stats.Table {
	teams := map[string]string{
		strconv.Itoa(mc.Home.TeamID): mc.Home.Name,
		strconv.Itoa(mc.Away.TeamID): mc.Away.Name,
	}

	var out stats.Table
	seen := map[string]bool{}
	for _, ev := range mc.Events {
		player := mc.PlayerNames[idString(ev["playerId"])]
		if player == "" {
			continue
		}
		rec := stats.NewRecord(stats.Key{
			Player: player,
			Season: seasonLabel,
			Team:   teams[idString(ev["teamId"])],
		})
		flatten(&rec, "", ev, func(col string) {
			if !seen[col] {
				seen[col] = true
				out.Columns = append(out.Columns, col)
			}
		})
		out.Rows = append(out.Rows, rec)
	}
	return out
}

func flatten(rec *stats.Record, prefix string, obj map[string]any, addColumn func(string)) {
	keys := make([]string, 0, len(obj))
	for k := range obj {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	for _, k := range keys {
		col := k
		if prefix != "" {
			col = prefix + "_" + k
		}
		switch v := obj[k].(type) {
		case map[string]any:
			flatten(rec, col, v, addColumn)
		case []any, nil:
		case string:
			rec.Text[col] = v
			addColumn(col)
		default:
			if f, ok := provider.ExtractValue(v); ok {
				rec.Num[col] = f
				addColumn(col)
			}
		}
	}
}

func idString(v any) string {
	switch x := v.(type) {
	case json.Number:
		return x.String()
	case string:
		return x
	default:
		return ""
	}
}
