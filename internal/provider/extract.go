package provider

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// ExtractValue normalizes a decoded JSON value to a number.
//
// Booleans count as 0 or 1 so flags like isTouch or isShot can be summed.
// Numeric strings are parsed with ParseNumber. ok is false for anything
// else, including nil, objects and arrays.
func ExtractValue(val any) (float64, bool) {
	switch v := val.(type) {
	case nil:
		return 0, false
	case float64:
		return v, true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case bool:
		if v {
			return 1, true
		}
		return 0, true
	case string:
		return ParseNumber(v)
	default:
		return 0, false
	}
}

// ParseNumber parses a scraped table cell. Thousands separators and a
// trailing percent sign are stripped ("1,234" and "45.2%"). Empty cells are
// not numbers.
func ParseNumber(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "%")
	s = strings.ReplaceAll(s, ",", "")
	if s == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}
