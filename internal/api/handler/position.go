package handler

import "strings"

// NormalizePosition maps a raw position code ("F M S", "D M", "GK") to one
// of GK, DEF, MID or FWD. Goalkeeper wins, then any defender code, then
// forward; everything else is a midfielder.
func NormalizePosition(code string) string {
	c := strings.ToUpper(strings.TrimSpace(code))
	switch {
	case strings.Contains(c, "GK"):
		return "GK"
	case strings.Contains(c, "D"):
		return "DEF"
	case strings.Contains(c, "F"):
		return "FWD"
	default:
		return "MID"
	}
}
