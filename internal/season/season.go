// Package season resolves the football-calendar season label. A season runs
// July to June and is labelled by its starting year.
package season

import (
	"fmt"
	"time"
)

// startMonth is the first month of a new season.
const startMonth = time.July

// Resolve returns the starting year of the season that contains t.
func Resolve(t time.Time) int {
	if t.Month() < startMonth {
		return t.Year() - 1
	}
	return t.Year()
}

// Current is Resolve(time.Now()).
func Current() int {
	return Resolve(time.Now())
}

// Label formats a starting year as "2024-2025".
func Label(start int) string {
	return fmt.Sprintf("%d-%d", start, start+1)
}
