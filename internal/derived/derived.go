// Package derived computes the per-player columns that are not fetched:
// 90s played, penalty goals, goal contributions and per-90 rates.
package derived

import (
	"github.com/shopspring/decimal"

	"github.com/futplot/futplot-data/internal/stats"
)

const (
	ninetiesPlaces = 2
	per90Places    = 3
)

// Compute returns rows augmented with derived metrics. Each output row
// depends only on its own input row.
func Compute(rows []stats.PlayerSeason) []stats.DerivedPlayer {
	out := make([]stats.DerivedPlayer, len(rows))
	for i, r := range rows {
		out[i] = stats.DerivedPlayer{PlayerSeason: r, Derived: For(r)}
	}
	return out
}

// For computes the derived metrics of a single row.
//
// A player with zero (or negative) minutes gets 0 for 90s and every per-90
// rate instead of NaN/Inf.
func For(r stats.PlayerSeason) stats.Derived {
	d := stats.Derived{
		Nineties:       round(float64(r.Minutes)/90, ninetiesPlaces),
		Penalties:      r.Goals - r.NPGoals,
		GoalsAssists:   r.Goals + r.Assists,
		NPGoalsAssists: r.NPGoals + r.Assists,
	}
	if r.Minutes <= 0 {
		d.Nineties = 0
		return d
	}
	d.GoalsPer90 = Per90(float64(r.Goals), r.Minutes)
	d.AssistsPer90 = Per90(float64(r.Assists), r.Minutes)
	d.XGPer90 = Per90(r.XG, r.Minutes)
	d.XAPer90 = Per90(r.XA, r.Minutes)
	return d
}

// Per90 normalises a raw stat to a 90-minute rate rounded to 3 places.
func Per90(stat float64, minutes int) float64 {
	if minutes <= 0 {
		return 0
	}
	return round(stat/float64(minutes)*90, per90Places)
}

func round(v float64, places int32) float64 {
	return decimal.NewFromFloat(v).Round(places).InexactFloat64()
}
