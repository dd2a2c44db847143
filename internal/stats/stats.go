// Package stats summarises a player's daily history for the stats panel.
package stats

import (
	"sort"

	"github.com/robalobadob/worldle/apps/go-server/internal/daily"
	"github.com/robalobadob/worldle/apps/go-server/internal/game"
)

// Data is the stats panel content.
type Data struct {
	Played            int         `json:"played"`
	WinRatio          float64     `json:"winRatio"`
	CurrentStreak     int         `json:"currentStreak"`
	MaxStreak         int         `json:"maxStreak"`
	GuessDistribution map[int]int `json:"guessDistribution"` // try count (1..6) -> wins
}

// Compute walks the daily mapping in calendar order. A streak counts wins on
// consecutive days; a loss (or a day with no exact guess) resets it.
// Seeds that are not dates are ignored.
func Compute(all map[string][]game.Guess) Data {
	days := make([]string, 0, len(all))
	for d := range all {
		if _, ok := daily.ParseDayString(d); ok {
			days = append(days, d)
		}
	}
	sort.Strings(days)

	out := Data{GuessDistribution: make(map[int]int, game.MaxTryCount)}
	for i := 1; i <= game.MaxTryCount; i++ {
		out.GuessDistribution[i] = 0
	}

	wins := 0
	var prev string
	for _, d := range days {
		guesses := all[d]
		out.Played++

		winIndex := -1
		for i, g := range guesses {
			if g.Exact() {
				winIndex = i
				break
			}
		}

		if winIndex >= 0 && winIndex < game.MaxTryCount {
			wins++
			out.GuessDistribution[winIndex+1]++
			if prev == "" || nextDay(prev) == d {
				out.CurrentStreak++
			} else {
				out.CurrentStreak = 1
			}
		} else {
			out.CurrentStreak = 0
		}
		if out.CurrentStreak > out.MaxStreak {
			out.MaxStreak = out.CurrentStreak
		}
		prev = d
	}

	played := out.Played
	if played == 0 {
		played = 1
	}
	out.WinRatio = float64(wins) / float64(played)
	return out
}

func nextDay(d string) string {
	t, _ := daily.ParseDayString(d)
	return daily.DateKey(t.AddDate(0, 0, 1))
}
