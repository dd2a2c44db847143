// internal/game/types.go
//
// Core type definitions for a Worldle puzzle.
// Defines:
//   - Guess: one scored attempt (name, distance, direction).
//   - DayState: the target country and guesses for one seed.

package game

import (
	"github.com/robalobadob/worldle/apps/go-server/internal/countries"
	"github.com/robalobadob/worldle/apps/go-server/internal/geo"
)

// MaxTryCount is the number of guesses a puzzle allows.
const MaxTryCount = 6

// Guess is immutable once created. The JSON shape is the one stored under
// the "guesses" / "practiceGuesses" keys.
type Guess struct {
	Name      string        `json:"name"`
	Distance  uint          `json:"distance"`  // metres, 0 means exact
	Direction geo.Direction `json:"direction"` // one of the 8 compass buckets
}

// Exact reports whether the guess hit the target.
func (g Guess) Exact() bool { return g.Distance == 0 }

// DayState holds one puzzle: its seed, target and ordered guesses.
type DayState struct {
	Key     string            // day string or practice string
	Country countries.Country // target
	Guesses []Guess           // at most MaxTryCount
}
