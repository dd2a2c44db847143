// internal/game/engine.go
//
// Guess scoring and puzzle state transitions.
//
//   - Score turns a guessed country into distance/direction feedback.
//   - Submit resolves a typed name, scores it and appends it.
//   - A puzzle ends after MaxTryCount guesses or at the first exact guess.

package game

import (
	"errors"
	"fmt"

	"github.com/robalobadob/worldle/apps/go-server/internal/countries"
	"github.com/robalobadob/worldle/apps/go-server/internal/daily"
	"github.com/robalobadob/worldle/apps/go-server/internal/geo"
)

// ErrGameEnded is returned when guessing on a finished puzzle.
var ErrGameEnded = errors.New("game ended")

// New builds the state for seed, drawing the target from the eligible list.
// Previously stored guesses are kept, truncated to MaxTryCount.
func New(seed string, officialOnly bool, guesses []Guess) *DayState {
	if len(guesses) > MaxTryCount {
		guesses = guesses[:MaxTryCount]
	}
	return &DayState{
		Key:     seed,
		Country: daily.Country(seed, officialOnly),
		Guesses: append([]Guess{}, guesses...),
	}
}

func point(c countries.Country) geo.Point {
	return geo.Point{Lat: c.Latitude, Lon: c.Longitude}
}

// Score compares guessed to target. name is recorded as typed.
func Score(name string, guessed, target countries.Country) Guess {
	from, to := point(guessed), point(target)
	return Guess{
		Name:      name,
		Distance:  geo.Distance(from, to),
		Direction: geo.CompassDirection(from, to),
	}
}

// Submit resolves name in locale, scores it against the target and appends it.
func (s *DayState) Submit(locale, name string) (Guess, error) {
	if s.Ended() {
		return Guess{}, ErrGameEnded
	}
	guessed, err := countries.Find(locale, name)
	if err != nil {
		return Guess{}, fmt.Errorf("%q: %w", name, err)
	}
	g := Score(name, guessed, s.Country)
	if guessed.Code == s.Country.Code {
		// rounding noise must never turn the target into a miss
		g.Distance = 0
	}
	s.Guesses = append(s.Guesses, g)
	return g, nil
}

// Ended reports whether no more guesses are accepted.
func (s *DayState) Ended() bool {
	n := len(s.Guesses)
	return n >= MaxTryCount || (n > 0 && s.Guesses[n-1].Exact())
}

// Won reports whether the last guess was exact.
func (s *DayState) Won() bool {
	n := len(s.Guesses)
	return n > 0 && s.Guesses[n-1].Exact()
}

// Remaining is the number of guesses left.
func (s *DayState) Remaining() int {
	if s.Ended() {
		return 0
	}
	return MaxTryCount - len(s.Guesses)
}

// State is a coarse label: "playing", "won" or "lost".
func (s *DayState) State() string {
	switch {
	case s.Won():
		return "won"
	case s.Ended():
		return "lost"
	default:
		return "playing"
	}
}
