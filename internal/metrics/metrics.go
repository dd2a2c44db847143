// Package metrics holds the Prometheus collectors exported on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// GuessesTotal counts accepted and rejected guesses by mode and outcome
	// (miss, exact, unknown_country, game_ended).
	GuessesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worldle_guesses_total",
			Help: "Total number of submitted guesses by mode and outcome.",
		},
		[]string{"mode", "outcome"},
	)

	// GamesFinishedTotal counts finished puzzles by mode and result (won, lost).
	GamesFinishedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "worldle_games_finished_total",
			Help: "Total number of finished puzzles by mode and result.",
		},
		[]string{"mode", "result"},
	)

	PracticeGamesStartedTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worldle_practice_games_started_total",
		Help: "Total number of new practice puzzles.",
	})

	SignupsTotal = promauto.NewCounter(prometheus.CounterOpts{
		Name: "worldle_signups_total",
		Help: "Total number of successful account registrations.",
	})
)
