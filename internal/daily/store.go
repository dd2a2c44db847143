package daily

import (
	"context"
	"database/sql"
	"fmt"
)

// Result is one player's finished daily puzzle.
type Result struct {
	PlayerID    string `json:"playerId"`
	Date        string `json:"date"`
	CountryCode string `json:"countryCode"`
	Guesses     int    `json:"guesses"`
	Won         bool   `json:"won"`
}

// Store persists daily results in the daily_results table.
type Store struct{ db *sql.DB }

func NewStore(db *sql.DB) *Store { return &Store{db: db} }

// ClaimResults moves the results of from to to, for days where to has none.
// Used when an anonymous player signs in.
func (s *Store) ClaimResults(ctx context.Context, from, to string) error {
	_, err := s.db.ExecContext(ctx,
		`UPDATE OR IGNORE daily_results SET player_id=? WHERE player_id=?`, to, from,
	)
	if err != nil {
		return fmt.Errorf("claim daily results: %w", err)
	}
	return nil
}

// InsertResult records r; a second result for the same player and date is ignored.
func (s *Store) InsertResult(ctx context.Context, r Result) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT OR IGNORE INTO daily_results(player_id, date, country_code, guesses, won)
		VALUES(?,?,?,?,?)`, r.PlayerID, r.Date, r.CountryCode, r.Guesses, r.Won,
	)
	if err != nil {
		return fmt.Errorf("insert daily result: %w", err)
	}
	return nil
}

// AnonymousName labels leaderboard rows of players without an account.
const AnonymousName = "anonymous"

// LBRow is a public leaderboard entry; player ids are never exposed.
type LBRow struct {
	Name    string `json:"name"`
	Guesses int    `json:"guesses"`
}

// Leaderboard lists winners for date: fewest guesses first, then earliest finish.
// Account holders appear under their username.
func (s *Store) Leaderboard(ctx context.Context, date string, limit int) ([]LBRow, error) {
	if limit <= 0 {
		limit = 20
	}
	rows, err := s.db.QueryContext(ctx,
		`SELECT COALESCE(u.username, ?), r.guesses
		FROM daily_results r
		LEFT JOIN users u ON u.id = r.player_id
		WHERE r.date=? AND r.won=1
		ORDER BY r.guesses ASC, r.created_at ASC
		LIMIT ?`, AnonymousName, date, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]LBRow, 0, limit)
	for rows.Next() {
		var r LBRow
		if err := rows.Scan(&r.Name, &r.Guesses); err != nil {
			return nil, err
		}
		out = append(out, r)
	}
	return out, rows.Err()
}
