package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

type sqliteStore struct{ db *sql.DB }

// NewSQLiteStore keeps player data in the player_kv table.
// The schema is created by database.Migrate.
func NewSQLiteStore(db *sql.DB) Store {
	return &sqliteStore{db: db}
}

func (s *sqliteStore) Get(ctx context.Context, player, key string) ([]byte, error) {
	var v []byte
	err := s.db.QueryRowContext(ctx,
		`SELECT value FROM player_kv WHERE player_id=? AND key=?`, player, key,
	).Scan(&v)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get %s/%s: %w", player, key, err)
	}
	return v, nil
}

func (s *sqliteStore) Set(ctx context.Context, player, key string, value []byte) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO player_kv (player_id, key, value, updated_at)
		VALUES (?, ?, ?, strftime('%Y-%m-%dT%H:%M:%SZ', 'now'))
		ON CONFLICT (player_id, key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at`,
		player, key, value,
	)
	if err != nil {
		return fmt.Errorf("set %s/%s: %w", player, key, err)
	}
	return nil
}

func (s *sqliteStore) Keys(ctx context.Context, player string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key FROM player_kv WHERE player_id=?`, player)
	if err != nil {
		return nil, fmt.Errorf("keys %s: %w", player, err)
	}
	defer rows.Close()
	var out []string
	for rows.Next() {
		var k string
		if err := rows.Scan(&k); err != nil {
			return nil, err
		}
		out = append(out, k)
	}
	return out, rows.Err()
}
