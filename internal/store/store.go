// internal/store/store.go
//
// Per-player key/value persistence.
//
// Each player (anonymous cookie id or account id) owns a small namespace of
// JSON blobs, mirroring the browser's localStorage keys. Implementations:
//   - memory: map-based, process-local (tests, dev).
//   - sqlite: player_kv table (default).
//   - redis:  one hash per player.

package store

import (
	"context"
	"errors"
)

// Keys used by the game. Values are JSON documents.
const (
	KeyGuesses         = "guesses"
	KeyPracticeGuesses = "practiceGuesses"
	KeyPracticeString  = "practiceString"
	KeySettings        = "settings"

	// Per-puzzle display modes: seed -> bool.
	KeyHideImageMode         = "hideImageMode"
	KeyRotationMode          = "rotationMode"
	KeyPracticeHideImageMode = "practiceHideImageMode"
	KeyPracticeRotationMode  = "practiceRotationMode"
)

// ErrNotFound is returned by Get when the key has never been set.
var ErrNotFound = errors.New("not found")

// Store defines the persistence interface for player data.
type Store interface {
	// Get returns the stored value or ErrNotFound.
	Get(ctx context.Context, player, key string) ([]byte, error)

	// Set creates or replaces the value.
	Set(ctx context.Context, player, key string, value []byte) error

	// Keys lists the keys a player has set, in no particular order.
	Keys(ctx context.Context, player string) ([]string, error)
}
