// internal/history/history.go
//
// Guess-history persistence on top of store.Store.
//
// Guesses for every puzzle a player has touched live in one JSON mapping
// (seed -> []Guess) under the "guesses" key (daily) or "practiceGuesses"
// key (practice). Saving rewrites the whole mapping; writes for the same
// player are serialised inside the process.
//
// The hide-image and rotation modes of each puzzle are kept the same way,
// seed -> bool, defaulting to the player's settings on first view.

package history

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/robalobadob/worldle/apps/go-server/internal/daily"
	"github.com/robalobadob/worldle/apps/go-server/internal/game"
	"github.com/robalobadob/worldle/apps/go-server/internal/store"
)

// Mode selects which mapping a puzzle belongs to.
type Mode string

const (
	Daily    Mode = "daily"
	Practice Mode = "practice"
)

func (m Mode) key() string {
	if m == Practice {
		return store.KeyPracticeGuesses
	}
	return store.KeyGuesses
}

// Mapping is the stored document: seed -> ordered guesses.
type Mapping map[string][]game.Guess

const lockStripes = 64

// History reads and writes guess mappings for players.
type History struct {
	st    store.Store
	locks [lockStripes]sync.Mutex // write locks, striped by player id
}

func New(st store.Store) *History {
	return &History{st: st}
}

// Lock serialises read-modify-write sequences for one player. Players that
// hash to the same stripe wait on each other, so never hold two at once.
// The returned func releases the lock.
func (h *History) Lock(player string) func() {
	f := fnv.New32a()
	_, _ = f.Write([]byte(player))
	l := &h.locks[f.Sum32()%lockStripes]
	l.Lock()
	return l.Unlock
}

// LoadAll returns the player's mapping for mode; empty when nothing is stored.
// A corrupt document is logged and treated as empty.
func (h *History) LoadAll(ctx context.Context, player string, mode Mode) (Mapping, error) {
	raw, err := h.st.Get(ctx, player, mode.key())
	if errors.Is(err, store.ErrNotFound) {
		return Mapping{}, nil
	}
	if err != nil {
		return nil, err
	}
	m := Mapping{}
	if err := json.Unmarshal(raw, &m); err != nil {
		log.Warn().Err(err).Str("player", player).Str("key", mode.key()).Msg("discarding unreadable guesses")
		return Mapping{}, nil
	}
	for seed, guesses := range m {
		if !validGuesses(guesses) {
			log.Warn().Str("player", player).Str("key", mode.key()).Str("seed", seed).Msg("discarding invalid guesses")
			delete(m, seed)
		}
	}
	return m, nil
}

func validGuesses(guesses []game.Guess) bool {
	if len(guesses) > game.MaxTryCount {
		return false
	}
	for _, g := range guesses {
		if g.Name == "" || !g.Direction.Valid() {
			return false
		}
	}
	return true
}

// Load returns the guesses stored for one seed.
func (h *History) Load(ctx context.Context, player string, mode Mode, seed string) ([]game.Guess, error) {
	all, err := h.LoadAll(ctx, player, mode)
	if err != nil {
		return nil, err
	}
	return all[seed], nil
}

// Save replaces the guesses of seed inside the stored mapping.
// Sequences longer than game.MaxTryCount are rejected.
// Callers doing read-modify-write should hold Lock(player).
func (h *History) Save(ctx context.Context, player string, mode Mode, seed string, guesses []game.Guess) error {
	if len(guesses) > game.MaxTryCount {
		return fmt.Errorf("save %s guesses: %d exceeds %d", mode, len(guesses), game.MaxTryCount)
	}
	all, err := h.LoadAll(ctx, player, mode)
	if err != nil {
		return err
	}
	all[seed] = guesses
	raw, err := json.Marshal(all)
	if err != nil {
		return fmt.Errorf("encode guesses: %w", err)
	}
	return h.st.Set(ctx, player, mode.key(), raw)
}

// PracticeString returns the player's current practice seed, creating one
// on first use. Callers should hold Lock(player).
func (h *History) PracticeString(ctx context.Context, player string) (string, error) {
	raw, err := h.st.Get(ctx, player, store.KeyPracticeString)
	if err == nil {
		var s string
		if json.Unmarshal(raw, &s) == nil && s != "" {
			return s, nil
		}
	} else if !errors.Is(err, store.ErrNotFound) {
		return "", err
	}
	return h.NewPracticeString(ctx, player)
}

// NewPracticeString starts a new practice puzzle.
func (h *History) NewPracticeString(ctx context.Context, player string) (string, error) {
	s := daily.NewPracticeString()
	raw, _ := json.Marshal(s)
	if err := h.st.Set(ctx, player, store.KeyPracticeString, raw); err != nil {
		return "", err
	}
	return s, nil
}

// Claim copies every key of from into to, unless to already has data.
// Used when an anonymous player signs in.
func (h *History) Claim(ctx context.Context, from, to string) error {
	if from == "" || to == "" || from == to {
		return nil
	}
	existing, err := h.st.Keys(ctx, to)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		return nil
	}
	keys, err := h.st.Keys(ctx, from)
	if err != nil {
		return err
	}
	for _, k := range keys {
		v, err := h.st.Get(ctx, from, k)
		if err != nil {
			return fmt.Errorf("claim %s: %w", k, err)
		}
		if err := h.st.Set(ctx, to, k, v); err != nil {
			return fmt.Errorf("claim %s: %w", k, err)
		}
	}
	return nil
}

// Modes are the display modes of one puzzle.
type Modes struct {
	HideImage bool `json:"hideImageMode"`
	Rotation  bool `json:"rotationMode"`
}

func (m Mode) modeKeys() (hideImage, rotation string) {
	if m == Practice {
		return store.KeyPracticeHideImageMode, store.KeyPracticeRotationMode
	}
	return store.KeyHideImageMode, store.KeyRotationMode
}

// LoadModes returns the modes of seed. A puzzle seen for the first time
// takes defaults, which are stored so that later settings changes leave it
// alone. Callers should hold Lock(player).
func (h *History) LoadModes(ctx context.Context, player string, mode Mode, seed string, defaults Modes) (Modes, error) {
	hideKey, rotKey := mode.modeKeys()
	hide, err := h.resolveFlag(ctx, player, hideKey, seed, defaults.HideImage)
	if err != nil {
		return Modes{}, err
	}
	rot, err := h.resolveFlag(ctx, player, rotKey, seed, defaults.Rotation)
	if err != nil {
		return Modes{}, err
	}
	return Modes{HideImage: hide, Rotation: rot}, nil
}

// SaveModes stores the modes of seed.
func (h *History) SaveModes(ctx context.Context, player string, mode Mode, seed string, m Modes) error {
	hideKey, rotKey := mode.modeKeys()
	if err := h.setFlag(ctx, player, hideKey, seed, m.HideImage); err != nil {
		return err
	}
	return h.setFlag(ctx, player, rotKey, seed, m.Rotation)
}

func (h *History) resolveFlag(ctx context.Context, player, key, seed string, def bool) (bool, error) {
	flags, err := h.loadFlags(ctx, player, key)
	if err != nil {
		return false, err
	}
	if v, ok := flags[seed]; ok {
		return v, nil
	}
	flags[seed] = def
	return def, h.saveFlags(ctx, player, key, flags)
}

func (h *History) setFlag(ctx context.Context, player, key, seed string, v bool) error {
	flags, err := h.loadFlags(ctx, player, key)
	if err != nil {
		return err
	}
	flags[seed] = v
	return h.saveFlags(ctx, player, key, flags)
}

func (h *History) loadFlags(ctx context.Context, player, key string) (map[string]bool, error) {
	raw, err := h.st.Get(ctx, player, key)
	if errors.Is(err, store.ErrNotFound) {
		return map[string]bool{}, nil
	}
	if err != nil {
		return nil, err
	}
	flags := map[string]bool{}
	if err := json.Unmarshal(raw, &flags); err != nil {
		log.Warn().Err(err).Str("player", player).Str("key", key).Msg("discarding unreadable modes")
		return map[string]bool{}, nil
	}
	return flags, nil
}

func (h *History) saveFlags(ctx context.Context, player, key string, flags map[string]bool) error {
	raw, err := json.Marshal(flags)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return h.st.Set(ctx, player, key, raw)
}
