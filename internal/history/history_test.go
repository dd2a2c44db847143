package history

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/worldle/apps/go-server/internal/game"
	"github.com/robalobadob/worldle/apps/go-server/internal/geo"
	"github.com/robalobadob/worldle/apps/go-server/internal/store"
)

func TestLoadAllEmpty(t *testing.T) {
	h := New(store.NewMemoryStore())
	m, err := h.LoadAll(context.Background(), "p", Daily)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestSaveMergesDays(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	h := New(st)

	day1 := []game.Guess{{Name: "France", Distance: 816743, Direction: geo.NE}}
	day2 := []game.Guess{{Name: "Germany", Distance: 0, Direction: geo.N}}
	require.NoError(t, h.Save(ctx, "p", Daily, "2026-10-14", day1))
	require.NoError(t, h.Save(ctx, "p", Daily, "2026-10-15", day2))

	all, err := h.LoadAll(ctx, "p", Daily)
	require.NoError(t, err)
	assert.Equal(t, Mapping{"2026-10-14": day1, "2026-10-15": day2}, all)

	// stored document has the browser's shape
	raw, err := st.Get(ctx, "p", store.KeyGuesses)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"2026-10-14":[{"name":"France","distance":816743,"direction":"NE"}],
		"2026-10-15":[{"name":"Germany","distance":0,"direction":"N"}]
	}`, string(raw))

	// practice mapping is separate
	practice, err := h.LoadAll(ctx, "p", Practice)
	require.NoError(t, err)
	assert.Empty(t, practice)
}

func TestSaveRejectsTooManyGuesses(t *testing.T) {
	h := New(store.NewMemoryStore())
	err := h.Save(context.Background(), "p", Daily, "d", make([]game.Guess, game.MaxTryCount+1))
	assert.Error(t, err)
}

func TestCorruptDocumentIsTreatedAsEmpty(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(ctx, "p", store.KeyPracticeGuesses, []byte(`{not json`)))

	m, err := New(st).LoadAll(ctx, "p", Practice)
	require.NoError(t, err)
	assert.Empty(t, m)
}

func TestPracticeString(t *testing.T) {
	ctx := context.Background()
	h := New(store.NewMemoryStore())

	s1, err := h.PracticeString(ctx, "p")
	require.NoError(t, err)
	assert.Len(t, s1, 5)

	again, err := h.PracticeString(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, s1, again)

	s2, err := h.NewPracticeString(ctx, "p")
	require.NoError(t, err)
	current, err := h.PracticeString(ctx, "p")
	require.NoError(t, err)
	assert.Equal(t, s2, current)
}

func TestClaim(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	h := New(st)

	guesses := []game.Guess{{Name: "Spain", Distance: 5, Direction: geo.S}}
	require.NoError(t, h.Save(ctx, "anon", Daily, "2026-10-15", guesses))

	require.NoError(t, h.Claim(ctx, "anon", "user"))
	got, err := h.Load(ctx, "user", Daily, "2026-10-15")
	require.NoError(t, err)
	assert.Equal(t, guesses, got)

	// an account with its own data is left alone
	require.NoError(t, h.Save(ctx, "anon2", Daily, "2026-10-16", guesses))
	require.NoError(t, h.Claim(ctx, "anon2", "user"))
	got, err = h.Load(ctx, "user", Daily, "2026-10-16")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestLockSerialisesWriters(t *testing.T) {
	ctx := context.Background()
	h := New(store.NewMemoryStore())

	var wg sync.WaitGroup
	for i := 0; i < game.MaxTryCount; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			unlock := h.Lock("p")
			defer unlock()
			cur, err := h.Load(ctx, "p", Daily, "d")
			if err != nil {
				return
			}
			_ = h.Save(ctx, "p", Daily, "d", append(cur, game.Guess{Name: "x", Distance: 1, Direction: geo.E}))
		}()
	}
	wg.Wait()

	got, err := h.Load(ctx, "p", Daily, "d")
	require.NoError(t, err)
	assert.Len(t, got, game.MaxTryCount)
}

func TestInvalidGuessesAreDiscarded(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(ctx, "p", store.KeyGuesses, []byte(`{
		"2026-10-14":[{"name":"France","distance":816743,"direction":"NE"}],
		"2026-10-15":[{"name":"France","distance":816743,"direction":"UP"}],
		"2026-10-16":[{"name":"","distance":0,"direction":"N"}]
	}`)))

	all, err := New(st).LoadAll(ctx, "p", Daily)
	require.NoError(t, err)
	assert.Len(t, all, 1)
	assert.Contains(t, all, "2026-10-14")
}

func TestModesDefaultOnFirstView(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	h := New(st)

	m, err := h.LoadModes(ctx, "p", Daily, "2026-10-15", Modes{HideImage: true, Rotation: true})
	require.NoError(t, err)
	assert.Equal(t, Modes{HideImage: true, Rotation: true}, m)

	// later defaults do not apply to a puzzle already seen
	m, err = h.LoadModes(ctx, "p", Daily, "2026-10-15", Modes{})
	require.NoError(t, err)
	assert.Equal(t, Modes{HideImage: true, Rotation: true}, m)

	raw, err := st.Get(ctx, "p", store.KeyRotationMode)
	require.NoError(t, err)
	assert.JSONEq(t, `{"2026-10-15":true}`, string(raw))

	// practice has its own keys
	m, err = h.LoadModes(ctx, "p", Practice, "2026-10-15", Modes{})
	require.NoError(t, err)
	assert.Equal(t, Modes{}, m)
	_, err = st.Get(ctx, "p", store.KeyPracticeHideImageMode)
	require.NoError(t, err)
}

func TestSaveModes(t *testing.T) {
	ctx := context.Background()
	h := New(store.NewMemoryStore())

	_, err := h.LoadModes(ctx, "p", Daily, "2026-10-14", Modes{HideImage: true, Rotation: true})
	require.NoError(t, err)
	require.NoError(t, h.SaveModes(ctx, "p", Daily, "2026-10-15", Modes{Rotation: true}))

	m, err := h.LoadModes(ctx, "p", Daily, "2026-10-15", Modes{HideImage: true})
	require.NoError(t, err)
	assert.Equal(t, Modes{Rotation: true}, m)

	m, err = h.LoadModes(ctx, "p", Daily, "2026-10-14", Modes{})
	require.NoError(t, err)
	assert.Equal(t, Modes{HideImage: true, Rotation: true}, m)
}

func TestCorruptModesAreReset(t *testing.T) {
	ctx := context.Background()
	st := store.NewMemoryStore()
	require.NoError(t, st.Set(ctx, "p", store.KeyHideImageMode, []byte(`[1,2`)))

	m, err := New(st).LoadModes(ctx, "p", Daily, "2026-10-15", Modes{HideImage: true})
	require.NoError(t, err)
	assert.True(t, m.HideImage)
}

func TestLockIsPerPlayerStripe(t *testing.T) {
	h := New(store.NewMemoryStore())
	unlock := h.Lock("p")

	// same player, same stripe: a second Lock waits
	acquired := make(chan struct{})
	go func() {
		u := h.Lock("p")
		close(acquired)
		u()
	}()
	select {
	case <-acquired:
		t.Fatal("lock acquired twice")
	case <-time.After(20 * time.Millisecond):
	}
	unlock()
	<-acquired
}
