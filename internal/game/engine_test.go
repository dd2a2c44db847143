package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/robalobadob/worldle/apps/go-server/internal/countries"
	"github.com/robalobadob/worldle/apps/go-server/internal/geo"
)

func mustCountry(t *testing.T, code string) countries.Country {
	t.Helper()
	c, ok := countries.ByCode(code)
	require.True(t, ok, code)
	return c
}

// wrongNames returns n English names that are not the target.
func wrongNames(t *testing.T, target countries.Country, n int) []string {
	t.Helper()
	var out []string
	for _, c := range countries.All() {
		if c.Code != target.Code {
			out = append(out, c.Name("en"))
		}
		if len(out) == n {
			break
		}
	}
	require.Len(t, out, n)
	return out
}

func TestScore(t *testing.T) {
	fr, de := mustCountry(t, "FR"), mustCountry(t, "DE")

	g := Score("France", fr, de)
	assert.Equal(t, "France", g.Name)
	assert.InDelta(t, 816743, g.Distance, 1)
	assert.Equal(t, geo.NE, g.Direction)

	back := Score("Germany", de, fr)
	assert.Equal(t, g.Distance, back.Distance)
	assert.Equal(t, geo.SW, back.Direction)

	exact := Score("France", fr, fr)
	assert.True(t, exact.Exact())
}

func TestSubmitUnknownCountry(t *testing.T) {
	s := New("2026-10-15", true, nil)
	_, err := s.Submit("en", "Narnia")
	assert.ErrorIs(t, err, countries.ErrUnknownCountry)
	assert.Empty(t, s.Guesses)
}

func TestSubmitEndsOnExactGuess(t *testing.T) {
	s := New("2026-10-15", true, nil)
	target := s.Country

	for _, name := range wrongNames(t, target, 2) {
		g, err := s.Submit("en", name)
		require.NoError(t, err)
		assert.NotZero(t, g.Distance)
		assert.False(t, s.Ended())
	}

	g, err := s.Submit("fr", target.Name("fr"))
	require.NoError(t, err)
	assert.Zero(t, g.Distance)
	assert.True(t, s.Ended())
	assert.True(t, s.Won())
	assert.Equal(t, "won", s.State())
	assert.Equal(t, 0, s.Remaining())

	_, err = s.Submit("en", target.Name("en"))
	assert.ErrorIs(t, err, ErrGameEnded)
	assert.Len(t, s.Guesses, 3)
}

func TestSubmitSmallCountries(t *testing.T) {
	s := New("2026-10-15", true, nil)
	for _, name := range []string{"Luxembourg", "Singapore"} {
		if name == s.Country.Name("en") {
			continue
		}
		g, err := s.Submit("en", name)
		require.NoError(t, err, name)
		assert.Equal(t, name, g.Name)
		assert.NotZero(t, g.Distance)
	}
}

func TestSubmitEndsAfterMaxTries(t *testing.T) {
	s := New("practice1", false, nil)
	names := wrongNames(t, s.Country, MaxTryCount+1)

	for i, name := range names[:MaxTryCount] {
		assert.Equal(t, MaxTryCount-i, s.Remaining())
		_, err := s.Submit("en", name)
		require.NoError(t, err)
	}
	assert.True(t, s.Ended())
	assert.False(t, s.Won())
	assert.Equal(t, "lost", s.State())

	_, err := s.Submit("en", names[MaxTryCount])
	assert.ErrorIs(t, err, ErrGameEnded)
	assert.Len(t, s.Guesses, MaxTryCount)
}

func TestNewTruncatesStoredGuesses(t *testing.T) {
	stored := make([]Guess, MaxTryCount+2)
	for i := range stored {
		stored[i] = Guess{Name: "x", Distance: 10, Direction: geo.N}
	}
	s := New("2026-10-15", true, stored)
	assert.Len(t, s.Guesses, MaxTryCount)
	assert.True(t, s.Ended())

	// the caller's slice is not aliased
	s2 := New("2026-10-15", true, stored[:1])
	s2.Guesses[0].Name = "changed"
	assert.Equal(t, "x", stored[0].Name)
}

func TestNewIsDeterministic(t *testing.T) {
	a := New("2026-10-15", true, nil)
	b := New("2026-10-15", true, nil)
	assert.Equal(t, a.Country.Code, b.Country.Code)
	assert.Equal(t, "playing", a.State())
}
