// internal/daily/daily.go
//
// Deterministic puzzle selection.
//
// A puzzle is identified by a seed string: the calendar day ("2006-01-02")
// for the daily game, or a random practice string. Everything derived from
// the seed (target country, image rotation) is a pure function of it and is
// recomputed identically on every request.

package daily

import (
	"crypto/rand"
	"math"
	"math/big"
	"time"

	"github.com/robalobadob/worldle/apps/go-server/internal/countries"
)

const (
	dayLayout = "2006-01-02"

	// MaxShiftDays bounds how far a player may move the daily puzzle.
	MaxShiftDays = 7

	practiceAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	practiceLength   = 5
)

// FirstDay is day #0 of the daily game.
var FirstDay = time.Date(2022, time.January, 21, 0, 0, 0, 0, time.UTC)

// DayString returns the seed for the puzzle shift days after now, in loc.
func DayString(now time.Time, shift int, loc *time.Location) string {
	if loc == nil {
		loc = time.UTC
	}
	return now.In(loc).AddDate(0, 0, shift).Format(dayLayout)
}

// DateKey returns YYYY-MM-DD in UTC.
func DateKey(t time.Time) string {
	return DayString(t, 0, time.UTC)
}

// ParseDayString reports the calendar day of a daily seed.
func ParseDayString(s string) (time.Time, bool) {
	t, err := time.ParseInLocation(dayLayout, s, time.UTC)
	return t, err == nil
}

// DayNumber returns how many days separate FirstDay from dayString.
// ok is false for practice seeds, which are not dates.
func DayNumber(dayString string) (n int, ok bool) {
	t, ok := ParseDayString(dayString)
	if !ok {
		return 0, false
	}
	return int(t.Sub(FirstDay).Hours() / 24), true
}

// Index maps seed onto [0, n) using the first Alea draw.
func Index(seed string, n int) int {
	if n <= 0 {
		return 0
	}
	return int(math.Floor(NewAlea(seed).Next() * float64(n)))
}

// Country returns the target country for seed.
// officialOnly restricts the draw to sovereign countries.
func Country(seed string, officialOnly bool) countries.Country {
	return Pick(seed, countries.Eligible(officialOnly))
}

// Pick returns the element of list chosen by seed.
func Pick(seed string, list []countries.Country) countries.Country {
	if len(list) == 0 {
		return countries.Country{}
	}
	return list[Index(seed, len(list))]
}

// RandomAngle is the rotation (degrees) applied to the outline in rotation mode.
func RandomAngle(seed string) float64 {
	return NewAlea(seed).Next() * 360
}

// ImageScale shrinks a rotated outline so it stays inside its square frame.
func ImageScale(angle float64) float64 {
	normalized := 45 - math.Mod(angle, 90)
	rad := normalized * math.Pi / 180
	return 1 / (math.Cos(rad) * math.Sqrt2)
}

// NewPracticeString returns a fresh random seed for practice mode.
func NewPracticeString() string {
	b := make([]byte, practiceLength)
	max := big.NewInt(int64(len(practiceAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			b[i] = practiceAlphabet[0]
			continue
		}
		b[i] = practiceAlphabet[n.Int64()]
	}
	return string(b)
}

// ClampShift keeps a day shift within [0, MaxShiftDays].
func ClampShift(shift int) int {
	if shift < 0 {
		return 0
	}
	if shift > MaxShiftDays {
		return MaxShiftDays
	}
	return shift
}
