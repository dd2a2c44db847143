// Package share renders the emoji summary players paste into social media.
package share

import (
	"fmt"
	"strings"

	"github.com/robalobadob/worldle/apps/go-server/internal/daily"
	"github.com/robalobadob/worldle/apps/go-server/internal/game"
	"github.com/robalobadob/worldle/apps/go-server/internal/geo"
	"github.com/robalobadob/worldle/apps/go-server/internal/settings"
)

var arrows = map[geo.Direction]string{
	geo.N:  "⬆️",
	geo.NE: "↗️",
	geo.E:  "➡️",
	geo.SE: "↘️",
	geo.S:  "⬇️",
	geo.SW: "↙️",
	geo.W:  "⬅️",
	geo.NW: "↖️",
}

const congrats = "🎉"

// Options are the modes shown in the header.
type Options struct {
	Theme         settings.Theme
	HideImageMode bool
	RotationMode  bool
	URL           string
}

// Arrow returns the emoji for a guess direction; exact guesses get a party popper.
func Arrow(g game.Guess) string {
	if g.Exact() {
		return congrats
	}
	return arrows[g.Direction]
}

// Squares renders a proximity percentage as five squares: one green per full
// 20 %, one yellow when at least 10 % remains, the rest empty.
func Squares(proximity int, theme settings.Theme) string {
	empty := "⬜"
	if theme == settings.Dark {
		empty = "⬛"
	}
	green := proximity / 20
	yellow := 0
	if proximity-green*20 >= 10 {
		yellow = 1
	}
	return strings.Repeat("🟩", green) + strings.Repeat("🟨", yellow) + strings.Repeat(empty, 5-green-yellow)
}

// Text builds the full share message for a puzzle.
func Text(seed string, guesses []game.Guess, o Options) string {
	var b strings.Builder

	b.WriteString("#Worldle ")
	if n, ok := daily.DayNumber(seed); ok {
		fmt.Fprintf(&b, "#%d", n)
	} else {
		fmt.Fprintf(&b, "Practice %s", seed)
	}

	score := "X"
	if n := len(guesses); n > 0 && guesses[n-1].Exact() {
		score = fmt.Sprint(n)
	}
	fmt.Fprintf(&b, " %s/%d", score, game.MaxTryCount)
	if o.HideImageMode {
		b.WriteString(" 🙈")
	}
	if o.RotationMode {
		b.WriteString(" 🌀")
	}
	b.WriteString("\n")

	for _, g := range guesses {
		b.WriteString(Squares(geo.Proximity(g.Distance), o.Theme))
		b.WriteString(Arrow(g))
		b.WriteString("\n")
	}
	b.WriteString(o.URL)
	return b.String()
}
