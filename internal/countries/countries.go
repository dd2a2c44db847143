// internal/countries/countries.go
//
// Reference dataset of guessable countries.
//
// Responsibilities:
//   - Load the bundled dataset once (or an override file via Init).
//   - Keep two ordered lists: every entry, and "official" (sovereign) entries only.
//   - Resolve a typed guess to a country by its localized name.
//
// Order matters: daily selection indexes into these lists, so the dataset
// order is preserved exactly as loaded.

package countries

import (
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/robalobadob/worldle/apps/go-server/assets"
)

// DefaultLocale is used whenever a requested locale has no translation.
const DefaultLocale = "en"

// ErrUnknownCountry is returned when a typed name matches no country.
var ErrUnknownCountry = errors.New("unknown country")

// Country is an immutable entry of the reference dataset.
type Country struct {
	Code      string            `json:"code"`
	Latitude  float64           `json:"latitude"`
	Longitude float64           `json:"longitude"`
	Official  bool              `json:"official"`
	Names     map[string]string `json:"names"`
}

// Name returns the localized name, falling back to English.
func (c Country) Name(locale string) string {
	if n, ok := c.Names[locale]; ok && n != "" {
		return n
	}
	return c.Names[DefaultLocale]
}

var (
	initOnce   sync.Once
	all        []Country
	official   []Country
	initialErr error
)

// Init loads the dataset exactly once. An empty path uses the embedded copy.
func Init(path string) error {
	initOnce.Do(func() {
		raw, err := assets.CountriesJSON(path)
		if err != nil {
			initialErr = fmt.Errorf("countries: read dataset: %w", err)
			return
		}
		list, err := Parse(raw)
		if err != nil {
			initialErr = err
			return
		}
		all = list
		official = filterOfficial(list)
	})
	return initialErr
}

// Parse decodes and validates a JSON dataset.
func Parse(raw []byte) ([]Country, error) {
	var list []Country
	if err := json.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("countries: decode dataset: %w", err)
	}
	seen := make(map[string]struct{}, len(list))
	names := map[string]string{} // locale + sanitized name -> code
	for i, c := range list {
		if c.Code == "" {
			return nil, fmt.Errorf("countries: entry %d has no code", i)
		}
		if _, dup := seen[c.Code]; dup {
			return nil, fmt.Errorf("countries: duplicate code %s", c.Code)
		}
		seen[c.Code] = struct{}{}
		if c.Names[DefaultLocale] == "" {
			return nil, fmt.Errorf("countries: %s has no %q name", c.Code, DefaultLocale)
		}
		if c.Latitude < -90 || c.Latitude > 90 || c.Longitude < -180 || c.Longitude > 180 {
			return nil, fmt.Errorf("countries: %s has invalid coordinates", c.Code)
		}
		for locale, n := range c.Names {
			k := locale + "/" + Sanitize(n)
			if other, dup := names[k]; dup {
				return nil, fmt.Errorf("countries: %s and %s share the %s name %q", other, c.Code, locale, n)
			}
			names[k] = c.Code
		}
	}
	if len(filterOfficial(list)) == 0 {
		return nil, errors.New("countries: dataset has no official entries")
	}
	return list, nil
}

func filterOfficial(list []Country) []Country {
	out := make([]Country, 0, len(list))
	for _, c := range list {
		if c.Official {
			out = append(out, c)
		}
	}
	return out
}

// All returns every country in dataset order.
func All() []Country {
	_ = Init("")
	return all
}

// Official returns sovereign countries only, in dataset order.
func Official() []Country {
	_ = Init("")
	return official
}

// Eligible returns the list a daily puzzle draws from.
func Eligible(officialOnly bool) []Country {
	if officialOnly {
		return Official()
	}
	return All()
}

// ByCode looks a country up by its ISO code (case-insensitive).
func ByCode(code string) (Country, bool) {
	code = strings.ToUpper(code)
	for _, c := range All() {
		if c.Code == code {
			return c, true
		}
	}
	return Country{}, false
}

// Find resolves a typed guess against names in the given locale.
// Matching ignores case, accents, spaces, hyphens, apostrophes and parentheses.
func Find(locale, name string) (Country, error) {
	want := Sanitize(name)
	if want == "" {
		return Country{}, ErrUnknownCountry
	}
	for _, c := range All() {
		if Sanitize(c.Name(locale)) == want {
			return c, nil
		}
	}
	return Country{}, ErrUnknownCountry
}

// Names returns the sorted localized names, for autocomplete.
func Names(locale string) []string {
	list := All()
	out := make([]string, 0, len(list))
	for _, c := range list {
		out = append(out, c.Name(locale))
	}
	sort.Strings(out)
	return out
}

// Sanitize folds a country name for comparison.
func Sanitize(name string) string {
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(t, name)
	if err != nil {
		folded = name
	}
	folded = strings.Map(func(r rune) rune {
		switch r {
		case '-', ' ', '\'', '(', ')':
			return -1
		}
		return r
	}, folded)
	return strings.ToLower(folded)
}
