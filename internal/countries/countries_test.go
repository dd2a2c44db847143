package countries

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	cases := map[string]string{
		"Côte d'Ivoire":       "cotedivoire",
		"  United  States ":   "unitedstates",
		"Guinea-Bissau":       "guineabissau",
		"Congo (Brazzaville)": "congobrazzaville",
		"ÉTATS-UNIS":          "etatsunis",
	}
	for in, want := range cases {
		assert.Equal(t, want, Sanitize(in), in)
	}
}

func TestDatasetLoads(t *testing.T) {
	require.NoError(t, Init(""))
	assert.NotEmpty(t, All())
	assert.NotEmpty(t, Official())
	assert.Less(t, len(Official()), len(All()))
	for _, c := range Official() {
		assert.True(t, c.Official, c.Code)
	}
}

func TestDatasetContents(t *testing.T) {
	all := All()
	require.Len(t, all, 243)
	assert.Len(t, Official(), 193)
	assert.Equal(t, "AD", all[0].Code)
	assert.Equal(t, "ZW", all[len(all)-1].Code)
	for _, c := range all {
		assert.NotEmpty(t, c.Name("fr"), c.Code)
	}

	for name, code := range map[string]string{
		"Luxembourg": "LU",
		"Israel":     "IL",
		"Malaysia":   "MY",
		"Chad":       "TD",
		"Lithuania":  "LT",
		"Singapore":  "SG",
	} {
		c, err := Find("en", name)
		require.NoError(t, err, name)
		assert.Equal(t, code, c.Code)
		assert.True(t, c.Official, name)
	}

	tw, ok := ByCode("TW")
	require.True(t, ok)
	assert.False(t, tw.Official)
}

func TestFind(t *testing.T) {
	c, err := Find("en", "france")
	require.NoError(t, err)
	assert.Equal(t, "FR", c.Code)

	c, err = Find("fr", "etats unis")
	require.NoError(t, err)
	assert.Equal(t, "US", c.Code)

	c, err = Find("en", "cote divoire")
	require.NoError(t, err)
	assert.Equal(t, "CI", c.Code)

	_, err = Find("en", "Atlantis")
	assert.ErrorIs(t, err, ErrUnknownCountry)

	_, err = Find("en", "   ")
	assert.ErrorIs(t, err, ErrUnknownCountry)
}

func TestNameFallsBackToEnglish(t *testing.T) {
	c, ok := ByCode("de")
	require.True(t, ok)
	assert.Equal(t, "Germany", c.Name("xx"))
	assert.Equal(t, "Allemagne", c.Name("fr"))
}

func TestNamesSorted(t *testing.T) {
	names := Names("en")
	require.Len(t, names, len(All()))
	assert.IsNonDecreasing(t, names)
}

func TestParseRejectsBadData(t *testing.T) {
	_, err := Parse([]byte(`not json`))
	assert.Error(t, err)

	_, err = Parse([]byte(`[{"code":"AA","latitude":0,"longitude":0,"official":true,"names":{"en":"A"}},
		{"code":"AA","latitude":0,"longitude":0,"official":true,"names":{"en":"B"}}]`))
	assert.ErrorContains(t, err, "duplicate")

	_, err = Parse([]byte(`[{"code":"AA","latitude":0,"longitude":0,"official":true,"names":{"en":"Côte"}},
		{"code":"BB","latitude":0,"longitude":0,"official":true,"names":{"en":"cote"}}]`))
	assert.ErrorContains(t, err, "share")

	_, err = Parse([]byte(`[{"code":"AA","latitude":95,"longitude":0,"official":true,"names":{"en":"A"}}]`))
	assert.ErrorContains(t, err, "coordinates")

	_, err = Parse([]byte(`[{"code":"AA","latitude":0,"longitude":0,"official":false,"names":{"en":"A"}}]`))
	assert.ErrorContains(t, err, "official")
}
