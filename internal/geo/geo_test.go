package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

var (
	france    = Point{Lat: 46.227638, Lon: 2.213749}
	germany   = Point{Lat: 51.165691, Lon: 10.451526}
	spain     = Point{Lat: 40.463667, Lon: -3.74922}
	italy     = Point{Lat: 41.87194, Lon: 12.56738}
	usa       = Point{Lat: 37.09024, Lon: -95.712891}
	japan     = Point{Lat: 36.204824, Lon: 138.252924}
	brazil    = Point{Lat: -14.235004, Lon: -51.92528}
	australia = Point{Lat: -25.274398, Lon: 133.775136}
)

func TestDistance(t *testing.T) {
	assert.Zero(t, Distance(france, france))
	assert.InDelta(t, 816743, Distance(france, germany), 1)
	assert.InDelta(t, 802440, Distance(france, spain), 1)
	assert.InDelta(t, 10161807, Distance(usa, japan), 1)
	assert.InDelta(t, 8634957, Distance(brazil, france), 1)
}

func TestDistanceIsSymmetric(t *testing.T) {
	points := []Point{france, germany, spain, italy, usa, japan, brazil, australia}
	for _, a := range points {
		for _, b := range points {
			assert.Equal(t, Distance(a, b), Distance(b, a), "%v <-> %v", a, b)
		}
	}
}

func TestCompassDirection(t *testing.T) {
	cases := []struct {
		name     string
		from, to Point
		want     Direction
	}{
		{"france to germany", france, germany, NE},
		{"germany to france", germany, france, SW},
		{"france to spain", france, spain, SW},
		{"france to italy", france, italy, SE},
		{"spain to italy", spain, italy, E},
		{"usa to japan crosses the antimeridian", usa, japan, W},
		{"japan to usa crosses the antimeridian", japan, usa, E},
		{"brazil to france", brazil, france, NE},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, CompassDirection(tc.from, tc.to))
		})
	}
}

func TestDirectionFromBearing(t *testing.T) {
	assert.Equal(t, N, DirectionFromBearing(0))
	assert.Equal(t, N, DirectionFromBearing(22.4))
	assert.Equal(t, NE, DirectionFromBearing(22.5))
	assert.Equal(t, S, DirectionFromBearing(180))
	assert.Equal(t, NW, DirectionFromBearing(315))
	assert.Equal(t, N, DirectionFromBearing(350))
	assert.Equal(t, N, DirectionFromBearing(360))
	assert.Equal(t, W, DirectionFromBearing(-90))
	for _, d := range Directions {
		assert.True(t, d.Valid())
	}
	assert.False(t, Direction("NNE").Valid())
}

func TestProximity(t *testing.T) {
	assert.Equal(t, 100, Proximity(0))
	assert.Equal(t, 95, Proximity(1_000_000))
	assert.Equal(t, 0, Proximity(20_000_000))
	assert.Equal(t, 0, Proximity(25_000_000))
}

func TestFormatDistance(t *testing.T) {
	assert.Equal(t, "817km", FormatDistance(816743, Kilometers))
	assert.Equal(t, "508mi", FormatDistance(816743, Miles))
	assert.Equal(t, "0km", FormatDistance(0, Kilometers))
}
