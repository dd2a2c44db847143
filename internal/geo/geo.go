// internal/geo/geo.go
//
// Guess scoring math: great-circle distance and a coarse compass direction
// between two points, plus the "proximity" percentage shown to players.
//
// Distances are whole metres on a sphere of radius 6 378 137 m. Rounding is
// half-up so results agree with the browser client.

package geo

import (
	"fmt"
	"math"
)

const (
	earthRadius = 6378137.0

	// MaxDistanceOnEarth is the distance considered "0 % proximity".
	MaxDistanceOnEarth = 20_000_000

	metersPerMile = 1609.344
)

// Point is a WGS 84 coordinate in decimal degrees.
type Point struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// Direction is one of the eight coarse compass buckets.
type Direction string

const (
	N  Direction = "N"
	NE Direction = "NE"
	E  Direction = "E"
	SE Direction = "SE"
	S  Direction = "S"
	SW Direction = "SW"
	W  Direction = "W"
	NW Direction = "NW"
)

// Directions lists the buckets clockwise from north.
var Directions = []Direction{N, NE, E, SE, S, SW, W, NW}

// Valid reports whether d is one of the eight buckets.
func (d Direction) Valid() bool {
	for _, x := range Directions {
		if x == d {
			return true
		}
	}
	return false
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }
func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// roundHalfUp matches Math.round: halves go towards +Inf.
func roundHalfUp(x float64) float64 { return math.Floor(x + 0.5) }

// Distance returns the great-circle distance between a and b in metres.
// Distance(a, b) == Distance(b, a) for every pair.
func Distance(a, b Point) uint {
	cosC := math.Sin(toRad(b.Lat))*math.Sin(toRad(a.Lat)) +
		math.Cos(toRad(b.Lat))*math.Cos(toRad(a.Lat))*math.Cos(toRad(a.Lon)-toRad(b.Lon))
	// float error can push the argument just outside [-1, 1]
	cosC = math.Max(-1, math.Min(1, cosC))
	return uint(roundHalfUp(math.Acos(cosC) * earthRadius))
}

// RhumbLineBearing returns the constant bearing from origin to dest in [0, 360).
func RhumbLineBearing(origin, dest Point) float64 {
	diffLon := toRad(dest.Lon) - toRad(origin.Lon)
	diffPhi := math.Log(math.Tan(toRad(dest.Lat)/2+math.Pi/4) / math.Tan(toRad(origin.Lat)/2+math.Pi/4))

	if math.Abs(diffLon) > math.Pi {
		if diffLon > 0 {
			diffLon = -(2*math.Pi - diffLon)
		} else {
			diffLon = 2*math.Pi + diffLon
		}
	}
	return math.Mod(toDeg(math.Atan2(diffLon, diffPhi))+360, 360)
}

// CompassDirection buckets the rhumb-line bearing to the nearest 45°.
func CompassDirection(origin, dest Point) Direction {
	return DirectionFromBearing(RhumbLineBearing(origin, dest))
}

// DirectionFromBearing maps any bearing in degrees to its 45° bucket.
func DirectionFromBearing(bearing float64) Direction {
	b := math.Mod(bearing, 360)
	if b < 0 {
		b += 360
	}
	i := int(roundHalfUp(b/45)) % len(Directions)
	return Directions[i]
}

// Proximity converts a distance into a 0–100 closeness score.
func Proximity(distance uint) int {
	remaining := math.Max(float64(MaxDistanceOnEarth)-float64(distance), 0)
	return int(math.Floor(remaining / MaxDistanceOnEarth * 100))
}

// Unit is a display unit for distances.
type Unit string

const (
	Kilometers Unit = "km"
	Miles      Unit = "miles"
)

// FormatDistance renders a distance the way the client displays it.
func FormatDistance(distance uint, unit Unit) string {
	if unit == Miles {
		return fmt.Sprintf("%dmi", int(roundHalfUp(float64(distance)/metersPerMile)))
	}
	return fmt.Sprintf("%dkm", int(roundHalfUp(float64(distance)/1000)))
}
