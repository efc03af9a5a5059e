// Package geo implements spherical-Earth geodesy for guidance: bearings,
// great-circle distances, signed heading deltas and forward projection.
package geo

import (
	"math"
	"time"
)

// EarthRadiusMeters is the mean radius of Earth used by every formula in this package.
const EarthRadiusMeters = 6_371_000.0

// Point is a single location sample. Heading is nil when the sensor had no fix.
type Point struct {
	Latitude  float64
	Longitude float64
	Accuracy  float64 // radius in meters
	Heading   *float64
	Timestamp time.Time
}

// At returns a bare point with only coordinates set.
func At(lat, lon float64) Point {
	return Point{Latitude: lat, Longitude: lon}
}

func toRad(deg float64) float64 { return deg * math.Pi / 180 }

func toDeg(rad float64) float64 { return rad * 180 / math.Pi }

// Normalize maps any angle in degrees to [0,360).
func Normalize(deg float64) float64 {
	a := math.Mod(deg, 360)
	if a < 0 {
		a += 360
	}
	// -tiny + 360 rounds up to 360 in float64
	if a >= 360 {
		a -= 360
	}
	return a
}

// Haversine returns the great-circle distance in meters between two points
// specified by latitude and longitude in degrees.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	lat1r := toRad(lat1)
	lat2r := toRad(lat2)
	dLat := toRad(lat2 - lat1)
	dLon := toRad(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1r)*math.Cos(lat2r)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return EarthRadiusMeters * c
}

// Distance returns the haversine distance between a and b in meters.
func Distance(a, b Point) float64 {
	return Haversine(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}

// Bearing returns the initial great-circle bearing from one point to another in [0,360).
// Coincident points yield 0.
func Bearing(from, to Point) float64 {
	lat1 := toRad(from.Latitude)
	lat2 := toRad(to.Latitude)
	dLon := toRad(to.Longitude - from.Longitude)

	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)

	return Normalize(toDeg(math.Atan2(y, x)))
}

// AngularDelta returns the signed shortest rotation from current to target in (-180,180].
// Negative means rotate left, positive means rotate right.
func AngularDelta(current, target float64) float64 {
	d := math.Mod(target-current, 360)
	if d <= -180 {
		d += 360
	} else if d > 180 {
		d -= 360
	}
	return d
}

// Deviation returns the unsigned angle between two headings in [0,180].
// An unknown heading on either side counts as maximal deviation.
func Deviation(a, b *float64) float64 {
	if a == nil || b == nil {
		return 180
	}
	return math.Abs(AngularDelta(*a, *b))
}

// Destination projects start along bearingDeg for distanceMeters on the sphere.
// Fields other than the coordinates are carried over from start.
func Destination(start Point, distanceMeters, bearingDeg float64) Point {
	delta := distanceMeters / EarthRadiusMeters
	theta := toRad(bearingDeg)
	lat1 := toRad(start.Latitude)
	lon1 := toRad(start.Longitude)

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(delta) + math.Cos(lat1)*math.Sin(delta)*math.Cos(theta))
	lon2 := lon1 + math.Atan2(
		math.Sin(theta)*math.Sin(delta)*math.Cos(lat1),
		math.Cos(delta)-math.Sin(lat1)*math.Sin(lat2),
	)

	out := start
	out.Latitude = toDeg(lat2)
	out.Longitude = math.Mod(toDeg(lon2)+540, 360) - 180
	return out
}

// ValidateCoordinates checks that latitude is in [-90,90] and longitude in [-180,180].
func ValidateCoordinates(lat, lon float64) bool {
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}
