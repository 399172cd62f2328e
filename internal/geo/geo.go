package geo

import (
	"math"
)

// EarthRadiusMeters is the mean Earth radius used for all spherical math.
const EarthRadiusMeters = 6_371_000.0

// Coordinate is a point on the Earth's surface in decimal degrees.
type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the coordinate is within the WGS84 degree ranges.
func (c Coordinate) Valid() bool {
	return c.Latitude >= -90 && c.Latitude <= 90 &&
		c.Longitude >= -180 && c.Longitude <= 180
}

func degreesToRadians(d float64) float64 {
	return d * math.Pi / 180
}

func radiansToDegrees(r float64) float64 {
	return r * 180 / math.Pi
}

// Distance returns the great-circle distance between a and b in meters,
// computed with the haversine formula on a spherical Earth.
func Distance(a, b Coordinate) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	dLat := degreesToRadians(b.Latitude - a.Latitude)
	dLng := degreesToRadians(b.Longitude - a.Longitude)

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	// Rounding can push h a hair outside [0,1]; Sqrt of a negative or
	// Asin of >1 would produce NaN downstream.
	h = clamp(h, 0, 1)

	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
	return EarthRadiusMeters * c
}

// Bearing returns the initial bearing of the great-circle path from a to b,
// in degrees in [0, 360), with 0 = true north and clockwise positive.
// When a == b the bearing is undefined and 0 is returned.
func Bearing(a, b Coordinate) float64 {
	lat1 := degreesToRadians(a.Latitude)
	lat2 := degreesToRadians(b.Latitude)
	dLng := degreesToRadians(b.Longitude - a.Longitude)

	y := math.Sin(dLng) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLng)
	if y == 0 && x == 0 {
		return 0
	}

	deg := radiansToDegrees(math.Atan2(y, x))
	return math.Mod(deg+360, 360)
}

// Destination projects origin forward along the given initial bearing
// (degrees) for the given distance (meters) and returns the end point.
func Destination(origin Coordinate, bearingDeg, distanceMeters float64) Coordinate {
	lat1 := degreesToRadians(origin.Latitude)
	lng1 := degreesToRadians(origin.Longitude)
	brng := degreesToRadians(bearingDeg)
	ang := distanceMeters / EarthRadiusMeters

	lat2 := math.Asin(clamp(
		math.Sin(lat1)*math.Cos(ang)+math.Cos(lat1)*math.Sin(ang)*math.Cos(brng),
		-1, 1))
	lng2 := lng1 + math.Atan2(
		math.Sin(brng)*math.Sin(ang)*math.Cos(lat1),
		math.Cos(ang)-math.Sin(lat1)*math.Sin(lat2))

	lngDeg := radiansToDegrees(lng2)
	// Normalize longitude to [-180, 180].
	lngDeg = math.Mod(lngDeg+540, 360) - 180

	return Coordinate{
		Latitude:  radiansToDegrees(lat2),
		Longitude: lngDeg,
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
