package geo

import (
	"errors"
	"math"
)

// ErrDegenerateSegment is returned when a reference segment's start and end
// are the same point, which leaves the track-geometry functions undefined.
// For golf this means a hole record whose tee and green coincide; callers
// should treat it as a data-quality error on the hole, not as distance 0.
var ErrDegenerateSegment = errors.New("geo: segment start and end are the same point")

// CrossTrackDistance returns the signed perpendicular great-circle distance
// in meters from p to the start→end path. Positive means p lies to the
// right of the direction of travel, negative to the left.
func CrossTrackDistance(p, start, end Coordinate) (float64, error) {
	if Distance(start, end) == 0 {
		return 0, ErrDegenerateSegment
	}

	angDist := Distance(start, p) / EarthRadiusMeters
	bearingToPoint := degreesToRadians(Bearing(start, p))
	bearingToEnd := degreesToRadians(Bearing(start, end))

	arg := clamp(math.Sin(angDist)*math.Sin(bearingToPoint-bearingToEnd), -1, 1)
	return math.Asin(arg) * EarthRadiusMeters, nil
}

// AlongTrackDistance returns the distance in meters along the start→end
// path from start to the point on the path nearest p (the foot of the
// perpendicular from p).
func AlongTrackDistance(p, start, end Coordinate) (float64, error) {
	crossTrack, err := CrossTrackDistance(p, start, end)
	if err != nil {
		return 0, err
	}

	angDist := Distance(start, p) / EarthRadiusMeters
	angCross := crossTrack / EarthRadiusMeters

	cosCross := math.Cos(angCross)
	if cosCross == 0 {
		// Point is a quarter circumference off the path; the projection
		// onto the path is undefined in any meaningful sense for golf.
		return 0, nil
	}

	arg := clamp(math.Cos(angDist)/cosCross, -1, 1)
	return math.Acos(arg) * EarthRadiusMeters, nil
}
