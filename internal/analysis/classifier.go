// Package analysis contains the shot-analysis engine: classification of a
// shot's landing position against a hole's line of play, and per-club
// distance statistics. Everything here is a pure function over its inputs;
// persistence and presentation live with the callers.
package analysis

import (
	"math"

	"github.com/fairwaylabs/roundtrack/internal/geo"
)

// MissDirection classifies a shot relative to the line of play.
type MissDirection string

const (
	MissLeft   MissDirection = "left"
	MissRight  MissDirection = "right"
	MissOnLine MissDirection = "on_line"
)

// MissLength classifies a shot's distance relative to the green.
type MissLength string

const (
	MissShort MissLength = "short"
	MissLong  MissLength = "long"
	MissOK    MissLength = "ok"
)

// Default tolerances in meters. Consumer GPS accuracy makes finer
// classification meaningless.
const (
	DefaultDirectionToleranceMeters = 5.0
	DefaultLengthToleranceMeters    = 10.0
)

// ClassifyDirection maps a signed cross-track distance to a miss direction.
// Positive cross-track means right of the tee→green line.
func ClassifyDirection(crossTrackMeters, toleranceMeters float64) MissDirection {
	if math.Abs(crossTrackMeters) < toleranceMeters {
		return MissOnLine
	}
	if crossTrackMeters > 0 {
		return MissRight
	}
	return MissLeft
}

// ClassifyLength classifies where point came to rest relative to the green,
// using the point's along-track position on the tee→green line and its
// straight-line distance to the green.
//
// The rules are ordered: an overshoot past the green's along-track position
// is LONG even before the near-green check runs, while a ball short on the
// line but within tolerance of the green itself counts as OK rather than
// SHORT. Returns geo.ErrDegenerateSegment when tee and green coincide.
func ClassifyLength(point, tee, green geo.Coordinate, toleranceMeters float64) (MissLength, error) {
	alongTrack, err := geo.AlongTrackDistance(point, tee, green)
	if err != nil {
		return "", err
	}

	totalHoleDistance := geo.Distance(tee, green)
	distanceToGreen := geo.Distance(point, green)

	switch {
	case alongTrack > totalHoleDistance+toleranceMeters:
		return MissLong, nil
	case distanceToGreen < toleranceMeters:
		return MissOK, nil
	case alongTrack < totalHoleDistance-toleranceMeters && distanceToGreen > toleranceMeters:
		return MissShort, nil
	default:
		return MissOK, nil
	}
}
