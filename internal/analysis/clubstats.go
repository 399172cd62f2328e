package analysis

import (
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/fairwaylabs/roundtrack/internal/geo"
)

// Outlier bounds for a single club-distance sample. Anything below the
// minimum is GPS jitter or a mis-tap; anything above the maximum is a GPS
// error or a shot attributed to the wrong hole.
const (
	MinSampleDistanceMeters = 10.0
	MaxSampleDistanceMeters = 350.0
)

// ShotPoint is the aggregator's view of a recorded shot. Input slices must
// already be ordered by round, then hole, then sequence number.
type ShotPoint struct {
	RoundID    string
	HoleNumber int
	Sequence   int
	Club       string
	IsPutt     bool
	Coordinate geo.Coordinate
}

// DistanceSample is one qualifying shot-to-shot distance attributed to the
// club that struck the first shot of the pair.
type DistanceSample struct {
	Club   string
	Meters float64
}

// ClubSummary is the descriptive statistics for one club's samples.
type ClubSummary struct {
	Club            string
	AverageDistance float64
	MedianDistance  float64
	StdDeviation    float64
	MinDistance     float64
	MaxDistance     float64
	SampleCount     int
}

// CollectDistanceSamples walks consecutive shot pairs and produces the
// qualifying club-distance samples. A pair only counts when both shots
// belong to the same round and hole; the first shot of the pair must have a
// club recorded and must not be a putt; and the distance must fall inside
// the fixed outlier bounds.
func CollectDistanceSamples(shots []ShotPoint) []DistanceSample {
	var samples []DistanceSample

	for i := 0; i+1 < len(shots); i++ {
		cur, next := shots[i], shots[i+1]

		if cur.RoundID != next.RoundID || cur.HoleNumber != next.HoleNumber {
			continue
		}
		if cur.IsPutt || cur.Club == "" {
			continue
		}

		d := geo.Distance(cur.Coordinate, next.Coordinate)
		if d < MinSampleDistanceMeters || d > MaxSampleDistanceMeters {
			continue
		}

		samples = append(samples, DistanceSample{Club: cur.Club, Meters: d})
	}

	return samples
}

// SummarizeByClub groups samples by club and computes descriptive statistics
// for every club with at least one sample. Clubs with no qualifying samples
// get no entry. The result is sorted by club name and the computation is
// deterministic, so re-running it on the same input yields identical output.
func SummarizeByClub(samples []DistanceSample) []ClubSummary {
	byClub := make(map[string][]float64)
	for _, s := range samples {
		byClub[s.Club] = append(byClub[s.Club], s.Meters)
	}

	summaries := make([]ClubSummary, 0, len(byClub))
	for club, distances := range byClub {
		sort.Float64s(distances)

		summaries = append(summaries, ClubSummary{
			Club:            club,
			AverageDistance: stat.Mean(distances, nil),
			MedianDistance:  median(distances),
			StdDeviation:    stat.PopStdDev(distances, nil),
			MinDistance:     distances[0],
			MaxDistance:     distances[len(distances)-1],
			SampleCount:     len(distances),
		})
	}

	sort.Slice(summaries, func(i, j int) bool {
		return summaries[i].Club < summaries[j].Club
	})
	return summaries
}

// median expects sorted input. An even count averages the two middle values.
func median(sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return sorted[n/2]
	}
	return (sorted[n/2-1] + sorted[n/2]) / 2
}
