package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fairwaylabs/roundtrack/internal/geo"
)

// shotAt builds a ShotPoint a given distance down a fixed line from the tee.
func shotAt(round string, hole, seq int, club string, isPutt bool, meters float64) ShotPoint {
	tee := geo.Coordinate{Latitude: 33.6809, Longitude: -84.3757}
	return ShotPoint{
		RoundID:    round,
		HoleNumber: hole,
		Sequence:   seq,
		Club:       club,
		IsPutt:     isPutt,
		Coordinate: geo.Destination(tee, 55, meters),
	}
}

func TestCollectDistanceSamplesOutlierFilter(t *testing.T) {
	shots := []ShotPoint{
		shotAt("r1", 1, 1, "driver", false, 0),
		shotAt("r1", 1, 2, "wedge", false, 5), // 5 m pair: jitter, dropped
		shotAt("r1", 1, 3, "putter", true, 12),
		shotAt("r1", 2, 1, "driver", false, 0),
		shotAt("r1", 2, 2, "7iron", false, 150), // 150 m pair: kept
		shotAt("r1", 3, 1, "driver", false, 0),
		shotAt("r1", 3, 2, "3wood", false, 400), // 400 m pair: GPS error, dropped
	}

	samples := CollectDistanceSamples(shots)
	require.Len(t, samples, 1)
	assert.Equal(t, "driver", samples[0].Club)
	assert.InDelta(t, 150, samples[0].Meters, 1)
}

func TestCollectDistanceSamplesSkipsPuttsAndUnknownClubs(t *testing.T) {
	shots := []ShotPoint{
		shotAt("r1", 1, 1, "putter", true, 0), // putt first: pair dropped
		shotAt("r1", 1, 2, "", false, 20),
		shotAt("r1", 1, 3, "wedge", false, 60), // no club on shot 2: pair dropped
		shotAt("r1", 1, 4, "", false, 120),     // wedge pair at ~60 m: kept
	}

	samples := CollectDistanceSamples(shots)
	require.Len(t, samples, 1)
	assert.Equal(t, "wedge", samples[0].Club)
	assert.InDelta(t, 60, samples[0].Meters, 1)
}

func TestCollectDistanceSamplesRespectsBoundaries(t *testing.T) {
	shots := []ShotPoint{
		// Last shot of hole 1 and first of hole 2 are 150 m apart but must
		// not form a sample.
		shotAt("r1", 1, 1, "driver", false, 0),
		shotAt("r1", 2, 1, "driver", false, 150),
		// Same hole number across rounds is not a pair either.
		shotAt("r2", 2, 1, "driver", false, 0),
	}

	assert.Empty(t, CollectDistanceSamples(shots))
}

func TestSummarizeByClub(t *testing.T) {
	samples := []DistanceSample{
		{Club: "7iron", Meters: 140},
		{Club: "7iron", Meters: 150},
		{Club: "7iron", Meters: 130},
		{Club: "7iron", Meters: 160},
		{Club: "driver", Meters: 230},
	}

	summaries := SummarizeByClub(samples)
	require.Len(t, summaries, 2)

	iron := summaries[0]
	assert.Equal(t, "7iron", iron.Club)
	assert.Equal(t, 4, iron.SampleCount)
	assert.InDelta(t, 145, iron.AverageDistance, 1e-9)
	// Even sample count: median is the mean of the two middle values.
	assert.InDelta(t, 145, iron.MedianDistance, 1e-9)
	assert.InDelta(t, 130, iron.MinDistance, 1e-9)
	assert.InDelta(t, 160, iron.MaxDistance, 1e-9)
	// Population standard deviation (divide by N): sqrt(125).
	assert.InDelta(t, 11.180339887, iron.StdDeviation, 1e-6)

	driver := summaries[1]
	assert.Equal(t, "driver", driver.Club)
	assert.Equal(t, 1, driver.SampleCount)
	assert.InDelta(t, 230, driver.AverageDistance, 1e-9)
	assert.InDelta(t, 230, driver.MedianDistance, 1e-9)
	assert.Zero(t, driver.StdDeviation)
}

func TestSummarizeByClubOddMedian(t *testing.T) {
	samples := []DistanceSample{
		{Club: "9iron", Meters: 110},
		{Club: "9iron", Meters: 125},
		{Club: "9iron", Meters: 118},
	}

	summaries := SummarizeByClub(samples)
	require.Len(t, summaries, 1)
	assert.InDelta(t, 118, summaries[0].MedianDistance, 1e-9)
}

func TestSummarizeByClubEmptyInput(t *testing.T) {
	assert.Empty(t, SummarizeByClub(nil))
}

func TestAggregationIdempotence(t *testing.T) {
	var shots []ShotPoint
	for r := 1; r <= 3; r++ {
		round := string(rune('a' + r))
		shots = append(shots,
			shotAt(round, 1, 1, "driver", false, 0),
			shotAt(round, 1, 2, "7iron", false, float64(200+10*r)),
			shotAt(round, 1, 3, "putter", true, float64(340+10*r)),
		)
	}

	first := SummarizeByClub(CollectDistanceSamples(shots))
	second := SummarizeByClub(CollectDistanceSamples(shots))
	assert.Equal(t, first, second)
}
