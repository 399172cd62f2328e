package models

import (
	"time"
)

// ClubDistanceProfile is the aggregated distance statistics for one club.
// The whole table is rebuilt on each aggregation run; rows are never
// incrementally updated.
type ClubDistanceProfile struct {
	ID              uint      `gorm:"primary_key" json:"-"`
	Club            string    `gorm:"uniqueIndex;not null" json:"club"`
	AverageDistance float64   `json:"average_distance"`
	MedianDistance  float64   `json:"median_distance"`
	StdDeviation    float64   `json:"std_deviation"`
	MinDistance     float64   `json:"min_distance"`
	MaxDistance     float64   `json:"max_distance"`
	SampleCount     int       `json:"sample_count"`
	LastComputedAt  time.Time `json:"last_computed_at"`
}

func (ClubDistanceProfile) TableName() string {
	return "club_distance_profiles"
}
