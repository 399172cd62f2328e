package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fairwaylabs/roundtrack/internal/geo"
)

// LieType describes where a ball came to rest.
type LieType string

const (
	LieTee     LieType = "tee"
	LieFairway LieType = "fairway"
	LieRough   LieType = "rough"
	LieSand    LieType = "sand"
	LieGreen   LieType = "green"
	LieOther   LieType = "other"
)

// Round is one played round on a course.
type Round struct {
	ID         uuid.UUID  `gorm:"type:uuid;primary_key" json:"id"`
	CourseID   uuid.UUID  `gorm:"type:uuid;not null;index" json:"course_id"`
	Course     *Course    `gorm:"foreignKey:CourseID" json:"course,omitempty"`
	StartedAt  time.Time  `gorm:"not null" json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`

	Shots []Shot `gorm:"foreignKey:RoundID" json:"shots,omitempty"`
}

func (Round) TableName() string {
	return "rounds"
}

func (r *Round) BeforeCreate(tx *gorm.DB) error {
	if r.ID == uuid.Nil {
		r.ID = uuid.New()
	}
	return nil
}

// Shot is one recorded stroke. Only the raw observation is stored; derived
// values (distance to the next shot, miss direction, miss length) are
// recomputed on demand by the analysis service and never persisted.
type Shot struct {
	ID             uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	RoundID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_round_hole_seq,priority:1" json:"round_id"`
	HoleNumber     int       `gorm:"not null;uniqueIndex:idx_round_hole_seq,priority:2" json:"hole_number"`
	Sequence       int       `gorm:"not null;uniqueIndex:idx_round_hole_seq,priority:3" json:"sequence"` // 1-based within a hole
	Latitude       float64   `gorm:"not null" json:"latitude"`
	Longitude      float64   `gorm:"not null" json:"longitude"`
	AccuracyMeters *float64  `json:"accuracy_meters,omitempty"`
	Club           *string   `gorm:"index" json:"club,omitempty"`
	Lie            LieType   `gorm:"type:varchar(20);default:'other'" json:"lie"`
	IsPutt         bool      `gorm:"not null;default:false" json:"is_putt"`
	Note           string    `json:"note,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

func (Shot) TableName() string {
	return "shots"
}

func (s *Shot) BeforeCreate(tx *gorm.DB) error {
	if s.ID == uuid.Nil {
		s.ID = uuid.New()
	}
	return nil
}

// Coordinate returns the shot's landing point as an engine coordinate.
func (s *Shot) Coordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: s.Latitude, Longitude: s.Longitude}
}

// ClubName returns the recorded club or "" when none was recorded.
func (s *Shot) ClubName() string {
	if s.Club == nil {
		return ""
	}
	return *s.Club
}
