package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/fairwaylabs/roundtrack/internal/geo"
)

// Course is a golf course, either created by hand or imported from
// OpenStreetMap via the course-discovery provider.
type Course struct {
	ID         uuid.UUID      `gorm:"type:uuid;primary_key" json:"id"`
	Name       string         `gorm:"not null" json:"name"`
	ExternalID string         `gorm:"uniqueIndex" json:"external_id,omitempty"` // OSM way/relation id
	Latitude   float64        `json:"latitude"`
	Longitude  float64        `json:"longitude"`
	Tags       datatypes.JSON `json:"tags,omitempty"` // raw OSM tags from import
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`

	Holes []Hole `gorm:"foreignKey:CourseID" json:"holes,omitempty"`
}

func (Course) TableName() string {
	return "courses"
}

func (c *Course) BeforeCreate(tx *gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}

// Hole is a course hole's reference geometry. The tee→green segment defines
// the line of play the shot classifier measures against; tee and green must
// be distinct points for that to be defined, which the analysis layer
// enforces at computation time.
type Hole struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	CourseID  uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_course_hole,priority:1" json:"course_id"`
	Number    int       `gorm:"not null;uniqueIndex:idx_course_hole,priority:2" json:"number"`
	Par       *int      `json:"par,omitempty"`
	TeeLat    float64   `gorm:"not null" json:"tee_lat"`
	TeeLng    float64   `gorm:"not null" json:"tee_lng"`
	GreenLat  float64   `gorm:"not null" json:"green_lat"`
	GreenLng  float64   `gorm:"not null" json:"green_lng"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Hole) TableName() string {
	return "holes"
}

func (h *Hole) BeforeCreate(tx *gorm.DB) error {
	if h.ID == uuid.Nil {
		h.ID = uuid.New()
	}
	return nil
}

// TeeCoordinate returns the tee position as an engine coordinate.
func (h *Hole) TeeCoordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: h.TeeLat, Longitude: h.TeeLng}
}

// GreenCoordinate returns the green center as an engine coordinate.
func (h *Hole) GreenCoordinate() geo.Coordinate {
	return geo.Coordinate{Latitude: h.GreenLat, Longitude: h.GreenLng}
}
