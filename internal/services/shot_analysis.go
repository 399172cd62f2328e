package services

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/fairwaylabs/roundtrack/internal/analysis"
	"github.com/fairwaylabs/roundtrack/internal/geo"
	"github.com/fairwaylabs/roundtrack/internal/models"
	"github.com/fairwaylabs/roundtrack/pkg/database"
)

// ErrHoleNotFound is returned when a round's course has no geometry for the
// requested hole number.
var ErrHoleNotFound = errors.New("hole geometry not found")

// ShotAnnotation is the derived view of one shot. Nothing here is stored;
// the service recomputes it from the raw shot sequence and hole geometry on
// every request.
type ShotAnnotation struct {
	Shot               models.Shot            `json:"shot"`
	DistanceToNextShot *float64               `json:"distance_to_next_shot,omitempty"`
	DistanceToGreen    float64                `json:"distance_to_green"`
	CrossTrackDistance float64                `json:"cross_track_distance"`
	AlongTrackDistance float64                `json:"along_track_distance"`
	MissDirection      analysis.MissDirection `json:"miss_direction"`
	MissLength         analysis.MissLength    `json:"miss_length"`
}

// HoleAnalysis is the full annotated shot sequence for one hole of a round.
type HoleAnalysis struct {
	RoundID           uuid.UUID        `json:"round_id"`
	HoleNumber        int              `json:"hole_number"`
	TotalHoleDistance float64          `json:"total_hole_distance"`
	Par               *int             `json:"par,omitempty"`
	Shots             []ShotAnnotation `json:"shots"`
}

// ShotAnalysisService recomputes derived shot values from stored rounds.
type ShotAnalysisService struct {
	db                 *database.DB
	logger             *logrus.Logger
	directionTolerance float64
	lengthTolerance    float64
}

func NewShotAnalysisService(db *database.DB, logger *logrus.Logger, directionToleranceM, lengthToleranceM float64) *ShotAnalysisService {
	if directionToleranceM <= 0 {
		directionToleranceM = analysis.DefaultDirectionToleranceMeters
	}
	if lengthToleranceM <= 0 {
		lengthToleranceM = analysis.DefaultLengthToleranceMeters
	}
	return &ShotAnalysisService{
		db:                 db,
		logger:             logger,
		directionTolerance: directionToleranceM,
		lengthTolerance:    lengthToleranceM,
	}
}

// AnalyzeHole loads the hole geometry and the ordered shots for one hole of
// a round and returns the annotated sequence. A hole whose tee and green
// coincide yields geo.ErrDegenerateSegment; callers should surface that as
// a data-quality problem on the hole record.
func (s *ShotAnalysisService) AnalyzeHole(roundID uuid.UUID, holeNumber int) (*HoleAnalysis, error) {
	var round models.Round
	if err := s.db.First(&round, "id = ?", roundID).Error; err != nil {
		return nil, fmt.Errorf("failed to load round: %w", err)
	}

	var hole models.Hole
	err := s.db.Where("course_id = ? AND number = ?", round.CourseID, holeNumber).First(&hole).Error
	if err != nil {
		return nil, fmt.Errorf("%w: course %s hole %d", ErrHoleNotFound, round.CourseID, holeNumber)
	}

	var shots []models.Shot
	err = s.db.Where("round_id = ? AND hole_number = ?", roundID, holeNumber).
		Order("sequence ASC").
		Find(&shots).Error
	if err != nil {
		return nil, fmt.Errorf("failed to load shots: %w", err)
	}

	return s.annotate(roundID, &hole, shots)
}

func (s *ShotAnalysisService) annotate(roundID uuid.UUID, hole *models.Hole, shots []models.Shot) (*HoleAnalysis, error) {
	tee := hole.TeeCoordinate()
	green := hole.GreenCoordinate()

	result := &HoleAnalysis{
		RoundID:           roundID,
		HoleNumber:        hole.Number,
		TotalHoleDistance: geo.Distance(tee, green),
		Par:               hole.Par,
		Shots:             make([]ShotAnnotation, 0, len(shots)),
	}

	for i, shot := range shots {
		point := shot.Coordinate()

		crossTrack, err := geo.CrossTrackDistance(point, tee, green)
		if err != nil {
			return nil, fmt.Errorf("hole %d geometry: %w", hole.Number, err)
		}
		alongTrack, err := geo.AlongTrackDistance(point, tee, green)
		if err != nil {
			return nil, fmt.Errorf("hole %d geometry: %w", hole.Number, err)
		}
		missLength, err := analysis.ClassifyLength(point, tee, green, s.lengthTolerance)
		if err != nil {
			return nil, fmt.Errorf("hole %d geometry: %w", hole.Number, err)
		}

		annotation := ShotAnnotation{
			Shot:               shot,
			DistanceToGreen:    geo.Distance(point, green),
			CrossTrackDistance: crossTrack,
			AlongTrackDistance: alongTrack,
			MissDirection:      analysis.ClassifyDirection(crossTrack, s.directionTolerance),
			MissLength:         missLength,
		}

		if i+1 < len(shots) {
			d := geo.Distance(point, shots[i+1].Coordinate())
			annotation.DistanceToNextShot = &d
		}

		result.Shots = append(result.Shots, annotation)
	}

	return result, nil
}
