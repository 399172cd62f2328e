package handlers

import (
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fairwaylabs/roundtrack/internal/geo"
	"github.com/fairwaylabs/roundtrack/internal/models"
	"github.com/fairwaylabs/roundtrack/internal/services"
	"github.com/fairwaylabs/roundtrack/pkg/database"
	"github.com/fairwaylabs/roundtrack/pkg/utils"
)

// RoundHandler serves round and shot recording plus the on-demand hole
// analysis endpoint.
type RoundHandler struct {
	db       *database.DB
	logger   *logrus.Logger
	analyzer *services.ShotAnalysisService
	wsHub    *services.WebSocketHub
}

func NewRoundHandler(db *database.DB, logger *logrus.Logger, analyzer *services.ShotAnalysisService, wsHub *services.WebSocketHub) *RoundHandler {
	return &RoundHandler{
		db:       db,
		logger:   logger,
		analyzer: analyzer,
		wsHub:    wsHub,
	}
}

type createRoundRequest struct {
	CourseID uuid.UUID `json:"course_id" binding:"required"`
}

// CreateRound starts a new round on a course.
func (h *RoundHandler) CreateRound(c *gin.Context) {
	var req createRoundRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid round request", err.Error())
		return
	}

	var course models.Course
	if err := h.db.First(&course, "id = ?", req.CourseID).Error; err != nil {
		utils.SendNotFound(c, "Course not found")
		return
	}

	round := models.Round{
		CourseID:  req.CourseID,
		StartedAt: time.Now().UTC(),
	}
	if err := h.db.Create(&round).Error; err != nil {
		utils.SendInternalError(c, "Failed to create round")
		return
	}

	utils.SendSuccess(c, round)
}

// GetRound returns a round with its shots ordered by hole and sequence.
func (h *RoundHandler) GetRound(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid round id", err.Error())
		return
	}

	var round models.Round
	err = h.db.Preload("Shots", func(db *gorm.DB) *gorm.DB {
		return db.Order("hole_number ASC, sequence ASC")
	}).Preload("Course").First(&round, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Round not found")
			return
		}
		utils.SendInternalError(c, "Failed to load round")
		return
	}

	utils.SendSuccess(c, round)
}

type recordShotRequest struct {
	HoleNumber int `json:"hole_number" binding:"required,min=1"`
	Sequence   int `json:"sequence" binding:"required,min=1"`
	// Pointers so a coordinate of exactly 0 still binds.
	Latitude       *float64       `json:"latitude" binding:"required"`
	Longitude      *float64       `json:"longitude" binding:"required"`
	AccuracyMeters *float64       `json:"accuracy_meters"`
	Club           *string        `json:"club"`
	Lie            models.LieType `json:"lie"`
	IsPutt         bool           `json:"is_putt"`
	Note           string         `json:"note"`
}

// RecordShot appends a shot to a round's hole and broadcasts it on the
// round's live topic.
func (h *RoundHandler) RecordShot(c *gin.Context) {
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid round id", err.Error())
		return
	}

	var req recordShotRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid shot", err.Error())
		return
	}

	coord := geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if !coord.Valid() {
		utils.SendValidationError(c, "Invalid shot", "coordinate out of range")
		return
	}

	var round models.Round
	if err := h.db.First(&round, "id = ?", roundID).Error; err != nil {
		utils.SendNotFound(c, "Round not found")
		return
	}

	lie := req.Lie
	if lie == "" {
		lie = models.LieOther
	}

	shot := models.Shot{
		RoundID:        roundID,
		HoleNumber:     req.HoleNumber,
		Sequence:       req.Sequence,
		Latitude:       coord.Latitude,
		Longitude:      coord.Longitude,
		AccuracyMeters: req.AccuracyMeters,
		Club:           req.Club,
		Lie:            lie,
		IsPutt:         req.IsPutt,
		Note:           req.Note,
	}
	if err := h.db.Create(&shot).Error; err != nil {
		utils.SendError(c, 409, utils.NewAppError(utils.ErrCodeConflict, "Failed to record shot", err.Error()))
		return
	}

	if h.wsHub != nil {
		if err := h.wsHub.BroadcastToTopic(services.RoundTopic(roundID), "shot_recorded", shot); err != nil {
			h.logger.Warnf("Failed to broadcast shot: %v", err)
		}
	}

	utils.SendSuccess(c, shot)
}

// GetHoleAnalysis recomputes the derived shot annotations for one hole of a
// round. Distances are meters unless units=yards is passed; conversion
// happens here at the presentation edge only.
func (h *RoundHandler) GetHoleAnalysis(c *gin.Context) {
	roundID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid round id", err.Error())
		return
	}

	holeNumber, err := strconv.Atoi(c.Param("hole"))
	if err != nil || holeNumber < 1 {
		utils.SendValidationError(c, "Invalid hole number", c.Param("hole"))
		return
	}

	result, err := h.analyzer.AnalyzeHole(roundID, holeNumber)
	if err != nil {
		switch {
		case errors.Is(err, geo.ErrDegenerateSegment):
			utils.SendUnprocessable(c, "Hole geometry is degenerate", "tee and green coincide; fix the hole record")
		case errors.Is(err, services.ErrHoleNotFound):
			utils.SendNotFound(c, "Hole not found for this round's course")
		case errors.Is(err, gorm.ErrRecordNotFound):
			utils.SendNotFound(c, "Round not found")
		default:
			h.logger.Errorf("Hole analysis failed: %v", err)
			utils.SendInternalError(c, "Analysis failed")
		}
		return
	}

	if c.Query("units") == "yards" {
		convertAnalysisToYards(result)
	}

	utils.SendSuccess(c, result)
}

func convertAnalysisToYards(a *services.HoleAnalysis) {
	a.TotalHoleDistance = utils.MetersToYards(a.TotalHoleDistance)
	for i := range a.Shots {
		s := &a.Shots[i]
		s.DistanceToGreen = utils.MetersToYards(s.DistanceToGreen)
		s.CrossTrackDistance = utils.MetersToYards(s.CrossTrackDistance)
		s.AlongTrackDistance = utils.MetersToYards(s.AlongTrackDistance)
		if s.DistanceToNextShot != nil {
			yards := utils.MetersToYards(*s.DistanceToNextShot)
			s.DistanceToNextShot = &yards
		}
	}
}
