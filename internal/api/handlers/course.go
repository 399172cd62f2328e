package handlers

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/fairwaylabs/roundtrack/internal/geo"
	"github.com/fairwaylabs/roundtrack/internal/models"
	"github.com/fairwaylabs/roundtrack/internal/providers"
	"github.com/fairwaylabs/roundtrack/internal/services"
	"github.com/fairwaylabs/roundtrack/pkg/database"
	"github.com/fairwaylabs/roundtrack/pkg/utils"
)

// CourseHandler serves course and hole geometry endpoints, including import
// from the OpenStreetMap course-discovery provider.
type CourseHandler struct {
	db       *database.DB
	cache    *services.CacheService
	logger   *logrus.Logger
	overpass *providers.OverpassClient
}

func NewCourseHandler(db *database.DB, cache *services.CacheService, logger *logrus.Logger, overpass *providers.OverpassClient) *CourseHandler {
	return &CourseHandler{
		db:       db,
		cache:    cache,
		logger:   logger,
		overpass: overpass,
	}
}

// ListCourses returns stored courses.
func (h *CourseHandler) ListCourses(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	if limit <= 0 {
		limit = 50
	}
	if limit > 200 {
		limit = 200
	}

	var courses []models.Course
	var total int64

	query := h.db.Model(&models.Course{})
	if name := c.Query("name"); name != "" {
		query = query.Where("name LIKE ?", "%"+name+"%")
	}
	query.Count(&total)

	if err := query.Limit(limit).Offset(offset).Find(&courses).Error; err != nil {
		utils.SendInternalError(c, "Failed to list courses")
		return
	}

	utils.SendSuccessWithMeta(c, courses, &utils.Meta{
		Page:    offset/limit + 1,
		PerPage: limit,
		Total:   total,
	})
}

// GetCourse returns one course with its holes.
func (h *CourseHandler) GetCourse(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.SendValidationError(c, "Invalid course id", err.Error())
		return
	}

	var course models.Course
	err = h.db.Preload("Holes", func(db *gorm.DB) *gorm.DB {
		return db.Order("number ASC")
	}).First(&course, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			utils.SendNotFound(c, "Course not found")
			return
		}
		utils.SendInternalError(c, "Failed to load course")
		return
	}

	utils.SendSuccess(c, course)
}

type importCoursesRequest struct {
	// Pointers so a coordinate of exactly 0 still binds.
	Latitude  *float64 `json:"latitude" binding:"required"`
	Longitude *float64 `json:"longitude" binding:"required"`
	RadiusM   float64  `json:"radius_m"`
}

// courseSearchCacheTTL bounds repeat Overpass queries for the same area.
const courseSearchCacheTTL = 15 * time.Minute

// ImportCourses discovers courses near a point via Overpass and persists
// anything new, holes included. Recent searches for the same area are
// served from cache instead of re-querying Overpass.
func (h *CourseHandler) ImportCourses(c *gin.Context) {
	var req importCoursesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.SendValidationError(c, "Invalid import request", err.Error())
		return
	}
	center := geo.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	if !center.Valid() {
		utils.SendValidationError(c, "Invalid import request", "latitude/longitude out of range")
		return
	}
	if req.RadiusM <= 0 {
		req.RadiusM = 2000
	}

	searchKey := services.CourseSearchCacheKey(center.Latitude, center.Longitude, req.RadiusM)

	var found []providers.CourseData
	hit := false
	if h.cache != nil {
		if err := h.cache.Get(c.Request.Context(), searchKey, &found); err == nil {
			hit = true
		}
	}

	if !hit {
		if h.overpass == nil {
			utils.SendError(c, 503, utils.NewAppError(utils.ErrCodeInternal, "Course discovery is not configured", ""))
			return
		}

		var err error
		found, err = h.overpass.FindCoursesNear(c.Request.Context(), center.Latitude, center.Longitude, req.RadiusM)
		if err != nil {
			h.logger.Errorf("Course discovery failed: %v", err)
			utils.SendError(c, 502, utils.NewAppError(utils.ErrCodeInternal, "Course discovery failed", err.Error()))
			return
		}

		if h.cache != nil {
			if err := h.cache.Set(c.Request.Context(), searchKey, found, courseSearchCacheTTL); err != nil {
				h.logger.Warnf("Failed to cache course search: %v", err)
			}
		}
	}

	imported := make([]models.Course, 0, len(found))
	for _, data := range found {
		course, err := h.upsertCourse(data)
		if err != nil {
			h.logger.Errorf("Failed to store course %s: %v", data.ExternalID, err)
			continue
		}
		imported = append(imported, *course)
	}

	utils.SendSuccess(c, imported)
}

func (h *CourseHandler) upsertCourse(data providers.CourseData) (*models.Course, error) {
	tags, err := json.Marshal(data.Tags)
	if err != nil {
		return nil, err
	}

	var course models.Course
	err = h.db.Where("external_id = ?", data.ExternalID).First(&course).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		course = models.Course{
			Name:       data.Name,
			ExternalID: data.ExternalID,
			Latitude:   data.Latitude,
			Longitude:  data.Longitude,
			Tags:       tags,
		}
		if err := h.db.Create(&course).Error; err != nil {
			return nil, err
		}
	} else if err != nil {
		return nil, err
	}

	for _, holeData := range data.Holes {
		hole := models.Hole{
			CourseID: course.ID,
			Number:   holeData.Number,
			Par:      holeData.Par,
			TeeLat:   holeData.TeeLat,
			TeeLng:   holeData.TeeLng,
			GreenLat: holeData.GreenLat,
			GreenLng: holeData.GreenLng,
		}
		var existing models.Hole
		err := h.db.Where("course_id = ? AND number = ?", course.ID, holeData.Number).First(&existing).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			if err := h.db.Create(&hole).Error; err != nil {
				return nil, err
			}
		}
	}

	if err := h.db.Preload("Holes").First(&course, "id = ?", course.ID).Error; err != nil {
		return nil, err
	}
	return &course, nil
}
