package tests

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fairwaylabs/roundtrack/internal/api"
	"github.com/fairwaylabs/roundtrack/internal/models"
	"github.com/fairwaylabs/roundtrack/internal/services"
	"github.com/fairwaylabs/roundtrack/pkg/config"
	"github.com/fairwaylabs/roundtrack/pkg/database"
)

func setupTestEnvironment(t *testing.T) (*gin.Engine, *database.DB) {
	gin.SetMode(gin.TestMode)

	gdb, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Skipf("sqlite unavailable: %v", err)
	}
	db := &database.DB{DB: gdb}
	t.Cleanup(func() { db.Close() })

	err = db.AutoMigrate(
		&models.Course{},
		&models.Hole{},
		&models.Round{},
		&models.Shot{},
		&models.ClubDistanceProfile{},
	)
	require.NoError(t, err)

	cfg := &config.Config{Env: "test"}
	log := logrus.New()

	analyzer := services.NewShotAnalysisService(db, log, 5, 10)
	clubStats := services.NewClubStatsService(db, nil, log, time.Minute)
	wsHub := services.NewWebSocketHub()
	go wsHub.Run()

	router := gin.New()
	apiGroup := router.Group("/api/v1")
	api.SetupRoutes(apiGroup, db, nil, wsHub, cfg, analyzer, clubStats, nil, log)

	return router, db
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

type apiResponse struct {
	Success bool            `json:"success"`
	Data    json.RawMessage `json:"data"`
}

func decodeData(t *testing.T, w *httptest.ResponseRecorder, dest interface{}) {
	t.Helper()

	var resp apiResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.True(t, resp.Success)
	require.NoError(t, json.Unmarshal(resp.Data, dest))
}

// TestShotAnalysisEndToEnd walks the documented scenario: a ~200 m par four,
// a drive up the line, an approach to the green edge, and a club-profile
// rebuild over the recorded shots.
func TestShotAnalysisEndToEnd(t *testing.T) {
	router, db := setupTestEnvironment(t)

	// Hole geometry straight from the scenario.
	par4 := 4
	course := &models.Course{Name: "East Lake Practice"}
	require.NoError(t, db.Create(course).Error)
	hole := &models.Hole{
		CourseID: course.ID,
		Number:   1,
		Par:      &par4,
		TeeLat:   33.6809, TeeLng: -84.3757,
		GreenLat: 33.6820, GreenLng: -84.3740,
	}
	require.NoError(t, db.Create(hole).Error)

	// Start a round.
	w := doJSON(t, router, http.MethodPost, "/api/v1/rounds", gin.H{"course_id": course.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var round models.Round
	decodeData(t, w, &round)

	// Shot 1: driver from the tee. Shot 2: 7-iron from the fairway.
	// Shot 3: landing point near the green so the 7-iron pair has a
	// measurable distance.
	shots := []gin.H{
		{"hole_number": 1, "sequence": 1, "latitude": 33.6809, "longitude": -84.3757, "club": "driver", "lie": "tee"},
		{"hole_number": 1, "sequence": 2, "latitude": 33.6813, "longitude": -84.3751, "club": "7iron", "lie": "fairway"},
		{"hole_number": 1, "sequence": 3, "latitude": 33.6819, "longitude": -84.3742, "club": "putter", "lie": "green", "is_putt": true},
	}
	for _, shot := range shots {
		w := doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rounds/%s/shots", round.ID), shot)
		require.Equal(t, http.StatusOK, w.Code)
	}

	// Analysis of hole 1.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/rounds/%s/holes/1/analysis", round.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var result services.HoleAnalysis
	decodeData(t, w, &result)

	require.Len(t, result.Shots, 3)
	assert.Greater(t, result.TotalHoleDistance, 150.0)
	assert.Less(t, result.TotalHoleDistance, 250.0)

	// The remaining distance after the drive is on the order of the
	// approach length.
	drive := result.Shots[1]
	require.NotNil(t, result.Shots[0].DistanceToNextShot)
	require.NotNil(t, drive.DistanceToNextShot)
	assert.Greater(t, *drive.DistanceToNextShot, 50.0)
	assert.Less(t, *drive.DistanceToNextShot, 150.0)
	assert.NotEmpty(t, drive.MissDirection)
	assert.NotEmpty(t, drive.MissLength)

	// Yard conversion happens at the presentation edge only.
	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/rounds/%s/holes/1/analysis?units=yards", round.ID), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var yards services.HoleAnalysis
	decodeData(t, w, &yards)
	assert.InDelta(t, result.TotalHoleDistance*1.09361, yards.TotalHoleDistance, 0.01)

	// Rebuild club profiles: the driver pair qualifies (inside the
	// 10-350 m band), the putt is excluded.
	w = doJSON(t, router, http.MethodPost, "/api/v1/stats/clubs/recompute", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profiles []models.ClubDistanceProfile
	decodeData(t, w, &profiles)

	require.NotEmpty(t, profiles)
	byClub := make(map[string]models.ClubDistanceProfile)
	for _, p := range profiles {
		byClub[p.Club] = p
	}
	driver, ok := byClub["driver"]
	require.True(t, ok, "driver profile missing")
	assert.GreaterOrEqual(t, driver.SampleCount, 1)
	assert.GreaterOrEqual(t, driver.AverageDistance, 10.0)
	assert.LessOrEqual(t, driver.AverageDistance, 350.0)

	// GET returns the same profiles.
	w = doJSON(t, router, http.MethodGet, "/api/v1/stats/clubs", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var fetched []models.ClubDistanceProfile
	decodeData(t, w, &fetched)
	assert.Len(t, fetched, len(profiles))
}

// TestRecordShotAtZeroCoordinates covers a legal position on the equator
// and prime meridian: latitude/longitude of exactly 0 must bind and record.
func TestRecordShotAtZeroCoordinates(t *testing.T) {
	router, db := setupTestEnvironment(t)

	course := &models.Course{Name: "Null Island GC"}
	require.NoError(t, db.Create(course).Error)
	hole := &models.Hole{
		CourseID: course.ID,
		Number:   1,
		TeeLat:   0, TeeLng: 0,
		GreenLat: 0.0015, GreenLng: 0.0012,
	}
	require.NoError(t, db.Create(hole).Error)

	w := doJSON(t, router, http.MethodPost, "/api/v1/rounds", gin.H{"course_id": course.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var round models.Round
	decodeData(t, w, &round)

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rounds/%s/shots", round.ID),
		gin.H{"hole_number": 1, "sequence": 1, "latitude": 0, "longitude": 0, "club": "driver"})
	require.Equal(t, http.StatusOK, w.Code)

	var shot models.Shot
	decodeData(t, w, &shot)
	assert.Zero(t, shot.Latitude)
	assert.Zero(t, shot.Longitude)

	// A shot missing its longitude is still a validation error.
	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rounds/%s/shots", round.ID),
		gin.H{"hole_number": 1, "sequence": 2, "latitude": 0})
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

// TestDegenerateHoleGeometry verifies the engine refuses a hole whose tee
// and green coincide instead of reporting bogus zeros.
func TestDegenerateHoleGeometry(t *testing.T) {
	router, db := setupTestEnvironment(t)

	course := &models.Course{Name: "Broken Data"}
	require.NoError(t, db.Create(course).Error)
	hole := &models.Hole{
		CourseID: course.ID,
		Number:   1,
		TeeLat:   33.6809, TeeLng: -84.3757,
		GreenLat: 33.6809, GreenLng: -84.3757,
	}
	require.NoError(t, db.Create(hole).Error)

	w := doJSON(t, router, http.MethodPost, "/api/v1/rounds", gin.H{"course_id": course.ID})
	require.Equal(t, http.StatusOK, w.Code)
	var round models.Round
	decodeData(t, w, &round)

	w = doJSON(t, router, http.MethodPost, fmt.Sprintf("/api/v1/rounds/%s/shots", round.ID),
		gin.H{"hole_number": 1, "sequence": 1, "latitude": 33.6810, "longitude": -84.3756})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, fmt.Sprintf("/api/v1/rounds/%s/holes/1/analysis", round.ID), nil)
	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
