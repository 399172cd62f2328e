package providers

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const overpassFixture = `{
  "elements": [
    {
      "type": "way",
      "id": 123456,
      "center": {"lat": 33.6815, "lon": -84.3748},
      "tags": {"leisure": "golf_course", "name": "East Lake Golf Club", "holes": "18"}
    },
    {
      "type": "node",
      "id": 1001,
      "lat": 33.6809,
      "lon": -84.3757,
      "tags": {"golf": "tee", "ref": "1", "par": "4"}
    },
    {
      "type": "node",
      "id": 1002,
      "lat": 33.6820,
      "lon": -84.3740,
      "tags": {"golf": "green", "ref": "1"}
    },
    {
      "type": "node",
      "id": 1003,
      "lat": 33.6822,
      "lon": -84.3738,
      "tags": {"golf": "tee", "ref": "2"}
    }
  ]
}`

func newTestClient(t *testing.T, handler http.HandlerFunc) (*OverpassClient, *httptest.Server) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client := NewOverpassClient(server.URL, 100, 5*time.Second, logrus.New())
	return client, server
}

func TestFindCoursesNear(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		require.NoError(t, r.ParseForm())
		assert.Contains(t, r.Form.Get("data"), `leisure"="golf_course`)
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(overpassFixture))
	})

	courses, err := client.FindCoursesNear(context.Background(), 33.6815, -84.3748, 2000)
	require.NoError(t, err)
	require.Len(t, courses, 1)

	course := courses[0]
	assert.Equal(t, "way/123456", course.ExternalID)
	assert.Equal(t, "East Lake Golf Club", course.Name)
	assert.InDelta(t, 33.6815, course.Latitude, 1e-9)

	// Hole 1 has both tee and green; hole 2 only a tee and is skipped.
	require.Len(t, course.Holes, 1)
	hole := course.Holes[0]
	assert.Equal(t, 1, hole.Number)
	require.NotNil(t, hole.Par)
	assert.Equal(t, 4, *hole.Par)
	assert.InDelta(t, 33.6809, hole.TeeLat, 1e-9)
	assert.InDelta(t, 33.6820, hole.GreenLat, 1e-9)
}

func TestFindCoursesNearServerError(t *testing.T) {
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusGatewayTimeout)
	})

	_, err := client.FindCoursesNear(context.Background(), 33.68, -84.37, 2000)
	assert.Error(t, err)
}

func TestCircuitBreakerOpensAfterConsecutiveFailures(t *testing.T) {
	var calls int
	client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	})

	for i := 0; i < 6; i++ {
		_, err := client.FindCoursesNear(context.Background(), 33.68, -84.37, 2000)
		assert.Error(t, err)
	}

	// The breaker tripped after five consecutive failures, so the sixth
	// call never reached the server.
	assert.Equal(t, 5, calls)
}

func TestParseHoleRef(t *testing.T) {
	tests := []struct {
		ref      string
		expected int
	}{
		{"1", 1},
		{"18", 18},
		{"", 0},
		{"1a", 0},
		{"tee", 0},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, parseHoleRef(tt.ref), "ref %q", tt.ref)
	}
}
