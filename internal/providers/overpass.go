// Package providers contains clients for external data sources. The engine
// never imports this package; providers feed the storage layer only.
package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
	"golang.org/x/time/rate"
)

// CourseData is a golf course discovered on OpenStreetMap.
type CourseData struct {
	ExternalID string            `json:"external_id"`
	Name       string            `json:"name"`
	Latitude   float64           `json:"latitude"`
	Longitude  float64           `json:"longitude"`
	Tags       map[string]string `json:"tags"`
	Holes      []HoleData        `json:"holes"`
}

// HoleData is per-hole tee/green geometry extracted from golf=tee and
// golf=green features, where the course is tagged with them.
type HoleData struct {
	Number   int     `json:"number"`
	Par      *int    `json:"par,omitempty"`
	TeeLat   float64 `json:"tee_lat"`
	TeeLng   float64 `json:"tee_lng"`
	GreenLat float64 `json:"green_lat"`
	GreenLng float64 `json:"green_lng"`
}

// OverpassClient queries the Overpass API for golf courses near a point.
// Overpass is a shared community resource, so requests go through a rate
// limiter, and a circuit breaker keeps a flapping endpoint from being
// hammered.
type OverpassClient struct {
	httpClient *http.Client
	logger     *logrus.Logger
	baseURL    string
	limiter    *rate.Limiter
	breaker    *gobreaker.CircuitBreaker
}

// NewOverpassClient creates a new Overpass API client.
func NewOverpassClient(baseURL string, requestsPerSecond float64, timeout time.Duration, logger *logrus.Logger) *OverpassClient {
	if requestsPerSecond <= 0 {
		requestsPerSecond = 0.5
	}

	breaker := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:    "overpass",
		Timeout: 60 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warnf("Circuit breaker %s: %s -> %s", name, from, to)
		},
	})

	return &OverpassClient{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger:  logger,
		baseURL: baseURL,
		limiter: rate.NewLimiter(rate.Limit(requestsPerSecond), 1),
		breaker: breaker,
	}
}

// Overpass API response structures
type overpassResponse struct {
	Elements []overpassElement `json:"elements"`
}

type overpassElement struct {
	Type   string            `json:"type"`
	ID     int64             `json:"id"`
	Lat    float64           `json:"lat"`
	Lon    float64           `json:"lon"`
	Center *overpassCenter   `json:"center,omitempty"`
	Tags   map[string]string `json:"tags,omitempty"`
}

type overpassCenter struct {
	Lat float64 `json:"lat"`
	Lon float64 `json:"lon"`
}

// FindCoursesNear returns golf courses within radiusMeters of the given
// point, with per-hole tee/green geometry where OSM has it mapped.
func (c *OverpassClient) FindCoursesNear(ctx context.Context, lat, lng, radiusMeters float64) ([]CourseData, error) {
	query := fmt.Sprintf(`[out:json][timeout:25];
(
  way["leisure"="golf_course"](around:%.0f,%.6f,%.6f);
  relation["leisure"="golf_course"](around:%.0f,%.6f,%.6f);
  node["golf"="tee"](around:%.0f,%.6f,%.6f);
  node["golf"="green"](around:%.0f,%.6f,%.6f);
  way["golf"="green"](around:%.0f,%.6f,%.6f);
);
out center;`,
		radiusMeters, lat, lng,
		radiusMeters, lat, lng,
		radiusMeters, lat, lng,
		radiusMeters, lat, lng,
		radiusMeters, lat, lng)

	body, err := c.execute(ctx, query)
	if err != nil {
		return nil, err
	}

	var resp overpassResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, fmt.Errorf("failed to decode overpass response: %w", err)
	}

	courses := assembleCourses(resp.Elements)
	c.logger.Infof("Overpass returned %d elements, %d courses near (%.4f, %.4f)",
		len(resp.Elements), len(courses), lat, lng)
	return courses, nil
}

func (c *OverpassClient) execute(ctx context.Context, query string) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("rate limiter: %w", err)
	}

	result, err := c.breaker.Execute(func() (interface{}, error) {
		form := url.Values{"data": {query}}
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL,
			strings.NewReader(form.Encode()))
		if err != nil {
			return nil, err
		}
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

		resp, err := c.httpClient.Do(req)
		if err != nil {
			return nil, err
		}
		defer resp.Body.Close()

		if resp.StatusCode != http.StatusOK {
			return nil, fmt.Errorf("overpass returned status %d", resp.StatusCode)
		}

		return io.ReadAll(resp.Body)
	})
	if err != nil {
		return nil, fmt.Errorf("overpass request failed: %w", err)
	}

	return result.([]byte), nil
}

// assembleCourses groups raw Overpass elements into courses. Tee and green
// nodes carry a "ref" tag with the hole number; a hole needs both a tee and
// a green to yield usable line-of-play geometry.
func assembleCourses(elements []overpassElement) []CourseData {
	type holeGeom struct {
		tee, green *overpassElement
		par        *int
	}

	var courses []CourseData
	holes := make(map[int]*holeGeom)

	for i := range elements {
		el := &elements[i]
		switch {
		case el.Tags["leisure"] == "golf_course":
			lat, lng := el.Lat, el.Lon
			if el.Center != nil {
				lat, lng = el.Center.Lat, el.Center.Lon
			}
			name := el.Tags["name"]
			if name == "" {
				name = fmt.Sprintf("Unnamed course %d", el.ID)
			}
			courses = append(courses, CourseData{
				ExternalID: fmt.Sprintf("%s/%d", el.Type, el.ID),
				Name:       name,
				Latitude:   lat,
				Longitude:  lng,
				Tags:       el.Tags,
			})

		case el.Tags["golf"] == "tee" || el.Tags["golf"] == "green":
			num := parseHoleRef(el.Tags["ref"])
			if num == 0 {
				continue
			}
			h, ok := holes[num]
			if !ok {
				h = &holeGeom{}
				holes[num] = h
			}
			if el.Tags["golf"] == "tee" {
				h.tee = el
			} else {
				h.green = el
			}
			if parStr, ok := el.Tags["par"]; ok {
				if par := parseHoleRef(parStr); par > 0 {
					h.par = &par
				}
			}
		}
	}

	// Overpass "around" queries return loose nodes; attach the hole set to
	// the nearest (single) course result. Multi-course resolution is left
	// to the caller picking a smaller radius.
	if len(courses) == 0 || len(holes) == 0 {
		return courses
	}
	target := &courses[0]
	for num, h := range holes {
		if h.tee == nil || h.green == nil {
			continue
		}
		greenLat, greenLng := h.green.Lat, h.green.Lon
		if h.green.Center != nil {
			greenLat, greenLng = h.green.Center.Lat, h.green.Center.Lon
		}
		target.Holes = append(target.Holes, HoleData{
			Number:   num,
			Par:      h.par,
			TeeLat:   h.tee.Lat,
			TeeLng:   h.tee.Lon,
			GreenLat: greenLat,
			GreenLng: greenLng,
		})
	}
	sort.Slice(target.Holes, func(i, j int) bool {
		return target.Holes[i].Number < target.Holes[j].Number
	})

	return courses
}

func parseHoleRef(ref string) int {
	n := 0
	for _, r := range ref {
		if r < '0' || r > '9' {
			return 0
		}
		n = n*10 + int(r-'0')
	}
	return n
}
