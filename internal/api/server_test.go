package api_test

import (
	"database/sql"
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/monomoy/fishcast/internal/almanac"
	"github.com/monomoy/fishcast/internal/api"
	"github.com/monomoy/fishcast/internal/forecast"
	"github.com/monomoy/fishcast/internal/models"
	"github.com/monomoy/fishcast/internal/store"

	_ "modernc.org/sqlite"
)

const (
	testTideStation = "8447435"
	testBuoyStation = "44020"
)

func setupTestServer(t *testing.T) (*api.Server, *store.Store, *time.Location) {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatal(err)
	}
	s := store.New(db, loc)
	if err := s.Migrate(); err != nil {
		t.Fatal(err)
	}

	gen := &forecast.Generator{
		Almanac:        almanac.Default(),
		Lat:            41.6823,
		Lon:            -69.9597,
		CruiseSpeedKts: 25,
		IdealTempMinF:  55,
		IdealTempMaxF:  63,
	}
	srv := api.NewServer(s, gen, "8080", loc, testTideStation, testBuoyStation)
	return srv, s, loc
}

func seedTides(t *testing.T, s *store.Store, loc *time.Location, date time.Time, days int) {
	t.Helper()
	var tides []models.TidePrediction
	for d := 0; d < days; d++ {
		day := date.AddDate(0, 0, d)
		tides = append(tides,
			models.TidePrediction{Time: day.Add(4 * time.Hour), Height: 6.1, Type: models.TideHigh},
			models.TidePrediction{Time: day.Add(10 * time.Hour), Height: 0.3, Type: models.TideLow},
			models.TidePrediction{Time: day.Add(16 * time.Hour), Height: 5.8, Type: models.TideHigh},
			models.TidePrediction{Time: day.Add(22 * time.Hour), Height: 0.5, Type: models.TideLow},
		)
	}
	if err := s.ReplaceTidePredictions(testTideStation, tides); err != nil {
		t.Fatalf("seed tides: %v", err)
	}
}

func TestForecastEndpoint(t *testing.T) {
	t.Parallel()
	srv, s, loc := setupTestServer(t)

	date := time.Date(2026, 9, 15, 0, 0, 0, 0, loc)
	seedTides(t, s, loc, date, 1)

	req := httptest.NewRequest("GET", "/api/forecast?mode=offshore&date=2026-09-15", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	var view api.DayForecastView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if view.Date != "2026-09-15" {
		t.Errorf("date = %q, want 2026-09-15", view.Date)
	}
	if view.Mode != models.ModeOffshore {
		t.Errorf("mode = %q, want offshore", view.Mode)
	}
	if view.Rating < 1 || view.Rating > 5 {
		t.Errorf("rating = %d, want 1-5", view.Rating)
	}
	if len(view.HourlyScores) != 24 {
		t.Errorf("len(hourly_scores) = %d, want 24", len(view.HourlyScores))
	}
	if len(view.Tides) != 4 {
		t.Errorf("len(tides) = %d, want 4", len(view.Tides))
	}
	if view.DepartureTime == nil {
		t.Error("expected departure_time for offshore mode")
	}
	if view.WaterTempF != nil {
		t.Error("expected no water_temp_f without buoy readings")
	}
}

func TestForecastEndpoint_InshoreMode(t *testing.T) {
	t.Parallel()
	srv, s, loc := setupTestServer(t)

	date := time.Date(2026, 7, 10, 0, 0, 0, 0, loc)
	seedTides(t, s, loc, date, 1)

	req := httptest.NewRequest("GET", "/api/forecast?mode=inshore&date=2026-07-10", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view api.DayForecastView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Species) == 0 {
		t.Error("expected species for inshore mode in July")
	}
	if view.DepartureTime != nil {
		t.Error("expected no departure_time for inshore mode")
	}
	if len(view.Spots) == 0 {
		t.Error("expected inshore spots")
	}
}

func TestForecastEndpoint_BadParams(t *testing.T) {
	t.Parallel()
	srv, _, _ := setupTestServer(t)

	for _, path := range []string{
		"/api/forecast?mode=trolling",
		"/api/forecast?date=next-tuesday",
	} {
		req := httptest.NewRequest("GET", path, nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
		if w.Code != 400 {
			t.Errorf("%s: expected 400, got %d", path, w.Code)
		}
	}
}

func TestOutlookEndpoint(t *testing.T) {
	t.Parallel()
	srv, s, loc := setupTestServer(t)

	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	seedTides(t, s, loc, today, 8)

	req := httptest.NewRequest("GET", "/api/outlook?mode=offshore", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var view api.OutlookView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Days) != 7 {
		t.Fatalf("len(days) = %d, want 7", len(view.Days))
	}
	if view.Days[0].Date != today.Format("2006-01-02") {
		t.Errorf("first day = %q, want %q", view.Days[0].Date, today.Format("2006-01-02"))
	}
	for _, day := range view.Days {
		if day.Rating < 1 || day.Rating > 5 {
			t.Errorf("day %s rating = %d, want 1-5", day.Date, day.Rating)
		}
		if day.DayName == "" {
			t.Errorf("day %s has empty day name", day.Date)
		}
	}
}

func TestOutlookEndpoint_DaysParam(t *testing.T) {
	t.Parallel()
	srv, s, loc := setupTestServer(t)

	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	seedTides(t, s, loc, today, 4)

	req := httptest.NewRequest("GET", "/api/outlook?days=3", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var view api.OutlookView
	if err := json.Unmarshal(w.Body.Bytes(), &view); err != nil {
		t.Fatal(err)
	}
	if len(view.Days) != 3 {
		t.Errorf("len(days) = %d, want 3", len(view.Days))
	}

	req = httptest.NewRequest("GET", "/api/outlook?days=30", nil)
	w = httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)
	if w.Code != 400 {
		t.Errorf("days=30: expected 400, got %d", w.Code)
	}
}

func TestTidesEndpoint(t *testing.T) {
	t.Parallel()
	srv, s, loc := setupTestServer(t)

	date := time.Date(2026, 6, 15, 0, 0, 0, 0, loc)
	seedTides(t, s, loc, date, 1)
	if err := s.ReplaceHourlyHeights(testTideStation, []models.HourlyHeight{
		{Time: date.Add(1 * time.Hour), Height: 3.2},
		{Time: date.Add(2 * time.Hour), Height: 4.1},
	}); err != nil {
		t.Fatal(err)
	}

	req := httptest.NewRequest("GET", "/api/tides?date=2026-06-15", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	body := w.Body.String()
	if !strings.Contains(body, `"station":"8447435"`) {
		t.Error("expected station in response")
	}
	if !strings.Contains(body, `"curve"`) {
		t.Error("expected hourly curve in response")
	}
}

func TestSpotsEndpoint(t *testing.T) {
	t.Parallel()
	srv, _, _ := setupTestServer(t)

	req := httptest.NewRequest("GET", "/api/spots?mode=offshore&date=2026-09-15", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var resp struct {
		Mode  models.Mode    `json:"mode"`
		Month string         `json:"month"`
		Spots []api.SpotView `json:"spots"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Month != "September" {
		t.Errorf("month = %q, want September", resp.Month)
	}
	if len(resp.Spots) == 0 {
		t.Error("expected offshore spots in September")
	}
	for _, sp := range resp.Spots {
		if sp.DistanceNm <= 0 {
			t.Errorf("spot %s has no distance", sp.Name)
		}
	}
}

func TestHealthEndpoint_DegradedWithoutTides(t *testing.T) {
	t.Parallel()
	srv, _, _ := setupTestServer(t)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var health api.HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "degraded" {
		t.Errorf("status = %q, want degraded with empty tide cache", health.Status)
	}
}

func TestHealthEndpoint_OKWithFreshTides(t *testing.T) {
	t.Parallel()
	srv, s, loc := setupTestServer(t)

	now := time.Now().In(loc)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	seedTides(t, s, loc, today, 8)

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, req)

	if w.Code != 200 {
		t.Fatalf("expected 200, got %d", w.Code)
	}

	var health api.HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &health); err != nil {
		t.Fatal(err)
	}
	if health.Status != "ok" {
		t.Errorf("status = %q, want ok", health.Status)
	}
	if health.TidesThrough == nil {
		t.Error("expected tides_through timestamp")
	}
}
