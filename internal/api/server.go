// Package api serves the fishing forecast over JSON HTTP endpoints.
package api

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/monomoy/fishcast/internal/forecast"
	"github.com/monomoy/fishcast/internal/metrics"
	"github.com/monomoy/fishcast/internal/models"
	"github.com/monomoy/fishcast/internal/store"
)

// waterTempMaxAge bounds how stale a buoy reading can be before the
// scorer falls back to its neutral temperature factor.
const waterTempMaxAge = 6 * time.Hour

// tideStaleThreshold is how far into the future cached tide
// predictions must extend for the service to report healthy.
const tideStaleThreshold = 24 * time.Hour

// maxOutlookDays caps the days query parameter on the outlook endpoint.
const maxOutlookDays = 14

type Server struct {
	store       *store.Store
	gen         *forecast.Generator
	port        string
	loc         *time.Location
	tideStation string
	buoyStation string
}

func NewServer(store *store.Store, gen *forecast.Generator, port string, loc *time.Location, tideStation, buoyStation string) *Server {
	return &Server{
		store:       store,
		gen:         gen,
		port:        port,
		loc:         loc,
		tideStation: tideStation,
		buoyStation: buoyStation,
	}
}

func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/api/forecast", s.handleForecast)
	mux.HandleFunc("/api/outlook", s.handleOutlook)
	mux.HandleFunc("/api/tides", s.handleTides)
	mux.HandleFunc("/api/spots", s.handleSpots)
	mux.HandleFunc("/health", s.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())
	return mux
}

func (s *Server) Run(ctx context.Context) error {
	server := &http.Server{
		Addr:    ":" + s.port,
		Handler: s.Handler(),
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		server.Shutdown(shutdownCtx)
	}()

	if err := server.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// parseMode reads the mode query parameter, defaulting to offshore.
func parseMode(r *http.Request) (models.Mode, bool) {
	switch r.URL.Query().Get("mode") {
	case "", string(models.ModeOffshore):
		return models.ModeOffshore, true
	case string(models.ModeInshore):
		return models.ModeInshore, true
	}
	return "", false
}

// parseDate reads the date query parameter as YYYY-MM-DD in the local
// timezone, defaulting to today.
func (s *Server) parseDate(r *http.Request) (time.Time, bool) {
	raw := r.URL.Query().Get("date")
	if raw == "" {
		now := time.Now().In(s.loc)
		return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc), true
	}
	date, err := time.ParseInLocation("2006-01-02", raw, s.loc)
	if err != nil {
		return time.Time{}, false
	}
	return date, true
}

func (s *Server) handleForecast(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		http.Error(w, "mode must be offshore or inshore", http.StatusBadRequest)
		return
	}
	date, ok := s.parseDate(r)
	if !ok {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}
	metrics.ForecastRequests.WithLabelValues("forecast", string(mode)).Inc()

	tides, err := s.store.GetTidePredictions(s.tideStation, date, date.AddDate(0, 0, 1))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	waterTemp, err := s.store.LatestWaterTempValue(s.buoyStation, waterTempMaxAge, time.Now())
	if err != nil {
		log.Printf("api: latest water temp: %v", err)
	}

	fc := s.gen.Day(date, mode, tides, waterTemp)
	s.writeJSON(w, dayForecastView(fc, s.loc))
}

func (s *Server) handleOutlook(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		http.Error(w, "mode must be offshore or inshore", http.StatusBadRequest)
		return
	}
	days := forecast.DefaultOutlookDays
	if raw := r.URL.Query().Get("days"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 1 || n > maxOutlookDays {
			http.Error(w, "days must be 1-14", http.StatusBadRequest)
			return
		}
		days = n
	}
	metrics.ForecastRequests.WithLabelValues("outlook", string(mode)).Inc()

	now := time.Now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)

	tides, err := s.store.GetTidePredictions(s.tideStation, start, start.AddDate(0, 0, days+1))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	waterTemp, err := s.store.LatestWaterTempValue(s.buoyStation, waterTempMaxAge, time.Now())
	if err != nil {
		log.Printf("api: latest water temp: %v", err)
	}

	forecasts := s.gen.Outlook(start, mode, tides, waterTemp, days)
	s.writeJSON(w, outlookView(mode, forecasts, s.loc))
}

func (s *Server) handleTides(w http.ResponseWriter, r *http.Request) {
	date, ok := s.parseDate(r)
	if !ok {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	predictions, err := s.store.GetTidePredictions(s.tideStation, date, date.AddDate(0, 0, 1))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}
	hourly, err := s.store.GetHourlyHeights(s.tideStation, date, date.AddDate(0, 0, 1))
	if err != nil {
		http.Error(w, err.Error(), http.StatusInternalServerError)
		return
	}

	type hourlyView struct {
		Time     string  `json:"time"`
		HeightFt float64 `json:"height_ft"`
	}
	resp := struct {
		Date    string       `json:"date"`
		Station string       `json:"station"`
		Tides   []TideView   `json:"tides"`
		Curve   []hourlyView `json:"curve"`
	}{
		Date:    date.Format("2006-01-02"),
		Station: s.tideStation,
		Tides:   tideViews(predictions, s.loc),
		Curve:   make([]hourlyView, 0, len(hourly)),
	}
	for _, h := range hourly {
		resp.Curve = append(resp.Curve, hourlyView{
			Time:     h.Time.In(s.loc).Format(time.RFC3339),
			HeightFt: h.Height,
		})
	}
	s.writeJSON(w, resp)
}

func (s *Server) handleSpots(w http.ResponseWriter, r *http.Request) {
	mode, ok := parseMode(r)
	if !ok {
		http.Error(w, "mode must be offshore or inshore", http.StatusBadRequest)
		return
	}
	date, ok := s.parseDate(r)
	if !ok {
		http.Error(w, "date must be YYYY-MM-DD", http.StatusBadRequest)
		return
	}

	spots := s.gen.Almanac.SpotsFor(mode, date.Month())
	resp := struct {
		Mode  models.Mode `json:"mode"`
		Month string      `json:"month"`
		Spots []SpotView  `json:"spots"`
	}{
		Mode:  mode,
		Month: date.Month().String(),
		Spots: spotViews(spots),
	}
	s.writeJSON(w, resp)
}

type HealthStatus struct {
	Status       string   `json:"status"`
	TidesThrough *string  `json:"tides_through,omitempty"`
	WaterTempAge *int     `json:"water_temp_age_minutes,omitempty"`
	Errors       []string `json:"errors,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	health := HealthStatus{Status: "ok"}
	now := time.Now()

	tides, err := s.store.GetTidePredictions(s.tideStation, now, now.AddDate(0, 0, 8))
	if err != nil {
		health.Errors = append(health.Errors, "tides: "+err.Error())
	} else if len(tides) == 0 || tides[len(tides)-1].Time.Sub(now) < tideStaleThreshold {
		health.Status = "degraded"
	}
	if len(tides) > 0 {
		through := tides[len(tides)-1].Time.In(s.loc).Format(time.RFC3339)
		health.TidesThrough = &through
	}

	// A missing buoy reading degrades the temperature factor but the
	// forecast still works, so it never fails the health check.
	latest, err := s.store.GetLatestWaterTemp(s.buoyStation)
	if err != nil {
		health.Errors = append(health.Errors, "water temp: "+err.Error())
	} else if latest != nil {
		age := int(now.Sub(latest.ObservedAt).Minutes())
		health.WaterTempAge = &age
	}

	if len(health.Errors) > 0 {
		health.Status = "error"
	}

	w.Header().Set("Content-Type", "application/json")
	if health.Status == "error" {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	if err := json.NewEncoder(w).Encode(health); err != nil {
		log.Printf("api: write health response: %v", err)
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Printf("api: write response: %v", err)
	}
}
