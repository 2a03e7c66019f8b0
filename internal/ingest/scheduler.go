// Package ingest polls NOAA data sources on a schedule and persists
// the results, so forecasts keep working from cache when a source is
// unreachable.
package ingest

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/monomoy/fishcast/internal/metrics"
	"github.com/monomoy/fishcast/internal/noaa"
	"github.com/monomoy/fishcast/internal/store"
)

const (
	tideInterval      = 6 * time.Hour
	waterTempInterval = 1 * time.Hour
	fetchTimeout      = 30 * time.Second

	// Tide predictions are fetched far enough ahead to cover the
	// 7-day outlook plus a day of slop.
	tideFetchDays = 8

	waterTempRetention = 30 * 24 * time.Hour
)

type Scheduler struct {
	store       *store.Store
	tides       *noaa.TideClient
	buoy        *noaa.BuoyClient
	tideStation string
	buoyStation string
	loc         *time.Location
}

func NewScheduler(store *store.Store, tides *noaa.TideClient, buoy *noaa.BuoyClient, tideStation, buoyStation string, loc *time.Location) *Scheduler {
	return &Scheduler{
		store:       store,
		tides:       tides,
		buoy:        buoy,
		tideStation: tideStation,
		buoyStation: buoyStation,
		loc:         loc,
	}
}

func (s *Scheduler) Run(ctx context.Context) {
	s.ingestTides(ctx)
	s.ingestWaterTemp(ctx)

	tideTicker := time.NewTicker(tideInterval)
	tempTicker := time.NewTicker(waterTempInterval)
	defer tideTicker.Stop()
	defer tempTicker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Println("scheduler: shutting down")
			return
		case <-tideTicker.C:
			s.ingestTides(ctx)
		case <-tempTicker.C:
			s.ingestWaterTemp(ctx)
		}
	}
}

// IngestOnce runs a single ingest cycle for all sources.
func (s *Scheduler) IngestOnce(ctx context.Context) error {
	s.ingestTides(ctx)
	s.ingestWaterTemp(ctx)
	return nil
}

func (s *Scheduler) ingestTides(ctx context.Context) {
	log.Println("scheduler: ingesting tide predictions")

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	now := time.Now().In(s.loc)
	start := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, s.loc)
	end := start.AddDate(0, 0, tideFetchDays)

	fetchStart := time.Now()
	tides, err := s.tides.Predictions(fetchCtx, s.tideStation, start, end)
	metrics.NOAAAPILatency.WithLabelValues("coops", s.tideStation).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		metrics.NOAAAPICallsTotal.WithLabelValues("coops", s.tideStation, "error").Inc()
		log.Printf("scheduler: fetch tide predictions: %v", err)
		return
	}
	metrics.NOAAAPICallsTotal.WithLabelValues("coops", s.tideStation, "ok").Inc()

	if err := s.store.ReplaceTidePredictions(s.tideStation, tides); err != nil {
		log.Printf("scheduler: store tide predictions: %v", err)
		return
	}
	metrics.TidesIngested.WithLabelValues(s.tideStation).Add(float64(len(tides)))
	log.Printf("scheduler: stored %d tide predictions for %s", len(tides), s.tideStation)

	hourly, err := s.tides.HourlyPredictions(fetchCtx, s.tideStation, start, end)
	if err != nil {
		log.Printf("scheduler: fetch hourly heights: %v", err)
	} else if err := s.store.ReplaceHourlyHeights(s.tideStation, hourly); err != nil {
		log.Printf("scheduler: store hourly heights: %v", err)
	} else {
		log.Printf("scheduler: stored %d hourly heights for %s", len(hourly), s.tideStation)
	}

	metrics.LastIngestTimestamp.WithLabelValues("tides").SetToCurrentTime()
}

func (s *Scheduler) ingestWaterTemp(ctx context.Context) {
	log.Println("scheduler: ingesting buoy water temperature")

	fetchCtx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	fetchStart := time.Now()
	reading, err := s.buoy.LatestWaterTemp(fetchCtx, s.buoyStation)
	metrics.NOAAAPILatency.WithLabelValues("ndbc", s.buoyStation).Observe(time.Since(fetchStart).Seconds())
	if err != nil {
		if errors.Is(err, noaa.ErrNoReading) {
			// Buoy sensors go offline for weeks at a time. The
			// scorer degrades to a neutral temperature factor, so
			// this is routine rather than an error.
			log.Printf("scheduler: buoy %s has no water temp reading", s.buoyStation)
			return
		}
		metrics.NOAAAPICallsTotal.WithLabelValues("ndbc", s.buoyStation, "error").Inc()
		log.Printf("scheduler: fetch water temp: %v", err)
		return
	}
	metrics.NOAAAPICallsTotal.WithLabelValues("ndbc", s.buoyStation, "ok").Inc()

	if err := s.store.InsertWaterTemp(s.buoyStation, reading); err != nil {
		log.Printf("scheduler: store water temp: %v", err)
		return
	}
	metrics.WaterTempsIngested.WithLabelValues(s.buoyStation).Inc()
	metrics.LastIngestTimestamp.WithLabelValues("water_temp").SetToCurrentTime()
	log.Printf("scheduler: %s water temp %.1f°F at %s", s.buoyStation, reading.TempF, reading.ObservedAt.In(s.loc).Format("15:04"))

	if err := s.store.PruneWaterTemps(time.Now().Add(-waterTempRetention)); err != nil {
		log.Printf("scheduler: prune water temps: %v", err)
	}
}
