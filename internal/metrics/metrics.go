package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	NOAAAPICallsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_noaa_api_calls_total",
			Help: "Total NOAA CO-OPS and NDBC API calls",
		},
		[]string{"source", "station", "status"},
	)

	NOAAAPILatency = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fishcast_noaa_api_latency_seconds",
			Help:    "NOAA API call latency in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"source", "station"},
	)

	TidesIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_tides_ingested_total",
			Help: "Total tide predictions successfully ingested",
		},
		[]string{"station"},
	)

	WaterTempsIngested = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_water_temps_ingested_total",
			Help: "Total buoy water temperature readings successfully ingested",
		},
		[]string{"station"},
	)

	LastIngestTimestamp = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "fishcast_last_ingest_timestamp_seconds",
			Help: "Unix time of the last successful ingest per source",
		},
		[]string{"source"},
	)

	ForecastRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_forecast_requests_total",
			Help: "Total forecast API requests served",
		},
		[]string{"endpoint", "mode"},
	)
)
