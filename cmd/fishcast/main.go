package main

import (
	"context"
	"database/sql"
	"log"
	"os/signal"
	"syscall"
	"time"

	"github.com/alecthomas/kong"
	kongdotenv "github.com/titusjaka/kong-dotenv-go"
	_ "modernc.org/sqlite"

	"github.com/monomoy/fishcast/internal/almanac"
	"github.com/monomoy/fishcast/internal/api"
	"github.com/monomoy/fishcast/internal/forecast"
	"github.com/monomoy/fishcast/internal/httputil"
	"github.com/monomoy/fishcast/internal/ingest"
	"github.com/monomoy/fishcast/internal/noaa"
	"github.com/monomoy/fishcast/internal/store"
)

// Chatham Fish Pier, the reference point for sun and moon times.
const (
	chathamLat = 41.6823
	chathamLon = -69.9597
)

const (
	cruiseSpeedKts = 25.0
	idealTempMinF  = 55.0
	idealTempMaxF  = 63.0
)

var cli struct {
	DB          string `help:"Path to SQLite database." default:"data/fishcast.db" env:"FISHCAST_DB"`
	Port        string `help:"HTTP server port." default:"8080" env:"FISHCAST_PORT"`
	TideStation string `help:"NOAA CO-OPS tide station ID." default:"8447435" env:"FISHCAST_TIDE_STATION"`
	BuoyStation string `help:"NDBC buoy ID for water temperature." default:"44020" env:"FISHCAST_BUOY_STATION"`
	NoPoll      bool   `help:"Disable polling (server only, for local dev)."`
	Once        bool   `help:"Ingest once and exit."`
}

func main() {
	kong.Parse(&cli,
		kong.Name("fishcast"),
		kong.Description("Fishing forecast service for Chatham, Cape Cod."),
		kong.Configuration(kongdotenv.ENVFileReader, ".env"),
	)

	db, err := sql.Open("sqlite", cli.DB)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		log.Fatalf("load timezone: %v", err)
	}

	st := store.New(db, loc)
	if err := st.Migrate(); err != nil {
		log.Fatalf("migrate: %v", err)
	}
	log.Println("database migrated")

	httpClient := httputil.NewClient()
	tides := noaa.NewTideClient(httpClient, loc)
	buoy := noaa.NewBuoyClient(httpClient)
	scheduler := ingest.NewScheduler(st, tides, buoy, cli.TideStation, cli.BuoyStation, loc)

	gen := &forecast.Generator{
		Almanac:        almanac.Default(),
		Lat:            chathamLat,
		Lon:            chathamLon,
		CruiseSpeedKts: cruiseSpeedKts,
		IdealTempMinF:  idealTempMinF,
		IdealTempMaxF:  idealTempMaxF,
	}
	server := api.NewServer(st, gen, cli.Port, loc, cli.TideStation, cli.BuoyStation)

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if cli.Once {
		log.Println("running single ingestion")
		if err := scheduler.IngestOnce(ctx); err != nil {
			log.Fatalf("ingest: %v", err)
		}
		log.Println("done")
		return
	}

	if !cli.NoPoll {
		go scheduler.Run(ctx)
	} else {
		log.Println("polling disabled (--no-poll)")
	}

	log.Printf("starting server on :%s", cli.Port)
	if err := server.Run(ctx); err != nil {
		log.Fatalf("server: %v", err)
	}
}
