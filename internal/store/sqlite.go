// Package store caches fetched tide predictions and buoy readings in
// sqlite so the API keeps serving forecasts when the sources go quiet.
package store

import (
	"database/sql"
	"time"

	"github.com/monomoy/fishcast/internal/models"
)

type Store struct {
	db  *sql.DB
	loc *time.Location
}

// New wraps an open database handle. loc is the station-local time zone
// returned timestamps are expressed in.
func New(db *sql.DB, loc *time.Location) *Store {
	return &Store{db: db, loc: loc}
}

// ReplaceTidePredictions swaps in a fresh set of extrema for a station.
// Re-fetches replace rather than accumulate so revised predictions never
// leave stale rows behind.
func (s *Store) ReplaceTidePredictions(station string, tides []models.TidePrediction) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM tide_predictions WHERE station_id = ?`, station); err != nil {
		tx.Rollback()
		return err
	}
	for _, t := range tides {
		if _, err := tx.Exec(`
			INSERT INTO tide_predictions (station_id, predicted_at, height_ft, tide_type)
			VALUES (?, ?, ?, ?)
		`, station, t.Time.UTC(), t.Height, string(t.Type)); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

// GetTidePredictions returns cached extrema for a station in [start, end),
// in time order.
func (s *Store) GetTidePredictions(station string, start, end time.Time) ([]models.TidePrediction, error) {
	rows, err := s.db.Query(`
		SELECT predicted_at, height_ft, tide_type
		FROM tide_predictions
		WHERE station_id = ? AND predicted_at >= ? AND predicted_at < ?
		ORDER BY predicted_at ASC
	`, station, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tides []models.TidePrediction
	for rows.Next() {
		var t models.TidePrediction
		var tideType string
		if err := rows.Scan(&t.Time, &t.Height, &tideType); err != nil {
			return nil, err
		}
		t.Time = t.Time.In(s.loc)
		t.Type = models.TideType(tideType)
		tides = append(tides, t)
	}
	return tides, rows.Err()
}

// ReplaceHourlyHeights swaps in a fresh tide curve for a station.
func (s *Store) ReplaceHourlyHeights(station string, heights []models.HourlyHeight) error {
	tx, err := s.db.Begin()
	if err != nil {
		return err
	}

	if _, err := tx.Exec(`DELETE FROM hourly_heights WHERE station_id = ?`, station); err != nil {
		tx.Rollback()
		return err
	}
	for _, h := range heights {
		if _, err := tx.Exec(`
			INSERT INTO hourly_heights (station_id, predicted_at, height_ft)
			VALUES (?, ?, ?)
		`, station, h.Time.UTC(), h.Height); err != nil {
			tx.Rollback()
			return err
		}
	}
	return tx.Commit()
}

func (s *Store) GetHourlyHeights(station string, start, end time.Time) ([]models.HourlyHeight, error) {
	rows, err := s.db.Query(`
		SELECT predicted_at, height_ft
		FROM hourly_heights
		WHERE station_id = ? AND predicted_at >= ? AND predicted_at < ?
		ORDER BY predicted_at ASC
	`, station, start.UTC(), end.UTC())
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var heights []models.HourlyHeight
	for rows.Next() {
		var h models.HourlyHeight
		if err := rows.Scan(&h.Time, &h.Height); err != nil {
			return nil, err
		}
		h.Time = h.Time.In(s.loc)
		heights = append(heights, h)
	}
	return heights, rows.Err()
}

// InsertWaterTemp records a buoy reading. Duplicate observation times are
// ignored so overlapping polls stay safe.
func (s *Store) InsertWaterTemp(station string, wt models.WaterTemp) error {
	_, err := s.db.Exec(`
		INSERT INTO water_temps (station_id, observed_at, temp_f)
		VALUES (?, ?, ?)
		ON CONFLICT(station_id, observed_at) DO NOTHING
	`, station, wt.ObservedAt.UTC(), wt.TempF)
	return err
}

// GetLatestWaterTemp returns the most recent reading for a station, or
// nil when the buoy has never reported.
func (s *Store) GetLatestWaterTemp(station string) (*models.WaterTemp, error) {
	row := s.db.QueryRow(`
		SELECT observed_at, temp_f
		FROM water_temps
		WHERE station_id = ?
		ORDER BY observed_at DESC
		LIMIT 1
	`, station)

	var wt models.WaterTemp
	err := row.Scan(&wt.ObservedAt, &wt.TempF)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	wt.ObservedAt = wt.ObservedAt.In(s.loc)
	return &wt, nil
}

// LatestWaterTempValue adapts the latest reading to the nullable form the
// scorer consumes, treating readings older than maxAge as missing.
func (s *Store) LatestWaterTempValue(station string, maxAge time.Duration, now time.Time) (sql.NullFloat64, error) {
	wt, err := s.GetLatestWaterTemp(station)
	if err != nil {
		return sql.NullFloat64{}, err
	}
	if wt == nil || now.Sub(wt.ObservedAt) > maxAge {
		return sql.NullFloat64{}, nil
	}
	return sql.NullFloat64{Float64: wt.TempF, Valid: true}, nil
}

// PruneWaterTemps drops readings observed before the cutoff.
func (s *Store) PruneWaterTemps(cutoff time.Time) error {
	_, err := s.db.Exec(`DELETE FROM water_temps WHERE observed_at < ?`, cutoff.UTC())
	return err
}
