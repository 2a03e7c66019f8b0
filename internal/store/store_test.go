package store

import (
	"database/sql"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/monomoy/fishcast/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Fatalf("load timezone: %v", err)
	}
	store := New(db, loc)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func TestReplaceAndGetTidePredictions(t *testing.T) {
	store := setupTestStore(t)

	base := time.Date(2026, 6, 15, 4, 23, 0, 0, time.UTC)
	tides := []models.TidePrediction{
		{Time: base, Height: 6.1, Type: models.TideHigh},
		{Time: base.Add(6 * time.Hour), Height: 0.2, Type: models.TideLow},
	}

	if err := store.ReplaceTidePredictions("8447435", tides); err != nil {
		t.Fatalf("ReplaceTidePredictions: %v", err)
	}

	got, err := store.GetTidePredictions("8447435", base.Add(-time.Hour), base.Add(24*time.Hour))
	if err != nil {
		t.Fatalf("GetTidePredictions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len(tides) = %d, want 2", len(got))
	}
	if !got[0].Time.Equal(base) {
		t.Errorf("first tide time = %v, want %v", got[0].Time, base)
	}
	if got[0].Height != 6.1 || got[0].Type != models.TideHigh {
		t.Errorf("first tide = %+v, want 6.1ft high", got[0])
	}
	if got[1].Type != models.TideLow {
		t.Errorf("second tide type = %v, want low", got[1].Type)
	}
}

func TestReplaceTidePredictions_DropsStaleRows(t *testing.T) {
	store := setupTestStore(t)

	base := time.Date(2026, 6, 15, 4, 0, 0, 0, time.UTC)
	if err := store.ReplaceTidePredictions("8447435", []models.TidePrediction{
		{Time: base, Height: 6.0, Type: models.TideHigh},
		{Time: base.Add(6 * time.Hour), Height: 0.5, Type: models.TideLow},
	}); err != nil {
		t.Fatal(err)
	}

	// A re-fetch with shifted times should fully replace the first set.
	if err := store.ReplaceTidePredictions("8447435", []models.TidePrediction{
		{Time: base.Add(10 * time.Minute), Height: 6.2, Type: models.TideHigh},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetTidePredictions("8447435", base.Add(-time.Hour), base.Add(24*time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 {
		t.Fatalf("len(tides) = %d, want 1 after replace", len(got))
	}
	if got[0].Height != 6.2 {
		t.Errorf("height = %v, want 6.2", got[0].Height)
	}
}

func TestReplaceTidePredictions_PerStation(t *testing.T) {
	store := setupTestStore(t)

	base := time.Date(2026, 6, 15, 4, 0, 0, 0, time.UTC)
	if err := store.ReplaceTidePredictions("8447435", []models.TidePrediction{
		{Time: base, Height: 6.0, Type: models.TideHigh},
	}); err != nil {
		t.Fatal(err)
	}
	if err := store.ReplaceTidePredictions("8443970", []models.TidePrediction{
		{Time: base, Height: 9.5, Type: models.TideHigh},
	}); err != nil {
		t.Fatal(err)
	}

	got, err := store.GetTidePredictions("8447435", base.Add(-time.Hour), base.Add(time.Hour))
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Height != 6.0 {
		t.Errorf("station rows leaked across stations: %+v", got)
	}
}

func TestReplaceAndGetHourlyHeights(t *testing.T) {
	store := setupTestStore(t)

	base := time.Date(2026, 6, 15, 0, 0, 0, 0, time.UTC)
	var heights []models.HourlyHeight
	for i := 0; i < 6; i++ {
		heights = append(heights, models.HourlyHeight{
			Time:   base.Add(time.Duration(i) * time.Hour),
			Height: float64(i),
		})
	}
	if err := store.ReplaceHourlyHeights("8447435", heights); err != nil {
		t.Fatalf("ReplaceHourlyHeights: %v", err)
	}

	got, err := store.GetHourlyHeights("8447435", base.Add(2*time.Hour), base.Add(5*time.Hour))
	if err != nil {
		t.Fatalf("GetHourlyHeights: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(heights) = %d, want 3 in half-open range", len(got))
	}
	if got[0].Height != 2 {
		t.Errorf("first height = %v, want 2", got[0].Height)
	}
}

func TestInsertAndGetWaterTemp(t *testing.T) {
	store := setupTestStore(t)

	now := time.Now().UTC().Truncate(time.Second)
	older := models.WaterTemp{ObservedAt: now.Add(-2 * time.Hour), TempF: 58.2}
	newer := models.WaterTemp{ObservedAt: now, TempF: 59.1}

	if err := store.InsertWaterTemp("44020", older); err != nil {
		t.Fatalf("InsertWaterTemp: %v", err)
	}
	if err := store.InsertWaterTemp("44020", newer); err != nil {
		t.Fatalf("InsertWaterTemp: %v", err)
	}

	latest, err := store.GetLatestWaterTemp("44020")
	if err != nil {
		t.Fatalf("GetLatestWaterTemp: %v", err)
	}
	if latest == nil {
		t.Fatal("GetLatestWaterTemp returned nil")
	}
	if latest.TempF != 59.1 {
		t.Errorf("TempF = %v, want 59.1 (newest reading)", latest.TempF)
	}
}

func TestInsertWaterTemp_NoDuplicate(t *testing.T) {
	store := setupTestStore(t)

	at := time.Date(2026, 6, 15, 12, 50, 0, 0, time.UTC)
	if err := store.InsertWaterTemp("44020", models.WaterTemp{ObservedAt: at, TempF: 58.0}); err != nil {
		t.Fatal(err)
	}
	if err := store.InsertWaterTemp("44020", models.WaterTemp{ObservedAt: at, TempF: 61.0}); err != nil {
		t.Fatal(err)
	}

	latest, err := store.GetLatestWaterTemp("44020")
	if err != nil {
		t.Fatal(err)
	}
	if latest.TempF != 58.0 {
		t.Errorf("TempF = %v, want 58.0 (first insert wins with ON CONFLICT DO NOTHING)", latest.TempF)
	}
}

func TestGetLatestWaterTemp_NoData(t *testing.T) {
	store := setupTestStore(t)

	latest, err := store.GetLatestWaterTemp("44020")
	if err != nil {
		t.Fatalf("GetLatestWaterTemp: %v", err)
	}
	if latest != nil {
		t.Error("expected nil for station with no readings")
	}
}

func TestLatestWaterTempValue_Staleness(t *testing.T) {
	store := setupTestStore(t)

	now := time.Date(2026, 6, 15, 18, 0, 0, 0, time.UTC)
	if err := store.InsertWaterTemp("44020", models.WaterTemp{ObservedAt: now.Add(-2 * time.Hour), TempF: 58.5}); err != nil {
		t.Fatal(err)
	}

	fresh, err := store.LatestWaterTempValue("44020", 6*time.Hour, now)
	if err != nil {
		t.Fatalf("LatestWaterTempValue: %v", err)
	}
	if !fresh.Valid || fresh.Float64 != 58.5 {
		t.Errorf("fresh reading = %+v, want valid 58.5", fresh)
	}

	stale, err := store.LatestWaterTempValue("44020", time.Hour, now)
	if err != nil {
		t.Fatal(err)
	}
	if stale.Valid {
		t.Errorf("stale reading = %+v, want invalid", stale)
	}

	empty, err := store.LatestWaterTempValue("41001", time.Hour, now)
	if err != nil {
		t.Fatal(err)
	}
	if empty.Valid {
		t.Errorf("missing station reading = %+v, want invalid", empty)
	}
}

func TestPruneWaterTemps(t *testing.T) {
	store := setupTestStore(t)

	now := time.Date(2026, 6, 15, 12, 0, 0, 0, time.UTC)
	if err := store.InsertWaterTemp("44020", models.WaterTemp{ObservedAt: now.AddDate(0, 0, -30), TempF: 50.0}); err != nil {
		t.Fatal(err)
	}
	if err := store.InsertWaterTemp("44020", models.WaterTemp{ObservedAt: now, TempF: 59.0}); err != nil {
		t.Fatal(err)
	}

	if err := store.PruneWaterTemps(now.AddDate(0, 0, -7)); err != nil {
		t.Fatalf("PruneWaterTemps: %v", err)
	}

	latest, err := store.GetLatestWaterTemp("44020")
	if err != nil {
		t.Fatal(err)
	}
	if latest == nil || latest.TempF != 59.0 {
		t.Errorf("latest after prune = %+v, want the recent reading", latest)
	}
}

func TestMigrationVersion(t *testing.T) {
	store := setupTestStore(t)

	version, err := store.MigrationVersion()
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if version < 2 {
		t.Errorf("MigrationVersion = %d, want >= 2", version)
	}
}
