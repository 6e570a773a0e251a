package store

import (
	"database/sql"
	"math"
	"testing"
	"time"

	_ "modernc.org/sqlite"

	"github.com/aluque/airemad/internal/models"
)

func setupTestStore(t *testing.T) *Store {
	t.Helper()
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	store := New(db)
	if err := store.Migrate(); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return store
}

func sampleAt(hour int, pollutant string, value float64) models.Sample {
	return models.Sample{
		Timestamp:     time.Date(2020, 3, 14, hour, 0, 0, 0, time.UTC),
		Station:       4,
		Pollutant:     pollutant,
		Concentration: value,
	}
}

func TestInsertAndQuerySamples(t *testing.T) {
	store := setupTestStore(t)

	samples := []models.Sample{
		sampleAt(0, "NO2", 42),
		sampleAt(1, "NO2", 38.5),
		sampleAt(0, "O3", 61),
	}
	if err := store.InsertSamples(samples); err != nil {
		t.Fatalf("InsertSamples: %v", err)
	}

	pollutants, err := store.Pollutants()
	if err != nil {
		t.Fatalf("Pollutants: %v", err)
	}
	if len(pollutants) != 2 || pollutants[0] != "NO2" || pollutants[1] != "O3" {
		t.Fatalf("Pollutants = %v, want [NO2 O3]", pollutants)
	}

	from := time.Date(2020, 3, 14, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 1)
	series, err := store.Series("NO2", from, to)
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if len(series) != 2 {
		t.Fatalf("len(series) = %d, want 2", len(series))
	}
	if series[0].Concentration != 42 {
		t.Errorf("first concentration = %v, want 42", series[0].Concentration)
	}
	if !series[0].Timestamp.Before(series[1].Timestamp) {
		t.Error("series not ordered by time")
	}
}

func TestInsertSamplesIdempotent(t *testing.T) {
	store := setupTestStore(t)

	samples := []models.Sample{sampleAt(0, "NO2", 42)}
	if err := store.InsertSamples(samples); err != nil {
		t.Fatalf("first insert: %v", err)
	}
	if err := store.InsertSamples(samples); err != nil {
		t.Fatalf("second insert: %v", err)
	}

	counts, err := store.CountByPollutant()
	if err != nil {
		t.Fatalf("CountByPollutant: %v", err)
	}
	if counts["NO2"] != 1 {
		t.Errorf("count = %d, want 1 (duplicate insert must be a no-op)", counts["NO2"])
	}
}

func TestNaNConcentrationRoundTrip(t *testing.T) {
	store := setupTestStore(t)

	if err := store.InsertSamples([]models.Sample{sampleAt(5, "CO", math.NaN())}); err != nil {
		t.Fatalf("InsertSamples: %v", err)
	}

	from := time.Date(2020, 3, 14, 0, 0, 0, 0, time.UTC)
	series, err := store.Series("CO", from, from.AddDate(0, 0, 1))
	if err != nil {
		t.Fatalf("Series: %v", err)
	}
	if len(series) != 1 {
		t.Fatalf("len(series) = %d, want 1", len(series))
	}
	if !math.IsNaN(series[0].Concentration) {
		t.Errorf("concentration = %v, want NaN", series[0].Concentration)
	}
}

func TestMigrateIsRepeatable(t *testing.T) {
	store := setupTestStore(t)
	if err := store.Migrate(); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
	version, err := store.MigrationVersion()
	if err != nil {
		t.Fatalf("MigrationVersion: %v", err)
	}
	if version != len(migrations) {
		t.Errorf("version = %d, want %d", version, len(migrations))
	}
}
