package store

import (
	"database/sql"
	"fmt"
	"math"
	"time"

	"github.com/aluque/airemad/internal/models"
)

// Store persists cleaned samples in SQLite so analysis commands can reuse
// them without re-running the cleaning pipeline.
type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// Open opens (creating if needed) a SQLite database at path and applies
// migrations.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	db.Exec("PRAGMA journal_mode=WAL")
	db.Exec("PRAGMA busy_timeout=5000")

	s := New(db)
	if err := s.Migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}
	return s, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// InsertSamples bulk-inserts cleaned samples inside one transaction.
// Re-inserting the same (pollutant, station, timestamp) is a no-op, so
// re-running clean over the same files is safe. NaN concentrations are
// stored as NULL.
func (s *Store) InsertSamples(samples []models.Sample) error {
	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}

	stmt, err := tx.Prepare(`
		INSERT INTO samples (pollutant, station, observed_at, concentration)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(pollutant, station, observed_at) DO NOTHING
	`)
	if err != nil {
		tx.Rollback()
		return fmt.Errorf("prepare insert: %w", err)
	}
	defer stmt.Close()

	for _, sample := range samples {
		conc := sql.NullFloat64{Float64: sample.Concentration, Valid: !math.IsNaN(sample.Concentration)}
		if _, err := stmt.Exec(sample.Pollutant, sample.Station, sample.Timestamp, conc); err != nil {
			tx.Rollback()
			return fmt.Errorf("insert sample %s/%d@%s: %w", sample.Pollutant, sample.Station, sample.Timestamp, err)
		}
	}
	return tx.Commit()
}

// Pollutants lists the distinct pollutants present in the store.
func (s *Store) Pollutants() ([]string, error) {
	rows, err := s.db.Query(`SELECT DISTINCT pollutant FROM samples ORDER BY pollutant`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var p string
		if err := rows.Scan(&p); err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

// Series returns the samples for one pollutant in [from, to), ordered by
// time. NULL concentrations come back as NaN.
func (s *Store) Series(pollutant string, from, to time.Time) ([]models.Sample, error) {
	rows, err := s.db.Query(`
		SELECT pollutant, station, observed_at, concentration
		FROM samples
		WHERE pollutant = ? AND observed_at >= ? AND observed_at < ?
		ORDER BY observed_at
	`, pollutant, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var samples []models.Sample
	for rows.Next() {
		var sample models.Sample
		var conc sql.NullFloat64
		if err := rows.Scan(&sample.Pollutant, &sample.Station, &sample.Timestamp, &conc); err != nil {
			return nil, err
		}
		sample.Concentration = math.NaN()
		if conc.Valid {
			sample.Concentration = conc.Float64
		}
		samples = append(samples, sample)
	}
	return samples, rows.Err()
}

// CountByPollutant reports how many samples each pollutant has.
func (s *Store) CountByPollutant() (map[string]int, error) {
	rows, err := s.db.Query(`SELECT pollutant, COUNT(*) FROM samples GROUP BY pollutant`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make(map[string]int)
	for rows.Next() {
		var p string
		var n int
		if err := rows.Scan(&p, &n); err != nil {
			return nil, err
		}
		counts[p] = n
	}
	return counts, rows.Err()
}
