package export

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/aluque/airemad/internal/metrics"
	"github.com/aluque/airemad/internal/models"
)

// Series is the content of one per-pollutant CSV: a timestamp index and a
// single concentration column.
type Series struct {
	Times  []time.Time
	Values []float64
}

// Len reports the number of points in the series.
func (s Series) Len() int { return len(s.Times) }

// Filename names the output file for one pollutant and year.
func Filename(pollutant string, year int) string {
	return fmt.Sprintf("%s-%d.csv", pollutant, year)
}

// WritePerPollutant writes one CSV per pollutant per year into dir,
// preserving the chronological order of the input. It returns the paths of
// the files written.
func WritePerPollutant(samples []models.Sample, dir string) ([]string, error) {
	type key struct {
		pollutant string
		year      int
	}

	groups := make(map[key][]models.Sample)
	for _, s := range samples {
		k := key{s.Pollutant, s.Timestamp.Year()}
		groups[k] = append(groups[k], s)
	}

	keys := make([]key, 0, len(groups))
	for k := range groups {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].pollutant != keys[j].pollutant {
			return keys[i].pollutant < keys[j].pollutant
		}
		return keys[i].year < keys[j].year
	})

	var paths []string
	for _, k := range keys {
		path := filepath.Join(dir, Filename(k.pollutant, k.year))
		if err := writeSeries(path, groups[k]); err != nil {
			return nil, fmt.Errorf("write %s: %w", path, err)
		}
		metrics.SamplesWritten.WithLabelValues(k.pollutant).Add(float64(len(groups[k])))
		paths = append(paths, path)
	}
	return paths, nil
}

func writeSeries(path string, samples []models.Sample) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"dt", "concentration"}); err != nil {
		return err
	}
	for _, s := range samples {
		value := ""
		if !math.IsNaN(s.Concentration) {
			value = strconv.FormatFloat(s.Concentration, 'f', -1, 64)
		}
		if err := w.Write([]string{s.Timestamp.Format(models.TimeLayout), value}); err != nil {
			return err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return err
	}
	return f.Close()
}

// ReadSeries loads a per-pollutant CSV written by WritePerPollutant. Empty
// concentration cells come back as NaN.
func ReadSeries(path string) (Series, error) {
	f, err := os.Open(path)
	if err != nil {
		return Series{}, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = 2

	header, err := r.Read()
	if err != nil {
		return Series{}, fmt.Errorf("read header of %s: %w", path, err)
	}
	if header[0] != "dt" {
		return Series{}, fmt.Errorf("%s: unexpected header %q, want a dt index", path, header[0])
	}

	var s Series
	records, err := r.ReadAll()
	if err != nil {
		return Series{}, fmt.Errorf("read %s: %w", path, err)
	}
	for i, rec := range records {
		ts, err := time.Parse(models.TimeLayout, rec[0])
		if err != nil {
			return Series{}, fmt.Errorf("%s row %d: parse timestamp %q: %w", path, i+1, rec[0], err)
		}
		value := math.NaN()
		if rec[1] != "" {
			value, err = strconv.ParseFloat(rec[1], 64)
			if err != nil {
				return Series{}, fmt.Errorf("%s row %d: parse concentration %q: %w", path, i+1, rec[1], err)
			}
		}
		s.Times = append(s.Times, ts)
		s.Values = append(s.Values, value)
	}
	return s, nil
}
