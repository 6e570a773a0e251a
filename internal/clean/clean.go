package clean

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/aluque/airemad/internal/metrics"
	"github.com/aluque/airemad/internal/models"
)

// Options controls the cleaning pipeline.
type Options struct {
	// ExcludedStations are station codes whose rows are removed. When nil,
	// the Avda. La Guardia outlier station is excluded.
	ExcludedStations []int
}

func (o Options) excluded() []int {
	if o.ExcludedStations == nil {
		return []int{models.StationAvdaLaGuardia}
	}
	return o.ExcludedStations
}

// keepColumns are the raw columns the pipeline uses, after headers are
// lowercased: station, magnitude code, date parts, and the 24 hourly values.
// Everything else (province, municipality, sampling point, validation flags)
// is dropped here.
func keepColumns() []string {
	cols := []string{"estacion", "magnitud", "ano", "mes", "dia"}
	for h := 1; h <= 24; h++ {
		cols = append(cols, hourColumn(h))
	}
	return cols
}

func hourColumn(h int) string {
	return fmt.Sprintf("h%02d", h)
}

// ReadRaw parses one semicolon-separated monthly export. All columns are
// kept as strings; typing happens during cleaning.
func ReadRaw(r io.Reader) (dataframe.DataFrame, error) {
	df := dataframe.ReadCSV(r,
		dataframe.WithDelimiter(';'),
		dataframe.HasHeader(true),
		dataframe.DetectTypes(false),
		dataframe.DefaultType(series.String),
	)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("read raw csv: %w", df.Err)
	}
	return df, nil
}

// LoadRaw reads and concatenates the monthly export files at the given
// paths. The files must share the portal's fixed schema.
func LoadRaw(paths []string) (dataframe.DataFrame, error) {
	if len(paths) == 0 {
		return dataframe.DataFrame{}, fmt.Errorf("no input files")
	}

	var df dataframe.DataFrame
	for i, path := range paths {
		f, err := os.Open(path)
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("open %s: %w", path, err)
		}
		month, err := ReadRaw(f)
		f.Close()
		if err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("%s: %w", path, err)
		}
		if i == 0 {
			df = month
			continue
		}
		df = df.RBind(month)
		if df.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("concat %s: %w", path, df.Err)
		}
	}
	return df, nil
}

// Clean drops the administrative and validation columns, reconstructs a date
// from the year/month/day columns, maps magnitude codes to pollutant names
// (rows with unknown codes are dropped silently), and removes the excluded
// stations. The result is still wide: one row per station/pollutant/date
// with h01..h24 value columns, ready for Reshape.
func Clean(df dataframe.DataFrame, opts Options) (dataframe.DataFrame, error) {
	lowered := make([]string, 0, df.Ncol())
	for _, name := range df.Names() {
		lowered = append(lowered, strings.ToLower(name))
	}
	if err := df.SetNames(lowered...); err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("normalize headers: %w", err)
	}

	df = df.Select(keepColumns())
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("select columns: %w", df.Err)
	}
	metrics.RowsRead.Add(float64(df.Nrow()))

	stations, err := intColumn(df, "estacion")
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	magnitudes, err := intColumn(df, "magnitud")
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	dates, err := dateColumn(df)
	if err != nil {
		return dataframe.DataFrame{}, err
	}

	pollutants := make([]string, len(magnitudes))
	unmapped := 0
	for i, code := range magnitudes {
		name, ok := models.PollutantName(code)
		if !ok {
			unmapped++
			continue
		}
		pollutants[i] = name
	}
	metrics.RowsDropped.WithLabelValues("unused_magnitude").Add(float64(unmapped))

	df = df.
		Mutate(series.New(stations, series.Int, "station")).
		Mutate(series.New(pollutants, series.String, "pollutant")).
		Mutate(series.New(dates, series.String, "date"))
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("attach derived columns: %w", df.Err)
	}

	cols := []string{"pollutant", "station", "date"}
	for h := 1; h <= 24; h++ {
		cols = append(cols, hourColumn(h))
	}
	df = df.Select(cols)
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("project columns: %w", df.Err)
	}

	df = df.Filter(dataframe.F{Colname: "pollutant", Comparator: series.Neq, Comparando: ""})
	for _, code := range opts.excluded() {
		before := df.Nrow()
		df = df.Filter(dataframe.F{Colname: "station", Comparator: series.Neq, Comparando: code})
		if df.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("filter station %d: %w", code, df.Err)
		}
		metrics.RowsDropped.WithLabelValues("excluded_station").Add(float64(before - df.Nrow()))
	}
	if df.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("filter rows: %w", df.Err)
	}
	return df, nil
}

// Run applies Clean followed by Reshape.
func Run(df dataframe.DataFrame, opts Options) (dataframe.DataFrame, error) {
	cleaned, err := Clean(df, opts)
	if err != nil {
		return dataframe.DataFrame{}, err
	}
	return Reshape(cleaned)
}

// Samples converts a long dataframe produced by Reshape into typed records.
// Empty concentration cells become NaN.
func Samples(df dataframe.DataFrame) ([]models.Sample, error) {
	stamps := df.Col("dt").Records()
	stations := df.Col("station").Records()
	pollutants := df.Col("pollutant").Records()
	values := df.Col("concentration").Records()
	if df.Err != nil {
		return nil, fmt.Errorf("read long columns: %w", df.Err)
	}

	samples := make([]models.Sample, 0, len(stamps))
	for i := range stamps {
		ts, err := time.Parse(models.TimeLayout, stamps[i])
		if err != nil {
			return nil, fmt.Errorf("row %d: parse timestamp %q: %w", i, stamps[i], err)
		}
		station, err := strconv.Atoi(strings.TrimSpace(stations[i]))
		if err != nil {
			return nil, fmt.Errorf("row %d: parse station %q: %w", i, stations[i], err)
		}
		samples = append(samples, models.Sample{
			Timestamp:     ts,
			Station:       station,
			Pollutant:     pollutants[i],
			Concentration: parseConcentration(values[i]),
		})
	}
	return samples, nil
}

func intColumn(df dataframe.DataFrame, name string) ([]int, error) {
	recs := df.Col(name).Records()
	if df.Err != nil {
		return nil, fmt.Errorf("column %s: %w", name, df.Err)
	}
	out := make([]int, len(recs))
	for i, r := range recs {
		v, err := strconv.Atoi(strings.TrimSpace(r))
		if err != nil {
			return nil, fmt.Errorf("column %s row %d: %w", name, i, err)
		}
		out[i] = v
	}
	return out, nil
}

// dateColumn rebuilds ISO dates from the separate ano/mes/dia columns.
func dateColumn(df dataframe.DataFrame) ([]string, error) {
	years, err := intColumn(df, "ano")
	if err != nil {
		return nil, err
	}
	months, err := intColumn(df, "mes")
	if err != nil {
		return nil, err
	}
	days, err := intColumn(df, "dia")
	if err != nil {
		return nil, err
	}

	dates := make([]string, len(years))
	for i := range years {
		if months[i] < 1 || months[i] > 12 || days[i] < 1 || days[i] > 31 {
			return nil, fmt.Errorf("row %d: implausible date %d-%d-%d", i, years[i], months[i], days[i])
		}
		dates[i] = fmt.Sprintf("%04d-%02d-%02d", years[i], months[i], days[i])
	}
	return dates, nil
}
