package clean

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"

	"github.com/aluque/airemad/internal/models"
)

// Reshape turns the wide per-day frame into a long time series. For each
// hour column it projects (pollutant, station, date, value), attaches the
// hour to the date to form a full timestamp, renames the value column to
// "concentration", and concatenates the 24 per-hour frames sorted by
// timestamp. Hour 24 maps to hour 0 of the same date (modulo-24, as in the
// source schema).
//
// The result always has exactly 24 rows per input row; any other count is
// reported as an error.
func Reshape(df dataframe.DataFrame) (dataframe.DataFrame, error) {
	wideRows := df.Nrow()

	var long dataframe.DataFrame
	for h := 1; h <= 24; h++ {
		col := hourColumn(h)

		sub := df.Select([]string{"pollutant", "station", "date", col})
		if sub.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("select hour %s: %w", col, sub.Err)
		}
		sub = sub.Rename("concentration", col)
		if sub.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("rename %s: %w", col, sub.Err)
		}

		stamps, err := hourTimestamps(sub.Col("date").Records(), h)
		if err != nil {
			return dataframe.DataFrame{}, err
		}
		sub = sub.
			Mutate(series.New(stamps, series.String, "dt")).
			Select([]string{"dt", "station", "pollutant", "concentration"})
		if sub.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("build hour %s frame: %w", col, sub.Err)
		}

		if h == 1 {
			long = sub
			continue
		}
		long = long.RBind(sub)
		if long.Err != nil {
			return dataframe.DataFrame{}, fmt.Errorf("concat hour %s: %w", col, long.Err)
		}
	}

	long = long.Arrange(dataframe.Sort("dt"))
	if long.Err != nil {
		return dataframe.DataFrame{}, fmt.Errorf("sort by timestamp: %w", long.Err)
	}

	if got, want := long.Nrow(), 24*wideRows; got != want {
		return dataframe.DataFrame{}, fmt.Errorf("reshape produced %d rows, want %d (24 per input row)", got, want)
	}
	return long, nil
}

// hourTimestamps combines ISO dates with an hour-of-day column index.
// The layout of the result sorts lexicographically in time order, which is
// what Reshape's Arrange relies on.
func hourTimestamps(dates []string, hour int) ([]string, error) {
	stamps := make([]string, len(dates))
	for i, d := range dates {
		day, err := time.Parse("2006-01-02", d)
		if err != nil {
			return nil, fmt.Errorf("row %d: parse date %q: %w", i, d, err)
		}
		ts := day.Add(time.Duration(hour%24) * time.Hour)
		stamps[i] = ts.Format(models.TimeLayout)
	}
	return stamps, nil
}

// parseConcentration is tolerant of the gaps the portal leaves in hourly
// columns: empty or NaN cells become NaN rather than an error.
func parseConcentration(s string) float64 {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return math.NaN()
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return math.NaN()
	}
	return v
}
