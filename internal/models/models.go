package models

import "time"

// Pollutants maps the magnitude codes used by the Madrid air-quality
// exports to pollutant names. Codes absent from this table (7, 12, 20, 30,
// 35, 42, 43, 44 and anything newer) are measurements the analysis does not
// use; their rows are dropped during cleaning.
var Pollutants = map[int]string{
	1:  "SO2",
	6:  "CO",
	8:  "NO2",
	9:  "PM2.5",
	10: "PM10",
	14: "O3",
}

// StationAvdaLaGuardia (full code 28079054) sits outside the urban core of
// the city and registers non-representative values. It is excluded by
// default.
const StationAvdaLaGuardia = 54

// TimeLayout is how timestamps appear in cleaned CSV files. It sorts
// lexicographically in time order.
const TimeLayout = "2006-01-02 15:04:05"

// Sample is one long-format record: a single pollutant concentration
// measured at one station at one hour.
type Sample struct {
	Timestamp     time.Time
	Station       int
	Pollutant     string
	Concentration float64
}

// PollutantName resolves a magnitude code, reporting whether it is one of
// the tracked pollutants.
func PollutantName(code int) (string, bool) {
	name, ok := Pollutants[code]
	return name, ok
}

// Names returns all pollutant names in a stable order.
func Names() []string {
	return []string{"SO2", "CO", "NO2", "PM2.5", "PM10", "O3"}
}
