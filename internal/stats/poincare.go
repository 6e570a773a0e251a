package stats

import (
	"math"

	"gonum.org/v1/gonum/stat"
)

// LagPairs builds the lag-1 embedding of a series for a Poincaré diagram:
// X holds x(n) and Y holds x(n+1). Pairs touching a NaN are skipped.
func LagPairs(xs []float64) (x, y []float64) {
	for i := 0; i+1 < len(xs); i++ {
		if math.IsNaN(xs[i]) || math.IsNaN(xs[i+1]) {
			continue
		}
		x = append(x, xs[i])
		y = append(y, xs[i+1])
	}
	return x, y
}

// Regress fits y = intercept + slope*x by ordinary least squares.
func Regress(x, y []float64) (intercept, slope float64) {
	return stat.LinearRegression(x, y, nil, false)
}
