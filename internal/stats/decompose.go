package stats

import (
	"fmt"
	"math"
)

// Decomposition is a classical additive decomposition of a series:
// observed = trend + seasonal + residual wherever trend is defined. The
// leading and trailing half-windows of Trend and Resid are NaN.
type Decomposition struct {
	Observed []float64
	Trend    []float64
	Seasonal []float64
	Resid    []float64
}

// Decompose performs classical additive seasonal decomposition with the
// given period (24 for hourly data with a daily cycle). The trend is a
// centred moving average; for even periods the endpoints of the window get
// half weight, the standard 2xMA construction. The seasonal component is
// the per-phase mean of the detrended series, normalised to sum to zero
// over one period.
func Decompose(xs []float64, period int) (Decomposition, error) {
	if period < 2 {
		return Decomposition{}, fmt.Errorf("period must be at least 2, got %d", period)
	}
	if len(xs) < 2*period {
		return Decomposition{}, fmt.Errorf("series too short for period %d: have %d points, need %d", period, len(xs), 2*period)
	}

	n := len(xs)
	d := Decomposition{
		Observed: append([]float64(nil), xs...),
		Trend:    centredMovingAverage(xs, period),
		Seasonal: make([]float64, n),
		Resid:    make([]float64, n),
	}

	// Per-phase means of the detrended series.
	sums := make([]float64, period)
	counts := make([]int, period)
	for i := 0; i < n; i++ {
		if math.IsNaN(d.Trend[i]) || math.IsNaN(xs[i]) {
			continue
		}
		phase := i % period
		sums[phase] += xs[i] - d.Trend[i]
		counts[phase]++
	}

	phaseMeans := make([]float64, period)
	var total float64
	for p := 0; p < period; p++ {
		if counts[p] == 0 {
			return Decomposition{}, fmt.Errorf("no data for phase %d of %d", p, period)
		}
		phaseMeans[p] = sums[p] / float64(counts[p])
		total += phaseMeans[p]
	}
	// Centre so the seasonal component carries no level.
	offset := total / float64(period)
	for p := range phaseMeans {
		phaseMeans[p] -= offset
	}

	for i := 0; i < n; i++ {
		d.Seasonal[i] = phaseMeans[i%period]
		if math.IsNaN(d.Trend[i]) {
			d.Resid[i] = math.NaN()
			continue
		}
		d.Resid[i] = xs[i] - d.Trend[i] - d.Seasonal[i]
	}
	return d, nil
}

func centredMovingAverage(xs []float64, period int) []float64 {
	n := len(xs)
	trend := make([]float64, n)
	for i := range trend {
		trend[i] = math.NaN()
	}

	half := period / 2
	if period%2 == 1 {
		for i := half; i < n-half; i++ {
			sum := 0.0
			for j := i - half; j <= i+half; j++ {
				sum += xs[j]
			}
			trend[i] = sum / float64(period)
		}
		return trend
	}

	// Even period: window of period+1 points with half-weight endpoints.
	for i := half; i < n-half; i++ {
		sum := 0.5*xs[i-half] + 0.5*xs[i+half]
		for j := i - half + 1; j <= i+half-1; j++ {
			sum += xs[j]
		}
		trend[i] = sum / float64(period)
	}
	return trend
}
