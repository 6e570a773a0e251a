package stats

import (
	"fmt"
	"io"
	"math"
	"sort"
	"text/tabwriter"

	"gonum.org/v1/gonum/stat"
)

// Summary holds the descriptive statistics of one series: the describe()
// set plus skewness and excess kurtosis.
type Summary struct {
	Count    int
	Mean     float64
	Std      float64
	Min      float64
	Q1       float64
	Median   float64
	Q3       float64
	Max      float64
	Skew     float64
	Kurtosis float64
}

// Describe computes summary statistics over the non-NaN values of xs.
// Quantiles use linear interpolation.
func Describe(xs []float64) Summary {
	clean := dropNaN(xs)
	if len(clean) == 0 {
		return Summary{}
	}

	sorted := append([]float64(nil), clean...)
	sort.Float64s(sorted)

	return Summary{
		Count:    len(clean),
		Mean:     stat.Mean(clean, nil),
		Std:      stat.StdDev(clean, nil),
		Min:      sorted[0],
		Q1:       quantile(sorted, 0.25),
		Median:   quantile(sorted, 0.5),
		Q3:       quantile(sorted, 0.75),
		Max:      sorted[len(sorted)-1],
		Skew:     stat.Skew(clean, nil),
		Kurtosis: stat.ExKurtosis(clean, nil),
	}
}

// quantile interpolates linearly between order statistics. sorted must be
// ascending and non-empty.
func quantile(sorted []float64, p float64) float64 {
	pos := p * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	frac := pos - float64(lo)
	return sorted[lo] + frac*(sorted[hi]-sorted[lo])
}

// Comparison is a two-column summary table, one column per period.
type Comparison struct {
	BeforeLabel string
	AfterLabel  string
	Before      Summary
	After       Summary
}

// Compare describes two series side by side, typically the periods before
// and after a point in time.
func Compare(before, after []float64, beforeLabel, afterLabel string) Comparison {
	return Comparison{
		BeforeLabel: beforeLabel,
		AfterLabel:  afterLabel,
		Before:      Describe(before),
		After:       Describe(after),
	}
}

// Render writes the comparison as an aligned text table, values rounded to
// two decimals.
func (c Comparison) Render(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintf(tw, "\t%s\t%s\t\n", c.BeforeLabel, c.AfterLabel)

	rows := []struct {
		name   string
		before float64
		after  float64
	}{
		{"count", float64(c.Before.Count), float64(c.After.Count)},
		{"mean", c.Before.Mean, c.After.Mean},
		{"std", c.Before.Std, c.After.Std},
		{"min", c.Before.Min, c.After.Min},
		{"25%", c.Before.Q1, c.After.Q1},
		{"50%", c.Before.Median, c.After.Median},
		{"75%", c.Before.Q3, c.After.Q3},
		{"max", c.Before.Max, c.After.Max},
		{"skew", c.Before.Skew, c.After.Skew},
		{"kurtosis", c.Before.Kurtosis, c.After.Kurtosis},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%.2f\t%.2f\t\n", r.name, r.before, r.after)
	}
	return tw.Flush()
}

func dropNaN(xs []float64) []float64 {
	out := make([]float64, 0, len(xs))
	for _, x := range xs {
		if !math.IsNaN(x) {
			out = append(out, x)
		}
	}
	return out
}
