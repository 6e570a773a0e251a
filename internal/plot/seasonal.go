package plot

import (
	"fmt"
	"image"
	"time"

	"github.com/aluque/airemad/internal/stats"
)

const (
	seasonalWidth  = 1100
	panelHeight    = 170
	seasonalMargin = 90
)

// Seasonal renders the four panels of a classical decomposition stacked
// vertically: observed, trend, seasonal and residual, sharing a time axis
// with half-month ticks.
func Seasonal(times []time.Time, d stats.Decomposition, title string) ([]byte, error) {
	n := len(d.Observed)
	if n == 0 {
		return nil, fmt.Errorf("seasonal: empty series")
	}
	if len(times) != n {
		return nil, fmt.Errorf("seasonal: %d timestamps for %d values", len(times), n)
	}

	xs := make([]float64, n)
	for i, t := range times {
		xs[i] = float64(t.Unix())
	}

	rows := []struct {
		label  string
		values []float64
	}{
		{"Observed", d.Observed},
		{"Trend", d.Trend},
		{"Seasonal", d.Seasonal},
		{"Residual", d.Resid},
	}

	height := 40 + len(rows)*(panelHeight+18) + 40
	c := newCanvas(seasonalWidth, height)
	if title != "" {
		c.text(title, seasonalWidth/2-textWidth(title)/2, 22, black)
	}

	ticks := HalfMonthTicks(times)

	for i, row := range rows {
		top := 40 + i*(panelHeight+18)
		rect := image.Rect(seasonalMargin, top, seasonalWidth-30, top+panelHeight)
		p := newPanel(rect, xs, row.values)
		// All panels share the full time extent even where values are NaN.
		p.xmin, p.xmax = xs[0], xs[n-1]

		c.yTicks(p, 4)
		for _, tick := range ticks {
			x := p.px(float64(tick.Time.Unix()))
			c.line(x, rect.Min.Y, x, rect.Max.Y-1, gridGray)
			if i == len(rows)-1 {
				c.text(tick.Label, x-textWidth(tick.Label)/2, rect.Max.Y+14, axisGray)
			}
		}
		c.frame(p)
		c.polyline(p, xs, row.values, scatterBlu)
		c.text(row.label, 8, rect.Min.Y+rect.Dy()/2+4, black)
	}

	return c.encode()
}

// Tick is one labelled position on a time axis.
type Tick struct {
	Time  time.Time
	Label string
}

// HalfMonthTicks places ticks on the 1st and 15th of every month covered by
// the series, plus the final day, labelled like "Mar-15".
func HalfMonthTicks(times []time.Time) []Tick {
	if len(times) == 0 {
		return nil
	}
	first, last := times[0], times[len(times)-1]

	var ticks []Tick
	cursor := time.Date(first.Year(), first.Month(), 1, 0, 0, 0, 0, first.Location())
	for !cursor.After(last) {
		for _, day := range []int{1, 15} {
			t := time.Date(cursor.Year(), cursor.Month(), day, 0, 0, 0, 0, cursor.Location())
			if !t.Before(first) && !t.After(last) {
				ticks = append(ticks, Tick{Time: t, Label: tickLabel(t)})
			}
		}
		cursor = cursor.AddDate(0, 1, 0)
	}

	final := time.Date(last.Year(), last.Month(), last.Day(), 0, 0, 0, 0, last.Location())
	if len(ticks) == 0 || ticks[len(ticks)-1].Time.Before(final) {
		ticks = append(ticks, Tick{Time: final, Label: tickLabel(final)})
	}
	return ticks
}

func tickLabel(t time.Time) string {
	return fmt.Sprintf("%s-%d", t.Month().String()[:3], t.Day())
}
