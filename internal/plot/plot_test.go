package plot

import (
	"bytes"
	"image/png"
	"math"
	"testing"
	"time"

	"github.com/aluque/airemad/internal/stats"
)

func decodePNG(t *testing.T, data []byte) (width, height int) {
	t.Helper()
	img, err := png.Decode(bytes.NewReader(data))
	if err != nil {
		t.Fatalf("decode png: %v", err)
	}
	b := img.Bounds()
	return b.Dx(), b.Dy()
}

func TestPoincareRenders(t *testing.T) {
	var x, y []float64
	for i := 0; i < 200; i++ {
		x = append(x, float64(i%40))
		y = append(y, float64((i+1)%40))
	}

	panel := PoincarePanel{Title: "2019", X: x, Y: y, HasFit: true, Intercept: 1.5, Slope: 0.9}
	data, err := Poincare(panel, PoincarePanel{Title: "2020", X: x, Y: y})
	if err != nil {
		t.Fatalf("Poincare: %v", err)
	}

	w, h := decodePNG(t, data)
	if w != poincareWidth || h != poincareHeight {
		t.Errorf("dimensions = %dx%d, want %dx%d", w, h, poincareWidth, poincareHeight)
	}
}

func TestPoincareRequiresData(t *testing.T) {
	if _, err := Poincare(PoincarePanel{}, PoincarePanel{}); err == nil {
		t.Fatal("empty panels accepted")
	}
}

func TestSeasonalRenders(t *testing.T) {
	const n = 24 * 20
	times := make([]time.Time, n)
	values := make([]float64, n)
	start := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		times[i] = start.Add(time.Duration(i) * time.Hour)
		values[i] = 20 + 5*math.Sin(2*math.Pi*float64(i)/24)
	}

	d, err := stats.Decompose(values, 24)
	if err != nil {
		t.Fatalf("Decompose: %v", err)
	}

	data, err := Seasonal(times, d, "NO2 2020")
	if err != nil {
		t.Fatalf("Seasonal: %v", err)
	}
	w, _ := decodePNG(t, data)
	if w != seasonalWidth {
		t.Errorf("width = %d, want %d", w, seasonalWidth)
	}
}

func TestSeasonalLengthMismatch(t *testing.T) {
	d := stats.Decomposition{Observed: []float64{1, 2, 3}, Trend: []float64{1, 2, 3}, Seasonal: []float64{0, 0, 0}, Resid: []float64{0, 0, 0}}
	if _, err := Seasonal([]time.Time{time.Now()}, d, ""); err == nil {
		t.Fatal("mismatched lengths accepted")
	}
}

func TestScreeRenders(t *testing.T) {
	data, err := Scree([]float64{120, 35, 8, 2, 1, 0.5}, "")
	if err != nil {
		t.Fatalf("Scree: %v", err)
	}
	w, h := decodePNG(t, data)
	if w != screeWidth || h != screeHeight {
		t.Errorf("dimensions = %dx%d, want %dx%d", w, h, screeWidth, screeHeight)
	}
}

func TestHalfMonthTicks(t *testing.T) {
	times := []time.Time{
		time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 4, 30, 23, 0, 0, 0, time.UTC),
	}

	ticks := HalfMonthTicks(times)

	want := []string{"Jan-1", "Jan-15", "Feb-1", "Feb-15", "Mar-1", "Mar-15", "Apr-1", "Apr-15", "Apr-30"}
	if len(ticks) != len(want) {
		t.Fatalf("got %d ticks %v, want %d", len(ticks), labels(ticks), len(want))
	}
	for i, w := range want {
		if ticks[i].Label != w {
			t.Errorf("tick %d = %q, want %q", i, ticks[i].Label, w)
		}
	}
}

func TestHalfMonthTicksPartialMonth(t *testing.T) {
	times := []time.Time{
		time.Date(2020, 3, 10, 0, 0, 0, 0, time.UTC),
		time.Date(2020, 3, 20, 0, 0, 0, 0, time.UTC),
	}

	ticks := HalfMonthTicks(times)
	want := []string{"Mar-15", "Mar-20"}
	if len(ticks) != len(want) {
		t.Fatalf("got ticks %v, want %v", labels(ticks), want)
	}
	for i, w := range want {
		if ticks[i].Label != w {
			t.Errorf("tick %d = %q, want %q", i, ticks[i].Label, w)
		}
	}
}

func labels(ticks []Tick) []string {
	out := make([]string, len(ticks))
	for i, tk := range ticks {
		out[i] = tk.Label
	}
	return out
}
