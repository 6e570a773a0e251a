package stats

import (
	"math"
	"strings"
	"testing"
)

func TestDescribe(t *testing.T) {
	s := Describe([]float64{1, 2, 3, 4, 5})

	if s.Count != 5 {
		t.Errorf("Count = %d, want 5", s.Count)
	}
	checks := []struct {
		name string
		got  float64
		want float64
	}{
		{"Mean", s.Mean, 3},
		{"Min", s.Min, 1},
		{"Q1", s.Q1, 2},
		{"Median", s.Median, 3},
		{"Q3", s.Q3, 4},
		{"Max", s.Max, 5},
		{"Std", s.Std, math.Sqrt(2.5)},
		{"Skew", s.Skew, 0},
	}
	for _, c := range checks {
		if math.Abs(c.got-c.want) > 1e-9 {
			t.Errorf("%s = %v, want %v", c.name, c.got, c.want)
		}
	}
}

func TestDescribeIgnoresNaN(t *testing.T) {
	s := Describe([]float64{1, math.NaN(), 3, math.NaN(), 5})
	if s.Count != 3 {
		t.Errorf("Count = %d, want 3", s.Count)
	}
	if s.Mean != 3 {
		t.Errorf("Mean = %v, want 3", s.Mean)
	}
}

func TestDescribeEmpty(t *testing.T) {
	s := Describe(nil)
	if s.Count != 0 {
		t.Errorf("Count = %d, want 0", s.Count)
	}
}

func TestCompareRender(t *testing.T) {
	cmp := Compare([]float64{1, 2, 3}, []float64{4, 5, 6}, "2019", "2020")

	var b strings.Builder
	if err := cmp.Render(&b); err != nil {
		t.Fatalf("Render: %v", err)
	}
	out := b.String()

	for _, want := range []string{"2019", "2020", "mean", "kurtosis", "2.00", "5.00"} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered table missing %q:\n%s", want, out)
		}
	}
}

func TestLagPairs(t *testing.T) {
	x, y := LagPairs([]float64{1, 2, 3, 4})
	if len(x) != 3 || len(y) != 3 {
		t.Fatalf("got %d/%d pairs, want 3/3", len(x), len(y))
	}
	for i := range x {
		if y[i] != x[i]+1 {
			t.Errorf("pair %d: (%v, %v), want successor", i, x[i], y[i])
		}
	}
}

func TestLagPairsSkipNaN(t *testing.T) {
	x, y := LagPairs([]float64{1, math.NaN(), 3, 4})
	// Pairs (1,NaN) and (NaN,3) are dropped, only (3,4) survives.
	if len(x) != 1 {
		t.Fatalf("got %d pairs, want 1", len(x))
	}
	if x[0] != 3 || y[0] != 4 {
		t.Errorf("pair = (%v, %v), want (3, 4)", x[0], y[0])
	}
}

func TestRegressRecoversLine(t *testing.T) {
	var x, y []float64
	for i := 0; i < 50; i++ {
		x = append(x, float64(i))
		y = append(y, 2.5+3*float64(i))
	}
	intercept, slope := Regress(x, y)
	if math.Abs(intercept-2.5) > 1e-9 {
		t.Errorf("intercept = %v, want 2.5", intercept)
	}
	if math.Abs(slope-3) > 1e-9 {
		t.Errorf("slope = %v, want 3", slope)
	}
}
