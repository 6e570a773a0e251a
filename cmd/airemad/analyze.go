package main

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/aluque/airemad/internal/export"
	"github.com/aluque/airemad/internal/plot"
	"github.com/aluque/airemad/internal/stats"
)

// StatsCmd prints a two-column summary-statistics table for the periods
// before and after a point in time.
type StatsCmd struct {
	Before string `arg:"" type:"existingfile" help:"Cleaned CSV for the 'before' period."`
	After  string `arg:"" type:"existingfile" help:"Cleaned CSV for the 'after' period."`

	LabelBefore string `default:"2019" help:"Column label for the 'before' period."`
	LabelAfter  string `default:"2020" help:"Column label for the 'after' period."`
}

func (c *StatsCmd) Run() error {
	before, err := export.ReadSeries(c.Before)
	if err != nil {
		return err
	}
	after, err := export.ReadSeries(c.After)
	if err != nil {
		return err
	}

	cmp := stats.Compare(before.Values, after.Values, c.LabelBefore, c.LabelAfter)
	return cmp.Render(os.Stdout)
}

// PlotCmd groups the chart renderers.
type PlotCmd struct {
	Poincare PlotPoincareCmd `cmd:"" help:"Two-panel Poincare diagram with regression and identity lines."`
	Seasonal PlotSeasonalCmd `cmd:"" help:"Observed/trend/seasonal/residual decomposition panels."`
	Scree    PlotScreeCmd    `cmd:"" help:"Scree diagram of the trajectory matrix singular values."`
}

type PlotPoincareCmd struct {
	Before string `arg:"" type:"existingfile" help:"Cleaned CSV for the 'before' period."`
	After  string `arg:"" type:"existingfile" help:"Cleaned CSV for the 'after' period."`

	Out         string `short:"o" required:"" help:"Output PNG path."`
	TitleBefore string `default:"2019" help:"Title for the left panel."`
	TitleAfter  string `default:"2020" help:"Title for the right panel."`
	NoFit       bool   `help:"Skip the least-squares regression lines."`
}

func (c *PlotPoincareCmd) Run() error {
	left, err := poincarePanel(c.Before, c.TitleBefore, !c.NoFit)
	if err != nil {
		return err
	}
	right, err := poincarePanel(c.After, c.TitleAfter, !c.NoFit)
	if err != nil {
		return err
	}

	png, err := plot.Poincare(left, right)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Out, png, 0o644)
}

func poincarePanel(path, title string, fit bool) (plot.PoincarePanel, error) {
	s, err := export.ReadSeries(path)
	if err != nil {
		return plot.PoincarePanel{}, err
	}
	x, y := stats.LagPairs(s.Values)
	p := plot.PoincarePanel{Title: title, X: x, Y: y}
	if fit && len(x) > 1 {
		p.Intercept, p.Slope = stats.Regress(x, y)
		p.HasFit = true
	}
	return p, nil
}

type PlotSeasonalCmd struct {
	File string `arg:"" type:"existingfile" help:"Cleaned CSV to decompose."`

	Out    string `short:"o" required:"" help:"Output PNG path."`
	Period int    `default:"24" help:"Seasonal period in samples (24 for a daily cycle)."`
	Title  string `help:"Chart title."`
}

func (c *PlotSeasonalCmd) Run() error {
	s, err := export.ReadSeries(c.File)
	if err != nil {
		return err
	}
	d, err := stats.Decompose(s.Values, c.Period)
	if err != nil {
		return err
	}
	png, err := plot.Seasonal(s.Times, d, c.Title)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Out, png, 0o644)
}

type PlotScreeCmd struct {
	File string `arg:"" type:"existingfile" help:"Cleaned CSV to analyse."`

	Out    string `short:"o" required:"" help:"Output PNG path."`
	Window int    `default:"24" help:"Trajectory matrix window in samples."`
	Title  string `help:"Chart title."`
}

func (c *PlotScreeCmd) Run() error {
	values, err := singularValues(c.File, c.Window)
	if err != nil {
		return err
	}
	png, err := plot.Scree(values, c.Title)
	if err != nil {
		return err
	}
	return os.WriteFile(c.Out, png, 0o644)
}

// SvdCmd emits the singular values of a series' trajectory matrix as CSV,
// for scree analysis in other tools.
type SvdCmd struct {
	File string `arg:"" type:"existingfile" help:"Cleaned CSV to analyse."`

	Window int    `default:"24" help:"Trajectory matrix window in samples."`
	Out    string `short:"o" help:"Output CSV path (default: stdout)."`
}

func (c *SvdCmd) Run() error {
	values, err := singularValues(c.File, c.Window)
	if err != nil {
		return err
	}

	out := os.Stdout
	if c.Out != "" {
		f, err := os.Create(c.Out)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	}

	w := csv.NewWriter(out)
	if err := w.Write([]string{"component", "sigma"}); err != nil {
		return err
	}
	for i, v := range values {
		rec := []string{strconv.Itoa(i + 1), strconv.FormatFloat(v, 'g', -1, 64)}
		if err := w.Write(rec); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func singularValues(path string, window int) ([]float64, error) {
	s, err := export.ReadSeries(path)
	if err != nil {
		return nil, err
	}
	m, err := stats.TrajectoryMatrix(s.Values, window)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return stats.SingularValues(m)
}
