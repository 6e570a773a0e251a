package plot

import (
	"fmt"
	"image"
)

// PoincarePanel is one side of a Poincaré diagram: the lag-1 embedding of a
// period, with an optional least-squares fit.
type PoincarePanel struct {
	Title string
	X     []float64 // x(n)
	Y     []float64 // x(n+1)

	HasFit    bool
	Intercept float64
	Slope     float64
}

const (
	poincareWidth  = 1500
	poincareHeight = 520
)

// Poincare renders a two-panel Poincaré diagram: scatter of x(n) against
// x(n+1) per period, with a red regression line labelled with its rounded
// coefficients and an orange identity line.
func Poincare(before, after PoincarePanel) ([]byte, error) {
	if len(before.X) == 0 || len(after.X) == 0 {
		return nil, fmt.Errorf("poincare: both panels need at least one pair")
	}

	c := newCanvas(poincareWidth, poincareHeight)
	c.text("Poincare Diagrams", poincareWidth/2-textWidth("Poincare Diagrams")/2, 22, black)

	const (
		marginLeft = 70
		marginTop  = 50
		marginBot  = 50
		gap        = 90
	)
	panelW := (poincareWidth - 2*marginLeft - gap) / 2
	panelH := poincareHeight - marginTop - marginBot

	panels := []PoincarePanel{before, after}
	for i, pp := range panels {
		x0 := marginLeft + i*(panelW+gap)
		rect := image.Rect(x0, marginTop, x0+panelW, marginTop+panelH)
		p := newPanel(rect, pp.X, pp.Y)

		c.yTicks(p, 5)
		c.xTicks(p, 6)
		c.frame(p)
		c.scatter(p, pp.X, pp.Y, scatterBlu)

		if pp.HasFit {
			fitY0 := pp.Intercept + pp.Slope*p.xmin
			fitY1 := pp.Intercept + pp.Slope*p.xmax
			c.polyline(p, []float64{p.xmin, p.xmax}, []float64{fitY0, fitY1}, lineRed)
		}
		// Identity line x(n+1) = x(n).
		c.polyline(p, []float64{p.xmin, p.xmax}, []float64{p.xmin, p.xmax}, lineOrange)

		c.text(pp.Title, rect.Min.X+rect.Dx()/2-textWidth(pp.Title)/2, marginTop-10, black)
		c.text("x(n)", rect.Min.X+rect.Dx()/2-textWidth("x(n)")/2, rect.Max.Y+32, axisGray)
		c.text("x(n+1)", rect.Min.X-60, rect.Min.Y-6, axisGray)

		drawPoincareLegend(c, rect.Min.X+10, rect.Min.Y+18, pp)
	}

	return c.encode()
}

func drawPoincareLegend(c *canvas, x, y int, pp PoincarePanel) {
	if pp.HasFit {
		c.line(x, y-4, x+24, y-4, lineRed)
		c.text(fmt.Sprintf("x(n+1) = %.2f + %.2f x(n)", pp.Intercept, pp.Slope), x+30, y, black)
		y += 18
	}
	c.line(x, y-4, x+24, y-4, lineOrange)
	c.text("x(n+1) = x(n)", x+30, y, black)
}
