package plot

import (
	"fmt"
	"image"
)

const (
	screeWidth  = 900
	screeHeight = 540
)

// Scree renders a scree diagram of singular values: value against component
// index, points joined by a line.
func Scree(values []float64, title string) ([]byte, error) {
	if len(values) == 0 {
		return nil, fmt.Errorf("scree: no singular values")
	}

	xs := make([]float64, len(values))
	for i := range values {
		xs[i] = float64(i + 1)
	}

	c := newCanvas(screeWidth, screeHeight)
	if title == "" {
		title = "Singular values"
	}
	c.text(title, screeWidth/2-textWidth(title)/2, 22, black)

	rect := image.Rect(90, 45, screeWidth-35, screeHeight-60)
	p := newPanel(rect, xs, values)

	c.yTicks(p, 6)
	c.xTicks(p, 10)
	c.frame(p)
	c.polyline(p, xs, values, scatterBlu)
	for i := range xs {
		if p.contains(xs[i], values[i]) {
			c.dot(p.px(xs[i]), p.py(values[i]), 3, scatterBlu)
		}
	}

	c.text("component", rect.Min.X+rect.Dx()/2-textWidth("component")/2, rect.Max.Y+34, axisGray)
	c.text("sigma", rect.Min.X-70, rect.Min.Y-6, axisGray)

	return c.encode()
}
