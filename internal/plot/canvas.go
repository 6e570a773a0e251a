package plot

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"math"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"
)

var (
	white      = color.RGBA{255, 255, 255, 255}
	black      = color.RGBA{20, 20, 20, 255}
	gridGray   = color.RGBA{220, 220, 220, 255}
	axisGray   = color.RGBA{90, 90, 90, 255}
	scatterBlu = color.RGBA{31, 119, 180, 255}
	lineRed    = color.RGBA{214, 39, 40, 255}
	lineOrange = color.RGBA{255, 127, 14, 255}
)

// canvas wraps an RGBA image with pixel-level drawing helpers.
type canvas struct {
	img *image.RGBA
}

func newCanvas(w, h int) *canvas {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	c := &canvas{img: img}
	c.fill(white)
	return c
}

func (c *canvas) fill(col color.RGBA) {
	b := c.img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c.img.SetRGBA(x, y, col)
		}
	}
}

func (c *canvas) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, c.img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

// line draws with integer Bresenham stepping, clipped to the image.
func (c *canvas) line(x0, y0, x1, y1 int, col color.RGBA) {
	dx := abs(x1 - x0)
	dy := -abs(y1 - y0)
	sx := 1
	if x0 > x1 {
		sx = -1
	}
	sy := 1
	if y0 > y1 {
		sy = -1
	}
	err := dx + dy

	for {
		c.set(x0, y0, col)
		if x0 == x1 && y0 == y1 {
			return
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// dot draws a small filled disc, the scatter marker.
func (c *canvas) dot(x, y, r int, col color.RGBA) {
	for dy := -r; dy <= r; dy++ {
		for dx := -r; dx <= r; dx++ {
			if dx*dx+dy*dy <= r*r {
				c.set(x+dx, y+dy, col)
			}
		}
	}
}

func (c *canvas) set(x, y int, col color.RGBA) {
	if image.Pt(x, y).In(c.img.Bounds()) {
		c.img.SetRGBA(x, y, col)
	}
}

// text draws a string with its baseline at (x, y).
func (c *canvas) text(s string, x, y int, col color.RGBA) {
	d := &font.Drawer{
		Dst:  c.img,
		Src:  image.NewUniform(col),
		Face: basicfont.Face7x13,
		Dot:  fixed.Point26_6{X: fixed.I(x), Y: fixed.I(y)},
	}
	d.DrawString(s)
}

// textWidth measures a string in pixels under the canvas font.
func textWidth(s string) int {
	return font.MeasureString(basicfont.Face7x13, s).Ceil()
}

// panel maps a data rectangle onto a pixel rectangle.
type panel struct {
	rect                   image.Rectangle
	xmin, xmax, ymin, ymax float64
}

func newPanel(rect image.Rectangle, xs, ys []float64) panel {
	xmin, xmax := dataRange(xs)
	ymin, ymax := dataRange(ys)
	return panel{rect: rect, xmin: xmin, xmax: xmax, ymin: ymin, ymax: ymax}
}

// dataRange pads the finite extent of xs by 5% so points clear the frame.
// A flat or empty series gets a unit range to keep the mapping defined.
func dataRange(xs []float64) (lo, hi float64) {
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, x := range xs {
		if math.IsNaN(x) || math.IsInf(x, 0) {
			continue
		}
		lo = math.Min(lo, x)
		hi = math.Max(hi, x)
	}
	if lo > hi {
		return 0, 1
	}
	if lo == hi {
		return lo - 0.5, hi + 0.5
	}
	pad := (hi - lo) * 0.05
	return lo - pad, hi + pad
}

func (p panel) px(x float64) int {
	frac := (x - p.xmin) / (p.xmax - p.xmin)
	return p.rect.Min.X + int(frac*float64(p.rect.Dx()-1)+0.5)
}

func (p panel) py(y float64) int {
	frac := (y - p.ymin) / (p.ymax - p.ymin)
	return p.rect.Max.Y - 1 - int(frac*float64(p.rect.Dy()-1)+0.5)
}

func (p panel) contains(x, y float64) bool {
	return !math.IsNaN(x) && !math.IsNaN(y) &&
		x >= p.xmin && x <= p.xmax && y >= p.ymin && y <= p.ymax
}

// frame draws the panel border.
func (c *canvas) frame(p panel) {
	r := p.rect
	c.line(r.Min.X, r.Min.Y, r.Max.X-1, r.Min.Y, axisGray)
	c.line(r.Min.X, r.Max.Y-1, r.Max.X-1, r.Max.Y-1, axisGray)
	c.line(r.Min.X, r.Min.Y, r.Min.X, r.Max.Y-1, axisGray)
	c.line(r.Max.X-1, r.Min.Y, r.Max.X-1, r.Max.Y-1, axisGray)
}

// scatter plots the pairs as discs, skipping points outside the panel.
func (c *canvas) scatter(p panel, xs, ys []float64, col color.RGBA) {
	for i := range xs {
		if !p.contains(xs[i], ys[i]) {
			continue
		}
		c.dot(p.px(xs[i]), p.py(ys[i]), 2, col)
	}
}

// polyline connects consecutive finite points; NaN breaks the line.
func (c *canvas) polyline(p panel, xs, ys []float64, col color.RGBA) {
	havePrev := false
	var prevX, prevY int
	for i := range xs {
		if math.IsNaN(xs[i]) || math.IsNaN(ys[i]) {
			havePrev = false
			continue
		}
		x, y := p.px(xs[i]), p.py(ys[i])
		if havePrev {
			c.line(prevX, prevY, x, y, col)
		}
		prevX, prevY = x, y
		havePrev = true
	}
}

// yTicks draws about n horizontal gridlines with value labels.
func (c *canvas) yTicks(p panel, n int) {
	step := niceStep(p.ymax-p.ymin, n)
	if step <= 0 {
		return
	}
	for v := math.Ceil(p.ymin/step) * step; v <= p.ymax; v += step {
		y := p.py(v)
		c.line(p.rect.Min.X, y, p.rect.Max.X-1, y, gridGray)
		label := trimFloat(v)
		c.text(label, p.rect.Min.X-textWidth(label)-6, y+4, axisGray)
	}
}

// xTicks draws about n vertical gridlines with value labels.
func (c *canvas) xTicks(p panel, n int) {
	step := niceStep(p.xmax-p.xmin, n)
	if step <= 0 {
		return
	}
	for v := math.Ceil(p.xmin/step) * step; v <= p.xmax; v += step {
		x := p.px(v)
		c.line(x, p.rect.Min.Y, x, p.rect.Max.Y-1, gridGray)
		label := trimFloat(v)
		c.text(label, x-textWidth(label)/2, p.rect.Max.Y+14, axisGray)
	}
}

// niceStep picks a 1/2/5-scaled tick interval giving roughly n ticks.
func niceStep(span float64, n int) float64 {
	if span <= 0 || n < 1 {
		return 0
	}
	raw := span / float64(n)
	mag := math.Pow(10, math.Floor(math.Log10(raw)))
	switch {
	case raw/mag < 1.5:
		return mag
	case raw/mag < 3.5:
		return 2 * mag
	case raw/mag < 7.5:
		return 5 * mag
	default:
		return 10 * mag
	}
}

func trimFloat(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e6 {
		return fmt.Sprintf("%.0f", v)
	}
	return fmt.Sprintf("%.2f", v)
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
