// Package render rasterizes projected geometry onto a colour braille canvas.
package render

import (
	"math"
	"sort"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"geomap3d/internal/vecmath"
)

// Canvas is a terminal drawing surface addressed in micro-pixels: two columns
// and four rows per character cell.
type Canvas struct {
	buf    *brailleBuf
	styles map[string]lipgloss.Style
}

// NewCanvas returns a canvas of w by h character cells.
func NewCanvas(w, h int) *Canvas {
	return &Canvas{
		buf:    newBrailleBuf(max(w, 1), max(h, 1)),
		styles: make(map[string]lipgloss.Style),
	}
}

// Cells returns the size in character cells.
func (c *Canvas) Cells() (w, h int) {
	return c.buf.w, c.buf.h
}

// Size returns the size in micro-pixels.
func (c *Canvas) Size() (w, h int) {
	return c.buf.w * 2, c.buf.h * 4
}

// Resize reallocates the canvas if the cell size changed.
func (c *Canvas) Resize(w, h int) {
	w, h = max(w, 1), max(h, 1)
	if w == c.buf.w && h == c.buf.h {
		return
	}
	c.buf = newBrailleBuf(w, h)
}

// Clear removes all ink.
func (c *Canvas) Clear() {
	c.buf.reset()
}

// Set inks one micro-pixel.
func (c *Canvas) Set(x, y int, col colorful.Color) {
	c.buf.setPixel(x, y, col)
}

// Inked reports whether the micro-pixel at x, y is set.
func (c *Canvas) Inked(x, y int) bool {
	if x < 0 || y < 0 {
		return false
	}
	cx, cy := x/2, y/4
	if cx >= c.buf.w || cy >= c.buf.h {
		return false
	}
	return c.buf.m[cy][cx]&bit(x%2, y%4) != 0
}

// CellColor returns the colour of the last pixel written into a cell.
func (c *Canvas) CellColor(cx, cy int) (colorful.Color, bool) {
	if cx < 0 || cy < 0 || cx >= c.buf.w || cy >= c.buf.h {
		return colorful.Color{}, false
	}
	return c.buf.col[cy][cx], c.buf.inked[cy][cx]
}

// Line draws a segment between two micro-pixel positions, clipped to the canvas.
func (c *Canvas) Line(a, b vecmath.Vec2, col colorful.Color) {
	w, h := c.Size()
	a, b, ok := clip(a, b, float64(w-1), float64(h-1))
	if !ok {
		return
	}
	c.buf.drawLineMicro(round(a.X), round(a.Y), round(b.X), round(b.Y), col)
}

// Polyline draws consecutive segments; closed joins the last point to the first.
func (c *Canvas) Polyline(pts []vecmath.Vec2, closed bool, col colorful.Color) {
	for i := 0; i+1 < len(pts); i++ {
		c.Line(pts[i], pts[i+1], col)
	}
	if closed && len(pts) > 2 {
		c.Line(pts[len(pts)-1], pts[0], col)
	}
}

// FillPolygon fills rings with the even-odd rule, so inner rings become holes.
func (c *Canvas) FillPolygon(rings [][]vecmath.Vec2, col colorful.Color) {
	w, h := c.Size()
	minY, maxY := math.Inf(1), math.Inf(-1)
	for _, r := range rings {
		for _, p := range r {
			minY = math.Min(minY, p.Y)
			maxY = math.Max(maxY, p.Y)
		}
	}
	if math.IsInf(minY, 0) {
		return
	}
	y0 := max(0, int(math.Floor(minY)))
	y1 := min(h-1, int(math.Ceil(maxY)))
	var xs []float64
	for y := y0; y <= y1; y++ {
		sy := float64(y) + 0.5
		xs = xs[:0]
		for _, r := range rings {
			for i := range r {
				a := r[i]
				b := r[(i+1)%len(r)]
				if a.Y == b.Y { // horizontal edge: skip
					continue
				}
				if (sy >= a.Y && sy < b.Y) || (sy >= b.Y && sy < a.Y) {
					t := (sy - a.Y) / (b.Y - a.Y)
					xs = append(xs, a.X+t*(b.X-a.X))
				}
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Float64s(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			xstart := max(0, int(math.Ceil(xs[i]-0.5)))
			xend := min(w-1, int(math.Floor(xs[i+1]-0.5)))
			for x := xstart; x <= xend; x++ {
				c.buf.setPixel(x, y, col)
			}
		}
	}
}

// Lines returns the canvas rows without colour.
func (c *Canvas) Lines() []string {
	return c.buf.toLines()
}

// String renders the canvas with one foreground colour per cell, merging runs
// of equally coloured cells into a single styled span.
func (c *Canvas) String() string {
	var sb strings.Builder
	b := c.buf
	for y := 0; y < b.h; y++ {
		if y > 0 {
			sb.WriteByte('\n')
		}
		var run []rune
		runKey := ""
		flush := func() {
			if len(run) == 0 {
				return
			}
			if runKey == "" {
				sb.WriteString(string(run))
			} else {
				sb.WriteString(c.style(runKey).Render(string(run)))
			}
			run = run[:0]
		}
		for x := 0; x < b.w; x++ {
			key := ""
			if b.m[y][x] != 0 && b.inked[y][x] {
				key = b.col[y][x].Clamped().Hex()
			}
			if key != runKey {
				flush()
				runKey = key
			}
			run = append(run, b.glyph(x, y))
		}
		flush()
	}
	return sb.String()
}

func (c *Canvas) style(hex string) lipgloss.Style {
	s, ok := c.styles[hex]
	if !ok {
		s = lipgloss.NewStyle().Foreground(lipgloss.Color(hex))
		c.styles[hex] = s
	}
	return s
}

// clip trims segment ab to [0,maxX]x[0,maxY] (Liang-Barsky).
func clip(a, b vecmath.Vec2, maxX, maxY float64) (vecmath.Vec2, vecmath.Vec2, bool) {
	if anyNaN(a) || anyNaN(b) {
		return a, b, false
	}
	dx, dy := b.X-a.X, b.Y-a.Y
	t0, t1 := 0.0, 1.0
	edges := [4][2]float64{
		{-dx, a.X},
		{dx, maxX - a.X},
		{-dy, a.Y},
		{dy, maxY - a.Y},
	}
	for _, e := range edges {
		p, q := e[0], e[1]
		if p == 0 {
			if q < 0 {
				return a, b, false
			}
			continue
		}
		r := q / p
		if p < 0 {
			if r > t1 {
				return a, b, false
			}
			if r > t0 {
				t0 = r
			}
		} else {
			if r < t0 {
				return a, b, false
			}
			if r < t1 {
				t1 = r
			}
		}
	}
	na := vecmath.Vec2{X: a.X + t0*dx, Y: a.Y + t0*dy}
	nb := vecmath.Vec2{X: a.X + t1*dx, Y: a.Y + t1*dy}
	return na, nb, true
}

func anyNaN(v vecmath.Vec2) bool {
	return math.IsNaN(v.X) || math.IsNaN(v.Y) || math.IsInf(v.X, 0) || math.IsInf(v.Y, 0)
}

func round(v float64) int {
	return int(math.Round(v))
}
