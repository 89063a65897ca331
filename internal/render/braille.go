package render

import "github.com/lucasb-eyer/go-colorful"

// brailleBuf is a cell grid where every cell carries a 2x4 micro-pixel mask and
// the colour of the last micro-pixel written into it.
type brailleBuf struct {
	w, h  int       // in cells
	m     [][]uint8 // per-cell 8-bit mask
	col   [][]colorful.Color
	inked [][]bool
}

func newBrailleBuf(w, h int) *brailleBuf {
	b := &brailleBuf{w: w, h: h}
	b.m = make([][]uint8, h)
	b.col = make([][]colorful.Color, h)
	b.inked = make([][]bool, h)
	for i := range b.m {
		b.m[i] = make([]uint8, w)
		b.col[i] = make([]colorful.Color, w)
		b.inked[i] = make([]bool, w)
	}
	return b
}

// bit returns the braille dot bit for micro offsets inside a cell.
func bit(rx, ry int) uint8 {
	if rx == 0 {
		switch ry {
		case 0:
			return 0x01
		case 1:
			return 0x02
		case 2:
			return 0x04
		default:
			return 0x40
		}
	}
	switch ry {
	case 0:
		return 0x08
	case 1:
		return 0x10
	case 2:
		return 0x20
	default:
		return 0x80
	}
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, c colorful.Color) {
	if mx < 0 || my < 0 {
		return
	}
	cx, rx := mx/2, mx%2
	cy, ry := my/4, my%4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= bit(rx, ry)
	b.col[cy][cx] = c
	b.inked[cy][cx] = true
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, c colorful.Color) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, c)
		if x0 == x1 && y0 == y1 {
			break
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

func (b *brailleBuf) reset() {
	for y := 0; y < b.h; y++ {
		for x := 0; x < b.w; x++ {
			b.m[y][x] = 0
			b.inked[y][x] = false
		}
	}
}

func (b *brailleBuf) glyph(x, y int) rune {
	mask := b.m[y][x]
	if mask == 0 {
		return ' '
	}
	return rune(0x2800 + int(mask))
}

func (b *brailleBuf) toLines() []string {
	out := make([]string, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]rune, b.w)
		for x := 0; x < b.w; x++ {
			row[x] = b.glyph(x, y)
		}
		out[y] = string(row)
	}
	return out
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
