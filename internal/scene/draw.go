package scene

import (
	"math"
	"sort"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"

	"geomap3d/internal/vecmath"
)

var (
	white  = colorful.Color{R: 1, G: 1, B: 1}
	axisX  = colorful.Color{R: 1, G: 0.2, B: 0.2}
	axisY  = colorful.Color{R: 0.2, G: 1, B: 0.2}
	axisZ  = colorful.Color{R: 0.3, G: 0.5, B: 1}
	upward = vecmath.Vec3{Z: 1}
)

// side is one wall quad of an extruded ring, in screen space.
type side struct {
	pts    []vecmath.Vec2
	normal vecmath.Vec3
	depth  float64
}

// block is one extruded polygon, in screen space.
type block struct {
	sides []side
	top   [][]vecmath.Vec2
	depth float64
}

func (o *Overlay) rasterize() {
	o.canvas.Clear()
	if o.opts.ShowTiles {
		o.view.DrawBaseLayer(o.canvas, o.opts.GridColor)
	}
	for _, m := range o.drawOrder() {
		switch v := m.(type) {
		case *ExtrudePolygon:
			o.drawExtrude(v)
		case *FatLines:
			o.drawLines(v)
		case *AxesHelper:
			o.drawAxes(v)
		}
	}
}

// drawOrder sorts far meshes first. Lines sort after blocks at equal depth,
// so an area's outline lands on its own top face.
func (o *Overlay) drawOrder() []Mesh {
	ms := o.Meshes()
	depth := make(map[Mesh]float64, len(ms))
	for _, m := range ms {
		depth[m] = o.depth(m)
	}
	sort.SliceStable(ms, func(i, j int) bool {
		di, dj := depth[ms[i]], depth[ms[j]]
		if di != dj {
			return di < dj
		}
		return rank(ms[i]) < rank(ms[j])
	})
	return ms
}

func rank(m Mesh) int {
	switch m.(type) {
	case *ExtrudePolygon:
		return 0
	case *FatLines:
		return 1
	}
	return 2
}

// depth is the screen y of the mesh footprint centre. Larger is nearer.
func (o *Overlay) depth(m Mesh) float64 {
	var b orb.Bound
	switch v := m.(type) {
	case *ExtrudePolygon:
		b = v.polygons.Bound()
	case *FatLines:
		if len(v.lines) == 0 {
			return math.Inf(1)
		}
		b = v.lines[0].Bound()
		for _, ls := range v.lines[1:] {
			b = b.Union(ls.Bound())
		}
	default:
		return math.Inf(1)
	}
	return o.view.ProjectCoordinate(b.Center()).Y
}

func (o *Overlay) project(w vecmath.Vec3, alt float64) vecmath.Vec2 {
	w.Z = alt
	return o.view.Project(w)
}

// blocks projects e at its current altitude and scale.
func (o *Overlay) blocks(e *ExtrudePolygon) []block {
	bottom := e.altitude
	top := e.altitude + e.height*e.obj.scale.Z
	out := make([]block, 0, len(e.world))
	for _, rings := range e.world {
		if len(rings) == 0 || len(rings[0]) == 0 {
			continue
		}
		var b block
		outer := rings[0]
		sign := 1.0
		if signedArea(outer) < 0 {
			sign = -1
		}
		n := len(outer)
		for i := 0; i < n; i++ {
			a, c := outer[i], outer[(i+1)%n]
			if a.X == c.X && a.Y == c.Y {
				continue
			}
			normal := vecmath.Vec3{X: (c.Y - a.Y) * sign, Y: -(c.X - a.X) * sign}.Normalize()
			pa, pc := o.project(a, bottom), o.project(c, bottom)
			b.sides = append(b.sides, side{
				pts:    []vecmath.Vec2{pa, pc, o.project(c, top), o.project(a, top)},
				normal: normal,
				depth:  (pa.Y + pc.Y) / 2,
			})
		}
		sort.SliceStable(b.sides, func(i, j int) bool { return b.sides[i].depth < b.sides[j].depth })
		b.top = make([][]vecmath.Vec2, len(rings))
		var sum float64
		for i, r := range rings {
			pts := make([]vecmath.Vec2, len(r))
			for k, w := range r {
				pts[k] = o.project(w, top)
			}
			b.top[i] = pts
		}
		for _, w := range outer {
			sum += o.project(w, bottom).Y
		}
		b.depth = sum / float64(n)
		out = append(out, b)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].depth < out[j].depth })
	return out
}

func (o *Overlay) drawExtrude(e *ExtrudePolygon) {
	m := e.symbol
	base := white
	if m != nil {
		base = m.Color
	}
	topBase := base
	if e.hasTop && (m == nil || m.Kind == Phong) {
		topBase = e.topColor
	}
	topColor := o.scene.Shade(topBase, upward, m)
	for _, b := range o.blocks(e) {
		for _, s := range b.sides {
			o.canvas.FillPolygon([][]vecmath.Vec2{s.pts}, o.scene.Shade(base, s.normal, m))
		}
		o.canvas.FillPolygon(b.top, topColor)
	}
}

func (o *Overlay) drawLines(f *FatLines) {
	col := white
	if f.material != nil {
		col = f.material.Color
	}
	for _, line := range f.world {
		if len(line) < 2 {
			continue
		}
		pts := make([]vecmath.Vec2, len(line))
		for i, w := range line {
			pts[i] = o.project(w, f.altitude)
		}
		o.canvas.Polyline(pts, false, col)
	}
}

func (o *Overlay) drawAxes(a *AxesHelper) {
	p := a.Position
	origin := o.view.Project(p)
	o.canvas.Line(origin, o.view.Project(p.Add(vecmath.Vec3{X: a.Size})), axisX)
	o.canvas.Line(origin, o.view.Project(p.Add(vecmath.Vec3{Y: a.Size})), axisY)
	o.canvas.Line(origin, o.view.Project(p.Add(vecmath.Vec3{Z: a.Size})), axisZ)
}

// signedArea is positive for counter-clockwise rings.
func signedArea(r []vecmath.Vec3) float64 {
	var s float64
	for i := range r {
		a, b := r[i], r[(i+1)%len(r)]
		s += a.X*b.Y - b.X*a.Y
	}
	return s / 2
}
