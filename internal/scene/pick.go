package scene

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"

	"geomap3d/internal/vecmath"
)

// Pick returns the nearest interactive mesh under the micro-pixel x, y.
func (o *Overlay) Pick(x, y float64) Mesh {
	if o.view == nil {
		return nil
	}
	pt := orb.Point{x, y}
	order := o.drawOrder()
	for i := len(order) - 1; i >= 0; i-- {
		m := order[i]
		if !m.Interactive() {
			continue
		}
		e, ok := m.(*ExtrudePolygon)
		if ok && o.hit(e, pt) {
			return m
		}
	}
	return nil
}

func (o *Overlay) hit(e *ExtrudePolygon, pt orb.Point) bool {
	for _, b := range o.blocks(e) {
		poly := make(orb.Polygon, len(b.top))
		for i, r := range b.top {
			poly[i] = toRing(r)
		}
		if planar.PolygonContains(poly, pt) {
			return true
		}
		for _, s := range b.sides {
			if planar.RingContains(toRing(s.pts), pt) {
				return true
			}
		}
	}
	return false
}

func toRing(pts []vecmath.Vec2) orb.Ring {
	r := make(orb.Ring, 0, len(pts)+1)
	for _, p := range pts {
		r = append(r, orb.Point{p.X, p.Y})
	}
	if len(r) > 0 && r[0] != r[len(r)-1] {
		r = append(r, r[0])
	}
	return r
}

// HandlePointer dispatches mouseout, mouseover and mousemove for a pointer at
// micro-pixel x, y.
func (o *Overlay) HandlePointer(x, y float64) {
	hit := o.Pick(x, y)
	if hit != o.hovered {
		if prev := o.hovered; prev != nil {
			o.hovered = nil
			prev.Fire(Event{Type: EventMouseOut, Target: prev, X: x, Y: y})
		}
		o.hovered = hit
		if hit != nil {
			hit.Fire(Event{Type: EventMouseOver, Target: hit, X: x, Y: y})
		}
	}
	if hit != nil {
		hit.Fire(Event{Type: EventMouseMove, Target: hit, X: x, Y: y})
	}
}

// HandleClick fires click on the mesh under x, y and returns it.
func (o *Overlay) HandleClick(x, y float64) Mesh {
	hit := o.Pick(x, y)
	if hit != nil {
		hit.Fire(Event{Type: EventClick, Target: hit, X: x, Y: y})
	}
	return hit
}

// Hovered returns the mesh currently under the pointer.
func (o *Overlay) Hovered() Mesh { return o.hovered }
