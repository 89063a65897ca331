// Package mapview is the 2D map camera: center, zoom, pitch and bearing over a
// Web Mercator plane, plus the tile layer drawn beneath the 3D overlay.
package mapview

import (
	"math"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/project"

	"geomap3d/internal/render"
	"geomap3d/internal/vecmath"
)

const (
	earthRadius = 6378137.0
	tileSize    = 256.0
	maxLat      = 85.05112878
	maxPitch    = 80.0
)

// ChangeKind says what changed on the camera.
type ChangeKind int

const (
	ChangeMove ChangeKind = iota
	ChangeZoom
	ChangePitch
	ChangeRotate
	ChangeResize
)

// View holds the camera state. Sizes are in canvas micro-pixels.
type View struct {
	opts      Options
	center    orb.Point
	zoom      float64
	pitch     float64
	bearing   float64
	width     int
	height    int
	listeners []func(ChangeKind)
}

// New builds a view from the defaults with opts applied on top.
func New(opts ...Option) *View {
	o := DefaultOptions()
	for _, fn := range opts {
		fn(&o)
	}
	if o.MaxZoom < o.MinZoom {
		o.MaxZoom = o.MinZoom
	}
	v := &View{
		opts:    o,
		center:  o.Center,
		width:   160,
		height:  96,
		bearing: normBearing(o.Bearing),
	}
	v.zoom = v.clampZoom(o.Zoom)
	v.pitch = clampPitch(o.Pitch)
	return v
}

// Options returns the options the view was built with.
func (v *View) Options() Options { return v.opts }

// Gestures returns the enabled interactions.
func (v *View) Gestures() Gestures { return v.opts.Gestures }

// BaseLayer returns the tile layer, possibly nil.
func (v *View) BaseLayer() *TileLayer { return v.opts.BaseLayer }

func (v *View) Center() orb.Point { return v.center }
func (v *View) Zoom() float64     { return v.zoom }
func (v *View) Pitch() float64    { return v.pitch }
func (v *View) Bearing() float64  { return v.bearing }

// Size returns the viewport in micro-pixels.
func (v *View) Size() (w, h int) { return v.width, v.height }

// OnChange registers fn for every camera change.
func (v *View) OnChange(fn func(ChangeKind)) {
	v.listeners = append(v.listeners, fn)
}

func (v *View) emit(k ChangeKind) {
	for _, fn := range v.listeners {
		fn(k)
	}
}

func (v *View) SetCenter(c orb.Point) {
	c[1] = math.Max(-maxLat, math.Min(maxLat, c[1]))
	if c == v.center {
		return
	}
	v.center = c
	v.emit(ChangeMove)
}

// SetZoom sets the zoom, clamped to the configured range.
func (v *View) SetZoom(z float64) {
	z = v.clampZoom(z)
	if z == v.zoom {
		return
	}
	v.zoom = z
	v.emit(ChangeZoom)
}

func (v *View) SetPitch(p float64) {
	p = clampPitch(p)
	if p == v.pitch {
		return
	}
	v.pitch = p
	v.emit(ChangePitch)
}

func (v *View) SetBearing(b float64) {
	b = normBearing(b)
	if b == v.bearing {
		return
	}
	v.bearing = b
	v.emit(ChangeRotate)
}

// Resize sets the viewport size in micro-pixels.
func (v *View) Resize(w, h int) {
	if w == v.width && h == v.height {
		return
	}
	v.width, v.height = w, h
	v.emit(ChangeResize)
}

// PanBy moves the center by a screen offset in micro-pixels.
func (v *View) PanBy(dx, dy float64) {
	v.SetCenter(v.Unproject(float64(v.width)/2+dx, float64(v.height)/2+dy))
}

// FitBounds centers on b and picks the largest zoom showing all of it inside
// the viewport minus padding. The zoom is still clamped to the view's range.
func (v *View) FitBounds(b orb.Bound, padding float64) {
	lo := project.WGS84.ToMercator(b.Min)
	hi := project.WGS84.ToMercator(b.Max)
	mid := project.Mercator.ToWGS84(orb.Point{(lo[0] + hi[0]) / 2, (lo[1] + hi[1]) / 2})
	v.SetCenter(mid)

	wm, hm := hi[0]-lo[0], (hi[1]-lo[1])*math.Cos(rad(v.pitch))
	aw := math.Max(1, float64(v.width)-2*padding)
	ah := math.Max(1, float64(v.height)-2*padding)
	res := math.Max(wm/aw, hm/ah)
	if res <= 0 {
		return
	}
	v.SetZoom(math.Log2(2 * math.Pi * earthRadius / (tileSize * res)))
}

// Resolution returns mercator metres per micro-pixel at the current zoom.
func (v *View) Resolution() float64 {
	return 2 * math.Pi * earthRadius / (tileSize * math.Exp2(v.zoom))
}

// CoordinateToWorld converts lon/lat plus altitude in metres to world space.
func (v *View) CoordinateToWorld(p orb.Point, altitude float64) vecmath.Vec3 {
	m := project.WGS84.ToMercator(p)
	return vecmath.Vec3{X: m[0], Y: m[1], Z: altitude}
}

// WorldToCoordinate drops altitude and converts back to lon/lat.
func (v *View) WorldToCoordinate(w vecmath.Vec3) orb.Point {
	return project.Mercator.ToWGS84(orb.Point{w.X, w.Y})
}

// Project maps a world position to screen micro-pixels. Altitude lifts the
// point towards the top of the screen by the sine of the pitch.
func (v *View) Project(w vecmath.Vec3) vecmath.Vec2 {
	c := v.CoordinateToWorld(v.center, 0)
	dx, dy := w.X-c.X, w.Y-c.Y
	sinB, cosB := math.Sincos(rad(v.bearing))
	rx := dx*cosB - dy*sinB
	ry := dx*sinB + dy*cosB

	// altitude metres to mercator units at the view's latitude
	zm := w.Z / math.Cos(rad(v.center[1]))
	sinP, cosP := math.Sincos(rad(v.pitch))
	res := v.Resolution()
	return vecmath.Vec2{
		X: float64(v.width)/2 + rx/res,
		Y: float64(v.height)/2 - (ry*cosP+zm*sinP)/res,
	}
}

// ProjectCoordinate is Project for a ground-level lon/lat.
func (v *View) ProjectCoordinate(p orb.Point) vecmath.Vec2 {
	return v.Project(v.CoordinateToWorld(p, 0))
}

// Unproject maps a screen position back to the lon/lat on the ground plane.
func (v *View) Unproject(x, y float64) orb.Point {
	res := v.Resolution()
	cosP := math.Cos(rad(v.pitch))
	rx := (x - float64(v.width)/2) * res
	ry := (float64(v.height)/2 - y) * res / cosP
	sinB, cosB := math.Sincos(rad(v.bearing))
	dx := rx*cosB + ry*sinB
	dy := -rx*sinB + ry*cosB
	c := v.CoordinateToWorld(v.center, 0)
	return v.WorldToCoordinate(vecmath.Vec3{X: c.X + dx, Y: c.Y + dy})
}

// DrawBaseLayer draws the outline of every visible tile.
func (v *View) DrawBaseLayer(c *render.Canvas, col colorful.Color) {
	if v.opts.BaseLayer == nil {
		return
	}
	for _, t := range v.opts.BaseLayer.VisibleTiles(v) {
		b := t.Bound()
		pts := []vecmath.Vec2{
			v.ProjectCoordinate(orb.Point{b.Min[0], b.Min[1]}),
			v.ProjectCoordinate(orb.Point{b.Max[0], b.Min[1]}),
			v.ProjectCoordinate(orb.Point{b.Max[0], b.Max[1]}),
			v.ProjectCoordinate(orb.Point{b.Min[0], b.Max[1]}),
		}
		c.Polyline(pts, true, col)
	}
}

func (v *View) clampZoom(z float64) float64 {
	return math.Max(v.opts.MinZoom, math.Min(v.opts.MaxZoom, z))
}

func clampPitch(p float64) float64 {
	return math.Max(0, math.Min(maxPitch, p))
}

func normBearing(b float64) float64 {
	b = math.Mod(b, 360)
	if b < 0 {
		b += 360
	}
	return b
}

func rad(deg float64) float64 {
	return deg * math.Pi / 180
}
