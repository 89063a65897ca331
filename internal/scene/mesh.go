package scene

import (
	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geomap3d/internal/vecmath"
)

// Object3D is the transform of a mesh. Changing it marks the owning overlay
// dirty.
type Object3D struct {
	scale   vecmath.Vec3
	touched func()
}

func newObject3D(touched func()) Object3D {
	return Object3D{scale: vecmath.Vec3{X: 1, Y: 1, Z: 1}, touched: touched}
}

// Scale returns the per-axis scale.
func (o *Object3D) Scale() vecmath.Vec3 { return o.scale }

// SetScale sets the per-axis scale.
func (o *Object3D) SetScale(s vecmath.Vec3) {
	if o.scale == s {
		return
	}
	o.scale = s
	o.touched()
}

// Mesh is anything an overlay can hold and draw.
type Mesh interface {
	Object3D() *Object3D
	Altitude() float64
	SetAltitude(alt float64)
	Interactive() bool
	On(event string, h Handler)
	Fire(e Event)

	base() *baseMesh
}

type baseMesh struct {
	obj         Object3D
	altitude    float64
	interactive bool
	events      dispatcher
	layer       *Overlay
}

func (b *baseMesh) init(interactive bool, altitude float64) {
	b.interactive = interactive
	b.altitude = altitude
	b.obj = newObject3D(b.touch)
}

func (b *baseMesh) touch() {
	if b.layer != nil {
		b.layer.MarkDirty()
	}
}

func (b *baseMesh) base() *baseMesh            { return b }
func (b *baseMesh) Object3D() *Object3D        { return &b.obj }
func (b *baseMesh) Altitude() float64          { return b.altitude }
func (b *baseMesh) Interactive() bool          { return b.interactive }
func (b *baseMesh) On(event string, h Handler) { b.events.on(event, h) }
func (b *baseMesh) Fire(e Event)               { b.events.fire(e) }

func (b *baseMesh) SetAltitude(alt float64) {
	if b.altitude == alt {
		return
	}
	b.altitude = alt
	b.touch()
}

// ExtrudeOptions configures ToExtrudePolygon.
type ExtrudeOptions struct {
	Height      float64
	Altitude    float64
	Interactive bool
	TopColor    string
}

// ExtrudePolygon is a polygon footprint pushed up to Height metres. The
// object Z scale multiplies the height.
type ExtrudePolygon struct {
	baseMesh
	feature  *geojson.Feature
	polygons orb.MultiPolygon
	world    [][][]vecmath.Vec3
	height   float64
	topColor colorful.Color
	hasTop   bool
	symbol   *Material
}

// Feature returns the source feature.
func (e *ExtrudePolygon) Feature() *geojson.Feature { return e.feature }

// Polygons returns the lon/lat footprint.
func (e *ExtrudePolygon) Polygons() orb.MultiPolygon { return e.polygons }

// Height returns the unscaled extrusion height.
func (e *ExtrudePolygon) Height() float64 { return e.height }

// TopColor returns the colour of the top face, if one was set.
func (e *ExtrudePolygon) TopColor() (colorful.Color, bool) { return e.topColor, e.hasTop }

// Symbol returns the current material.
func (e *ExtrudePolygon) Symbol() *Material { return e.symbol }

// SetSymbol swaps the material.
func (e *ExtrudePolygon) SetSymbol(m *Material) {
	if e.symbol == m {
		return
	}
	e.symbol = m
	e.touch()
}

// LineOptions configures ToFatLines.
type LineOptions struct {
	Altitude    float64
	Interactive bool
}

// FatLines is a set of screen-width lines floating at a fixed altitude.
type FatLines struct {
	baseMesh
	lines    []orb.LineString
	world    [][]vecmath.Vec3
	material *Material
}

// Lines returns the lon/lat lines.
func (f *FatLines) Lines() []orb.LineString { return f.lines }

// Material returns the line material.
func (f *FatLines) Material() *Material { return f.material }

// AxesHelper draws the X (red), Y (green) and Z (blue) axes from Position.
type AxesHelper struct {
	baseMesh
	Size     float64
	Position vecmath.Vec3
}

// NewAxesHelper returns axes of the given length in world units.
func NewAxesHelper(size float64) *AxesHelper {
	a := &AxesHelper{Size: size}
	a.init(false, 0)
	return a
}
