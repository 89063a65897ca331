// Package scene is the 3D overlay rendered on top of a map view: meshes,
// materials, lights, picking and the braille rasterizer that draws them.
package scene

import (
	"errors"
	"fmt"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"geomap3d/internal/frame"
	"geomap3d/internal/geom"
	"geomap3d/internal/logger"
	"geomap3d/internal/mapview"
	"geomap3d/internal/render"
	"geomap3d/internal/vecmath"
)

var (
	ErrNotAttached = errors.New("overlay is not attached to a view")
	ErrNilFeature  = geom.ErrNilFeature
)

// PrepareFunc runs once, on the overlay's first frame.
type PrepareFunc func(c *render.Canvas, s *Scene)

// OverlayOptions configures an overlay.
type OverlayOptions struct {
	// Redraw whenever the camera moves or zooms.
	ForceRenderOnMoving bool
	// Redraw whenever the camera rotates or pitches.
	ForceRenderOnRotating bool
	PrepareToDraw         PrepareFunc
	// Colour of the basemap tile grid. Zero means no grid.
	GridColor colorful.Color
	ShowTiles bool
}

// Overlay owns a set of meshes drawn over a view.
type Overlay struct {
	id     string
	opts   OverlayOptions
	view   *mapview.View
	frames frame.Scheduler
	scene  Scene
	canvas *render.Canvas

	meshes   []Mesh
	prepared bool
	dirty    bool
	redraws  int
	frame    string
	hovered  Mesh
}

// NewOverlay returns a detached overlay.
func NewOverlay(id string, opts OverlayOptions) *Overlay {
	return &Overlay{
		id:     id,
		opts:   opts,
		canvas: render.NewCanvas(1, 1),
	}
}

// ID returns the overlay id.
func (o *Overlay) ID() string { return o.id }

// View returns the view the overlay is attached to, or nil.
func (o *Overlay) View() *mapview.View { return o.view }

// Scene returns the overlay's lights.
func (o *Overlay) Scene() *Scene { return &o.scene }

// Canvas returns the canvas of the last redraw.
func (o *Overlay) Canvas() *render.Canvas { return o.canvas }

// AddTo attaches the overlay to v. The prepare hook runs on the first frame
// of frames, followed by the first redraw.
func (o *Overlay) AddTo(v *mapview.View, frames frame.Scheduler) *Overlay {
	o.view = v
	o.frames = frames
	v.OnChange(o.viewChanged)
	frames.RequestFrame(o.prepare)
	return o
}

func (o *Overlay) prepare() {
	if o.prepared {
		return
	}
	o.prepared = true
	o.fitCanvas()
	logger.Debug("overlay prepare", zap.String("id", o.id))
	if o.opts.PrepareToDraw != nil {
		o.opts.PrepareToDraw(o.canvas, &o.scene)
	}
	o.Redraw()
}

// Prepared reports whether the first frame has run.
func (o *Overlay) Prepared() bool { return o.prepared }

func (o *Overlay) viewChanged(k mapview.ChangeKind) {
	switch k {
	case mapview.ChangeMove, mapview.ChangeZoom:
		if o.opts.ForceRenderOnMoving {
			o.MarkDirty()
		}
	case mapview.ChangeRotate, mapview.ChangePitch:
		if o.opts.ForceRenderOnRotating {
			o.MarkDirty()
		}
	case mapview.ChangeResize:
		o.MarkDirty()
	}
}

// AddMesh adds meshes that are not already present.
func (o *Overlay) AddMesh(ms ...Mesh) {
	for _, m := range ms {
		if m == nil || o.Contains(m) {
			continue
		}
		m.base().layer = o
		o.meshes = append(o.meshes, m)
	}
	o.MarkDirty()
}

// RemoveMesh removes meshes. Unknown meshes are ignored.
func (o *Overlay) RemoveMesh(ms ...Mesh) {
	drop := make(map[Mesh]bool, len(ms))
	for _, m := range ms {
		if m != nil {
			drop[m] = true
		}
	}
	kept := o.meshes[:0]
	for _, m := range o.meshes {
		if drop[m] {
			m.base().layer = nil
			continue
		}
		kept = append(kept, m)
	}
	clear(o.meshes[len(kept):])
	o.meshes = kept
	if o.hovered != nil && drop[o.hovered] {
		o.hovered = nil
	}
	o.MarkDirty()
}

// Meshes returns a copy of the mesh list in insertion order.
func (o *Overlay) Meshes() []Mesh {
	out := make([]Mesh, len(o.meshes))
	copy(out, o.meshes)
	return out
}

// Contains reports whether m is on the overlay.
func (o *Overlay) Contains(m Mesh) bool {
	for _, x := range o.meshes {
		if x == m {
			return true
		}
	}
	return false
}

// NeedsUpdate reports whether something changed since the last redraw.
func (o *Overlay) NeedsUpdate() bool { return o.dirty }

// MarkDirty flags the overlay for the next redraw.
func (o *Overlay) MarkDirty() { o.dirty = true }

// Redraw rasterizes every mesh and clears the dirty flag.
func (o *Overlay) Redraw() {
	o.dirty = false
	o.redraws++
	if o.view == nil {
		return
	}
	o.fitCanvas()
	o.rasterize()
	o.frame = o.canvas.String()
}

// Redraws counts calls to Redraw.
func (o *Overlay) Redraws() int { return o.redraws }

// Frame returns the rendered text of the last redraw.
func (o *Overlay) Frame() string { return o.frame }

func (o *Overlay) fitCanvas() {
	if o.view == nil {
		return
	}
	w, h := o.view.Size()
	o.canvas.Resize((w+1)/2, (h+3)/4)
}

// CoordinateToVector3 converts lon/lat and altitude to world space.
func (o *Overlay) CoordinateToVector3(p orb.Point, altitude float64) (vecmath.Vec3, error) {
	if o.view == nil {
		return vecmath.Vec3{}, ErrNotAttached
	}
	return o.view.CoordinateToWorld(p, altitude), nil
}

// ToExtrudePolygon builds a block mesh from a Polygon or MultiPolygon feature.
func (o *Overlay) ToExtrudePolygon(f *geojson.Feature, opts ExtrudeOptions, m *Material) (*ExtrudePolygon, error) {
	if o.view == nil {
		return nil, ErrNotAttached
	}
	if f == nil {
		return nil, ErrNilFeature
	}
	mp, err := geom.Polygons(f.Geometry)
	if err != nil {
		return nil, err
	}
	e := &ExtrudePolygon{
		feature:  f,
		polygons: mp,
		height:   opts.Height,
		symbol:   m,
	}
	e.init(opts.Interactive, opts.Altitude)
	if opts.TopColor != "" {
		c, err := ParseColor(opts.TopColor)
		if err != nil {
			return nil, fmt.Errorf("top color: %w", err)
		}
		e.topColor, e.hasTop = c, true
	}
	e.world = make([][][]vecmath.Vec3, len(mp))
	for i, p := range mp {
		e.world[i] = make([][]vecmath.Vec3, len(p))
		for j, r := range p {
			e.world[i][j] = o.toWorld(orb.LineString(r))
		}
	}
	return e, nil
}

// ToFatLines builds a line mesh. Lines with fewer than two points are kept
// but draw nothing.
func (o *Overlay) ToFatLines(lines []orb.LineString, opts LineOptions, m *Material) (*FatLines, error) {
	if o.view == nil {
		return nil, ErrNotAttached
	}
	fl := &FatLines{lines: lines, material: m}
	fl.init(opts.Interactive, opts.Altitude)
	fl.world = make([][]vecmath.Vec3, len(lines))
	for i, ls := range lines {
		fl.world[i] = o.toWorld(ls)
	}
	return fl, nil
}

func (o *Overlay) toWorld(ls orb.LineString) []vecmath.Vec3 {
	out := make([]vecmath.Vec3, len(ls))
	for i, p := range ls {
		out[i] = o.view.CoordinateToWorld(p, 0)
	}
	return out
}
