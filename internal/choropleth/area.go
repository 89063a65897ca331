package choropleth

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geomap3d/internal/frame"
	"geomap3d/internal/geom"
	"geomap3d/internal/scene"
	"geomap3d/internal/vecmath"
)

// scales closer than this to a bound snap onto it
const scaleEpsilon = 1e-9

// AreaOptions shapes one extruded area and its hover animation.
type AreaOptions struct {
	Height         float64
	Color          string
	Step           float64
	MinScale       float64
	MaxScale       float64
	AltitudeOffset float64
}

// DefaultAreaOptions returns 1000 m aqua blocks that grow to twice their
// height on hover.
func DefaultAreaOptions() AreaOptions {
	return AreaOptions{
		Height:         1000,
		Color:          "aqua",
		Step:           0.1,
		MinScale:       1,
		MaxScale:       2,
		AltitudeOffset: 1,
	}
}

func (o AreaOptions) withDefaults() AreaOptions {
	d := DefaultAreaOptions()
	if o.Height == 0 {
		o.Height = d.Height
	}
	if o.Color == "" {
		o.Color = d.Color
	}
	if o.Step <= 0 {
		o.Step = d.Step
	}
	if o.MinScale == 0 && o.MaxScale == 0 {
		o.MinScale, o.MaxScale = d.MinScale, d.MaxScale
	}
	if o.MaxScale < o.MinScale {
		o.MaxScale = o.MinScale
	}
	return o
}

// Area is one feature drawn as an extruded block with an outline floating on
// its top face.
type Area struct {
	feature    *geojson.Feature
	overlay    *scene.Overlay
	frames     frame.Scheduler
	materials  *scene.Materials
	opts       AreaOptions
	poly       *scene.ExtrudePolygon
	outline    *scene.FatLines
	boundaries []orb.LineString
	scale      float64

	// bumped by every new animation; a queued step with an older token is stale
	token     uint64
	pending   frame.ID
	animating bool
}

// NewArea builds the meshes for f. They are not added to the overlay.
func NewArea(f *geojson.Feature, overlay *scene.Overlay, frames frame.Scheduler, materials *scene.Materials, opts AreaOptions) (*Area, error) {
	if f == nil {
		return nil, geom.ErrNilFeature
	}
	if materials == nil {
		return nil, fmt.Errorf("new area: nil materials")
	}
	opts = opts.withDefaults()
	boundaries, err := geom.OuterRings(f.Geometry)
	if err != nil {
		return nil, err
	}
	poly, err := overlay.ToExtrudePolygon(f, scene.ExtrudeOptions{
		Height:      opts.Height,
		Interactive: true,
		TopColor:    opts.Color,
	}, materials.Fill)
	if err != nil {
		return nil, err
	}
	outline, err := overlay.ToFatLines(boundaries, scene.LineOptions{
		Altitude: opts.Height + opts.AltitudeOffset,
	}, materials.Line)
	if err != nil {
		return nil, err
	}
	return &Area{
		feature:    f,
		overlay:    overlay,
		frames:     frames,
		materials:  materials,
		opts:       opts,
		poly:       poly,
		outline:    outline,
		boundaries: boundaries,
		scale:      opts.MinScale,
	}, nil
}

func (a *Area) Feature() *geojson.Feature    { return a.feature }
func (a *Area) Mesh() *scene.ExtrudePolygon  { return a.poly }
func (a *Area) Outline() *scene.FatLines     { return a.outline }
func (a *Area) Boundaries() []orb.LineString { return a.boundaries }
func (a *Area) Scale() float64               { return a.scale }
func (a *Area) Options() AreaOptions         { return a.opts }
func (a *Area) Animating() bool              { return a.animating }
func (a *Area) Name() string                 { return geom.Name(a.feature, "") }
func (a *Area) meshes() []scene.Mesh         { return []scene.Mesh{a.poly, a.outline} }
func (a *Area) owns(m scene.Mesh) bool       { return m == scene.Mesh(a.poly) || m == scene.Mesh(a.outline) }

// AnimateMouseOver grows the block by one step now and one per frame until
// it reaches MaxScale.
func (a *Area) AnimateMouseOver() { a.animate(1) }

// AnimateMouseOut shrinks the block back to MinScale.
func (a *Area) AnimateMouseOut() { a.animate(-1) }

// Highlight switches the block to the highlight material.
func (a *Area) Highlight() { a.poly.SetSymbol(a.materials.Highlight) }

// Fade restores the fill material.
func (a *Area) Fade() { a.poly.SetSymbol(a.materials.Fill) }

func (a *Area) animate(dir float64) {
	a.stop()
	a.token++
	a.animating = true
	a.step(a.token, dir)
}

func (a *Area) step(token uint64, dir float64) {
	if token != a.token {
		return
	}
	a.pending = 0
	next := a.scale + dir*a.opts.Step
	done := false
	switch {
	case dir > 0 && next >= a.opts.MaxScale-scaleEpsilon:
		next, done = a.opts.MaxScale, true
	case dir < 0 && next <= a.opts.MinScale+scaleEpsilon:
		next, done = a.opts.MinScale, true
	}
	a.apply(next)
	if done {
		a.animating = false
		return
	}
	a.pending = a.frames.RequestFrame(func() { a.step(token, dir) })
}

// apply moves the block scale and the outline altitude together.
func (a *Area) apply(scale float64) {
	a.scale = scale
	a.poly.Object3D().SetScale(vecmath.Vec3{X: 1, Y: 1, Z: scale})
	a.outline.SetAltitude(scale*a.opts.Height + a.opts.AltitudeOffset)
}

// stop cancels any queued animation step.
func (a *Area) stop() {
	a.token++
	if a.pending != 0 {
		a.frames.CancelFrame(a.pending)
		a.pending = 0
	}
	a.animating = false
}
