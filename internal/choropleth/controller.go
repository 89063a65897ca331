// Package choropleth draws a GeoJSON FeatureCollection as extruded blocks on a
// pitched map and animates them under the pointer.
package choropleth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"geomap3d/internal/deferred"
	"geomap3d/internal/frame"
	"geomap3d/internal/geom"
	"geomap3d/internal/logger"
	"geomap3d/internal/mapview"
	"geomap3d/internal/render"
	"geomap3d/internal/scene"
	"geomap3d/internal/vecmath"
)

// ErrOverlayNotReady is returned when the overlay's first frame does not run
// before the ready timeout.
var ErrOverlayNotReady = errors.New("overlay not ready")

const overlayID = "choropleth"

// Options configures a controller.
type Options struct {
	AxesHelper   bool
	AxesSize     float64
	ReadyTimeout time.Duration
	Area         AreaOptions
	Materials    scene.MaterialOptions
	ShowTiles    bool
	GridColor    string
}

// DefaultOptions returns the controller defaults.
func DefaultOptions() Options {
	return Options{
		AxesHelper:   true,
		AxesSize:     1000000,
		ReadyTimeout: 5 * time.Second,
		Area:         DefaultAreaOptions(),
		Materials:    scene.DefaultMaterialOptions(),
		ShowTiles:    true,
		GridColor:    "#3a3a3a",
	}
}

// Controller owns the view, the overlay and the current set of areas. All
// methods except WaitReady must be called from the goroutine stepping frames.
type Controller struct {
	frames   frame.Scheduler
	opts     Options
	viewOpts []mapview.Option

	view      *mapview.View
	overlay   *scene.Overlay
	ready     *deferred.Deferred[*scene.Overlay]
	areas     []*Area
	axes      *scene.AxesHelper
	materials *scene.Materials
	matErr    error
	grid      colorful.Color

	redrawing bool
	redrawTok uint64
	redrawID  frame.ID
}

// New returns a controller. viewOpts are applied over the fixed camera
// defaults.
func New(frames frame.Scheduler, opts Options, viewOpts ...mapview.Option) *Controller {
	c := &Controller{frames: frames, opts: opts, viewOpts: viewOpts}
	c.materials, c.matErr = scene.NewMaterials(opts.Materials)
	if opts.GridColor != "" {
		if g, err := scene.ParseColor(opts.GridColor); err == nil {
			c.grid = g
		} else {
			logger.Warn("grid color ignored", zap.String("color", opts.GridColor), zap.Error(err))
		}
	}
	return c
}

func (c *Controller) View() *mapview.View         { return c.view }
func (c *Controller) Overlay() *scene.Overlay     { return c.overlay }
func (c *Controller) Areas() []*Area              { return c.areas }
func (c *Controller) Materials() *scene.Materials { return c.materials }
func (c *Controller) Axes() *scene.AxesHelper     { return c.axes }

// MapCenter returns the camera centre, or the zero point before AddMap.
func (c *Controller) MapCenter() orb.Point {
	if c.view == nil {
		return orb.Point{}
	}
	return c.view.Center()
}

// Init adds the map and the overlay, then waits for the overlay to be ready.
// Frames must keep advancing on another goroutine while Init blocks.
func (c *Controller) Init(ctx context.Context) (*Controller, error) {
	c.AddMap()
	c.AttachOverlay()
	if _, err := c.WaitReady(ctx); err != nil {
		return c, err
	}
	return c, nil
}

// AddMap creates the view once.
func (c *Controller) AddMap() *mapview.View {
	if c.view == nil {
		c.view = mapview.New(c.viewOpts...)
		logger.Debug("map added",
			zap.Float64("lon", c.view.Center()[0]),
			zap.Float64("lat", c.view.Center()[1]),
			zap.Float64("zoom", c.view.Zoom()))
	}
	return c.view
}

// AttachOverlay creates the overlay and adds it to the view. The returned
// future resolves on the overlay's first frame.
func (c *Controller) AttachOverlay() *deferred.Deferred[*scene.Overlay] {
	if c.ready != nil {
		return c.ready
	}
	c.AddMap()
	c.ready = deferred.New[*scene.Overlay]()
	if c.matErr != nil {
		c.ready.Reject(c.matErr)
		return c.ready
	}
	c.overlay = scene.NewOverlay(overlayID, scene.OverlayOptions{
		ForceRenderOnMoving:   true,
		ForceRenderOnRotating: true,
		PrepareToDraw:         c.prepare,
		ShowTiles:             c.opts.ShowTiles,
		GridColor:             c.grid,
	})
	c.overlay.AddTo(c.view, c.frames)
	return c.ready
}

func (c *Controller) prepare(_ *render.Canvas, s *scene.Scene) {
	white := colorful.Color{R: 1, G: 1, B: 1}
	sun := scene.NewDirectionalLight(white)
	sun.Position = vecmath.Vec3{Y: -10, Z: 10}.Normalize()
	s.Add(sun)
	s.Add(scene.NewAmbientLight(white, 0.2))
	if c.opts.AxesHelper {
		pos, err := c.overlay.CoordinateToVector3(c.view.Center(), 0)
		if err == nil {
			c.axes = scene.NewAxesHelper(c.opts.AxesSize)
			c.axes.Position = pos
			c.overlay.AddMesh(c.axes)
		}
	}
	c.ready.Resolve(c.overlay)
}

// WaitReady blocks until the overlay is ready, ctx ends or the ready timeout
// passes. It is safe to call from any goroutine after AttachOverlay.
func (c *Controller) WaitReady(ctx context.Context) (*scene.Overlay, error) {
	if c.ready == nil {
		return nil, scene.ErrNotAttached
	}
	if c.opts.ReadyTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.opts.ReadyTimeout)
		defer cancel()
	}
	ov, err := c.ready.Wait(ctx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return nil, fmt.Errorf("%w: %w", ErrOverlayNotReady, err)
		}
		return nil, err
	}
	return ov, nil
}

// ScheduleRedraw starts the per-frame redraw task. It does nothing while the
// task already runs.
func (c *Controller) ScheduleRedraw() {
	if c.overlay == nil || c.redrawing {
		return
	}
	c.redrawing = true
	c.redrawTok++
	tok := c.redrawTok
	c.redrawID = c.frames.RequestFrame(func() { c.redrawFrame(tok) })
}

func (c *Controller) redrawFrame(tok uint64) {
	if !c.redrawing || tok != c.redrawTok {
		return
	}
	if c.overlay.NeedsUpdate() {
		c.overlay.Redraw()
	}
	c.redrawID = c.frames.RequestFrame(func() { c.redrawFrame(tok) })
}

// StopRedraw ends the redraw task.
func (c *Controller) StopRedraw() {
	if !c.redrawing {
		return
	}
	c.redrawing = false
	c.redrawTok++
	c.frames.CancelFrame(c.redrawID)
	c.redrawID = 0
}

// Redrawing reports whether the redraw task is scheduled.
func (c *Controller) Redrawing() bool { return c.redrawing }

// BuildAreas maps every feature of fc to an area. The first bad feature
// aborts the whole batch.
func (c *Controller) BuildAreas(fc *geojson.FeatureCollection) ([]*Area, error) {
	if c.matErr != nil {
		return nil, c.matErr
	}
	if c.overlay == nil {
		return nil, scene.ErrNotAttached
	}
	if fc == nil || len(fc.Features) == 0 {
		return []*Area{}, nil
	}
	areas := make([]*Area, 0, len(fc.Features))
	for i, f := range fc.Features {
		a, err := NewArea(f, c.overlay, c.frames, c.materials, c.opts.Area)
		if err != nil {
			return nil, fmt.Errorf("feature %d: %w", i, err)
		}
		areas = append(areas, a)
	}
	return areas, nil
}

// Draw replaces the current areas with the features of fc and starts the
// redraw task. On error the current areas are kept.
func (c *Controller) Draw(fc *geojson.FeatureCollection) (*Controller, error) {
	areas, err := c.BuildAreas(fc)
	if err != nil {
		logger.Warn("draw failed", zap.Error(err))
		return c, err
	}
	c.clearAreas()
	c.areas = areas
	meshes := make([]scene.Mesh, 0, 2*len(areas))
	for _, a := range areas {
		meshes = append(meshes, a.meshes()...)
	}
	c.overlay.AddMesh(meshes...)
	c.ScheduleRedraw()
	logger.Info("choropleth drawn", zap.Int("areas", len(areas)))
	return c, nil
}

func (c *Controller) clearAreas() {
	if len(c.areas) == 0 {
		return
	}
	old := make([]scene.Mesh, 0, 2*len(c.areas))
	for _, a := range c.areas {
		a.stop()
		old = append(old, a.meshes()...)
	}
	c.overlay.RemoveMesh(old...)
	c.areas = nil
}

// On calls cb with the area whose block received event. Only areas present
// at call time are subscribed.
func (c *Controller) On(event string, cb func(*Area)) *Controller {
	for _, a := range c.areas {
		a := a
		a.poly.On(event, func(scene.Event) { cb(a) })
	}
	return c
}

// EnableHover highlights and raises each area under the pointer.
func (c *Controller) EnableHover() *Controller {
	c.On(scene.EventMouseOver, func(a *Area) {
		a.Highlight()
		a.AnimateMouseOver()
	})
	c.On(scene.EventMouseOut, func(a *Area) {
		a.Fade()
		a.AnimateMouseOut()
	})
	return c
}

// AreaFor returns the area owning m, or nil.
func (c *Controller) AreaFor(m scene.Mesh) *Area {
	if m == nil {
		return nil
	}
	for _, a := range c.areas {
		if a.owns(m) {
			return a
		}
	}
	return nil
}

// FitData frames the current areas. padding is in micro-pixels.
func (c *Controller) FitData(padding float64) bool {
	if c.view == nil || len(c.areas) == 0 {
		return false
	}
	fc := geojson.NewFeatureCollection()
	for _, a := range c.areas {
		fc.Append(a.feature)
	}
	c.view.FitBounds(geom.Bounds(fc), padding)
	return true
}

// Close stops redrawing and removes every area.
func (c *Controller) Close() {
	c.StopRedraw()
	if c.overlay != nil {
		c.clearAreas()
	}
}
