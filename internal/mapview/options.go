package mapview

import "github.com/paulmach/orb"

// Gestures switches user interactions on or off.
type Gestures struct {
	DragPan         bool
	DragRotate      bool
	DragPitch       bool
	TouchZoom       bool
	DoubleClickZoom bool
	ScrollWheelZoom bool
}

// Options configures a View.
type Options struct {
	Center    orb.Point // lon, lat
	Zoom      float64
	MinZoom   float64
	MaxZoom   float64
	Pitch     float64 // degrees from vertical
	Bearing   float64 // degrees clockwise from north
	Gestures  Gestures
	BaseLayer *TileLayer
}

// Option overrides one field of the defaults.
type Option func(*Options)

// DefaultOptions returns the fixed camera the choropleth starts from.
func DefaultOptions() Options {
	return Options{
		Center:  orb.Point{37.33, 55.52},
		Zoom:    9,
		MinZoom: 9,
		MaxZoom: 16,
		Pitch:   34,
		Gestures: Gestures{
			DragPan:         true,
			ScrollWheelZoom: true,
		},
		BaseLayer: DefaultBaseLayer(),
	}
}

// WithCenter sets the initial center.
func WithCenter(c orb.Point) Option {
	return func(o *Options) { o.Center = c }
}

// WithZoom sets the initial zoom.
func WithZoom(z float64) Option {
	return func(o *Options) { o.Zoom = z }
}

// WithZoomBounds sets the zoom range.
func WithZoomBounds(minZoom, maxZoom float64) Option {
	return func(o *Options) {
		o.MinZoom = minZoom
		o.MaxZoom = maxZoom
	}
}

// WithPitch sets the camera tilt in degrees.
func WithPitch(p float64) Option {
	return func(o *Options) { o.Pitch = p }
}

// WithBearing sets the map rotation in degrees.
func WithBearing(b float64) Option {
	return func(o *Options) { o.Bearing = b }
}

// WithGestures replaces the gesture switches.
func WithGestures(g Gestures) Option {
	return func(o *Options) { o.Gestures = g }
}

// WithBaseLayer replaces the tile layer drawn under the overlay.
func WithBaseLayer(l *TileLayer) Option {
	return func(o *Options) { o.BaseLayer = l }
}
