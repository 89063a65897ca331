// Package config loads geomap3d settings from defaults, a YAML file, the
// environment and command-line flags.
package config

import (
	"fmt"
	"time"

	"github.com/paulmach/orb"

	"geomap3d/internal/choropleth"
	"geomap3d/internal/mapview"
	"geomap3d/internal/scene"
)

// Config holds all settings.
type Config struct {
	Map       MapConfig       `yaml:"map"`
	Overlay   OverlayConfig   `yaml:"overlay"`
	Area      AreaConfig      `yaml:"area"`
	Materials MaterialsConfig `yaml:"materials"`
	Render    RenderConfig    `yaml:"render"`
	Logging   LoggingConfig   `yaml:"logging"`

	// Data is the file to open at start, from the first positional argument.
	Data string `yaml:"-"`
	// Snapshot prints one frame and exits instead of running the TUI.
	Snapshot bool `yaml:"-"`
}

// MapConfig holds the initial camera.
type MapConfig struct {
	Center    [2]float64      `yaml:"center"` // lon, lat
	Zoom      float64         `yaml:"zoom"`
	MinZoom   float64         `yaml:"min_zoom"`
	MaxZoom   float64         `yaml:"max_zoom"`
	Pitch     float64         `yaml:"pitch"`
	Bearing   float64         `yaml:"bearing"`
	Gestures  GesturesConfig  `yaml:"gestures"`
	FitData   bool            `yaml:"fit_data"`
	BaseLayer BaseLayerConfig `yaml:"base_layer"`
}

// GesturesConfig enables camera interactions.
type GesturesConfig struct {
	DragPan         bool `yaml:"drag_pan"`
	DragRotate      bool `yaml:"drag_rotate"`
	DragPitch       bool `yaml:"drag_pitch"`
	TouchZoom       bool `yaml:"touch_zoom"`
	DoubleClickZoom bool `yaml:"double_click_zoom"`
	ScrollWheelZoom bool `yaml:"scroll_wheel_zoom"`
}

// BaseLayerConfig describes the tile layer.
type BaseLayerConfig struct {
	ID          string   `yaml:"id"`
	URL         string   `yaml:"url"`
	Subdomains  []string `yaml:"subdomains"`
	Attribution string   `yaml:"attribution"`
}

// OverlayConfig holds 3D overlay settings.
type OverlayConfig struct {
	AxesHelper   bool          `yaml:"axes_helper"`
	AxesSize     float64       `yaml:"axes_size"`
	ReadyTimeout time.Duration `yaml:"ready_timeout"`
}

// AreaConfig shapes every extruded area.
type AreaConfig struct {
	Height         float64 `yaml:"height"`
	Color          string  `yaml:"color"`
	Step           float64 `yaml:"step"`
	MinScale       float64 `yaml:"min_scale"`
	MaxScale       float64 `yaml:"max_scale"`
	AltitudeOffset float64 `yaml:"altitude_offset"`
}

// MaterialsConfig names the shared material colours.
type MaterialsConfig struct {
	Fill      string  `yaml:"fill"`
	Line      string  `yaml:"line"`
	LineWidth float64 `yaml:"line_width"`
	Highlight string  `yaml:"highlight"`
}

// RenderConfig holds frame and output settings. Width and Height are the
// snapshot size in character cells.
type RenderConfig struct {
	FPS       int    `yaml:"fps"`
	ShowTiles bool   `yaml:"show_tiles"`
	GridColor string `yaml:"grid_color"`
	Width     int    `yaml:"width"`
	Height    int    `yaml:"height"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level   string `yaml:"level"`
	LogFile string `yaml:"log_file"`
}

// Default returns the built-in settings.
func Default() *Config {
	mv := mapview.DefaultOptions()
	base := mapview.DefaultBaseLayer()
	area := choropleth.DefaultAreaOptions()
	mats := scene.DefaultMaterialOptions()
	ctl := choropleth.DefaultOptions()
	return &Config{
		Map: MapConfig{
			Center:  [2]float64{mv.Center[0], mv.Center[1]},
			Zoom:    mv.Zoom,
			MinZoom: mv.MinZoom,
			MaxZoom: mv.MaxZoom,
			Pitch:   mv.Pitch,
			Bearing: mv.Bearing,
			Gestures: GesturesConfig{
				DragPan:         mv.Gestures.DragPan,
				DragRotate:      mv.Gestures.DragRotate,
				DragPitch:       mv.Gestures.DragPitch,
				TouchZoom:       mv.Gestures.TouchZoom,
				DoubleClickZoom: mv.Gestures.DoubleClickZoom,
				ScrollWheelZoom: mv.Gestures.ScrollWheelZoom,
			},
			BaseLayer: BaseLayerConfig{
				ID:          base.ID,
				URL:         base.URLTemplate,
				Subdomains:  base.Subdomains,
				Attribution: base.Attribution,
			},
		},
		Overlay: OverlayConfig{
			AxesHelper:   ctl.AxesHelper,
			AxesSize:     ctl.AxesSize,
			ReadyTimeout: ctl.ReadyTimeout,
		},
		Area: AreaConfig{
			Height:         area.Height,
			Color:          area.Color,
			Step:           area.Step,
			MinScale:       area.MinScale,
			MaxScale:       area.MaxScale,
			AltitudeOffset: area.AltitudeOffset,
		},
		Materials: MaterialsConfig{
			Fill:      mats.Fill,
			Line:      mats.Line,
			LineWidth: mats.LineWidth,
			Highlight: mats.Highlight,
		},
		Render: RenderConfig{
			FPS:       30,
			ShowTiles: ctl.ShowTiles,
			GridColor: ctl.GridColor,
			Width:     100,
			Height:    32,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Validate rejects settings the renderer cannot use.
func (c *Config) Validate() error {
	if c.Render.FPS < 1 || c.Render.FPS > 120 {
		return fmt.Errorf("render.fps must be in [1, 120], got %d", c.Render.FPS)
	}
	if c.Map.MaxZoom < c.Map.MinZoom {
		return fmt.Errorf("map.max_zoom %v is below map.min_zoom %v", c.Map.MaxZoom, c.Map.MinZoom)
	}
	if c.Area.Step <= 0 {
		return fmt.Errorf("area.step must be positive, got %v", c.Area.Step)
	}
	if c.Area.MaxScale < c.Area.MinScale {
		return fmt.Errorf("area.max_scale %v is below area.min_scale %v", c.Area.MaxScale, c.Area.MinScale)
	}
	if c.Render.Width < 1 || c.Render.Height < 1 {
		return fmt.Errorf("render size must be positive, got %dx%d", c.Render.Width, c.Render.Height)
	}
	return nil
}

// FrameInterval is the time between frames.
func (c *Config) FrameInterval() time.Duration {
	return time.Second / time.Duration(c.Render.FPS)
}

// ViewOptions converts the map section to camera options.
func (c *Config) ViewOptions() []mapview.Option {
	m := c.Map
	return []mapview.Option{
		mapview.WithCenter(orb.Point{m.Center[0], m.Center[1]}),
		mapview.WithZoomBounds(m.MinZoom, m.MaxZoom),
		mapview.WithZoom(m.Zoom),
		mapview.WithPitch(m.Pitch),
		mapview.WithBearing(m.Bearing),
		mapview.WithGestures(mapview.Gestures{
			DragPan:         m.Gestures.DragPan,
			DragRotate:      m.Gestures.DragRotate,
			DragPitch:       m.Gestures.DragPitch,
			TouchZoom:       m.Gestures.TouchZoom,
			DoubleClickZoom: m.Gestures.DoubleClickZoom,
			ScrollWheelZoom: m.Gestures.ScrollWheelZoom,
		}),
		mapview.WithBaseLayer(&mapview.TileLayer{
			ID:          m.BaseLayer.ID,
			URLTemplate: m.BaseLayer.URL,
			Subdomains:  m.BaseLayer.Subdomains,
			Attribution: m.BaseLayer.Attribution,
		}),
	}
}

// ControllerOptions converts the overlay, area, materials and render
// sections to choropleth options.
func (c *Config) ControllerOptions() choropleth.Options {
	o := choropleth.DefaultOptions()
	o.AxesHelper = c.Overlay.AxesHelper
	o.AxesSize = c.Overlay.AxesSize
	o.ReadyTimeout = c.Overlay.ReadyTimeout
	o.Area = choropleth.AreaOptions{
		Height:         c.Area.Height,
		Color:          c.Area.Color,
		Step:           c.Area.Step,
		MinScale:       c.Area.MinScale,
		MaxScale:       c.Area.MaxScale,
		AltitudeOffset: c.Area.AltitudeOffset,
	}
	o.Materials.Fill = c.Materials.Fill
	o.Materials.Line = c.Materials.Line
	o.Materials.LineWidth = c.Materials.LineWidth
	o.Materials.Highlight = c.Materials.Highlight
	o.ShowTiles = c.Render.ShowTiles
	o.GridColor = c.Render.GridColor
	return o
}
