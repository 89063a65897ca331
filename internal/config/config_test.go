package config

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/paulmach/orb"

	"geomap3d/internal/mapview"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Map.Center != [2]float64{37.33, 55.52} {
		t.Errorf("center = %v", cfg.Map.Center)
	}
	if cfg.Map.Zoom != 9 || cfg.Map.MinZoom != 9 || cfg.Map.MaxZoom != 16 || cfg.Map.Pitch != 34 {
		t.Errorf("map = %+v", cfg.Map)
	}
	if cfg.Area.Height != 1000 || cfg.Area.Color != "aqua" || cfg.Area.MaxScale != 2 {
		t.Errorf("area = %+v", cfg.Area)
	}
	if !cfg.Overlay.AxesHelper || cfg.Overlay.ReadyTimeout != 5*time.Second {
		t.Errorf("overlay = %+v", cfg.Overlay)
	}
	if cfg.Logging.Level != "info" || cfg.Logging.LogFile != "" {
		t.Errorf("logging = %+v", cfg.Logging)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults invalid: %v", err)
	}
}

func TestLoadPriority(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "geomap3d.yaml")
	yml := `
map:
  zoom: 11
  pitch: 45
overlay:
  ready_timeout: 2s
area:
  color: "#ff8800"
render:
  fps: 20
logging:
  level: warn
`
	if err := os.WriteFile(path, []byte(yml), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvLogLevel, "error")
	t.Setenv(EnvTileURL, "https://tiles.example/{z}/{x}/{y}.png")

	flags, err := ParseFlags([]string{"-config", path, "-fps", "60", "-snapshot", "areas.geojson"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(flags)
	if err != nil {
		t.Fatal(err)
	}
	tests := []struct {
		name string
		got  any
		want any
	}{
		{"file zoom", cfg.Map.Zoom, 11.0},
		{"file pitch", cfg.Map.Pitch, 45.0},
		{"default min zoom", cfg.Map.MinZoom, 9.0},
		{"file timeout", cfg.Overlay.ReadyTimeout, 2 * time.Second},
		{"file colour", cfg.Area.Color, "#ff8800"},
		{"env over file", cfg.Logging.Level, "error"},
		{"env tile url", cfg.Map.BaseLayer.URL, "https://tiles.example/{z}/{x}/{y}.png"},
		{"flag over file", cfg.Render.FPS, 60},
		{"snapshot", cfg.Snapshot, true},
		{"data arg", cfg.Data, "areas.geojson"},
	}
	for _, tt := range tests {
		if tt.got != tt.want {
			t.Errorf("%s = %v, want %v", tt.name, tt.got, tt.want)
		}
	}
}

func TestDebugFlagWinsOverEnv(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv(EnvLogLevel, "error")
	flags, err := ParseFlags([]string{"-config", filepath.Join(t.TempDir(), "none.yaml"), "-debug"}, io.Discard)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := Load(flags); err == nil {
		t.Fatal("expected error for a missing explicit config file")
	}
	flags.Config = ""
	cfg, err := Load(flags)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("level = %q", cfg.Logging.Level)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"fps zero", func(c *Config) { c.Render.FPS = 0 }},
		{"fps high", func(c *Config) { c.Render.FPS = 500 }},
		{"zoom bounds", func(c *Config) { c.Map.MinZoom, c.Map.MaxZoom = 10, 5 }},
		{"step", func(c *Config) { c.Area.Step = 0 }},
		{"scale bounds", func(c *Config) { c.Area.MinScale, c.Area.MaxScale = 2, 1 }},
		{"size", func(c *Config) { c.Render.Width = 0 }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}

func TestBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.yaml")
	os.WriteFile(path, []byte("map: [unclosed"), 0o644)
	if _, err := Load(&Flags{Config: path}); err == nil {
		t.Error("expected yaml error")
	}
}

func TestViewAndControllerOptions(t *testing.T) {
	cfg := Default()
	cfg.Map.Center = [2]float64{30.3, 59.9}
	cfg.Map.Gestures.DragRotate = true
	cfg.Overlay.AxesHelper = false
	cfg.Area.Height = 500

	v := mapview.New(cfg.ViewOptions()...)
	if v.Center() != (orb.Point{30.3, 59.9}) || !v.Gestures().DragRotate {
		t.Errorf("view center=%v gestures=%+v", v.Center(), v.Gestures())
	}
	if v.BaseLayer().AttributionText() == "" {
		t.Error("base layer attribution lost")
	}
	o := cfg.ControllerOptions()
	if o.AxesHelper || o.Area.Height != 500 || o.Materials.Highlight != "yellow" {
		t.Errorf("controller options = %+v", o)
	}
	if got := cfg.FrameInterval(); got != time.Second/30 {
		t.Errorf("frame interval = %v", got)
	}
}

func TestParseFlagsRejectsUnknown(t *testing.T) {
	if _, err := ParseFlags([]string{"-nope"}, io.Discard); err == nil {
		t.Error("expected error for unknown flag")
	}
}
