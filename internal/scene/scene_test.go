package scene

import (
	"errors"
	"math"
	"testing"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"geomap3d/internal/frame"
	"geomap3d/internal/geom"
	"geomap3d/internal/mapview"
	"geomap3d/internal/render"
	"geomap3d/internal/vecmath"
)

func squareFeature(cx, cy, d float64) *geojson.Feature {
	f := geojson.NewFeature(orb.Polygon{{
		{cx - d, cy - d}, {cx + d, cy - d}, {cx + d, cy + d}, {cx - d, cy + d}, {cx - d, cy - d},
	}})
	f.Properties["name"] = "square"
	return f
}

func attached(t *testing.T, opts OverlayOptions) (*Overlay, *mapview.View, *frame.Loop) {
	t.Helper()
	v := mapview.New()
	loop := frame.NewLoop()
	o := NewOverlay("test", opts).AddTo(v, loop)
	loop.Step()
	return o, v, loop
}

func TestPrepareRunsOnceOnFirstFrame(t *testing.T) {
	calls := 0
	v := mapview.New()
	loop := frame.NewLoop()
	o := NewOverlay("test", OverlayOptions{
		PrepareToDraw: func(c *render.Canvas, s *Scene) {
			calls++
			if c == nil || s == nil {
				t.Error("prepare got nil canvas or scene")
			}
			s.Add(NewAmbientLight(white, 0.2))
		},
	}).AddTo(v, loop)
	if o.Prepared() || calls != 0 {
		t.Fatal("prepare ran before the first frame")
	}
	loop.Step()
	loop.Step()
	if calls != 1 {
		t.Errorf("prepare calls = %d, want 1", calls)
	}
	if !o.Prepared() || o.Redraws() != 1 {
		t.Errorf("prepared=%v redraws=%d", o.Prepared(), o.Redraws())
	}
	if len(o.Scene().Lights()) != 1 {
		t.Errorf("lights = %d", len(o.Scene().Lights()))
	}
}

func TestDirtyFlag(t *testing.T) {
	o, _, _ := attached(t, OverlayOptions{})
	if o.NeedsUpdate() {
		t.Fatal("dirty after first redraw")
	}
	mats, err := NewMaterials(DefaultMaterialOptions())
	if err != nil {
		t.Fatal(err)
	}
	e, err := o.ToExtrudePolygon(squareFeature(37.33, 55.52, 0.05), ExtrudeOptions{Height: 1000, Interactive: true}, mats.Fill)
	if err != nil {
		t.Fatal(err)
	}
	steps := []struct {
		name  string
		do    func()
		dirty bool
	}{
		{"add mesh", func() { o.AddMesh(e) }, true},
		{"same scale", func() { e.Object3D().SetScale(vecmath.Vec3{X: 1, Y: 1, Z: 1}) }, false},
		{"new scale", func() { e.Object3D().SetScale(vecmath.Vec3{X: 1, Y: 1, Z: 1.5}) }, true},
		{"same altitude", func() { e.SetAltitude(0) }, false},
		{"new altitude", func() { e.SetAltitude(5) }, true},
		{"same symbol", func() { e.SetSymbol(mats.Fill) }, false},
		{"new symbol", func() { e.SetSymbol(mats.Highlight) }, true},
		{"remove mesh", func() { o.RemoveMesh(e) }, true},
	}
	for _, s := range steps {
		o.Redraw()
		s.do()
		if got := o.NeedsUpdate(); got != s.dirty {
			t.Errorf("%s: dirty = %v, want %v", s.name, got, s.dirty)
		}
	}

	// a detached mesh no longer dirties the overlay
	o.Redraw()
	e.SetAltitude(9)
	if o.NeedsUpdate() {
		t.Error("removed mesh marked the overlay dirty")
	}
}

func TestForceRenderOnViewChanges(t *testing.T) {
	tests := []struct {
		name   string
		opts   OverlayOptions
		change func(v *mapview.View)
		dirty  bool
	}{
		{"move forced", OverlayOptions{ForceRenderOnMoving: true}, func(v *mapview.View) { v.PanBy(5, 0) }, true},
		{"move not forced", OverlayOptions{}, func(v *mapview.View) { v.PanBy(5, 0) }, false},
		{"rotate forced", OverlayOptions{ForceRenderOnRotating: true}, func(v *mapview.View) { v.SetBearing(45) }, true},
		{"rotate not forced", OverlayOptions{ForceRenderOnMoving: true}, func(v *mapview.View) { v.SetBearing(45) }, false},
		{"resize", OverlayOptions{}, func(v *mapview.View) { v.Resize(40, 40) }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o, v, _ := attached(t, tt.opts)
			tt.change(v)
			if o.NeedsUpdate() != tt.dirty {
				t.Errorf("dirty = %v, want %v", o.NeedsUpdate(), tt.dirty)
			}
		})
	}
}

func TestToExtrudePolygonErrors(t *testing.T) {
	detached := NewOverlay("d", OverlayOptions{})
	if _, err := detached.ToExtrudePolygon(squareFeature(0, 0, 1), ExtrudeOptions{}, nil); !errors.Is(err, ErrNotAttached) {
		t.Errorf("detached: err = %v", err)
	}
	if _, err := detached.ToFatLines(nil, LineOptions{}, nil); !errors.Is(err, ErrNotAttached) {
		t.Errorf("detached lines: err = %v", err)
	}

	o, _, _ := attached(t, OverlayOptions{})
	tests := []struct {
		name string
		f    *geojson.Feature
		opts ExtrudeOptions
		want error
	}{
		{"nil feature", nil, ExtrudeOptions{}, geom.ErrNilFeature},
		{"nil geometry", &geojson.Feature{Properties: geojson.Properties{}}, ExtrudeOptions{}, geom.ErrNilGeometry},
		{"point", geojson.NewFeature(orb.Point{1, 2}), ExtrudeOptions{}, geom.ErrUnsupportedGeometry},
		{"no rings", geojson.NewFeature(orb.Polygon{}), ExtrudeOptions{}, geom.ErrEmptyPolygon},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := o.ToExtrudePolygon(tt.f, tt.opts, nil); !errors.Is(err, tt.want) {
				t.Errorf("err = %v, want %v", err, tt.want)
			}
		})
	}
	if _, err := o.ToExtrudePolygon(squareFeature(0, 0, 1), ExtrudeOptions{TopColor: "not-a-colour"}, nil); err == nil {
		t.Error("expected top colour error")
	}
}

func TestAddRemoveMesh(t *testing.T) {
	o, _, _ := attached(t, OverlayOptions{})
	a := NewAxesHelper(10)
	b := NewAxesHelper(20)
	o.AddMesh(a, b, a, nil)
	if got := len(o.Meshes()); got != 2 {
		t.Fatalf("meshes = %d, want 2", got)
	}
	o.RemoveMesh(a, NewAxesHelper(1))
	if o.Contains(a) || !o.Contains(b) {
		t.Errorf("contains a=%v b=%v", o.Contains(a), o.Contains(b))
	}
}

func TestRedrawInksMeshes(t *testing.T) {
	o, v, _ := attached(t, OverlayOptions{})
	mats, _ := NewMaterials(DefaultMaterialOptions())
	e, err := o.ToExtrudePolygon(squareFeature(37.33, 55.52, 0.05), ExtrudeOptions{Height: 1000, Interactive: true, TopColor: "aqua"}, mats.Fill)
	if err != nil {
		t.Fatal(err)
	}
	lines, _ := geom.OuterRings(e.Feature().Geometry)
	fl, err := o.ToFatLines(lines, LineOptions{Altitude: 1001}, mats.Line)
	if err != nil {
		t.Fatal(err)
	}
	o.AddMesh(e, fl)
	o.Redraw()
	w, h := v.Size()
	if !o.Canvas().Inked(w/2, h/2) {
		t.Error("centre of the block is not inked")
	}
	if o.Canvas().Inked(0, 0) {
		t.Error("corner is inked")
	}
	if o.Frame() == "" {
		t.Error("empty frame")
	}
	order := o.drawOrder()
	if order[0] != Mesh(e) || order[1] != Mesh(fl) {
		t.Error("outline must draw after its block")
	}
}

func TestScaleRaisesTop(t *testing.T) {
	o, _, _ := attached(t, OverlayOptions{})
	e, _ := o.ToExtrudePolygon(squareFeature(37.33, 55.52, 0.05), ExtrudeOptions{Height: 1000}, nil)
	topY := func() float64 { return o.blocks(e)[0].top[0][0].Y }
	before := topY()
	e.Object3D().SetScale(vecmath.Vec3{X: 1, Y: 1, Z: 2})
	after := topY()
	if !(after < before) {
		t.Errorf("top y %v -> %v, want it to move up", before, after)
	}
}

func TestPointerEvents(t *testing.T) {
	o, v, _ := attached(t, OverlayOptions{})
	e, _ := o.ToExtrudePolygon(squareFeature(37.33, 55.52, 0.05), ExtrudeOptions{Height: 1000, Interactive: true}, nil)
	passive, _ := o.ToExtrudePolygon(squareFeature(37.33, 55.52, 0.2), ExtrudeOptions{Height: 10}, nil)
	o.AddMesh(passive, e)

	var got []string
	for _, name := range []string{EventMouseOver, EventMouseOut, EventClick} {
		name := name
		e.On(name, func(ev Event) {
			if ev.Target != Mesh(e) {
				t.Errorf("%s target = %v", name, ev.Target)
			}
			got = append(got, ev.Type)
		})
	}
	w, h := v.Size()
	cx, cy := float64(w)/2, float64(h)/2
	o.HandlePointer(cx, cy)
	o.HandlePointer(cx+1, cy)
	if o.Hovered() != Mesh(e) {
		t.Fatal("block not hovered")
	}
	if hit := o.HandleClick(cx, cy); hit != Mesh(e) {
		t.Errorf("click hit %v", hit)
	}
	o.HandlePointer(1, 1)
	want := []string{EventMouseOver, EventClick, EventMouseOut}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("events = %v, want %v", got, want)
		}
	}
	if o.Hovered() != nil {
		t.Error("hover not cleared")
	}
}

func TestRemoveClearsHover(t *testing.T) {
	o, v, _ := attached(t, OverlayOptions{})
	e, _ := o.ToExtrudePolygon(squareFeature(37.33, 55.52, 0.05), ExtrudeOptions{Height: 1000, Interactive: true}, nil)
	o.AddMesh(e)
	w, h := v.Size()
	o.HandlePointer(float64(w)/2, float64(h)/2)
	o.RemoveMesh(e)
	if o.Hovered() != nil {
		t.Error("removed mesh still hovered")
	}
}

func TestShade(t *testing.T) {
	base := colorful.Color{R: 1, G: 0.5, B: 0}
	var s Scene
	phong := NewPhongMaterial(base)
	if got := s.Shade(base, upward, phong); got != base {
		t.Errorf("no lights: %v", got)
	}
	s.Add(NewAmbientLight(white, 0.2))
	got := s.Shade(base, upward, phong)
	if math.Abs(got.R-0.2) > 1e-9 || math.Abs(got.G-0.1) > 1e-9 {
		t.Errorf("ambient: %v", got)
	}
	sun := NewDirectionalLight(white)
	sun.Position = vecmath.Vec3{Y: -10, Z: 10}.Normalize()
	s.Add(sun)
	south := s.Shade(base, vecmath.Vec3{Y: -1}, phong)
	north := s.Shade(base, vecmath.Vec3{Y: 1}, phong)
	if !(south.R > north.R) {
		t.Errorf("south wall %v should be brighter than north %v", south, north)
	}
	if got := s.Shade(base, upward, NewBasicMaterial(base, true)); got != base {
		t.Errorf("basic material shaded: %v", got)
	}
}

func TestParseColor(t *testing.T) {
	tests := []struct {
		in   string
		want string
		err  bool
	}{
		{"aqua", "#00ffff", false},
		{"Yellow", "#ffff00", false},
		{"#000", "#000000", false},
		{"ff0000", "#ff0000", false},
		{"#zzzzzz", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		c, err := ParseColor(tt.in)
		if tt.err {
			if err == nil {
				t.Errorf("ParseColor(%q) expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseColor(%q): %v", tt.in, err)
			continue
		}
		if c.Hex() != tt.want {
			t.Errorf("ParseColor(%q) = %s, want %s", tt.in, c.Hex(), tt.want)
		}
	}
}

func TestNewMaterials(t *testing.T) {
	m, err := NewMaterials(DefaultMaterialOptions())
	if err != nil {
		t.Fatal(err)
	}
	if m.Fill.Kind != Phong || m.Line.Kind != Line || m.Highlight.Kind != Basic {
		t.Errorf("kinds = %v %v %v", m.Fill.Kind, m.Line.Kind, m.Highlight.Kind)
	}
	if !m.Highlight.Transparent || m.Highlight.Color.Hex() != "#ffff00" {
		t.Errorf("highlight = %+v", m.Highlight)
	}
	if m.Line.LineWidth != 200 || m.Line.Color.Hex() != "#000000" {
		t.Errorf("line = %+v", m.Line)
	}
	opts := DefaultMaterialOptions()
	opts.Line = "nope"
	if _, err := NewMaterials(opts); err == nil {
		t.Error("expected error for bad line colour")
	}
}
