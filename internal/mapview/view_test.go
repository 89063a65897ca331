package mapview

import (
	"math"
	"strings"
	"testing"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"

	"geomap3d/internal/vecmath"
)

func TestDefaultOptions(t *testing.T) {
	o := DefaultOptions()
	if o.Center != (orb.Point{37.33, 55.52}) {
		t.Errorf("center = %v", o.Center)
	}
	if o.Zoom != 9 || o.MinZoom != 9 || o.MaxZoom != 16 {
		t.Errorf("zoom = %v [%v, %v], want 9 [9, 16]", o.Zoom, o.MinZoom, o.MaxZoom)
	}
	if o.Pitch != 34 {
		t.Errorf("pitch = %v, want 34", o.Pitch)
	}
	g := o.Gestures
	if g.DragRotate || g.DragPitch || g.TouchZoom || g.DoubleClickZoom {
		t.Errorf("rotate/pitch/touch/double-click gestures must start disabled: %+v", g)
	}
	if o.BaseLayer == nil || len(o.BaseLayer.Subdomains) != 4 {
		t.Errorf("base layer = %+v", o.BaseLayer)
	}
}

func TestCallerOptionsWin(t *testing.T) {
	v := New(WithCenter(orb.Point{10, 20}), WithZoomBounds(2, 18), WithZoom(4), WithPitch(0))
	if v.Center() != (orb.Point{10, 20}) {
		t.Errorf("center = %v", v.Center())
	}
	if v.Zoom() != 4 {
		t.Errorf("zoom = %v, want 4", v.Zoom())
	}
	if v.Pitch() != 0 {
		t.Errorf("pitch = %v, want 0", v.Pitch())
	}
}

func TestZoomClamped(t *testing.T) {
	v := New()
	v.SetZoom(3)
	if v.Zoom() != 9 {
		t.Errorf("SetZoom(3) = %v, want clamp to 9", v.Zoom())
	}
	v.SetZoom(40)
	if v.Zoom() != 16 {
		t.Errorf("SetZoom(40) = %v, want clamp to 16", v.Zoom())
	}
}

func TestChangeEvents(t *testing.T) {
	v := New()
	var got []ChangeKind
	v.OnChange(func(k ChangeKind) { got = append(got, k) })

	v.SetCenter(orb.Point{37, 55})
	v.SetZoom(10)
	v.SetPitch(20)
	v.SetBearing(90)
	v.Resize(10, 10)
	v.SetZoom(10) // unchanged: no event

	want := []ChangeKind{ChangeMove, ChangeZoom, ChangePitch, ChangeRotate, ChangeResize}
	if len(got) != len(want) {
		t.Fatalf("events = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %v, want %v", i, got[i], want[i])
		}
	}
}

func TestProjectCenterAndUnproject(t *testing.T) {
	v := New(WithBearing(30))
	v.Resize(200, 100)
	p := v.ProjectCoordinate(v.Center())
	if math.Abs(p.X-100) > 1e-6 || math.Abs(p.Y-50) > 1e-6 {
		t.Errorf("center projects to %v, want (100,50)", p)
	}

	ll := v.Unproject(140, 20)
	back := v.ProjectCoordinate(ll)
	if math.Abs(back.X-140) > 1e-6 || math.Abs(back.Y-20) > 1e-6 {
		t.Errorf("round trip = %v, want (140,20)", back)
	}
}

func TestAltitudeLiftsUp(t *testing.T) {
	v := New()
	ground := v.Project(v.CoordinateToWorld(v.Center(), 0))
	raised := v.Project(v.CoordinateToWorld(v.Center(), 1000))
	if raised.Y >= ground.Y {
		t.Errorf("raised point %v not above ground %v", raised, ground)
	}
	if raised.X != ground.X {
		t.Errorf("altitude moved point sideways: %v vs %v", raised, ground)
	}

	flat := New(WithPitch(0))
	g0 := flat.Project(vecmath.Vec3{})
	r0 := flat.Project(vecmath.Vec3{Z: 1000})
	if g0 != r0 {
		t.Errorf("with no pitch altitude must not move the point: %v vs %v", g0, r0)
	}
}

func TestFitBounds(t *testing.T) {
	v := New(WithZoomBounds(0, 20))
	v.Resize(200, 200)
	b := orb.Bound{Min: orb.Point{37, 55}, Max: orb.Point{38, 56}}
	v.FitBounds(b, 10)

	for _, corner := range []orb.Point{b.Min, b.Max, {b.Min[0], b.Max[1]}, {b.Max[0], b.Min[1]}} {
		p := v.ProjectCoordinate(corner)
		if p.X < 9 || p.X > 191 || p.Y < 9 || p.Y > 191 {
			t.Errorf("corner %v projects outside padded viewport: %v", corner, p)
		}
	}
}

func TestPanBy(t *testing.T) {
	v := New(WithPitch(0))
	before := v.Center()
	v.PanBy(10, 0)
	if v.Center()[0] <= before[0] {
		t.Errorf("panning right should move center east: %v -> %v", before, v.Center())
	}
}

func TestTileURL(t *testing.T) {
	l := &TileLayer{URLTemplate: "https://{s}.tiles/{z}/{x}/{y}.png", Subdomains: []string{"a", "b"}}
	got := l.TileURL(maptile.New(3, 4, 5))
	if got != "https://b.tiles/5/3/4.png" {
		t.Errorf("TileURL() = %q", got)
	}
	def := DefaultBaseLayer().TileURL(maptile.New(1, 2, 3))
	if def != "https://mt1.google.com/vt/lyrs=r&x=1&y=2&z=3" {
		t.Errorf("default TileURL() = %q", def)
	}
}

func TestAttributionText(t *testing.T) {
	got := DefaultBaseLayer().AttributionText()
	if strings.Contains(got, "<") || strings.Contains(got, "&copy;") {
		t.Errorf("markup left in %q", got)
	}
	if !strings.Contains(got, "© OpenStreetMap contributors") {
		t.Errorf("AttributionText() = %q", got)
	}
}

func TestVisibleTilesCoverCenter(t *testing.T) {
	v := New()
	v.Resize(160, 96)
	tiles := v.BaseLayer().VisibleTiles(v)
	if len(tiles) == 0 {
		t.Fatal("no visible tiles")
	}
	want := maptile.At(v.Center(), maptile.Zoom(9))
	found := false
	for _, tl := range tiles {
		if tl.Z != 9 {
			t.Fatalf("tile %v at wrong zoom", tl)
		}
		if tl == want {
			found = true
		}
	}
	if !found {
		t.Errorf("center tile %v missing from %v", want, tiles)
	}
}
