package scene

import (
	"github.com/lucasb-eyer/go-colorful"

	"geomap3d/internal/vecmath"
)

// Light contributes colour to a surface with the given unit normal.
type Light interface {
	contribution(normal vecmath.Vec3) colorful.Color
}

// DirectionalLight shines from Position towards the origin.
type DirectionalLight struct {
	Color     colorful.Color
	Intensity float64
	Position  vecmath.Vec3
}

// NewDirectionalLight returns a light of intensity 1 shining straight down.
func NewDirectionalLight(c colorful.Color) *DirectionalLight {
	return &DirectionalLight{Color: c, Intensity: 1, Position: vecmath.Vec3{Z: 1}}
}

func (l *DirectionalLight) contribution(n vecmath.Vec3) colorful.Color {
	d := n.Dot(l.Position.Normalize())
	if d <= 0 {
		return colorful.Color{}
	}
	k := d * l.Intensity
	return colorful.Color{R: l.Color.R * k, G: l.Color.G * k, B: l.Color.B * k}
}

// AmbientLight lights every surface evenly.
type AmbientLight struct {
	Color     colorful.Color
	Intensity float64
}

// NewAmbientLight returns an ambient light.
func NewAmbientLight(c colorful.Color, intensity float64) *AmbientLight {
	return &AmbientLight{Color: c, Intensity: intensity}
}

func (l *AmbientLight) contribution(vecmath.Vec3) colorful.Color {
	k := l.Intensity
	return colorful.Color{R: l.Color.R * k, G: l.Color.G * k, B: l.Color.B * k}
}

// Scene holds the lights of an overlay.
type Scene struct {
	lights []Light
}

// Add appends a light.
func (s *Scene) Add(l Light) {
	s.lights = append(s.lights, l)
}

// Lights returns the scene's lights.
func (s *Scene) Lights() []Light {
	return s.lights
}

// Shade returns the colour of a surface of colour base and normal n under m.
// Unlit materials, and scenes without lights, keep base unchanged.
func (s *Scene) Shade(base colorful.Color, n vecmath.Vec3, m *Material) colorful.Color {
	if m == nil || m.Kind != Phong || len(s.lights) == 0 {
		return base
	}
	n = n.Normalize()
	var sum colorful.Color
	for _, l := range s.lights {
		c := l.contribution(n)
		sum.R += c.R
		sum.G += c.G
		sum.B += c.B
	}
	return colorful.Color{R: base.R * sum.R, G: base.G * sum.G, B: base.B * sum.B}.Clamped()
}
