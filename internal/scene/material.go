package scene

import (
	"fmt"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"golang.org/x/image/colornames"

	"geomap3d/internal/vecmath"
)

// MaterialKind selects how a material reacts to light.
type MaterialKind int

const (
	// Phong is lit by the scene's lights.
	Phong MaterialKind = iota
	// Basic ignores lights.
	Basic
	// Line is an unlit screen-space line material.
	Line
)

func (k MaterialKind) String() string {
	switch k {
	case Phong:
		return "phong"
	case Basic:
		return "basic"
	case Line:
		return "line"
	}
	return fmt.Sprintf("MaterialKind(%d)", int(k))
}

// Material is a read-only render style. Meshes share materials; per-mesh
// variation belongs in the mesh transform, not here.
type Material struct {
	Kind        MaterialKind
	Color       colorful.Color
	Opacity     float64
	Transparent bool

	// line materials only
	LineWidth  float64
	Resolution vecmath.Vec2
}

// NewPhongMaterial returns a lit material.
func NewPhongMaterial(c colorful.Color) *Material {
	return &Material{Kind: Phong, Color: c, Opacity: 1}
}

// NewBasicMaterial returns an unlit material.
func NewBasicMaterial(c colorful.Color, transparent bool) *Material {
	return &Material{Kind: Basic, Color: c, Opacity: 1, Transparent: transparent}
}

// NewLineMaterial returns a thick-line material whose width is expressed
// against the given resolution rather than in world units.
func NewLineMaterial(c colorful.Color, width float64, resolution vecmath.Vec2) *Material {
	return &Material{Kind: Line, Color: c, Opacity: 1, LineWidth: width, Resolution: resolution}
}

// MaterialOptions names the colours of a choropleth's shared materials.
type MaterialOptions struct {
	Fill       string
	Line       string
	LineWidth  float64
	Highlight  string
	Resolution vecmath.Vec2
}

// DefaultMaterialOptions returns white phong fill, black 200-wide lines and
// a transparent yellow highlight.
func DefaultMaterialOptions() MaterialOptions {
	return MaterialOptions{
		Fill:       "#ffffff",
		Line:       "#000",
		LineWidth:  200,
		Highlight:  "yellow",
		Resolution: vecmath.Vec2{X: 1920, Y: 1080},
	}
}

// Materials is the set shared by every area of one controller.
type Materials struct {
	Fill      *Material
	Line      *Material
	Highlight *Material
}

// NewMaterials parses o into a new shared set.
func NewMaterials(o MaterialOptions) (*Materials, error) {
	fill, err := ParseColor(o.Fill)
	if err != nil {
		return nil, fmt.Errorf("fill material: %w", err)
	}
	line, err := ParseColor(o.Line)
	if err != nil {
		return nil, fmt.Errorf("line material: %w", err)
	}
	hl, err := ParseColor(o.Highlight)
	if err != nil {
		return nil, fmt.Errorf("highlight material: %w", err)
	}
	return &Materials{
		Fill:      NewPhongMaterial(fill),
		Line:      NewLineMaterial(line, o.LineWidth, o.Resolution),
		Highlight: NewBasicMaterial(hl, true),
	}, nil
}

// ParseColor accepts CSS colour names and #rgb / #rrggbb hex.
func ParseColor(s string) (colorful.Color, error) {
	s = strings.TrimSpace(s)
	if rgba, ok := colornames.Map[strings.ToLower(s)]; ok {
		c, _ := colorful.MakeColor(rgba)
		return c, nil
	}
	if s != "" && !strings.HasPrefix(s, "#") {
		s = "#" + s
	}
	c, err := colorful.Hex(s)
	if err != nil {
		return colorful.Color{}, fmt.Errorf("parse color %q: %w", s, err)
	}
	return c, nil
}
