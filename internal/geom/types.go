// Package geom loads vector data into GeoJSON feature collections and
// extracts the polygon parts the overlay extrudes.
package geom

import (
	"errors"
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

var (
	ErrNilFeature          = errors.New("nil feature")
	ErrNilGeometry         = errors.New("feature has no geometry")
	ErrUnsupportedGeometry = errors.New("unsupported geometry type")
	ErrEmptyPolygon        = errors.New("polygon has no rings")
	ErrNoFeatures          = errors.New("no features found")
)

// Summary counts what a collection holds, for the status line.
type Summary struct {
	Features int
	Polygons int
	Rings    int
	Vertices int
	Bound    orb.Bound
}

func (s Summary) String() string {
	return fmt.Sprintf("%d features, %d polygons, %d rings, %d vertices",
		s.Features, s.Polygons, s.Rings, s.Vertices)
}

// Summarize walks every polygonal feature of fc. Other geometry types are
// counted as features only.
func Summarize(fc *geojson.FeatureCollection) Summary {
	var s Summary
	if fc == nil {
		return s
	}
	s.Bound = Bounds(fc)
	for _, f := range fc.Features {
		s.Features++
		if f == nil || f.Geometry == nil {
			continue
		}
		mp, err := Polygons(f.Geometry)
		if err != nil {
			continue
		}
		s.Polygons += len(mp)
		for _, p := range mp {
			s.Rings += len(p)
			for _, r := range p {
				s.Vertices += len(r)
			}
		}
	}
	return s
}
