package geom

import (
	"fmt"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

// Polygons returns g as a MultiPolygon. Only Polygon and MultiPolygon are
// accepted, and every polygon must have at least one ring.
func Polygons(g orb.Geometry) (orb.MultiPolygon, error) {
	var mp orb.MultiPolygon
	switch v := g.(type) {
	case nil:
		return nil, ErrNilGeometry
	case orb.Polygon:
		mp = orb.MultiPolygon{v}
	case orb.MultiPolygon:
		mp = v
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedGeometry, g.GeoJSONType())
	}
	if len(mp) == 0 {
		return nil, ErrEmptyPolygon
	}
	for i, p := range mp {
		if len(p) == 0 || len(p[0]) == 0 {
			return nil, fmt.Errorf("polygon %d: %w", i, ErrEmptyPolygon)
		}
	}
	return mp, nil
}

// OuterRings returns the first ring of each polygon in g as a line. Holes
// are dropped.
func OuterRings(g orb.Geometry) ([]orb.LineString, error) {
	mp, err := Polygons(g)
	if err != nil {
		return nil, err
	}
	lines := make([]orb.LineString, 0, len(mp))
	for _, p := range mp {
		lines = append(lines, orb.LineString(p[0]))
	}
	return lines, nil
}

// Bounds returns the union of every feature's bound. An empty collection
// gives the zero bound.
func Bounds(fc *geojson.FeatureCollection) orb.Bound {
	var b orb.Bound
	first := true
	if fc == nil {
		return b
	}
	for _, f := range fc.Features {
		if f == nil || f.Geometry == nil {
			continue
		}
		fb := f.Geometry.Bound()
		if first {
			b, first = fb, false
			continue
		}
		b = b.Union(fb)
	}
	return b
}

// Name returns the feature's name property, falling back to def.
func Name(f *geojson.Feature, def string) string {
	if f == nil || f.Properties == nil {
		return def
	}
	return f.Properties.MustString("name", def)
}
