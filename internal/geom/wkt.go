package geom

import (
	"fmt"
	"os"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// ParseWKT parses one WKT geometry per non-empty line. Blank lines and lines
// starting with # are skipped. Features are named after their line number
// unless name is non-empty.
func ParseWKT(s, name string) (*geojson.FeatureCollection, error) {
	fc := geojson.NewFeatureCollection()
	for i, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		g, err := wkt.Unmarshal(line)
		if err != nil {
			return nil, fmt.Errorf("wkt line %d: %w", i+1, err)
		}
		f := geojson.NewFeature(g)
		if name != "" {
			f.Properties["name"] = name
		} else {
			f.Properties["name"] = fmt.Sprintf("wkt:%d", i+1)
		}
		fc.Append(f)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("wkt: %w", ErrNoFeatures)
	}
	return fc, nil
}

// LoadWKT reads a file of WKT geometries.
func LoadWKT(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := ParseWKT(string(data), "")
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fc, nil
}
