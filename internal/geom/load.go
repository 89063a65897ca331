package geom

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/paulmach/orb/geojson"
)

// Extensions lists the file types Load understands.
var Extensions = []string{".geojson", ".json", ".wkt", ".kml", ".csv"}

// Supported reports whether Load can read path.
func Supported(path string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range Extensions {
		if e == ext {
			return true
		}
	}
	return false
}

// Load picks a reader by file extension.
func Load(path string) (*geojson.FeatureCollection, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".geojson", ".json":
		return LoadGeoJSON(path)
	case ".wkt":
		return LoadWKT(path)
	case ".kml":
		return LoadKML(path)
	case ".csv":
		return LoadCSV(path)
	default:
		return nil, fmt.Errorf("unsupported file: %s", filepath.Ext(path))
	}
}
