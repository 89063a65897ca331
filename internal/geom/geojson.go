package geom

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/paulmach/orb/geojson"
)

// LoadGeoJSON reads a GeoJSON file. See Decode for the accepted shapes.
func LoadGeoJSON(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := Decode(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fc, nil
}

// Decode parses a FeatureCollection, a single Feature or a bare geometry.
// The latter two are wrapped into a one-feature collection. A collection
// without a features member decodes to an empty collection.
func Decode(data []byte) (*geojson.FeatureCollection, error) {
	var head struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &head); err != nil {
		return nil, fmt.Errorf("decode geojson: %w", err)
	}
	switch head.Type {
	case "":
		return nil, fmt.Errorf("decode geojson: missing type")
	case "FeatureCollection":
		fc, err := geojson.UnmarshalFeatureCollection(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature collection: %w", err)
		}
		return fc, nil
	case "Feature":
		f, err := geojson.UnmarshalFeature(data)
		if err != nil {
			return nil, fmt.Errorf("decode feature: %w", err)
		}
		return geojson.NewFeatureCollection().Append(f), nil
	default:
		g, err := geojson.UnmarshalGeometry(data)
		if err != nil {
			return nil, fmt.Errorf("decode geometry: %w", err)
		}
		return geojson.NewFeatureCollection().Append(geojson.NewFeature(g.Geometry())), nil
	}
}
