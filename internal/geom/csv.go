package geom

import (
	"encoding/csv"
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb/encoding/wkt"
	"github.com/paulmach/orb/geojson"
)

// LoadCSV reads a CSV whose header has a geometry column named wkt, geom,
// geometry or the_geom (case-insensitive). Every other column becomes a
// feature property; numeric cells are stored as float64.
func LoadCSV(path string) (*geojson.FeatureCollection, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	r := csv.NewReader(f)
	r.TrimLeadingSpace = true
	recs, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	fc, err := decodeCSV(recs)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fc, nil
}

func decodeCSV(recs [][]string) (*geojson.FeatureCollection, error) {
	if len(recs) == 0 {
		return nil, errors.New("empty csv")
	}
	header := recs[0]
	idxGeom := -1
	for i, h := range header {
		switch strings.ToLower(strings.TrimSpace(h)) {
		case "wkt", "geom", "geometry", "the_geom":
			if idxGeom == -1 {
				idxGeom = i
			}
		}
	}
	if idxGeom == -1 {
		return nil, errors.New("csv: geometry column not found")
	}
	fc := geojson.NewFeatureCollection()
	for n, row := range recs[1:] {
		if idxGeom >= len(row) || strings.TrimSpace(row[idxGeom]) == "" {
			continue
		}
		g, err := wkt.Unmarshal(strings.TrimSpace(row[idxGeom]))
		if err != nil {
			return nil, fmt.Errorf("csv row %d: %w", n+2, err)
		}
		feat := geojson.NewFeature(g)
		for i, h := range header {
			if i == idxGeom || i >= len(row) {
				continue
			}
			if v, err := strconv.ParseFloat(row[i], 64); err == nil {
				feat.Properties[h] = v
			} else {
				feat.Properties[h] = row[i]
			}
		}
		fc.Append(feat)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("csv: %w", ErrNoFeatures)
	}
	return fc, nil
}
