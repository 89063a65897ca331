package geom

import (
	"encoding/xml"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"
)

type kmlRing struct {
	Coordinates string `xml:"LinearRing>coordinates"`
}

type kmlPolygon struct {
	Outer kmlRing   `xml:"outerBoundaryIs"`
	Inner []kmlRing `xml:"innerBoundaryIs"`
}

type kmlPlacemark struct {
	Name     string       `xml:"name"`
	Polygons []kmlPolygon `xml:"Polygon"`
	Multi    []kmlPolygon `xml:"MultiGeometry>Polygon"`
}

type kmlDoc struct {
	Placemarks []kmlPlacemark `xml:"Document>Placemark"`
	Folders    []kmlPlacemark `xml:"Document>Folder>Placemark"`
	Bare       []kmlPlacemark `xml:"Placemark"`
}

// LoadKML reads the polygon placemarks of a KML file. Each placemark becomes
// one feature named after its <name>; placemarks without polygons are skipped.
func LoadKML(path string) (*geojson.FeatureCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	fc, err := DecodeKML(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return fc, nil
}

// DecodeKML is LoadKML over bytes.
func DecodeKML(data []byte) (*geojson.FeatureCollection, error) {
	var doc kmlDoc
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("kml: %w", err)
	}
	fc := geojson.NewFeatureCollection()
	all := append(append(doc.Placemarks, doc.Folders...), doc.Bare...)
	for _, pm := range all {
		var mp orb.MultiPolygon
		for _, kp := range append(pm.Polygons, pm.Multi...) {
			outer := parseKMLCoords(kp.Outer.Coordinates)
			if len(outer) == 0 {
				continue
			}
			p := orb.Polygon{outer}
			for _, in := range kp.Inner {
				if r := parseKMLCoords(in.Coordinates); len(r) > 0 {
					p = append(p, r)
				}
			}
			mp = append(mp, p)
		}
		if len(mp) == 0 {
			continue
		}
		var g orb.Geometry = mp
		if len(mp) == 1 {
			g = mp[0]
		}
		f := geojson.NewFeature(g)
		if pm.Name != "" {
			f.Properties["name"] = strings.TrimSpace(pm.Name)
		}
		fc.Append(f)
	}
	if len(fc.Features) == 0 {
		return nil, fmt.Errorf("kml: %w", ErrNoFeatures)
	}
	return fc, nil
}

// parseKMLCoords reads "lon,lat[,alt]" tuples separated by whitespace.
// Altitude is ignored.
func parseKMLCoords(s string) orb.Ring {
	var r orb.Ring
	for _, tuple := range strings.Fields(s) {
		vals := strings.Split(tuple, ",")
		if len(vals) < 2 {
			continue
		}
		lon, err1 := strconv.ParseFloat(strings.TrimSpace(vals[0]), 64)
		lat, err2 := strconv.ParseFloat(strings.TrimSpace(vals[1]), 64)
		if err1 != nil || err2 != nil {
			continue
		}
		r = append(r, orb.Point{lon, lat})
	}
	return r
}
