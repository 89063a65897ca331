package mapview

import (
	"html"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/paulmach/orb"
	"github.com/paulmach/orb/maptile"
)

// maxVisibleTiles bounds the grid drawn for one frame.
const maxVisibleTiles = 1024

// TileLayer is an XYZ raster source. Tiles are addressed, never fetched.
type TileLayer struct {
	ID          string
	URLTemplate string
	Subdomains  []string
	Attribution string
}

// DefaultBaseLayer returns the Google roads layer.
func DefaultBaseLayer() *TileLayer {
	return &TileLayer{
		ID:          "base",
		URLTemplate: "https://mt1.google.com/vt/lyrs=r&x={x}&y={y}&z={z}",
		Subdomains:  []string{"a", "b", "c", "d"},
		Attribution: `&copy; <a href="http://osm.org">OpenStreetMap</a> ` +
			`contributors, &copy; <a href="https://carto.com/">CARTO</a>`,
	}
}

// TileURL expands the template for t.
func (l *TileLayer) TileURL(t maptile.Tile) string {
	r := strings.NewReplacer(
		"{x}", strconv.FormatUint(uint64(t.X), 10),
		"{y}", strconv.FormatUint(uint64(t.Y), 10),
		"{z}", strconv.FormatUint(uint64(t.Z), 10),
		"{s}", l.subdomain(t),
	)
	return r.Replace(l.URLTemplate)
}

func (l *TileLayer) subdomain(t maptile.Tile) string {
	if len(l.Subdomains) == 0 {
		return ""
	}
	return l.Subdomains[int(t.X+t.Y)%len(l.Subdomains)]
}

var tagPattern = regexp.MustCompile(`<[^>]*>`)

// AttributionText returns the attribution with markup removed.
func (l *TileLayer) AttributionText() string {
	return strings.TrimSpace(html.UnescapeString(tagPattern.ReplaceAllString(l.Attribution, "")))
}

// VisibleTiles lists the tiles at the view's integer zoom that cover the
// ground footprint of the viewport.
func (l *TileLayer) VisibleTiles(v *View) []maptile.Tile {
	w, h := v.Size()
	if w <= 0 || h <= 0 {
		return nil
	}
	z := maptile.Zoom(math.Max(0, math.Min(22, math.Floor(v.Zoom()))))

	var b orb.Bound
	for i, c := range [][2]float64{{0, 0}, {float64(w), 0}, {0, float64(h)}, {float64(w), float64(h)}} {
		p := v.Unproject(c[0], c[1])
		p[1] = math.Max(-maxLat, math.Min(maxLat, p[1]))
		p[0] = math.Max(-180, math.Min(179.999999, p[0]))
		if i == 0 {
			b = orb.Bound{Min: p, Max: p}
			continue
		}
		b = b.Extend(p)
	}

	tl := maptile.At(orb.Point{b.Min[0], b.Max[1]}, z)
	br := maptile.At(orb.Point{b.Max[0], b.Min[1]}, z)
	var tiles []maptile.Tile
	for x := tl.X; x <= br.X; x++ {
		for y := tl.Y; y <= br.Y; y++ {
			tiles = append(tiles, maptile.New(x, y, z))
			if len(tiles) >= maxVisibleTiles {
				return tiles
			}
		}
	}
	return tiles
}
