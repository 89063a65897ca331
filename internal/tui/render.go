package tui

import (
	"fmt"
	"strings"

	"geomap3d/internal/choropleth"
)

// cellToMicro maps a cell inside the map area to the micro-pixel at its centre.
func cellToMicro(cx, cy int) (float64, float64) {
	return float64(cx*2) + 1, float64(cy*4) + 2
}

// renderMap returns the last overlay frame, or a placeholder until the
// overlay has drawn once.
func (m Model) renderMap(w, h int) string {
	frame := m.ctl.Overlay().Frame()
	if frame == "" {
		msg := "preparing overlay…"
		if m.ready {
			msg = "no frame yet"
		}
		return dimStyle.Width(w).Height(h).Render(msg)
	}
	return frame
}

// inspectArea describes a for the popup.
func inspectArea(a *choropleth.Area) string {
	name := a.Name()
	if name == "" {
		name = "<unnamed>"
	}
	b := a.Mesh().Polygons().Bound()
	c := b.Center()
	meta := []string{
		titleStyle.Render(name),
		fmt.Sprintf("bbox: [%.5f, %.5f, %.5f, %.5f]", b.Min[0], b.Min[1], b.Max[0], b.Max[1]),
		fmt.Sprintf("centre: lon=%.6f lat=%.6f", c[0], c[1]),
		fmt.Sprintf("polygons: %d  height: %.0f m  scale: %.1f", len(a.Boundaries()), a.Options().Height, a.Scale()),
	}
	if props := propertyLines(a.Feature().Properties); len(props) > 0 {
		meta = append(meta, "")
		meta = append(meta, props...)
	}
	return strings.Join(meta, "\n")
}

// pointerAt updates hover state for a pointer on map cell cx, cy.
func (m *Model) pointerAt(cx, cy int) {
	mx, my := cellToMicro(cx, cy)
	ov := m.ctl.Overlay()
	ov.HandlePointer(mx, my)
	m.hovered = m.ctl.AreaFor(ov.Hovered())
	p := m.ctl.View().Unproject(mx, my)
	m.hoverHasGeo = true
	m.hoverLon, m.hoverLat = p[0], p[1]
}
