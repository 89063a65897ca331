package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	_, _, mapWidth, mapHeight := m.layout()
	contentWidth := max(10, m.width)
	contentHeight := mapHeight

	header := titleStyle.Render(" geomap3d ─ extruded choropleth ")
	if a := m.hovered; a != nil && a.Name() != "" {
		header += "  " + hoverStyle.Render(a.Name())
	}
	header = lipgloss.NewStyle().Width(contentWidth).Render(header)

	var sidebar string
	if m.showSidebar {
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showAttrs:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		if colW == 0 {
			colW = min(60, contentWidth-6)
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		attrsBox := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, attrsBox)
	case m.pasteMode:
		m.ta.SetWidth(mapWidth)
		m.ta.SetHeight(min(mapHeight, 12))
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	default:
		mapView = m.renderMap(mapWidth, mapHeight)
		if m.inspectPopup != "" {
			box := boxStyle.MaxWidth(min(48, max(20, mapWidth/2))).Render(m.inspectPopup)
			mapView = overlayLeft(mapView, box, mapHeight)
		}
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).MaxHeight(contentHeight).Render(mapView)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	footer := lipgloss.JoinVertical(lipgloss.Left, m.renderStatus(contentWidth), m.renderAttribution(contentWidth))
	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

// renderStatus is the status text and help on the left, pointer position on
// the right.
func (m Model) renderStatus(width int) string {
	status := dimStyle.Render(" " + m.status + " ")
	coords := ""
	if m.hoverHasGeo {
		coords = dimStyle.Render(fmt.Sprintf("  lon=%.5f lat=%.5f  ", m.hoverLon, m.hoverLat))
	}
	left := lipgloss.JoinHorizontal(lipgloss.Bottom, status, m.renderHelp())
	spacerW := max(0, width-lipgloss.Width(left)-lipgloss.Width(coords))
	right := lipgloss.Place(spacerW+lipgloss.Width(coords), 1, lipgloss.Right, lipgloss.Center, coords)
	return lipgloss.NewStyle().Width(width).MaxHeight(1).Render(lipgloss.JoinHorizontal(lipgloss.Bottom, left, right))
}

func (m Model) renderAttribution(width int) string {
	v := m.ctl.View()
	text := ""
	if l := v.BaseLayer(); l != nil {
		text = l.AttributionText()
	}
	cam := fmt.Sprintf("z%.1f p%.0f° b%.0f° ", v.Zoom(), v.Pitch(), v.Bearing())
	gap := max(1, width-lipgloss.Width(cam)-lipgloss.Width(text)-1)
	return dimStyle.Width(width).MaxHeight(1).Render(" " + cam + padRight("", gap-1) + text)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"[ ] rotate",
		"PgUp/PgDn pitch",
		"f fit",
		"Tab files",
		"p paste",
		"a attrs",
		"i inspect",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}

// overlayLeft draws box over the left edge of base, vertically centred.
func overlayLeft(base, box string, height int) string {
	lines := strings.Split(base, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	boxLines := strings.Split(box, "\n")
	top := max(0, (height-len(boxLines))/2)
	for i, bl := range boxLines {
		row := top + i
		if row >= len(lines) {
			break
		}
		lines[row] = bl
	}
	return strings.Join(lines, "\n")
}
