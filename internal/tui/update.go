package tui

import (
	"fmt"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb"
	"go.uber.org/zap"

	"geomap3d/internal/geom"
	"geomap3d/internal/logger"
)

const (
	panStep     = 8.0 // micro-pixels
	zoomStep    = 0.5
	wheelStep   = 0.25
	bearingStep = 15.0
	pitchStep   = 5.0
)

var panOffsets = map[string][2]float64{
	"up":    {0, -panStep},
	"down":  {0, panStep},
	"left":  {-panStep, 0},
	"right": {panStep, 0},
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case frameMsg:
		m.loop.Step()
		return m, m.tick()
	case readyMsg:
		if msg.err != nil {
			logger.Error("overlay not ready", zap.Error(msg.err))
			m.status = "overlay error: " + msg.err.Error()
			return m, nil
		}
		m.ready = true
		if m.data == nil {
			m.status = "geomap3d ready: Tab to open a file, p to paste WKT"
		}
		return m, nil
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resizeView()
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			return m.updatePaste(msg)
		}
		if cmd, done := m.handleKey(msg); done {
			return m, cmd
		}
	case tea.MouseMsg:
		m.handleMouse(msg)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m Model) updatePaste(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	case "enter":
		w := strings.TrimSpace(m.ta.Value())
		if w == "" {
			m.status = "paste: empty"
			return m, nil
		}
		fc, err := geom.ParseWKT(w, "pasted")
		if err != nil {
			m.status = "wkt error: " + err.Error()
			return m, nil
		}
		if m.draw(fc) {
			m.selPath = ""
			m.status = "rendered WKT  " + geom.Summarize(fc).String()
		}
		m.pasteMode = false
		m.ta.Blur()
		return m, nil
	}
	var cmd tea.Cmd
	m.ta, cmd = m.ta.Update(msg)
	return m, cmd
}

// handleKey runs global key bindings. done is false for keys the sidebar
// list should also see.
func (m *Model) handleKey(msg tea.KeyMsg) (cmd tea.Cmd, done bool) {
	v := m.ctl.View()
	g := v.Gestures()
	switch msg.String() {
	case "ctrl+c", "q":
		m.ctl.Close()
		return tea.Quit, true
	case "+", "=":
		if m.allowed(g.ScrollWheelZoom, "zoom") {
			v.SetZoom(v.Zoom() + zoomStep)
			m.status = fmt.Sprintf("zoom: %.2f", v.Zoom())
		}
	case "-", "_":
		if m.allowed(g.ScrollWheelZoom, "zoom") {
			v.SetZoom(v.Zoom() - zoomStep)
			m.status = fmt.Sprintf("zoom: %.2f", v.Zoom())
		}
	case "up", "down", "left", "right":
		if m.showSidebar && (msg.String() == "up" || msg.String() == "down") {
			return nil, false
		}
		if m.allowed(g.DragPan, "pan") {
			d := panOffsets[msg.String()]
			v.PanBy(d[0], d[1])
		}
	case "[", "]":
		if m.allowed(g.DragRotate, "rotate") {
			step := bearingStep
			if msg.String() == "[" {
				step = -step
			}
			v.SetBearing(v.Bearing() + step)
			m.status = fmt.Sprintf("bearing: %.0f°", v.Bearing())
		}
	case "pgup", "pgdown":
		if m.allowed(g.DragPitch, "pitch") {
			step := pitchStep
			if msg.String() == "pgdown" {
				step = -step
			}
			v.SetPitch(v.Pitch() + step)
			m.status = fmt.Sprintf("pitch: %.0f°", v.Pitch())
		}
	case "f":
		if m.ctl.FitData(fitPadding) {
			m.status = fmt.Sprintf("fit to data: zoom %.2f", v.Zoom())
		} else {
			m.status = "nothing to fit"
		}
	case "0":
		c := m.cfg.Map
		v.SetCenter(orb.Point{c.Center[0], c.Center[1]})
		v.SetZoom(c.Zoom)
		v.SetPitch(c.Pitch)
		v.SetBearing(c.Bearing)
		m.status = "camera reset"
	case "tab":
		m.showSidebar = !m.showSidebar
		if m.showSidebar {
			m.refreshDir()
		}
		m.resizeView()
		return nil, true
	case "p":
		m.pasteMode = !m.pasteMode
		if m.pasteMode {
			m.ta.SetValue("")
			m.status = "paste mode"
			m.ta.Focus()
		} else {
			m.status = "view mode"
			m.ta.Blur()
		}
		return nil, true
	case "h":
		m.helpVisible = !m.helpVisible
	case "a":
		m.showAttrs = !m.showAttrs
		if m.showAttrs {
			m.refreshAttrsFromCurrent()
		}
	case "i":
		if m.hovered != nil {
			m.inspectPopup = inspectArea(m.hovered)
			m.status = "inspect popup"
		} else {
			m.inspectPopup = "no area under the pointer"
			m.status = m.inspectPopup
		}
	case "esc":
		m.inspectPopup = ""
	case "enter":
		if m.showSidebar {
			if it, ok := m.l.SelectedItem().(fileItem); ok {
				m.loadPath(it.path)
			}
		}
		return nil, true
	default:
		return nil, false
	}
	return nil, !m.showSidebar
}

// allowed reports whether a gesture is enabled, noting it in the status line
// when not.
func (m *Model) allowed(enabled bool, name string) bool {
	if !enabled {
		m.status = name + " is disabled for this map"
	}
	return enabled
}

func (m *Model) handleMouse(msg tea.MouseMsg) {
	ox, oy, w, h := m.layout()
	cx, cy := msg.X-ox, msg.Y-oy
	inside := cx >= 0 && cx < w && cy >= 0 && cy < h
	v := m.ctl.View()
	g := v.Gestures()

	switch {
	case msg.Button == tea.MouseButtonWheelUp && inside && g.ScrollWheelZoom:
		v.SetZoom(v.Zoom() + wheelStep)
	case msg.Button == tea.MouseButtonWheelDown && inside && g.ScrollWheelZoom:
		v.SetZoom(v.Zoom() - wheelStep)
	case msg.Action == tea.MouseActionPress && msg.Button == tea.MouseButtonLeft && inside:
		m.dragging = true
		m.dragX, m.dragY = msg.X, msg.Y
		mx, my := cellToMicro(cx, cy)
		if a := m.ctl.AreaFor(m.ctl.Overlay().HandleClick(mx, my)); a != nil {
			m.inspectPopup = inspectArea(a)
		}
	case msg.Action == tea.MouseActionRelease:
		m.dragging = false
	case msg.Action == tea.MouseActionMotion && msg.Button != tea.MouseButtonLeft:
		m.dragging = false
	case msg.Action == tea.MouseActionMotion && m.dragging && g.DragPan:
		dx, dy := msg.X-m.dragX, msg.Y-m.dragY
		if dx != 0 || dy != 0 {
			v.PanBy(float64(-dx*2), float64(-dy*4))
			m.dragX, m.dragY = msg.X, msg.Y
		}
	}

	if inside {
		m.pointerAt(cx, cy)
		return
	}
	m.hoverHasGeo = false
	m.ctl.Overlay().HandlePointer(-1, -1)
	m.hovered = nil
}
