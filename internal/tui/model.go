// Package tui is the interactive terminal front end: the choropleth canvas,
// a file sidebar, a WKT paste box and an attribute table.
package tui

import (
	"context"
	"os"
	"time"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/paulmach/orb/geojson"

	"geomap3d/internal/choropleth"
	"geomap3d/internal/config"
	"geomap3d/internal/frame"
)

const (
	sidebarWidth = 28
	headerHeight = 1
	footerHeight = 2
	fitPadding   = 8
)

// frameMsg advances the frame loop.
type frameMsg time.Time

// readyMsg reports the overlay's first frame.
type readyMsg struct{ err error }

type Model struct {
	width  int
	height int

	cfg   *config.Config
	loop  *frame.Loop
	ctl   *choropleth.Controller
	ready bool

	showSidebar bool
	helpVisible bool

	status string

	// File explorer
	cwd     string
	l       list.Model
	items   []list.Item
	selPath string

	data *geojson.FeatureCollection

	// paste mode
	pasteMode bool
	ta        textarea.Model

	// inspect popup
	inspectPopup string

	// pointer state
	hoverHasGeo bool
	hoverLon    float64
	hoverLat    float64
	hovered     *choropleth.Area
	dragging    bool
	dragX       int
	dragY       int

	// attributes table
	showAttrs bool
	tbl       table.Model
}

// New builds the model and attaches the overlay. Frames start with Init.
func New(cfg *config.Config) Model {
	loop := frame.NewLoop()
	ctl := choropleth.New(loop, cfg.ControllerOptions(), cfg.ViewOptions()...)
	ctl.AddMap()
	ctl.AttachOverlay()
	m := Model{
		cfg:         cfg,
		loop:        loop,
		ctl:         ctl,
		helpVisible: true,
		status:      "geomap3d: waiting for overlay",
	}
	m.cwd, _ = os.Getwd()
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Files"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste a WKT POLYGON or MULTIPOLYGON. Press Enter to draw; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	if cfg.Data != "" {
		m.loadPath(cfg.Data)
	}
	return m
}

// Controller exposes the choropleth for callers embedding the model.
func (m Model) Controller() *choropleth.Controller { return m.ctl }

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.waitReady(), m.tick())
}

func (m Model) waitReady() tea.Cmd {
	ctl := m.ctl
	return func() tea.Msg {
		_, err := ctl.WaitReady(context.Background())
		return readyMsg{err: err}
	}
}

func (m Model) tick() tea.Cmd {
	return tea.Tick(m.cfg.FrameInterval(), func(t time.Time) tea.Msg { return frameMsg(t) })
}

// layout returns the map area origin and size in cells.
func (m Model) layout() (x, y, w, h int) {
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	w = contentWidth
	if m.showSidebar {
		x = sidebarWidth + 1
		w = contentWidth - sidebarWidth - 1
	}
	return x, headerHeight, max(10, w), contentHeight
}

// resizeView matches the camera viewport to the map area.
func (m *Model) resizeView() {
	_, _, w, h := m.layout()
	m.ctl.View().Resize(w*2, h*4)
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, h-2)
	}
}
