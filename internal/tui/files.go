package tui

import (
	"os"
	"path/filepath"
	"sort"

	list "github.com/charmbracelet/bubbles/list"
	"github.com/paulmach/orb/geojson"
	"go.uber.org/zap"

	"geomap3d/internal/geom"
	"geomap3d/internal/logger"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !geom.Supported(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: filepath.Ext(name), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no supported files in current directory"
	}
}

// loadPath reads p and draws it.
func (m *Model) loadPath(p string) {
	fc, err := geom.Load(p)
	if err != nil {
		logger.Warn("load failed", zap.String("path", p), zap.Error(err))
		m.status = "load error: " + err.Error()
		return
	}
	if m.draw(fc) {
		m.selPath = p
		m.status = "loaded: " + filepath.Base(p) + "  " + geom.Summarize(fc).String()
	}
}

// draw replaces the areas on the map with fc. The previous data stays when
// fc is rejected.
func (m *Model) draw(fc *geojson.FeatureCollection) bool {
	if _, err := m.ctl.Draw(fc); err != nil {
		m.status = "draw error: " + err.Error()
		return false
	}
	m.ctl.EnableHover()
	m.data = fc
	m.hovered = nil
	m.inspectPopup = ""
	if m.cfg.Map.FitData {
		m.ctl.FitData(fitPadding)
	}
	if m.showAttrs {
		m.refreshAttrsFromCurrent()
	}
	return true
}
