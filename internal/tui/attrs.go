package tui

import (
	"fmt"
	"sort"

	table "github.com/charmbracelet/bubbles/table"
	"github.com/paulmach/orb/geojson"
)

const maxColW = 24

// refreshAttrsFromCurrent rebuilds the table from the loaded features.
func (m *Model) refreshAttrsFromCurrent() {
	cols, rows := buildAttributes(m.data)
	if len(cols) == 0 || len(rows) == 0 {
		m.showAttrs = false
		m.status = "no attributes for current dataset"
		return
	}
	tcols := make([]table.Column, 0, len(cols)+1)
	tcols = append(tcols, table.Column{Title: "#", Width: 4})
	for _, c := range cols {
		tcols = append(tcols, table.Column{Title: c, Width: min(len(c)+2, maxColW)})
	}
	trows := make([]table.Row, 0, len(rows))
	for i, r := range rows {
		row := make(table.Row, 0, len(r)+1)
		row = append(row, fmt.Sprintf("%d", i+1))
		row = append(row, r...)
		trows = append(trows, row)
	}
	// rows must never be wider than the columns while they are swapped
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildAttributes unions the property keys of every feature into sorted
// columns, with one row per feature.
func buildAttributes(fc *geojson.FeatureCollection) ([]string, [][]string) {
	if fc == nil {
		return nil, nil
	}
	seen := map[string]bool{}
	var cols []string
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		for k := range f.Properties {
			if !seen[k] {
				seen[k] = true
				cols = append(cols, k)
			}
		}
	}
	sort.Strings(cols)
	rows := make([][]string, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f == nil {
			continue
		}
		vals := make([]string, len(cols))
		for i, k := range cols {
			vals[i] = formatValue(f.Properties[k])
		}
		rows = append(rows, vals)
	}
	return cols, rows
}
