package tui

import (
	"fmt"
	"strconv"

	table "github.com/charmbracelet/bubbles/table"

	"visscene/internal/layout"
)

var tableColumns = []string{"#", "role", "vertices", "min x", "min y", "max x", "max y"}

// refreshTable rebuilds the polygon table from the current plan.
func (m *Model) refreshTable() {
	cols, rows := m.buildTable()
	if len(rows) == 0 {
		m.showTable = false
		m.status = "no polygons in current scene"
		return
	}
	tcols := make([]table.Column, 0, len(cols))
	for i, c := range cols {
		w := len(c) + 2
		for _, r := range rows {
			if i < len(r) {
				w = max(w, len(r[i])+1)
			}
		}
		tcols = append(tcols, table.Column{Title: c, Width: min(w, 14)})
	}
	trows := make([]table.Row, 0, len(rows))
	for _, r := range rows {
		trows = append(trows, table.Row(r))
	}
	// Avoid transient mismatch: clear rows, set columns, then set rows
	m.tbl.SetRows(nil)
	m.tbl.SetColumns(tcols)
	m.tbl.SetRows(trows)
}

// buildTable lists every polygon instruction in draw order, then the observer.
func (m *Model) buildTable() ([]string, [][]string) {
	if !m.loaded {
		return tableColumns, nil
	}
	polys := m.sc.Polygons()
	var rows [][]string
	for _, dp := range m.plan.Polygons() {
		row := []string{strconv.Itoa(dp.Index + 1), dp.Role.String(), strconv.Itoa(len(polys[dp.Index]))}
		if b, ok := layout.PolygonBounds(polys[dp.Index]); ok {
			row = append(row, num(b.MinX), num(b.MinY), num(b.MaxX), num(b.MaxY))
		} else {
			row = append(row, "-", "-", "-", "-")
		}
		rows = append(rows, row)
	}
	if obs, ok := m.plan.Observer(); ok {
		x, y := num(obs.Location.X), num(obs.Location.Y)
		rows = append(rows, []string{"k=" + strconv.Itoa(obs.K), obs.Role.String(), "1", x, y, x, y})
	}
	return tableColumns, rows
}

func num(v float64) string { return fmt.Sprintf("%g", v) }
