package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"visscene/internal/index"
	"visscene/internal/layout"
)

const (
	headerHeight = 1
	footerHeight = 2
)

// mapArea returns the origin and size of the map canvas. View and the
// mouse handler must agree on it.
func (m Model) mapArea() (x, y, w, h int) {
	contentHeight := max(4, m.height-headerHeight-footerHeight)
	contentWidth := max(10, m.width)
	sidebar := 0
	if m.showSidebar {
		sidebar = sidebarWidth + 1
	}
	return sidebar, headerHeight, max(10, contentWidth-sidebar), contentHeight
}

func (m Model) View() string {
	if m.width == 0 || m.height == 0 {
		return ""
	}
	contentWidth := max(10, m.width)
	_, _, mapWidth, mapHeight := m.mapArea()

	// Header
	title := " visscene ─ " + m.variant.String() + " scene "
	if m.plan.Title != "" {
		title = " visscene ─ " + m.plan.Title + " "
	}
	header := lipgloss.NewStyle().Width(contentWidth).Render(titleStyle.Render(title))

	// Sidebar
	var sidebar string
	if m.showSidebar {
		m.l.SetSize(sidebarWidth-2, mapHeight-2)
		sidebar = lipgloss.NewStyle().Width(sidebarWidth).Render(m.l.View())
	}

	var mapView string
	switch {
	case m.showTable:
		colW := 0
		for _, c := range m.tbl.Columns() {
			colW += c.Width + 3
		}
		maxW := min(mapWidth, max(32, colW))
		m.tbl.SetWidth(maxW - 4)
		m.tbl.SetHeight(min(mapHeight-2, 20))
		box := boxStyle.Width(maxW).Render(m.tbl.View())
		mapView = lipgloss.Place(mapWidth, mapHeight, lipgloss.Center, lipgloss.Center, box)
	case m.pasteMode:
		m.ta.SetWidth(mapWidth)
		m.ta.SetHeight(min(mapHeight, 12))
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.ta.View())
	default:
		mapView = lipgloss.NewStyle().Width(mapWidth).Height(mapHeight).Render(m.renderMap(mapWidth, mapHeight))
	}

	// inspect popup overlays the map, which keeps its origin for the mouse
	if m.inspectPopup != "" && !m.showTable {
		box := boxStyle.MaxWidth(max(20, min(52, mapWidth/2))).Render(m.inspectPopup)
		mapView = overlay(mapView, box, (mapHeight-lipgloss.Height(box))/2)
	}

	body := mapView
	if m.showSidebar {
		body = lipgloss.JoinHorizontal(lipgloss.Top, sidebar, " ", mapView)
	}

	// Footer: legend and coordinates, then status and help
	coords := ""
	if m.hoverHasGeo {
		coords = fmt.Sprintf("x=%.4f y=%.4f", m.hoverX, m.hoverY)
		if m.hoverHasHit {
			coords += "  " + describeHit(m.hoverHit)
		}
		coords = dimStyle.Render("  " + coords + "  ")
	}
	legend := m.renderLegend()
	spacer := strings.Repeat(" ", max(0, contentWidth-lipgloss.Width(legend)-lipgloss.Width(coords)))
	line1 := lipgloss.JoinHorizontal(lipgloss.Bottom, legend, spacer, coords)
	line2 := lipgloss.JoinHorizontal(lipgloss.Bottom, dimStyle.Render(" "+m.status+" "), m.renderHelp())
	footer := lipgloss.NewStyle().Width(contentWidth).Render(lipgloss.JoinVertical(lipgloss.Left, line1, line2))

	ui := lipgloss.JoinVertical(lipgloss.Left, header, body, footer)
	return appStyle.Width(contentWidth).Height(m.height).Render(ui)
}

// overlay draws box over the left edge of base, starting at row top.
func overlay(base, box string, top int) string {
	rows := strings.Split(base, "\n")
	top = max(0, top)
	for i, line := range strings.Split(box, "\n") {
		r := top + i
		if r >= len(rows) {
			break
		}
		rows[r] = line + ansi.TruncateLeft(rows[r], lipgloss.Width(line), "")
	}
	return strings.Join(rows, "\n")
}

func (m Model) renderLegend() string {
	if !m.loaded {
		return ""
	}
	parts := make([]string, 0, len(m.plan.Legend))
	for _, e := range m.plan.Legend {
		swatch := "■"
		if e.Role == layout.RoleObserver {
			swatch = "◉"
		}
		parts = append(parts, m.pal.role(e.Role).Render(swatch)+" "+e.Label)
	}
	return " " + strings.Join(parts, "   ")
}

func describeHit(h index.Hit) string {
	if h.Polygon < 0 {
		return fmt.Sprintf("observer (%g, %g)", h.Point.X, h.Point.Y)
	}
	return fmt.Sprintf("%s #%d v%d (%g, %g)", h.Role, h.Polygon+1, h.Vertex+1, h.Point.X, h.Point.Y)
}

func (m Model) renderHelp() string {
	if !m.helpVisible {
		return ""
	}
	keys := []string{
		"↑↓←→ pan",
		"+/- zoom",
		"0 reset",
		"Tab files",
		"Enter open",
		"v variant",
		"o observer bounds",
		"f fill",
		"p paste",
		"a polygons",
		"i inspect",
		"h help",
		"q quit",
	}
	return dimStyle.Render("  " + strings.Join(keys, "  "))
}
