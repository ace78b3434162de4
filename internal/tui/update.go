package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
	case tea.KeyMsg:
		// If list is visible and filtering, send keys to list and ignore global commands
		if m.showSidebar && m.l.FilterState() == list.Filtering {
			var cmd tea.Cmd
			m.l, cmd = m.l.Update(msg)
			return m, cmd
		}
		if m.pasteMode {
			switch msg.String() {
			case "esc":
				m.pasteMode = false
				m.ta.Blur()
				m.status = "view mode"
				return m, nil
			case "ctrl+d":
				text := m.ta.Value()
				if strings.TrimSpace(text) == "" {
					m.status = "paste: empty"
					return m, nil
				}
				m.loadText(text)
				m.pasteMode = false
				m.ta.Blur()
				return m, nil
			}
			var cmd tea.Cmd
			m.ta, cmd = m.ta.Update(msg)
			return m, cmd
		}
		if m.showTable {
			switch msg.String() {
			case "esc", "a":
				m.showTable = false
				return m, nil
			case "ctrl+c", "q":
				return m, tea.Quit
			}
			var cmd tea.Cmd
			m.tbl, cmd = m.tbl.Update(msg)
			return m, cmd
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit
		case "+", "=":
			if m.zoom < 64 {
				m.zoom *= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "-", "_":
			if m.zoom > 0.05 {
				m.zoom /= 1.2
				m.status = fmt.Sprintf("zoom: %.2fx", m.zoom)
			}
		case "0":
			m.zoom = 1.0
			m.offsetX, m.offsetY = 0, 0
			m.status = "view reset"
		case "tab":
			m.showSidebar = !m.showSidebar
			if m.showSidebar {
				m.refreshDir()
			}
		case "v":
			m.variant = m.variant.Next()
			m.reload()
		case "o":
			m.opts.IncludeObserver = !m.opts.IncludeObserver
			m.relayout()
			m.status = fmt.Sprintf("observer in bounds: %v", m.opts.IncludeObserver)
		case "f":
			m.fill = !m.fill
			m.status = fmt.Sprintf("fill: %v", m.fill)
		case "p":
			m.pasteMode = true
			m.ta.SetValue("")
			m.status = "paste mode (" + m.variant.String() + ")"
			m.ta.Focus()
		case "h":
			m.helpVisible = !m.helpVisible
		case "a":
			if !m.loaded {
				m.status = "no scene loaded"
				break
			}
			m.showTable = true
			m.refreshTable()
		case "i":
			if m.inspectPopup != "" {
				m.inspectPopup = ""
				break
			}
			m.inspectPopup = m.inspect()
			m.status = "inspect popup"
		case "esc":
			m.inspectPopup = ""
		case "enter":
			if m.showSidebar {
				if it, ok := m.l.SelectedItem().(fileItem); ok {
					m.loadPath(it.path)
				}
			}
		case "up":
			m.offsetY -= 1
		case "down":
			m.offsetY += 1
		case "left":
			m.offsetX -= 2
		case "right":
			m.offsetX += 2
		}
	case tea.MouseMsg:
		m.hover(msg.X, msg.Y)
	}
	// Pass messages to list when visible
	if m.showSidebar {
		var cmd tea.Cmd
		m.l, cmd = m.l.Update(msg)
		return m, cmd
	}
	return m, nil
}

// hover tracks the mouse over the map and snaps to the nearest vertex.
func (m *Model) hover(x, y int) {
	ox, oy, w, h := m.mapArea()
	if x < ox || x >= ox+w || y < oy || y >= oy+h {
		m.hovering, m.hoverHasGeo, m.hoverHasHit = false, false, false
		return
	}
	m.hovering = true
	p, ok := m.sceneAtCell(x-ox, y-oy, w, h)
	m.hoverHasGeo = ok
	m.hoverHasHit = false
	if !ok {
		return
	}
	m.hoverX, m.hoverY = p.X, p.Y
	if m.idx == nil {
		return
	}
	hit, ok := m.idx.Nearest(p.X, p.Y)
	if !ok {
		return
	}
	mp, _ := m.mapper(w, h)
	m.hoverHit, m.hoverHasHit = hit, true
	m.hoverMicX, m.hoverMicY = mp.toMicro(hit.Point)
}

// inspect summarises the scene and the vertex nearest the map centre.
func (m Model) inspect() string {
	if !m.loaded {
		return "no scene loaded"
	}
	name := m.sourceName
	if m.selPath != "" {
		name = filepath.Base(m.selPath)
	}
	b, vp := m.plan.Bounds, m.plan.Viewport
	meta := []string{
		fmt.Sprintf("name: %s", name),
		fmt.Sprintf("variant: %s", m.variant),
		fmt.Sprintf("polygons: 1 primary, %d secondary", len(m.sc.Secondary)),
		fmt.Sprintf("bounds: [%g, %g] x [%g, %g]", b.MinX, b.MaxX, b.MinY, b.MaxY),
		fmt.Sprintf("viewport: [%g, %g] x [%g, %g]", vp.MinX, vp.MaxX, vp.MinY, vp.MaxY),
		fmt.Sprintf("margin: %g  observer in bounds: %v", m.opts.Margin, m.opts.IncludeObserver),
	}
	if m.sc.Observer != nil {
		meta = append(meta, fmt.Sprintf("observer: (%g, %g)  k=%d", m.sc.Observer.X, m.sc.Observer.Y, m.sc.K))
	}
	_, _, w, h := m.mapArea()
	if p, ok := m.sceneAtCell(w/2, h/2, w, h); ok && m.idx != nil {
		if hit, ok := m.idx.Nearest(p.X, p.Y); ok {
			meta = append(meta, "nearest: "+describeHit(hit))
		}
	}
	return strings.Join(meta, "\n")
}
