package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"visscene/internal/config"
	"visscene/internal/layout"
)

// Styles
var (
	baseFg    = lipgloss.Color("#E6E6E6")
	baseDimFg = lipgloss.AdaptiveColor{Light: "#6B7280", Dark: "#6B7280"}
	accentFg  = lipgloss.Color("#7C3AED")
	borderCol = lipgloss.Color("#243141")
	hoverFg   = lipgloss.Color("#FFA500")

	appStyle   = lipgloss.NewStyle().Foreground(baseFg)
	boxStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(borderCol).Padding(0, 1)
	titleStyle = lipgloss.NewStyle().Foreground(accentFg).Bold(true)
	dimStyle   = lipgloss.NewStyle().Foreground(baseDimFg)
	hoverStyle = lipgloss.NewStyle().Foreground(hoverFg).Bold(true)
)

// ink is what a map cell is painted with.
type ink int8

const (
	inkNone ink = iota - 1
	inkPrimary
	inkSecondary
	inkObserver
	inkHover
)

func roleInk(r layout.Role) ink {
	switch r {
	case layout.RoleSecondary:
		return inkSecondary
	case layout.RoleObserver:
		return inkObserver
	}
	return inkPrimary
}

// palette maps inks to lipgloss styles built from the configured colours.
type palette map[ink]lipgloss.Style

func newPalette(st config.Style) palette {
	return palette{
		inkPrimary:   lipgloss.NewStyle().Foreground(lipgloss.Color(st.Primary)),
		inkSecondary: lipgloss.NewStyle().Foreground(lipgloss.Color(st.Secondary)),
		inkObserver:  lipgloss.NewStyle().Foreground(lipgloss.Color(st.Observer)).Bold(true),
		inkHover:     hoverStyle,
	}
}

func (p palette) role(r layout.Role) lipgloss.Style { return p[roleInk(r)] }

// paint renders a cell grid, styling each run of same-ink cells once.
func (p palette) paint(grid [][]cell) string {
	rows := make([]string, len(grid))
	for y, row := range grid {
		var b strings.Builder
		for x := 0; x < len(row); {
			k := row[x].ink
			j := x
			var run []rune
			for j < len(row) && row[j].ink == k {
				run = append(run, row[j].r)
				j++
			}
			if st, ok := p[k]; ok {
				b.WriteString(st.Render(string(run)))
			} else {
				b.WriteString(string(run))
			}
			x = j
		}
		rows[y] = b.String()
	}
	return strings.Join(rows, "\n")
}
