package tui

import (
	"os"

	list "github.com/charmbracelet/bubbles/list"
	table "github.com/charmbracelet/bubbles/table"
	textarea "github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"

	"visscene/internal/config"
	"visscene/internal/index"
	"visscene/internal/layout"
	"visscene/internal/scene"
)

const sidebarWidth = 28

type Model struct {
	width  int
	height int

	showSidebar bool
	helpVisible bool

	zoom    float64
	offsetX int
	offsetY int

	status string

	// File explorer
	cwd     string
	exts    []string
	l       list.Model
	items   []list.Item
	selPath string

	// Scene: source lines are kept so a variant change can re-parse them
	variant    scene.Variant
	opts       layout.Options
	source     []string
	sourceName string
	sc         scene.Scene
	plan       layout.RenderPlan
	idx        *index.Index
	loaded     bool

	// paste mode
	pasteMode bool
	ta        textarea.Model

	fill bool
	pal  palette

	// inspect popup
	inspectPopup string

	// hover state
	hovering    bool
	hoverMicX   int
	hoverMicY   int
	hoverHasGeo bool
	hoverX      float64
	hoverY      float64
	hoverHit    index.Hit
	hoverHasHit bool

	// polygon table
	showTable bool
	tbl       table.Model
}

// New builds an empty viewer using cfg for variant, layout and colours.
func New(cfg config.Config) Model {
	m := Model{
		showSidebar: false,
		helpVisible: true,
		zoom:        1.0,
		status:      "visscene ready",
		exts:        cfg.Extensions,
		variant:     cfg.SceneVariant(),
		opts:        cfg.LayoutOptions(),
		fill:        true,
		pal:         newPalette(cfg.Style),
	}
	m.cwd, _ = os.Getwd()
	// list setup
	d := list.NewDefaultDelegate()
	d.ShowDescription = false
	m.l = list.New(nil, d, 0, 0)
	m.l.Title = "Scenes"
	m.l.SetShowHelp(false)
	m.l.SetShowStatusBar(false)
	m.l.SetFilteringEnabled(true)
	// textarea setup
	m.ta = textarea.New()
	m.ta.Placeholder = "Paste scene text here. Press ctrl+d to render; Esc to cancel."
	m.ta.CharLimit = 0
	m.ta.SetWidth(50)
	m.ta.SetHeight(6)
	// polygon table setup
	m.tbl = table.New(table.WithFocused(true))
	m.tbl.SetHeight(12)
	m.refreshDir()
	return m
}

// NewWithPath preloads a scene file at launch.
func NewWithPath(cfg config.Config, path string) Model {
	m := New(cfg)
	m.loadPath(path)
	return m
}

func (m Model) Init() tea.Cmd { return nil }
