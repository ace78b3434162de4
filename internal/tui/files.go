package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	list "github.com/charmbracelet/bubbles/list"
	log "github.com/sirupsen/logrus"

	"visscene/internal/index"
	"visscene/internal/layout"
	"visscene/internal/scene"
)

type fileItem struct {
	title, desc string
	path        string
}

func (f fileItem) Title() string       { return f.title }
func (f fileItem) Description() string { return f.desc }
func (f fileItem) FilterValue() string { return f.title }

func (m *Model) supported(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, e := range m.exts {
		if strings.ToLower(e) == ext {
			return true
		}
	}
	return false
}

func (m *Model) refreshDir() {
	entries, err := os.ReadDir(m.cwd)
	if err != nil {
		m.status = "read dir error: " + err.Error()
		return
	}
	var items []list.Item
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || !m.supported(name) {
			continue
		}
		items = append(items, fileItem{title: name, desc: filepath.Ext(name), path: filepath.Join(m.cwd, name)})
	}
	sort.SliceStable(items, func(i, j int) bool { return items[i].(fileItem).Title() < items[j].(fileItem).Title() })
	m.items = items
	m.l.SetItems(items)
	if len(items) == 0 {
		m.status = "no scene files in current directory"
	}
}

// loadPath reads a scene file and parses it with the current variant.
func (m *Model) loadPath(p string) {
	m.selPath = p
	f, err := os.Open(p)
	if err != nil {
		m.drop(filepath.Base(p), "load error", err)
		return
	}
	defer f.Close()
	lines, err := scene.ReadLines(f)
	if err != nil {
		m.drop(filepath.Base(p), "load error", err)
		return
	}
	m.apply(lines, filepath.Base(p))
}

// loadText parses pasted scene text.
func (m *Model) loadText(text string) {
	lines, err := scene.ReadLines(strings.NewReader(text))
	if err != nil {
		m.selPath = ""
		m.drop("<paste>", "paste error", err)
		return
	}
	m.selPath = ""
	m.apply(lines, "<paste>")
}

// apply parses lines with the current variant. A parse failure clears the
// view rather than showing part of a scene.
func (m *Model) apply(lines []string, name string) {
	m.source, m.sourceName = lines, name
	s, err := scene.Parse(lines, m.variant)
	if err != nil {
		m.fail(name, "parse error", err)
		return
	}
	m.sc = s
	m.loaded = true
	m.zoom = 1.0
	m.offsetX, m.offsetY = 0, 0
	m.relayout()
	m.status = fmt.Sprintf("loaded: %s  variant=%s  polygons=%d", name, m.variant, len(m.plan.Polygons()))
	log.WithFields(log.Fields{
		"source":   name,
		"variant":  m.variant.String(),
		"polygons": len(m.plan.Polygons()),
		"vertices": m.idx.Len(),
	}).Info("scene loaded")
}

// reload re-parses the current source, e.g. after the variant changed.
func (m *Model) reload() {
	if m.source == nil {
		m.status = "variant: " + m.variant.String()
		return
	}
	m.apply(m.source, m.sourceName)
}

// relayout rebuilds the plan and vertex index from the parsed scene.
func (m *Model) relayout() {
	if !m.loaded {
		return
	}
	m.plan = layout.Layout(m.sc, m.opts)
	m.idx = index.New(m.plan)
	m.hovering, m.hoverHasHit = false, false
	if m.showTable {
		m.refreshTable()
	}
}

func (m *Model) fail(name, what string, err error) {
	m.loaded = false
	m.sc, m.plan, m.idx = scene.Scene{}, layout.RenderPlan{}, nil
	m.showTable = false
	m.inspectPopup = ""
	m.status = fmt.Sprintf("%s: %s: %v", what, name, err)
	log.WithFields(log.Fields{
		"source":  name,
		"variant": m.variant.String(),
	}).WithError(err).Warn(what)
}

// drop is fail for input that could not be read. It also forgets the
// previous source, so reload has nothing to re-parse.
func (m *Model) drop(name, what string, err error) {
	m.source, m.sourceName = nil, ""
	m.fail(name, what, err)
}
