package tui

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visscene/internal/config"
	"visscene/internal/layout"
	"visscene/internal/scene"
)

const (
	bareText    = "3\n0 0\n4 0\n4 4\n1\n3\n1 1\n2 1\n2 2\n"
	guardedText = "1 1\n2\n4\n0 0\n8 0\n8 8\n0 8\n1\n3\n5 5\n7 5\n7 7\n"
)

func newModel(t *testing.T, v scene.Variant, text string) Model {
	t.Helper()
	cfg := config.Default()
	cfg.Variant = v.String()
	m := New(cfg)
	m.loadText(text)
	require.True(t, m.loaded, m.status)
	return m
}

func key(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func send(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	out, ok := next.(Model)
	require.True(t, ok)
	return out
}

func TestLoadTextBuildsPlan(t *testing.T) {
	m := newModel(t, scene.Guarded, guardedText)

	assert.Len(t, m.plan.Polygons(), 2)
	_, ok := m.plan.Observer()
	assert.True(t, ok)
	assert.Equal(t, 8, m.idx.Len())
	assert.Contains(t, m.status, "variant=guarded")
}

func TestParseFailureClearsScene(t *testing.T) {
	m := newModel(t, scene.Bare, bareText)
	m.loadText("3\n0 0\n")

	assert.False(t, m.loaded)
	assert.Empty(t, m.plan.Instructions)
	assert.Contains(t, m.status, "parse error")
	assert.Contains(t, m.status, "line 3")
}

func TestVariantCycleReparses(t *testing.T) {
	m := newModel(t, scene.Bare, bareText)

	m = send(t, m, key("v"))
	assert.Equal(t, scene.Pair, m.variant)
	assert.False(t, m.loaded, "bare text is not a pair scene")

	m = send(t, m, key("v"))
	assert.Equal(t, scene.Guarded, m.variant)
	assert.False(t, m.loaded)

	m = send(t, m, key("v"))
	assert.Equal(t, scene.Bare, m.variant)
	assert.True(t, m.loaded)
	assert.Len(t, m.plan.Polygons(), 2)
}

func TestObserverBoundsToggle(t *testing.T) {
	m := newModel(t, scene.Guarded, "20 20\n1\n3\n0 0\n4 0\n4 4\n0\n")
	assert.Equal(t, 4.0, m.plan.Bounds.MaxX)

	m = send(t, m, key("o"))
	assert.True(t, m.opts.IncludeObserver)
	assert.Equal(t, 20.0, m.plan.Bounds.MaxX)
}

func TestRenderMapDrawsScene(t *testing.T) {
	m := newModel(t, scene.Guarded, guardedText)
	out := m.renderMap(40, 12)

	lines := strings.Split(out, "\n")
	assert.Len(t, lines, 12)
	assert.True(t, strings.ContainsRune(out, '◉'), "observer marker")
	assert.True(t, strings.ContainsAny(out, "⣿⡇⢸"), "braille fill")

	empty := New(config.Default()).renderMap(10, 3)
	assert.Equal(t, strings.Repeat(strings.Repeat(" ", 10)+"\n", 2)+strings.Repeat(" ", 10), empty)
}

func TestLaterPolygonsOcclude(t *testing.T) {
	br := newBrailleBuf(10, 5)
	square := func(x0, y0, x1, y1 int) [][2]int {
		return [][2]int{{x0, y0}, {x1, y0}, {x1, y1}, {x0, y1}, {x0, y0}}
	}
	br.fillMicro(square(0, 0, 19, 19), inkPrimary)
	br.fillMicro(square(4, 4, 12, 12), inkSecondary)

	cells := br.cells()
	assert.Equal(t, inkPrimary, cells[0][0].ink)
	assert.Equal(t, inkSecondary, cells[2][4].ink)
	assert.Equal(t, rune(0x28FF), cells[2][4].r)
}

func TestMapperRoundTrip(t *testing.T) {
	m := newModel(t, scene.Bare, bareText)
	mp, ok := m.mapper(60, 20)
	require.True(t, ok)

	for _, p := range []scene.Point{{X: 0, Y: 0}, {X: 4, Y: 4}, {X: 2, Y: 1}} {
		mx, my := mp.toMicro(p)
		back := mp.fromCell(mx/2, my/4)
		cellW := 2 / mp.scale
		cellH := 4 / mp.scale
		assert.InDelta(t, p.X, back.X, cellW, "x of %v", p)
		assert.InDelta(t, p.Y, back.Y, cellH, "y of %v", p)
	}
}

func TestHoverSnapsToVertex(t *testing.T) {
	m := newModel(t, scene.Bare, bareText)
	m = send(t, m, tea.WindowSizeMsg{Width: 80, Height: 24})

	ox, oy, w, h := m.mapArea()
	mp, ok := m.mapper(w, h)
	require.True(t, ok)
	mx, my := mp.toMicro(scene.Point{X: 4, Y: 4})

	m = send(t, m, tea.MouseMsg{X: ox + mx/2, Y: oy + my/4})
	require.True(t, m.hoverHasHit)
	assert.Equal(t, scene.Point{X: 4, Y: 4}, m.hoverHit.Point)
	assert.Equal(t, layout.RolePrimary, m.hoverHit.Role)

	m = send(t, m, tea.MouseMsg{X: 0, Y: 0})
	assert.False(t, m.hovering)
}

func TestPolygonTable(t *testing.T) {
	m := newModel(t, scene.Guarded, guardedText)
	m = send(t, m, key("a"))
	require.True(t, m.showTable)

	_, rows := m.buildTable()
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"1", "primary", "4", "0", "0", "8", "8"}, rows[0])
	assert.Equal(t, []string{"2", "secondary", "3", "5", "5", "7", "7"}, rows[1])
	assert.Equal(t, "k=2", rows[2][0])
	assert.Len(t, m.tbl.Rows(), 3)

	m = send(t, m, key("a"))
	assert.False(t, m.showTable)
}

func TestPasteMode(t *testing.T) {
	m := New(config.Default())
	m = send(t, m, key("p"))
	require.True(t, m.pasteMode)

	m.ta.SetValue(bareText)
	m = send(t, m, tea.KeyMsg{Type: tea.KeyCtrlD})
	assert.False(t, m.pasteMode)
	assert.True(t, m.loaded)
	assert.Len(t, m.plan.Polygons(), 2)
}

func TestLoadPathAndSidebar(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "room.scn"), []byte(bareText), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.md"), []byte("x"), 0o644))

	m := New(config.Default())
	m.cwd = dir
	m.refreshDir()
	require.Len(t, m.items, 1)
	assert.Equal(t, "room.scn", m.items[0].(fileItem).Title())

	m.loadPath(filepath.Join(dir, "room.scn"))
	assert.True(t, m.loaded)
	assert.Contains(t, m.inspect(), "name: room.scn")

	m.loadPath(filepath.Join(dir, "missing.scn"))
	assert.False(t, m.loaded)
	assert.Contains(t, m.status, "load error")
}

func TestViewRenders(t *testing.T) {
	m := newModel(t, scene.Guarded, guardedText)
	assert.Empty(t, m.View())

	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	out := m.View()
	assert.Contains(t, out, "Visibility with k = 2")
	assert.Contains(t, out, "observer (visibility parameter = 2)")
	assert.Contains(t, out, "secondary polygons")
}

func hasBraille(s string) bool {
	return strings.ContainsFunc(s, func(r rune) bool { return r > 0x2800 && r <= 0x28FF })
}

func TestFlatSceneWithoutMargin(t *testing.T) {
	cfg := config.Default()
	cfg.Margin = 0
	m := New(cfg)
	m.loadText("2\n0 0\n4 0\n0\n")
	require.True(t, m.loaded, m.status)
	assert.Equal(t, 0.0, m.plan.Viewport.Height())

	_, ok := m.mapper(40, 10)
	require.True(t, ok)
	assert.True(t, hasBraille(m.renderMap(40, 10)), "segment is drawn")
}

func TestFailedOpenForgetsSource(t *testing.T) {
	m := New(config.Default())
	m.loadText("3\n0 0\n4 0\n4 4\n1\n3\n1 1\n2 1\n2 2\n")
	require.True(t, m.loaded)

	m.loadPath(filepath.Join(t.TempDir(), "missing.txt"))
	require.False(t, m.loaded)

	m = send(t, m, key("v"))
	assert.Equal(t, scene.Pair, m.variant)
	assert.False(t, m.loaded, "pasted text must not come back")
	assert.Equal(t, "no scene loaded", m.inspect())
}

func TestInspectPopupKeepsMapOrigin(t *testing.T) {
	m := newModel(t, scene.Bare, bareText)
	m = send(t, m, tea.WindowSizeMsg{Width: 100, Height: 30})
	plain := m.View()

	m = send(t, m, key("i"))
	require.NotEmpty(t, m.inspectPopup)
	out := m.View()
	assert.Contains(t, out, "name: <paste>")
	assert.Equal(t, lipgloss.Height(plain), lipgloss.Height(out))
	assert.Equal(t, strings.Split(plain, "\n")[0], strings.Split(out, "\n")[0])

	ox, oy, w, h := m.mapArea()
	mp, ok := m.mapper(w, h)
	require.True(t, ok)
	mx, my := mp.toMicro(scene.Point{X: 4, Y: 0})
	m = send(t, m, tea.MouseMsg{X: ox + mx/2, Y: oy + my/4})
	require.True(t, m.hoverHasHit)
	assert.Equal(t, scene.Point{X: 4, Y: 0}, m.hoverHit.Point)
}
