package tui

import (
	"math"

	"visscene/internal/layout"
	"visscene/internal/scene"
)

// mapper fits the plan viewport into a w x h cell map on the braille
// micro-grid. Micro-pixels are roughly square, so one scale serves both axes.
type mapper struct {
	midX, midY float64 // viewport centre
	cx, cy     float64 // micro-grid centre after panning
	scale      float64
}

func (m Model) mapper(w, h int) (mapper, bool) {
	vp := m.plan.Viewport
	if !m.loaded || w <= 1 || h <= 1 {
		return mapper{}, false
	}
	// a flat viewport (margin 0, collinear scene) gets a unit span
	vw, vh := vp.Width(), vp.Height()
	if !(vw > 0) {
		vw = 1
	}
	if !(vh > 0) {
		vh = 1
	}
	wMic, hMic := float64(w*2-1), float64(h*4-1)
	return mapper{
		midX:  (vp.MinX + vp.MaxX) / 2,
		midY:  (vp.MinY + vp.MaxY) / 2,
		cx:    wMic/2 + float64(m.offsetX*2),
		cy:    hMic/2 + float64(m.offsetY*4),
		scale: math.Min(wMic/vw, hMic/vh) * m.zoom,
	}, true
}

// toMicro maps a scene point to micro-grid coordinates.
func (mp mapper) toMicro(p scene.Point) (int, int) {
	x := mp.cx + (p.X-mp.midX)*mp.scale
	y := mp.cy - (p.Y-mp.midY)*mp.scale
	return int(math.Round(x)), int(math.Round(y))
}

// fromCell maps the centre of a map cell back to scene coordinates.
func (mp mapper) fromCell(cx, cy int) scene.Point {
	x := float64(cx*2) + 0.5
	y := float64(cy*4) + 1.5
	return scene.Point{
		X: mp.midX + (x-mp.cx)/mp.scale,
		Y: mp.midY - (y-mp.cy)/mp.scale,
	}
}

// renderMap draws the plan in order, then the observer and hover markers.
func (m Model) renderMap(w, h int) string {
	br := newBrailleBuf(w, h)
	mp, ok := m.mapper(w, h)
	if !ok {
		return m.pal.paint(br.cells())
	}

	var observer *layout.DrawPoint
	for _, in := range m.plan.Instructions {
		switch d := in.(type) {
		case layout.DrawPolygon:
			k := roleInk(d.Role)
			outline := make([][2]int, 0, len(d.Outline))
			for _, p := range d.Outline {
				x, y := mp.toMicro(p)
				outline = append(outline, [2]int{x, y})
			}
			if m.fill {
				br.fillMicro(outline, k)
			}
			for i := 0; i+1 < len(outline); i++ {
				a, b := outline[i], outline[i+1]
				br.drawLineMicro(a[0], a[1], b[0], b[1], k)
			}
		case layout.DrawPoint:
			observer = &d
		}
	}

	grid := br.cells()
	put := func(mx, my int, r rune, k ink) {
		cx, cy := mx/2, my/4
		if mx < 0 || my < 0 || cy >= len(grid) || cx >= len(grid[cy]) {
			return
		}
		grid[cy][cx] = cell{r: r, ink: k}
	}
	if observer != nil {
		x, y := mp.toMicro(observer.Location)
		put(x, y, '◉', inkObserver)
	}
	if m.hovering && m.hoverHasHit {
		put(m.hoverMicX, m.hoverMicY, '◯', inkHover)
	}
	return m.pal.paint(grid)
}

// sceneAtCell converts a map cell to scene coordinates.
func (m Model) sceneAtCell(cx, cy, w, h int) (scene.Point, bool) {
	mp, ok := m.mapper(w, h)
	if !ok {
		return scene.Point{}, false
	}
	return mp.fromCell(cx, cy), true
}
