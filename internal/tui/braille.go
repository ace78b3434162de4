package tui

import "sort"

// cell is one rendered map character.
type cell struct {
	r   rune
	ink ink
}

// brailleBuf is a 2x4 micro-pixel grid per cell. Each cell remembers the
// ink of the last draw that touched it, so later draws occlude earlier ones.
type brailleBuf struct {
	w, h int       // in cells
	m    [][]uint8 // per-cell 8-bit mask
	ink  [][]ink
}

func newBrailleBuf(w, h int) *brailleBuf {
	m := make([][]uint8, h)
	k := make([][]ink, h)
	for i := range m {
		m[i] = make([]uint8, w)
		k[i] = make([]ink, w)
		for j := range k[i] {
			k[i][j] = inkNone
		}
	}
	return &brailleBuf{w: w, h: h, m: m, ink: k}
}

var brailleBits = [2][4]uint8{
	{0x01, 0x02, 0x04, 0x40},
	{0x08, 0x10, 0x20, 0x80},
}

// setPixel sets a micro-pixel at micro coords (2x4 per cell)
func (b *brailleBuf) setPixel(mx, my int, k ink) {
	if mx < 0 || my < 0 {
		return
	}
	cx, cy := mx/2, my/4
	if cy >= b.h || cx >= b.w {
		return
	}
	b.m[cy][cx] |= brailleBits[mx%2][my%4]
	b.ink[cy][cx] = k
}

// drawLineMicro draws a line on the microgrid using Bresenham
func (b *brailleBuf) drawLineMicro(x0, y0, x1, y1 int, k ink) {
	dx := abs(x1 - x0)
	sx := -1
	if x0 < x1 {
		sx = 1
	}
	dy := -abs(y1 - y0)
	sy := -1
	if y0 < y1 {
		sy = 1
	}
	err := dx + dy
	for {
		b.setPixel(x0, y0, k)
		if x0 == x1 && y0 == y1 {
			break
		}
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x0 += sx
		}
		if e2 <= dx {
			err += dx
			y0 += sy
		}
	}
}

// fillMicro fills a closed micro-grid outline with the even-odd rule.
// The outline repeats its first point at the end.
func (b *brailleBuf) fillMicro(outline [][2]int, k ink) {
	hMic := b.h * 4
	for yMic := 0; yMic < hMic; yMic++ {
		var xs []int
		for i := 0; i+1 < len(outline); i++ {
			a, c := outline[i], outline[i+1]
			if a[1] == c[1] { // horizontal edge: skip
				continue
			}
			y0, y1 := a[1], c[1]
			if (yMic >= y0 && yMic < y1) || (yMic >= y1 && yMic < y0) {
				t := float64(yMic-y0) / float64(y1-y0)
				xs = append(xs, int(float64(a[0])+t*float64(c[0]-a[0])))
			}
		}
		if len(xs) < 2 {
			continue
		}
		sort.Ints(xs)
		for i := 0; i+1 < len(xs); i += 2 {
			for xMic := max(0, xs[i]); xMic <= min(xs[i+1], b.w*2-1); xMic++ {
				b.setPixel(xMic, yMic, k)
			}
		}
	}
}

func (b *brailleBuf) cells() [][]cell {
	out := make([][]cell, b.h)
	for y := 0; y < b.h; y++ {
		row := make([]cell, b.w)
		for x := 0; x < b.w; x++ {
			mask := b.m[y][x]
			if mask == 0 {
				row[x] = cell{r: ' ', ink: inkNone}
			} else {
				row[x] = cell{r: rune(0x2800 + int(mask)), ink: b.ink[y][x]}
			}
		}
		out[y] = row
	}
	return out
}
