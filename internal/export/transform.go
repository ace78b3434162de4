// Package export writes a render plan as a static SVG or PNG image.
package export

import (
	"fmt"
	"image/color"
	"math"

	"github.com/lucasb-eyer/go-colorful"

	"visscene/internal/config"
	"visscene/internal/layout"
	"visscene/internal/scene"
)

const (
	framePad     = 10.0
	titleBand    = 30.0
	legendLineH  = 18.0
	legendSwatch = 12.0
	strokeWidth  = 1.5
)

// frame maps scene coordinates into a pixel rectangle, y up, keeping the
// aspect ratio of the viewport.
type frame struct {
	vp         layout.Viewport
	scale      float64
	left, base float64 // pixel x of vp.MinX, pixel y of vp.MinY
}

func newFrame(plan layout.RenderPlan, width, height int) frame {
	top := framePad
	if plan.Title != "" {
		top += titleBand
	}
	bottom := framePad + legendLineH*float64(len(plan.Legend))

	availW := math.Max(1, float64(width)-2*framePad)
	availH := math.Max(1, float64(height)-top-bottom)

	vp := plan.Viewport
	vw, vh := vp.Width(), vp.Height()
	if !(vw > 0) {
		vw = 1
	}
	if !(vh > 0) {
		vh = 1
	}
	scale := math.Min(availW/vw, availH/vh)

	left := framePad + (availW-vw*scale)/2
	base := top + availH - (availH-vh*scale)/2
	return frame{vp: vp, scale: scale, left: left, base: base}
}

func (f frame) project(p scene.Point) (float64, float64) {
	return f.left + (p.X-f.vp.MinX)*f.scale, f.base - (p.Y-f.vp.MinY)*f.scale
}

// palette holds the parsed role colours.
type palette struct {
	primary, secondary, observer colorful.Color
	opacity                      float64
	radius                       float64
}

func newPalette(st config.Style) (palette, error) {
	var p palette
	var err error
	if p.primary, err = colorful.Hex(st.Primary); err != nil {
		return palette{}, fmt.Errorf("primary colour %q: %w", st.Primary, err)
	}
	if p.secondary, err = colorful.Hex(st.Secondary); err != nil {
		return palette{}, fmt.Errorf("secondary colour %q: %w", st.Secondary, err)
	}
	if p.observer, err = colorful.Hex(st.Observer); err != nil {
		return palette{}, fmt.Errorf("observer colour %q: %w", st.Observer, err)
	}
	p.opacity = st.FillOpacity
	p.radius = math.Max(1, st.MarkerRadius)
	return p, nil
}

func (p palette) of(r layout.Role) colorful.Color {
	switch r {
	case layout.RoleSecondary:
		return p.secondary
	case layout.RoleObserver:
		return p.observer
	}
	return p.primary
}

var textColor = color.Black
