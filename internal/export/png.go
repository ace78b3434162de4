package export

import (
	"io"

	"github.com/fogleman/gg"

	"visscene/internal/config"
	"visscene/internal/layout"
)

// PNG rasterises plan into a st.Width x st.Height image.
func PNG(w io.Writer, plan layout.RenderPlan, st config.Style) error {
	pal, err := newPalette(st)
	if err != nil {
		return err
	}
	f := newFrame(plan, st.Width, st.Height)
	dc := gg.NewContext(st.Width, st.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()

	for _, in := range plan.Instructions {
		switch d := in.(type) {
		case layout.DrawPolygon:
			if len(d.Outline) == 0 {
				continue
			}
			dc.NewSubPath()
			for i, p := range d.Outline {
				x, y := f.project(p)
				if i == 0 {
					dc.MoveTo(x, y)
				} else {
					dc.LineTo(x, y)
				}
			}
			dc.ClosePath()
			c := pal.of(d.Role)
			dc.SetRGBA(c.R, c.G, c.B, pal.opacity)
			dc.FillPreserve()
			dc.SetRGB(c.R, c.G, c.B)
			dc.SetLineWidth(strokeWidth)
			dc.Stroke()
		case layout.DrawPoint:
			x, y := f.project(d.Location)
			c := pal.of(d.Role)
			dc.DrawCircle(x, y, pal.radius)
			dc.SetRGB(c.R, c.G, c.B)
			dc.FillPreserve()
			dc.SetRGB(1, 1, 1)
			dc.SetLineWidth(1)
			dc.Stroke()
		}
	}

	dc.SetColor(textColor)
	if plan.Title != "" {
		dc.DrawStringAnchored(plan.Title, float64(st.Width)/2, framePad+titleBand/2, 0.5, 0.5)
	}
	for i, e := range plan.Legend {
		y := float64(st.Height) - framePad - legendLineH*float64(len(plan.Legend)-1-i)
		c := pal.of(e.Role)
		dc.DrawRectangle(framePad, y-legendSwatch, legendSwatch, legendSwatch)
		dc.SetRGB(c.R, c.G, c.B)
		dc.Fill()
		dc.SetColor(textColor)
		dc.DrawString(e.Label, framePad+legendSwatch+6, y-2)
	}

	return dc.EncodePNG(w)
}
