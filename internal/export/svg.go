package export

import (
	"fmt"
	"io"
	"math"

	svg "github.com/ajstarks/svgo"

	"visscene/internal/config"
	"visscene/internal/layout"
)

// errWriter remembers the first write error; svgo does not report them.
type errWriter struct {
	w   io.Writer
	err error
}

func (e *errWriter) Write(p []byte) (int, error) {
	if e.err != nil {
		return 0, e.err
	}
	n, err := e.w.Write(p)
	e.err = err
	return n, err
}

// SVG writes plan as an SVG document of st.Width x st.Height pixels.
func SVG(w io.Writer, plan layout.RenderPlan, st config.Style) error {
	pal, err := newPalette(st)
	if err != nil {
		return err
	}
	f := newFrame(plan, st.Width, st.Height)
	ew := &errWriter{w: w}
	canvas := svg.New(ew)
	canvas.Start(st.Width, st.Height)
	canvas.Rect(0, 0, st.Width, st.Height, "fill:white")

	if plan.Title != "" {
		canvas.Text(st.Width/2, int(framePad+titleBand/2), plan.Title,
			"text-anchor:middle;dominant-baseline:middle;font-family:sans-serif;font-size:16px")
	}

	for _, in := range plan.Instructions {
		switch d := in.(type) {
		case layout.DrawPolygon:
			if len(d.Outline) == 0 {
				continue
			}
			xs := make([]int, len(d.Outline))
			ys := make([]int, len(d.Outline))
			for i, p := range d.Outline {
				x, y := f.project(p)
				xs[i], ys[i] = px(x), px(y)
			}
			hex := pal.of(d.Role).Hex()
			canvas.Polygon(xs, ys, fmt.Sprintf("fill:%s;fill-opacity:%.2f;stroke:%s;stroke-width:%.1f",
				hex, pal.opacity, hex, strokeWidth))
		case layout.DrawPoint:
			x, y := f.project(d.Location)
			canvas.Circle(px(x), px(y), px(pal.radius),
				fmt.Sprintf("fill:%s;stroke:white;stroke-width:1", pal.of(d.Role).Hex()))
		}
	}

	for i, e := range plan.Legend {
		y := float64(st.Height) - framePad - legendLineH*float64(len(plan.Legend)-1-i)
		canvas.Rect(int(framePad), px(y-legendSwatch), int(legendSwatch), int(legendSwatch),
			fmt.Sprintf("fill:%s", pal.of(e.Role).Hex()))
		canvas.Text(int(framePad+legendSwatch+6), px(y-2), e.Label,
			"font-family:sans-serif;font-size:12px")
	}

	canvas.End()
	return ew.err
}

func px(v float64) int { return int(math.Round(v)) }
