package export

import (
	"bytes"
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"visscene/internal/config"
	"visscene/internal/layout"
	"visscene/internal/scene"
)

const guardedScene = "2 2\n3\n4\n0 0\n10 0\n10 10\n0 10\n2\n3\n6 6\n8 6\n8 8\n3\n1 7\n2 7\n2 9\n"

func guardedPlan(t *testing.T) layout.RenderPlan {
	t.Helper()
	s, err := scene.ParseReader(strings.NewReader(guardedScene), scene.Guarded)
	require.NoError(t, err)
	return layout.Layout(s, layout.DefaultOptions())
}

func TestSVG(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, guardedPlan(t), config.Default().Style))

	out := buf.String()
	assert.True(t, strings.HasPrefix(out, "<?xml"))
	assert.Contains(t, out, "</svg>")
	assert.Equal(t, 3, strings.Count(out, "<polygon"))
	assert.Equal(t, 1, strings.Count(out, "<circle"))
	assert.Contains(t, out, "Visibility with k = 3")
	assert.Contains(t, out, "observer (visibility parameter = 3)")
	assert.Contains(t, out, "fill-opacity:0.50")

	// primary is written before the secondaries
	first := strings.Index(out, "<polygon")
	assert.Contains(t, out[first:first+200], "#1f2937")
}

func TestPNG(t *testing.T) {
	plan := guardedPlan(t)
	st := config.Default().Style
	st.Width, st.Height = 200, 240

	var buf bytes.Buffer
	require.NoError(t, PNG(&buf, plan, st))

	img, err := png.Decode(&buf)
	require.NoError(t, err)
	assert.Equal(t, 200, img.Bounds().Dx())
	assert.Equal(t, 240, img.Bounds().Dy())

	// inside the primary polygon only: blended fill, not background
	x, y := newFrame(plan, st.Width, st.Height).project(scene.Point{X: 4, Y: 2})
	r, g, b, _ := img.At(px(x), px(y)).RGBA()
	assert.False(t, r == 0xffff && g == 0xffff && b == 0xffff, "expected fill at (%v,%v)", x, y)

	// outside the padded viewport stays white
	r, g, b, _ = img.At(1, 1).RGBA()
	assert.True(t, r == 0xffff && g == 0xffff && b == 0xffff)
}

func TestFrameKeepsViewportInside(t *testing.T) {
	plan := guardedPlan(t)
	f := newFrame(plan, 300, 200)

	x0, y0 := f.project(scene.Point{X: plan.Viewport.MinX, Y: plan.Viewport.MinY})
	x1, y1 := f.project(scene.Point{X: plan.Viewport.MaxX, Y: plan.Viewport.MaxY})
	assert.Less(t, x0, x1)
	assert.Greater(t, y0, y1, "y axis points up")
	assert.GreaterOrEqual(t, x0, framePad-1e-9)
	assert.LessOrEqual(t, x1, 300-framePad+1e-9)
	assert.GreaterOrEqual(t, y1, framePad+titleBand-1e-9)
	assert.InDelta(t, x1-x0, y0-y1, 1e-9, "square viewport stays square")
}

func TestDegenerateViewport(t *testing.T) {
	s := scene.Scene{Primary: scene.Polygon{{X: 1, Y: 1}}}
	plan := layout.Layout(s, layout.Options{})

	var buf bytes.Buffer
	require.NoError(t, SVG(&buf, plan, config.Default().Style))
	assert.Contains(t, buf.String(), "<polygon")
}

func TestBadColour(t *testing.T) {
	st := config.Default().Style
	st.Secondary = "red"
	err := SVG(&bytes.Buffer{}, guardedPlan(t), st)
	assert.ErrorContains(t, err, "secondary colour")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestSVGWriteError(t *testing.T) {
	err := SVG(failingWriter{}, guardedPlan(t), config.Default().Style)
	assert.ErrorContains(t, err, "disk full")
}

func TestFile(t *testing.T) {
	dir := t.TempDir()
	plan := guardedPlan(t)
	st := config.Default().Style
	st.Width, st.Height = 120, 120

	for _, name := range []string{"scene.svg", "scene.PNG"} {
		p := filepath.Join(dir, name)
		require.NoError(t, File(p, plan, st))
		info, err := os.Stat(p)
		require.NoError(t, err)
		assert.Positive(t, info.Size())
	}

	err := File(filepath.Join(dir, "scene.pdf"), plan, st)
	assert.ErrorContains(t, err, "unsupported extension")
}
