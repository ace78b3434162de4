package export

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	log "github.com/sirupsen/logrus"

	"visscene/internal/config"
	"visscene/internal/layout"
)

// File writes plan to path, choosing SVG or PNG by extension.
func File(path string, plan layout.RenderPlan, st config.Style) (err error) {
	var write func(io.Writer, layout.RenderPlan, config.Style) error
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".svg":
		write = SVG
	case ".png":
		write = PNG
	default:
		return fmt.Errorf("export %s: unsupported extension %q (want .svg or .png)", path, ext)
	}

	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("export: %w", err)
	}
	defer func() {
		if cerr := out.Close(); err == nil && cerr != nil {
			err = fmt.Errorf("export %s: %w", path, cerr)
		}
	}()

	if err := write(out, plan, st); err != nil {
		return fmt.Errorf("export %s: %w", path, err)
	}
	log.WithFields(log.Fields{
		"path":         path,
		"instructions": len(plan.Instructions),
		"size":         fmt.Sprintf("%dx%d", st.Width, st.Height),
	}).Info("scene exported")
	return nil
}
