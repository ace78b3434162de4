package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	log "github.com/sirupsen/logrus"
	prefixed "github.com/x-cray/logrus-prefixed-formatter"

	"visscene/internal/config"
	"visscene/internal/export"
	"visscene/internal/layout"
	"visscene/internal/scene"
	"visscene/internal/tui"
)

type options struct {
	configPath      string
	variant         string
	margin          float64
	includeObserver bool
	exportPath      string
	size            string
	logLevel        string
}

func parseFlags(args []string) (options, []string, *flag.FlagSet, error) {
	var o options
	fs := flag.NewFlagSet("visscene", flag.ContinueOnError)
	fs.StringVar(&o.configPath, "config", "", "YAML config file")
	fs.StringVar(&o.variant, "variant", "", "scene file variant: bare, pair or guarded")
	fs.Float64Var(&o.margin, "margin", -1, "viewport padding in scene units (default from config, 2)")
	fs.BoolVar(&o.includeObserver, "include-observer", false, "include the observer point in the viewport bounds")
	fs.StringVar(&o.exportPath, "export", "", "write the scene to an .svg or .png file instead of opening the viewer")
	fs.StringVar(&o.size, "size", "", "export canvas size, WxH in pixels")
	fs.StringVar(&o.logLevel, "log-level", "", "log level (trace, debug, info, warn, error)")
	fs.Usage = func() {
		fmt.Fprintf(fs.Output(), "usage: visscene [flags] [scene-file]\n")
		fs.PrintDefaults()
	}
	err := fs.Parse(args)
	return o, fs.Args(), fs, err
}

// applyFlags overrides cfg with flags that were set on the command line.
func applyFlags(cfg *config.Config, o options, fs *flag.FlagSet) error {
	set := map[string]bool{}
	fs.Visit(func(f *flag.Flag) { set[f.Name] = true })

	if set["variant"] {
		cfg.Variant = o.variant
	}
	if set["margin"] {
		cfg.Margin = o.margin
	}
	if set["include-observer"] {
		cfg.IncludeObserver = o.includeObserver
	}
	if set["log-level"] {
		cfg.LogLevel = o.logLevel
	}
	if set["size"] {
		w, h, ok := strings.Cut(strings.ToLower(o.size), "x")
		if !ok {
			return fmt.Errorf("size %q: want WxH", o.size)
		}
		var err error
		if cfg.Style.Width, err = strconv.Atoi(w); err != nil {
			return fmt.Errorf("size %q: %w", o.size, err)
		}
		if cfg.Style.Height, err = strconv.Atoi(h); err != nil {
			return fmt.Errorf("size %q: %w", o.size, err)
		}
	}
	return cfg.Validate()
}

// setupLogging sends logs to the configured file, or to fallback when none
// is configured.
func setupLogging(cfg config.Config, fallback io.Writer) (io.Closer, error) {
	level, err := log.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	log.SetLevel(level)
	log.SetFormatter(&prefixed.TextFormatter{
		TimestampFormat: "2006-01-02 15:04:05",
		FullTimestamp:   true,
		ForceFormatting: true,
	})
	if cfg.LogFile == "" {
		log.SetOutput(fallback)
		return io.NopCloser(nil), nil
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	log.SetOutput(f)
	return f, nil
}

// exportScene parses path and writes the image. A malformed file aborts
// before anything is written.
func exportScene(cfg config.Config, path, out string) error {
	f, err := os.Open(path)
	if err != nil {
		return err
	}
	defer f.Close()

	s, err := scene.ParseReader(f, cfg.SceneVariant())
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	plan := layout.Layout(s, cfg.LayoutOptions())
	log.WithFields(log.Fields{
		"path":     path,
		"variant":  s.Variant.String(),
		"polygons": len(plan.Polygons()),
	}).Debug("scene parsed")
	return export.File(out, plan, cfg.Style)
}

func run(args []string) error {
	o, rest, fs, err := parseFlags(args)
	if err != nil {
		return err
	}
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return err
	}
	if err := applyFlags(&cfg, o, fs); err != nil {
		return err
	}

	// the viewer owns the terminal; without a log file its logs are dropped
	fallback := io.Writer(os.Stderr)
	if o.exportPath == "" {
		fallback = io.Discard
	}
	closer, err := setupLogging(cfg, fallback)
	if err != nil {
		return err
	}
	defer closer.Close()

	if o.exportPath != "" {
		if len(rest) != 1 {
			return errors.New("-export needs exactly one scene file")
		}
		return exportScene(cfg, rest[0], o.exportPath)
	}

	var m tea.Model
	if len(rest) > 0 {
		m = tui.NewWithPath(cfg, rest[0])
	} else {
		m = tui.New(cfg)
	}
	_, err = tea.NewProgram(m, tea.WithAltScreen(), tea.WithMouseAllMotion()).Run()
	return err
}

func main() {
	if err := run(os.Args[1:]); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			return
		}
		log.SetOutput(os.Stderr)
		log.Fatal(err)
	}
}
