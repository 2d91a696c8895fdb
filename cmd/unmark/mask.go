package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/example/unmark/internal/mask"
)

// maskCmd renders a stroke file into a mask PNG.
type maskCmd struct {
	*root
	fs      *flag.FlagSet
	width   int
	height  int
	strokes string
	output  string
	feather int
}

func (m *maskCmd) Program() string        { return m.root.program + " mask" }
func (m *maskCmd) FlagSet() *flag.FlagSet { return m.fs }

func parseMaskCmd(args []string, r *root) (*maskCmd, error) {
	fs := flag.NewFlagSet("mask", flag.ExitOnError)
	m := &maskCmd{root: r, fs: fs}
	fs.Usage = usageFunc(m)
	fs.IntVar(&m.width, "width", 0, "mask width in pixels")
	fs.IntVar(&m.height, "height", 0, "mask height in pixels")
	fs.StringVar(&m.strokes, "strokes", "", "stroke file (JSON or YAML)")
	fs.StringVar(&m.output, "output", "mask.png", "output PNG path")
	feather := 0
	if r != nil && r.config != nil {
		feather = r.config.Brush.Feather
	}
	fs.IntVar(&m.feather, "feather", feather, "blur radius for soft mask edges")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if m.width <= 0 || m.height <= 0 || m.strokes == "" {
		return nil, &UsageError{of: m}
	}
	return m, nil
}

func (m *maskCmd) Run() error {
	strokes, err := readStrokes(m.strokes)
	if err != nil {
		return err
	}
	data, err := mask.EncodePNG(m.width, m.height, strokes, m.feather)
	if err != nil {
		return fmt.Errorf("build mask: %w", err)
	}
	if err := os.WriteFile(m.output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", m.output, err)
	}
	log.Info().Str("path", m.output).Int("strokes", len(strokes)).Msg("mask written")
	return nil
}
