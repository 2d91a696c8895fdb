package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/example/unmark/internal/appstate"
	"github.com/example/unmark/internal/imageio"
	"github.com/example/unmark/internal/source"
)

var (
	runWindow     = func(st *appstate.AppState) { st.Run() }
	loadFile      = source.File
	readClipboard = source.Clipboard
	captureScreen = source.Capture
)

// editCmd opens the interactive editor.
type editCmd struct {
	*root
	fs            *flag.FlagSet
	file          string
	fromClipboard bool
	capture       bool
	brush         float64
}

func (e *editCmd) Program() string        { return e.root.program + " edit" }
func (e *editCmd) FlagSet() *flag.FlagSet { return e.fs }

func parseEditCmd(args []string, r *root) (*editCmd, error) {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	e := &editCmd{root: r, fs: fs}
	fs.Usage = usageFunc(e)
	fs.StringVar(&e.file, "file", "", "image file to open")
	fs.BoolVar(&e.fromClipboard, "from-clipboard", false, "start with the image on the clipboard")
	fs.BoolVar(&e.fromClipboard, "from-clip", false, "start with the image on the clipboard (alias)")
	fs.BoolVar(&e.capture, "capture", false, "start with a screenshot")
	fs.Float64Var(&e.brush, "brush", 0, "initial brush size in pixels")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if fs.NArg() == 1 && e.file == "" {
		e.file = fs.Arg(0)
	} else if fs.NArg() > 0 {
		return nil, &UsageError{of: e}
	}
	n := 0
	for _, set := range []bool{e.file != "", e.fromClipboard, e.capture} {
		if set {
			n++
		}
	}
	if n > 1 {
		return nil, fmt.Errorf("-file, -from-clipboard and -capture are mutually exclusive")
	}
	return e, nil
}

func (e *editCmd) initialImage() (*imageio.Image, error) {
	switch {
	case e.file != "":
		return loadFile(e.file)
	case e.fromClipboard:
		img, err := readClipboard()
		if err != nil {
			return nil, fmt.Errorf("read clipboard: %w", err)
		}
		return img, nil
	case e.capture:
		img, err := captureScreen(context.Background())
		if err != nil {
			return nil, fmt.Errorf("capture screen: %w", err)
		}
		return img, nil
	}
	return nil, nil
}

func (e *editCmd) options() []appstate.Option {
	cfg := e.root.config
	opts := []appstate.Option{
		appstate.WithSaveDir(cfg.SaveDir),
		appstate.WithTheme(e.root.activeTheme),
		appstate.WithEditor(newEditor(cfg.Service)),
		appstate.WithFeather(cfg.Brush.Feather),
	}
	if size := e.brush; size > 0 {
		opts = append(opts, appstate.WithBrushSize(size))
	} else if cfg.Brush.Size > 0 {
		opts = append(opts, appstate.WithBrushSize(cfg.Brush.Size))
	}
	if cfg.View.Margin > 0 {
		opts = append(opts, appstate.WithMargin(cfg.View.Margin))
	}
	if e.root.notifier != nil {
		opts = append(opts, appstate.WithNotifier(e.root.notifier))
	}
	return opts
}

func (e *editCmd) Run() error {
	img, err := e.initialImage()
	if err != nil {
		return err
	}
	opts := e.options()
	if img != nil {
		opts = append(opts, appstate.WithImage(img))
	}
	runWindow(appstate.New(opts...))
	return nil
}
