package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"image"
	_ "image/png"
	"os"
	"os/signal"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/example/unmark/internal/appstate"
	"github.com/example/unmark/internal/editsvc"
	"github.com/example/unmark/internal/imageio"
	"github.com/example/unmark/internal/mask"
	"github.com/example/unmark/internal/source"
)

// processCmd runs a single edit without opening the editor.
type processCmd struct {
	*root
	fs       *flag.FlagSet
	file     string
	maskPath string
	strokes  string
	output   string
	feather  int
}

func (p *processCmd) Program() string        { return p.root.program + " process" }
func (p *processCmd) FlagSet() *flag.FlagSet { return p.fs }

func parseProcessCmd(args []string, r *root) (*processCmd, error) {
	fs := flag.NewFlagSet("process", flag.ExitOnError)
	p := &processCmd{root: r, fs: fs}
	fs.Usage = usageFunc(p)
	fs.StringVar(&p.file, "file", "", "image to clean")
	fs.StringVar(&p.maskPath, "mask", "", "mask PNG the size of the image")
	fs.StringVar(&p.strokes, "strokes", "", "stroke file to build the mask from")
	fs.StringVar(&p.output, "output", "", "output path (default: a timestamped name in the download directory)")
	feather := 0
	if r != nil && r.config != nil {
		feather = r.config.Brush.Feather
	}
	fs.IntVar(&p.feather, "feather", feather, "blur radius for masks built from -strokes")
	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if p.file == "" || (p.maskPath == "") == (p.strokes == "") {
		return nil, &UsageError{of: p}
	}
	return p, nil
}

func (p *processCmd) buildMask(img *imageio.Image) ([]byte, error) {
	if p.maskPath == "" {
		strokes, err := readStrokes(p.strokes)
		if err != nil {
			return nil, err
		}
		if len(strokes) == 0 {
			return nil, appstate.ErrNothingToProcess
		}
		return mask.EncodePNG(img.Width(), img.Height(), strokes, p.feather)
	}
	data, err := os.ReadFile(p.maskPath)
	if err != nil {
		return nil, err
	}
	cfg, format, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("read mask %s: %w", p.maskPath, err)
	}
	if format != "png" {
		return nil, fmt.Errorf("mask %s is %s, want png", p.maskPath, format)
	}
	if cfg.Width != img.Width() || cfg.Height != img.Height() {
		return nil, fmt.Errorf("mask is %dx%d but image is %dx%d", cfg.Width, cfg.Height, img.Width(), img.Height())
	}
	return data, nil
}

func (p *processCmd) Run() error {
	img, err := source.File(p.file)
	if err != nil {
		return err
	}
	maskData, err := p.buildMask(img)
	if err != nil {
		return err
	}

	id := uuid.NewString()
	job := &appstate.Job{
		ID:   id,
		Name: img.Name,
		Request: editsvc.Request{
			ID:        id,
			Image:     img.Data,
			ImageMIME: img.MIME(),
			Mask:      maskData,
			MaskMIME:  "image/png",
		},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	log.Info().Str("job", id).Str("file", p.file).Msg("sending edit request")
	out, err := appstate.RunJob(ctx, newEditor(p.root.config.Service), job)
	if err != nil {
		if errors.Is(err, editsvc.ErrNoAPIKey) {
			return fmt.Errorf("process %s: %w (set UNMARK_API_KEY)", p.file, err)
		}
		return fmt.Errorf("process %s: %w", p.file, err)
	}

	path := p.output
	if path == "" {
		if path, err = imageio.Save(out, p.root.config.SaveDir, time.Now()); err != nil {
			return err
		}
	} else if err := os.WriteFile(path, out.Data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	log.Info().Str("job", id).Str("path", path).Msg("watermark removed")
	if p.root.notifier != nil {
		p.root.notifier.Processed(img.Name, out.Pixels)
		p.root.notifier.Save(path)
	}
	return nil
}
