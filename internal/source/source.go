// Package source loads images into the editor from files, the clipboard,
// the desktop file chooser and screen captures.
package source

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/example/unmark/internal/clipboard"
	"github.com/example/unmark/internal/imageio"
)

var (
	// ErrCancelled is returned when the user dismisses a dialog.
	ErrCancelled = errors.New("cancelled")
	// ErrUnsupported is returned when a source is unavailable on this platform.
	ErrUnsupported = errors.New("not supported on this platform")
)

// Seams for tests.
var (
	readClipboard = clipboard.ReadImage
	chooseFile    = portalChooseFile
	screenshot    = portalScreenshot
	rootGrab      = grabRoot
)

// File loads the image at path.
func File(path string) (*imageio.Image, error) {
	return imageio.Load(path)
}

// Clipboard decodes the image currently on the clipboard.
func Clipboard() (*imageio.Image, error) {
	data, err := readClipboard()
	if err != nil {
		return nil, fmt.Errorf("read clipboard: %w", err)
	}
	return imageio.Decode(data, "clipboard")
}

// Open asks the user for an image file through the desktop file chooser.
func Open(ctx context.Context) (*imageio.Image, error) {
	path, err := chooseFile(ctx, "Open image")
	if err != nil {
		return nil, err
	}
	return File(path)
}

// Capture grabs an interactively selected screen region. When the desktop
// portal is unavailable it falls back to the whole X11 root window.
func Capture(ctx context.Context) (*imageio.Image, error) {
	path, err := screenshot(ctx, true)
	switch {
	case err == nil:
		img, lerr := File(path)
		if rerr := os.Remove(path); rerr != nil && !errors.Is(rerr, os.ErrNotExist) {
			log.Debug().Err(rerr).Str("path", path).Msg("remove portal screenshot")
		}
		if lerr != nil {
			return nil, lerr
		}
		img.Name = "screenshot"
		return img, nil
	case errors.Is(err, ErrCancelled), ctx.Err() != nil:
		return nil, err
	}
	log.Debug().Err(err).Msg("portal screenshot failed, grabbing root window")
	raster, gerr := rootGrab()
	if gerr != nil {
		return nil, fmt.Errorf("screenshot: %v; root grab: %w", err, gerr)
	}
	return imageio.FromRaster(raster, "screenshot")
}
