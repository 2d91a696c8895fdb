//go:build !(linux || freebsd || openbsd || netbsd || dragonfly)

package source

import (
	"context"
	"image"
)

func portalScreenshot(context.Context, bool) (string, error) { return "", ErrUnsupported }

func portalChooseFile(context.Context, string) (string, error) { return "", ErrUnsupported }

func grabRoot() (*image.RGBA, error) { return nil, ErrUnsupported }
