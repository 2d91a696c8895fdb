// Package editsvc talks to the remote image edit service that regenerates the
// masked parts of an image.
package editsvc

import (
	"context"
	"errors"
)

var (
	// ErrNoImage is returned when the service answers without an image.
	ErrNoImage = errors.New("edit service returned no image")
	// ErrNoAPIKey is returned when no credentials are configured.
	ErrNoAPIKey = errors.New("no API key configured")
)

// Request carries the original image and the mask, both encoded. White mask
// pixels mark the region to regenerate.
type Request struct {
	ID        string
	Image     []byte
	ImageMIME string
	Mask      []byte
	MaskMIME  string
}

// Result is the replacement image.
type Result struct {
	Data []byte
	MIME string
}

// Editor performs a single blocking edit. Implementations do not retry.
type Editor interface {
	Edit(ctx context.Context, req Request) (*Result, error)
}

// EditorFunc adapts a function to Editor.
type EditorFunc func(ctx context.Context, req Request) (*Result, error)

// Edit calls f.
func (f EditorFunc) Edit(ctx context.Context, req Request) (*Result, error) { return f(ctx, req) }
