// Package render draws the editor canvas: the working image under the view
// transform with the painted mask on top.
package render

import (
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/gogpu/gg"

	"github.com/example/unmark/internal/geom"
	"github.com/example/unmark/internal/mask"
)

// HighlightOpacity is how strongly painted strokes cover the image.
const HighlightOpacity = 0.5

// DefaultHighlight is the stroke overlay colour.
var DefaultHighlight = color.RGBA{255, 0, 0, 255}

// Frame is everything one canvas render depends on.
type Frame struct {
	Image   *image.RGBA
	Strokes []mask.Stroke
	View    geom.View
	// DPR is the device pixel ratio; Size is in logical pixels.
	DPR  float64
	Size geom.Size

	Background color.RGBA
	Dots       color.RGBA
	Highlight  color.RGBA
}

// Renderer keeps the conversions that are costly to repeat every frame. The
// output depends only on the Frame.
type Renderer struct {
	src *image.RGBA
	buf *gg.ImageBuf

	backdrop    *image.RGBA
	backdropKey backdropKey
}

// NewRenderer returns an empty Renderer.
func NewRenderer() *Renderer { return &Renderer{} }

// Canvas renders f with a throwaway Renderer.
func Canvas(f Frame) (*image.RGBA, error) {
	return NewRenderer().Canvas(f)
}

// BackingSize returns the device pixel size of the surface for f.
func BackingSize(f Frame) image.Point {
	dpr := f.DPR
	if dpr <= 0 {
		dpr = 1
	}
	return image.Pt(int(math.Round(f.Size.W*dpr)), int(math.Round(f.Size.H*dpr)))
}

// Canvas renders a frame into a surface of BackingSize(f) device pixels.
func (r *Renderer) Canvas(f Frame) (*image.RGBA, error) {
	size := BackingSize(f)
	if size.X <= 0 || size.Y <= 0 {
		return image.NewRGBA(image.Rectangle{}), nil
	}
	dpr := f.DPR
	if dpr <= 0 {
		dpr = 1
	}
	bg := r.backdropFor(size, dpr, f.Background, f.Dots)
	if f.Image == nil {
		out := image.NewRGBA(bg.Bounds())
		copy(out.Pix, bg.Pix)
		return out, nil
	}

	dc := gg.NewContextForImage(bg)
	defer dc.Close()
	dc.Scale(dpr, dpr)

	dc.Push()
	dc.Translate(f.View.Offset.X, f.View.Offset.Y)
	dc.Scale(f.View.Scale, f.View.Scale)
	dc.DrawImage(r.imageBuf(f.Image), 0, 0)

	hl := f.Highlight
	if hl.A == 0 {
		hl = DefaultHighlight
	}
	dc.SetRGBA(float64(hl.R)/255, float64(hl.G)/255, float64(hl.B)/255, HighlightOpacity)
	for i, s := range f.Strokes {
		if err := mask.Trace(dc, s); err != nil {
			dc.Pop()
			return nil, fmt.Errorf("stroke %d: %w", i, err)
		}
	}
	dc.Pop()

	img, ok := dc.Image().(*image.RGBA)
	if !ok {
		return nil, fmt.Errorf("unexpected canvas image type %T", dc.Image())
	}
	return img, nil
}

func (r *Renderer) imageBuf(img *image.RGBA) *gg.ImageBuf {
	if r.src != img || r.buf == nil {
		r.src = img
		r.buf = gg.ImageBufFromImage(img)
	}
	return r.buf
}
