// Package mask turns recorded brush strokes into the black and white mask
// image handed to the edit service. White marks pixels to regenerate.
package mask

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/gogpu/gg"

	"github.com/example/unmark/internal/geom"
)

// Stroke is one continuous brush gesture in image coordinates. Size is the
// brush diameter and is fixed when the stroke starts.
type Stroke struct {
	Points []geom.Point `json:"points"`
	Size   float64      `json:"size"`
}

// Clone returns a deep copy of s.
func (s Stroke) Clone() Stroke {
	pts := make([]geom.Point, len(s.Points))
	copy(pts, s.Points)
	return Stroke{Points: pts, Size: s.Size}
}

// CloneAll deep copies a stroke list.
func CloneAll(strokes []Stroke) []Stroke {
	out := make([]Stroke, len(strokes))
	for i, s := range strokes {
		out[i] = s.Clone()
	}
	return out
}

// Trace fills s into dc with the current colour. A single point becomes a
// disc of diameter Size, anything longer a round capped and joined polyline.
func Trace(dc *gg.Context, s Stroke) error {
	switch len(s.Points) {
	case 0:
		return nil
	case 1:
		p := s.Points[0]
		dc.DrawCircle(p.X, p.Y, s.Size/2)
		return dc.Fill()
	}
	dc.SetLineWidth(s.Size)
	dc.SetLineCap(gg.LineCapRound)
	dc.SetLineJoin(gg.LineJoinRound)
	dc.MoveTo(s.Points[0].X, s.Points[0].Y)
	for _, p := range s.Points[1:] {
		dc.LineTo(p.X, p.Y)
	}
	return dc.Stroke()
}

// Synthesize rasterizes strokes onto a w×h black canvas in white.
func Synthesize(w, h int, strokes []Stroke) (*image.Gray, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("mask size %dx%d is empty", w, h)
	}
	dc := gg.NewContext(w, h)
	defer dc.Close()
	dc.ClearWithColor(gg.Black)
	dc.SetRGB(1, 1, 1)
	for i, s := range strokes {
		if err := Trace(dc, s); err != nil {
			return nil, fmt.Errorf("stroke %d: %w", i, err)
		}
	}
	return toGray(dc.Image()), nil
}

// Encode writes m as PNG.
func Encode(w io.Writer, m *image.Gray) error {
	return png.Encode(w, m)
}

// EncodePNG synthesizes, feathers and encodes a mask in one step.
func EncodePNG(w, h int, strokes []Stroke, feather int) ([]byte, error) {
	m, err := Synthesize(w, h, strokes)
	if err != nil {
		return nil, err
	}
	if feather > 0 {
		m = Feather(m, feather)
	}
	var buf bytes.Buffer
	if err := Encode(&buf, m); err != nil {
		return nil, fmt.Errorf("encode mask: %w", err)
	}
	return buf.Bytes(), nil
}

// toGray keeps the red channel; the canvas only ever holds greys.
func toGray(src image.Image) *image.Gray {
	b := src.Bounds()
	out := image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
	if rgba, ok := src.(*image.RGBA); ok {
		for y := 0; y < b.Dy(); y++ {
			row := rgba.Pix[y*rgba.Stride:]
			dst := out.Pix[y*out.Stride:]
			for x := 0; x < b.Dx(); x++ {
				dst[x] = row[x*4]
			}
		}
		return out
	}
	for y := 0; y < b.Dy(); y++ {
		for x := 0; x < b.Dx(); x++ {
			r, _, _, _ := src.At(b.Min.X+x, b.Min.Y+y).RGBA()
			out.Pix[y*out.Stride+x] = uint8(r >> 8)
		}
	}
	return out
}
