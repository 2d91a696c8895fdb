package render

import (
	"image"
	"image/color"
	"image/draw"
	"math"
)

// dotSpacing is the distance between backdrop dots in logical pixels.
const dotSpacing = 20

type backdropKey struct {
	size     image.Point
	dpr      float64
	bg, dots color.RGBA
}

// drawDotGrid fills dst with bg and a dot every dotSpacing logical pixels.
func drawDotGrid(dst *image.RGBA, dpr float64, bg, dots color.RGBA) {
	b := dst.Bounds()
	draw.Draw(dst, b, &image.Uniform{bg}, image.Point{}, draw.Src)
	if dots.A == 0 {
		return
	}
	step := dotSpacing * dpr
	r := int(math.Max(1, math.Round(dpr)))
	for y := step / 2; y < float64(b.Max.Y); y += step {
		for x := step / 2; x < float64(b.Max.X); x += step {
			px, py := int(x), int(y)
			draw.Draw(dst, image.Rect(px, py, px+r, py+r).Intersect(b), &image.Uniform{dots}, image.Point{}, draw.Src)
		}
	}
}

// backdropFor returns a cached backdrop for the given surface.
func (r *Renderer) backdropFor(size image.Point, dpr float64, bg, dots color.RGBA) *image.RGBA {
	key := backdropKey{size: size, dpr: dpr, bg: bg, dots: dots}
	if r.backdrop == nil || r.backdropKey != key {
		r.backdrop = image.NewRGBA(image.Rectangle{Max: size})
		drawDotGrid(r.backdrop, dpr, bg, dots)
		r.backdropKey = key
	}
	return r.backdrop
}
