// Package geom converts pointer positions between screen space and image
// (world) space and computes the pan/zoom view used by the editor canvas.
package geom

import "math"

const (
	// MinScale and MaxScale bound the image-to-screen multiplier.
	MinScale = 0.1
	MaxScale = 5.0

	// WheelSensitivity maps one unit of wheel delta to a change in scale.
	WheelSensitivity = 0.001

	// DefaultMargin is the gap kept around an image when it is first fitted.
	DefaultMargin = 20.0
)

// Point is a coordinate pair. Whether it is in screen or world space is up to
// the caller; the conversion functions below are the only way across.
type Point struct {
	X, Y float64
}

// Pt is shorthand for Point{x, y}.
func Pt(x, y float64) Point { return Point{X: x, Y: y} }

// Add returns p+q.
func (p Point) Add(q Point) Point { return Point{p.X + q.X, p.Y + q.Y} }

// Sub returns p-q.
func (p Point) Sub(q Point) Point { return Point{p.X - q.X, p.Y - q.Y} }

// Mul returns p scaled by k.
func (p Point) Mul(k float64) Point { return Point{p.X * k, p.Y * k} }

// Div returns p divided by k.
func (p Point) Div(k float64) Point { return Point{p.X / k, p.Y / k} }

// Size is a width and height pair.
type Size struct {
	W, H float64
}

// View is the canvas transform. Scale multiplies image units into screen
// units and Offset is where the image origin lands on screen.
type View struct {
	Scale  float64
	Offset Point
}

// Identity returns the untransformed view.
func Identity() View { return View{Scale: 1} }

// ClampScale limits s to [MinScale, MaxScale].
func ClampScale(s float64) float64 {
	if math.IsNaN(s) {
		return MinScale
	}
	return math.Max(MinScale, math.Min(MaxScale, s))
}

// ScreenToWorld maps a screen position into image space. canvasOrigin is the
// screen position of the canvas' top-left corner.
func ScreenToWorld(screen Point, v View, canvasOrigin Point) Point {
	return screen.Sub(canvasOrigin).Sub(v.Offset).Div(v.Scale)
}

// WorldToScreen is the inverse of ScreenToWorld.
func WorldToScreen(world Point, v View, canvasOrigin Point) Point {
	return world.Mul(v.Scale).Add(v.Offset).Add(canvasOrigin)
}

// FitToContainer centres an image inside a container, shrinking it to fit
// inside margin on every side. Images are never enlarged beyond 1:1.
func FitToContainer(img, container Size, margin float64) View {
	if img.W <= 0 || img.H <= 0 {
		return Identity()
	}
	sx := (container.W - 2*margin) / img.W
	sy := (container.H - 2*margin) / img.H
	scale := math.Min(math.Min(sx, sy), 1.0)
	if scale <= 0 {
		scale = MinScale
	}
	return View{
		Scale: scale,
		Offset: Point{
			X: (container.W - img.W*scale) / 2,
			Y: (container.H - img.H*scale) / 2,
		},
	}
}

// ZoomAtPoint rescales v so the image point under anchor stays under anchor.
// anchor is in canvas-relative screen coordinates.
func ZoomAtPoint(v View, anchor Point, newScale float64) View {
	newScale = ClampScale(newScale)
	world := anchor.Sub(v.Offset).Div(v.Scale)
	return View{
		Scale:  newScale,
		Offset: anchor.Sub(world.Mul(newScale)),
	}
}

// WheelScale returns the scale a wheel movement of deltaY asks for.
// Positive deltas zoom out.
func WheelScale(v View, deltaY float64) float64 {
	return ClampScale(v.Scale - deltaY*WheelSensitivity)
}

// Pan shifts the view by a screen-space delta. Panning ignores the scale.
func Pan(v View, delta Point) View {
	v.Offset = v.Offset.Add(delta)
	return v
}
