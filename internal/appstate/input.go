package appstate

import (
	"github.com/example/unmark/internal/geom"
	"github.com/example/unmark/internal/mask"
)

// Pointer positions below are canvas-relative screen coordinates: the window
// layer subtracts the canvas origin before calling in.

// PointerDown starts a brush stroke or a pan depending on the tool. It
// reports whether anything changed.
func (a *AppState) PointerDown(p geom.Point) bool {
	if a.Image == nil {
		return false
	}
	switch a.Tool {
	case ToolHand:
		a.panning = true
		a.anchor = p
		return false
	case ToolBrush:
		world := geom.ScreenToWorld(p, a.View, geom.Point{})
		a.Strokes = append(a.Strokes, mask.Stroke{Points: []geom.Point{world}, Size: a.BrushSize})
		a.active = len(a.Strokes) - 1
		return true
	}
	return false
}

// PointerMove extends the active stroke or pans the view.
func (a *AppState) PointerMove(p geom.Point) bool {
	if a.Image == nil {
		return false
	}
	switch {
	case a.Tool == ToolHand && a.panning:
		a.View = geom.Pan(a.View, p.Sub(a.anchor))
		a.anchor = p
		return true
	case a.Tool == ToolBrush && a.active >= 0 && a.active < len(a.Strokes):
		world := geom.ScreenToWorld(p, a.View, geom.Point{})
		s := &a.Strokes[a.active]
		s.Points = append(s.Points, world)
		return true
	}
	return false
}

// PointerUp ends whatever gesture is active. Leaving the canvas counts too.
func (a *AppState) PointerUp() { a.endGesture() }

// Drawing reports whether a brush stroke is in progress.
func (a *AppState) Drawing() bool { return a.active >= 0 }

// Panning reports whether a pan is in progress.
func (a *AppState) Panning() bool { return a.panning }

// Wheel zooms about p regardless of tool.
func (a *AppState) Wheel(p geom.Point, deltaY float64) bool {
	if a.Image == nil || deltaY == 0 {
		return false
	}
	a.View = geom.ZoomAtPoint(a.View, p, geom.WheelScale(a.View, deltaY))
	return true
}

// ZoomBy multiplies the scale about p, used by the keyboard zoom.
func (a *AppState) ZoomBy(p geom.Point, factor float64) bool {
	if a.Image == nil {
		return false
	}
	a.View = geom.ZoomAtPoint(a.View, p, a.View.Scale*factor)
	return true
}
