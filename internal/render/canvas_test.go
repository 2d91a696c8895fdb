package render

import (
	"image"
	"image/color"
	"image/draw"
	"testing"

	"github.com/example/unmark/internal/geom"
	"github.com/example/unmark/internal/mask"
)

var (
	bg   = color.RGBA{23, 23, 23, 255}
	blue = color.RGBA{0, 0, 255, 255}
)

func solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	draw.Draw(img, img.Bounds(), &image.Uniform{c}, image.Point{}, draw.Src)
	return img
}

func closeTo(got, want color.RGBA, tol int) bool {
	d := func(a, b uint8) bool {
		x := int(a) - int(b)
		return x >= -tol && x <= tol
	}
	return d(got.R, want.R) && d(got.G, want.G) && d(got.B, want.B)
}

func TestBackingSize(t *testing.T) {
	tests := []struct {
		dpr  float64
		want image.Point
	}{
		{0, image.Pt(300, 200)},
		{1, image.Pt(300, 200)},
		{2, image.Pt(600, 400)},
		{1.5, image.Pt(450, 300)},
	}
	for _, tt := range tests {
		got := BackingSize(Frame{DPR: tt.dpr, Size: geom.Size{W: 300, H: 200}})
		if got != tt.want {
			t.Errorf("dpr %v: got %v want %v", tt.dpr, got, tt.want)
		}
	}
}

func TestCanvasWithoutImageIsBackdrop(t *testing.T) {
	out, err := Canvas(Frame{DPR: 1, Size: geom.Size{W: 40, H: 30}, Background: bg})
	if err != nil {
		t.Fatal(err)
	}
	if out.Bounds() != image.Rect(0, 0, 40, 30) {
		t.Fatalf("bounds %v", out.Bounds())
	}
	for y := 0; y < 30; y++ {
		for x := 0; x < 40; x++ {
			if out.RGBAAt(x, y) != bg {
				t.Fatalf("(%d,%d) = %v", x, y, out.RGBAAt(x, y))
			}
		}
	}
}

func TestCanvasAppliesView(t *testing.T) {
	tests := []struct {
		name    string
		view    geom.View
		dpr     float64
		inside  image.Point
		outside image.Point
	}{
		{"offset", geom.View{Scale: 1, Offset: geom.Pt(5, 5)}, 1, image.Pt(10, 10), image.Pt(2, 2)},
		{"zoom", geom.View{Scale: 2}, 1, image.Pt(15, 15), image.Pt(25, 25)},
		{"hidpi", geom.View{Scale: 1, Offset: geom.Pt(5, 5)}, 2, image.Pt(20, 20), image.Pt(6, 6)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := Canvas(Frame{
				Image:      solid(10, 10, blue),
				View:       tt.view,
				DPR:        tt.dpr,
				Size:       geom.Size{W: 40, H: 40},
				Background: bg,
			})
			if err != nil {
				t.Fatal(err)
			}
			if got := out.RGBAAt(tt.inside.X, tt.inside.Y); !closeTo(got, blue, 2) {
				t.Errorf("inside %v = %v, want image", tt.inside, got)
			}
			if got := out.RGBAAt(tt.outside.X, tt.outside.Y); !closeTo(got, bg, 2) {
				t.Errorf("outside %v = %v, want background", tt.outside, got)
			}
		})
	}
}

func TestCanvasStrokeOverlayIsHalfRed(t *testing.T) {
	r := NewRenderer()
	f := Frame{
		Image:      solid(40, 40, blue),
		View:       geom.Identity(),
		DPR:        1,
		Size:       geom.Size{W: 40, H: 40},
		Background: bg,
		Strokes:    []mask.Stroke{{Points: []geom.Point{geom.Pt(20, 20)}, Size: 10}},
	}
	out, err := r.Canvas(f)
	if err != nil {
		t.Fatal(err)
	}
	got := out.RGBAAt(20, 20)
	if got.R < 100 || got.R > 160 || got.B < 100 || got.B > 160 {
		t.Errorf("stroke centre = %v, want roughly half red over blue", got)
	}
	if got := out.RGBAAt(35, 35); !closeTo(got, blue, 2) {
		t.Errorf("unpainted pixel = %v", got)
	}

	// A second render through the same renderer must not carry state over.
	f.Strokes = nil
	out, err = r.Canvas(f)
	if err != nil {
		t.Fatal(err)
	}
	if got := out.RGBAAt(20, 20); !closeTo(got, blue, 2) {
		t.Errorf("after clearing strokes = %v", got)
	}
}

func TestDotGrid(t *testing.T) {
	dots := color.RGBA{45, 45, 45, 255}
	img := image.NewRGBA(image.Rect(0, 0, 60, 60))
	drawDotGrid(img, 1, bg, dots)
	if img.RGBAAt(10, 10) != dots {
		t.Errorf("expected dot at (10,10), got %v", img.RGBAAt(10, 10))
	}
	if img.RGBAAt(11, 10) != bg || img.RGBAAt(0, 0) != bg {
		t.Errorf("expected background between dots")
	}
	if img.RGBAAt(30, 30) != dots {
		t.Errorf("expected dot at (30,30)")
	}
}
