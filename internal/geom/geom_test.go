package geom

import (
	"math"
	"testing"
)

const eps = 1e-9

func near(a, b Point) bool {
	return math.Abs(a.X-b.X) < 1e-6 && math.Abs(a.Y-b.Y) < 1e-6
}

func TestScreenWorldRoundTrip(t *testing.T) {
	views := []View{
		Identity(),
		{Scale: 0.1, Offset: Pt(-300, 12.5)},
		{Scale: 2.75, Offset: Pt(44, -90)},
		{Scale: 5, Offset: Pt(0.3, 0.7)},
	}
	origins := []Point{{}, Pt(64, 0), Pt(13.5, 22)}
	points := []Point{{}, Pt(1, 1), Pt(799.5, 0.25), Pt(-40, 1200)}
	for _, v := range views {
		for _, o := range origins {
			for _, p := range points {
				got := ScreenToWorld(WorldToScreen(p, v, o), v, o)
				if !near(got, p) {
					t.Errorf("view %+v origin %+v: round trip of %+v gave %+v", v, o, p, got)
				}
			}
		}
	}
}

func TestScreenToWorld(t *testing.T) {
	v := View{Scale: 2, Offset: Pt(100, 50)}
	got := ScreenToWorld(Pt(164, 70), v, Pt(44, 0))
	if want := Pt(10, 10); !near(got, want) {
		t.Fatalf("got %+v want %+v", got, want)
	}
}

func TestFitToContainer(t *testing.T) {
	tests := []struct {
		name      string
		img, cont Size
		margin    float64
		scale     float64
		offset    Point
	}{
		{"no upscale", Size{800, 600}, Size{1000, 800}, DefaultMargin, 1, Pt(100, 100)},
		{"no upscale wide margin", Size{800, 600}, Size{1000, 800}, 40, 1, Pt(100, 100)},
		{"shrink width", Size{2000, 500}, Size{1040, 800}, 20, 0.5, Pt(20, 275)},
		{"shrink height", Size{400, 1600}, Size{1000, 840}, 20, 0.5, Pt(400, 20)},
		{"empty image", Size{0, 0}, Size{1000, 800}, 20, 1, Pt(0, 0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := FitToContainer(tt.img, tt.cont, tt.margin)
			if math.Abs(v.Scale-tt.scale) > eps {
				t.Errorf("scale = %v, want %v", v.Scale, tt.scale)
			}
			if !near(v.Offset, tt.offset) {
				t.Errorf("offset = %+v, want %+v", v.Offset, tt.offset)
			}
		})
	}
}

func TestZoomAtPointKeepsAnchor(t *testing.T) {
	start := []View{
		Identity(),
		{Scale: 0.37, Offset: Pt(10, -20)},
		{Scale: 4.2, Offset: Pt(-1000, 300)},
	}
	anchors := []Point{{}, Pt(250, 125), Pt(-5, 900)}
	scales := []float64{MinScale, 0.25, 1, 1.9, MaxScale}
	for _, v := range start {
		for _, a := range anchors {
			before := ScreenToWorld(a, v, Point{})
			for _, s := range scales {
				nv := ZoomAtPoint(v, a, s)
				after := ScreenToWorld(a, nv, Point{})
				if !near(before, after) {
					t.Errorf("view %+v anchor %+v scale %v: world moved %+v -> %+v", v, a, s, before, after)
				}
			}
		}
	}
}

func TestZoomAtPointClamps(t *testing.T) {
	v := ZoomAtPoint(Identity(), Pt(10, 10), 50)
	if v.Scale != MaxScale {
		t.Fatalf("scale = %v, want %v", v.Scale, MaxScale)
	}
	v = ZoomAtPoint(Identity(), Pt(10, 10), -3)
	if v.Scale != MinScale {
		t.Fatalf("scale = %v, want %v", v.Scale, MinScale)
	}
}

func TestWheelScale(t *testing.T) {
	v := Identity()
	if got := WheelScale(v, 100); math.Abs(got-0.9) > eps {
		t.Errorf("wheel down: %v", got)
	}
	if got := WheelScale(v, -100); math.Abs(got-1.1) > eps {
		t.Errorf("wheel up: %v", got)
	}
	if got := WheelScale(View{Scale: 0.15}, 1000); got != MinScale {
		t.Errorf("clamp: %v", got)
	}
}

func TestPanIsScaleIndependent(t *testing.T) {
	for _, s := range []float64{0.1, 1, 5} {
		v := Pan(View{Scale: s, Offset: Pt(5, 5)}, Pt(10, -3))
		if !near(v.Offset, Pt(15, 2)) || v.Scale != s {
			t.Errorf("scale %v: got %+v", s, v)
		}
	}
}
