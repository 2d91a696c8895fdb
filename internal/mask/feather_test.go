package mask

import (
	"image"
	"image/color"
	"testing"
)

func TestFeatherZeroRadiusCopies(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 4, 4))
	m.SetGray(1, 1, color.Gray{Y: 255})
	out := Feather(m, 0)
	if &out.Pix[0] == &m.Pix[0] {
		t.Fatal("expected a copy")
	}
	if out.GrayAt(1, 1).Y != 255 || out.GrayAt(2, 2).Y != 0 {
		t.Fatalf("copy differs from source")
	}
}

func TestFeatherSpreadsEdges(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 20, 20))
	for y := 0; y < 20; y++ {
		for x := 10; x < 20; x++ {
			m.SetGray(x, y, color.Gray{Y: 255})
		}
	}
	out := Feather(m, 2)
	tests := []struct {
		x    int
		want func(uint8) bool
	}{
		{0, func(v uint8) bool { return v == 0 }},
		{8, func(v uint8) bool { return v > 0 && v < 128 }},
		{11, func(v uint8) bool { return v > 128 && v < 255 }},
		{19, func(v uint8) bool { return v == 255 }},
	}
	for _, tt := range tests {
		if got := out.GrayAt(tt.x, 10).Y; !tt.want(got) {
			t.Errorf("x=%d: got %d", tt.x, got)
		}
	}
}

func TestFeatherKeepsUniformMask(t *testing.T) {
	m := image.NewGray(image.Rect(0, 0, 8, 8))
	for i := range m.Pix {
		m.Pix[i] = 255
	}
	out := Feather(m, 3)
	for i, v := range out.Pix {
		if v != 255 {
			t.Fatalf("pixel %d = %d", i, v)
		}
	}
}
