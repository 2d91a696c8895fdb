package mask

import "image"

// Feather softens mask edges with a separable box blur of the given radius.
// A radius of zero or less returns a copy.
func Feather(src *image.Gray, radius int) *image.Gray {
	b := src.Bounds()
	if radius <= 0 {
		out := image.NewGray(b)
		copy(out.Pix, src.Pix)
		return out
	}
	w, h := b.Dx(), b.Dy()
	tmp := image.NewGray(b)
	dst := image.NewGray(b)

	sums := make([]int, max(w, h)+1)
	for y := 0; y < h; y++ {
		row := src.Pix[y*src.Stride:]
		for x := 0; x < w; x++ {
			sums[x+1] = sums[x] + int(row[x])
		}
		out := tmp.Pix[y*tmp.Stride:]
		for x := 0; x < w; x++ {
			x0, x1 := window(x, radius, w)
			out[x] = uint8((sums[x1+1] - sums[x0]) / (x1 - x0 + 1))
		}
	}
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			sums[y+1] = sums[y] + int(tmp.Pix[y*tmp.Stride+x])
		}
		for y := 0; y < h; y++ {
			y0, y1 := window(y, radius, h)
			dst.Pix[y*dst.Stride+x] = uint8((sums[y1+1] - sums[y0]) / (y1 - y0 + 1))
		}
	}
	return dst
}

func window(i, radius, n int) (int, int) {
	lo, hi := i-radius, i+radius
	if lo < 0 {
		lo = 0
	}
	if hi >= n {
		hi = n - 1
	}
	return lo, hi
}
