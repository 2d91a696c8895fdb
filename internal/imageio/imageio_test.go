package imageio

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"golang.org/x/image/bmp"
)

func sample(w, h int) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			img.Set(x, y, color.RGBA{uint8(x * 10), uint8(y * 10), 128, 255})
		}
	}
	return img
}

func encode(t *testing.T, format string, img image.Image) []byte {
	t.Helper()
	var buf bytes.Buffer
	var err error
	switch format {
	case "png":
		err = png.Encode(&buf, img)
	case "jpeg":
		err = jpeg.Encode(&buf, img, nil)
	case "bmp":
		err = bmp.Encode(&buf, img)
	}
	if err != nil {
		t.Fatalf("encode %s: %v", format, err)
	}
	return buf.Bytes()
}

func TestDecodeKeepsFormatAndBytes(t *testing.T) {
	for _, format := range []string{"png", "jpeg", "bmp"} {
		t.Run(format, func(t *testing.T) {
			data := encode(t, format, sample(6, 4))
			img, err := Decode(data, "in."+format)
			if err != nil {
				t.Fatalf("decode: %v", err)
			}
			if img.Format != format {
				t.Errorf("format = %q", img.Format)
			}
			if img.Width() != 6 || img.Height() != 4 {
				t.Errorf("size = %dx%d", img.Width(), img.Height())
			}
			if !bytes.Equal(img.Data, data) {
				t.Errorf("data not preserved")
			}
			data[0] ^= 0xFF
			if bytes.Equal(img.Data, data) {
				t.Errorf("data aliases caller slice")
			}
		})
	}
}

func TestDecodeFailure(t *testing.T) {
	if _, err := Decode(nil, "x"); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty: %v", err)
	}
	_, err := Decode([]byte("definitely not an image"), "note.txt")
	if err == nil || !strings.Contains(err.Error(), "note.txt") {
		t.Fatalf("garbage: %v", err)
	}
}

func TestToRGBAOffsetBounds(t *testing.T) {
	src := sample(10, 10).SubImage(image.Rect(2, 3, 7, 9))
	out := ToRGBA(src)
	if out.Bounds() != image.Rect(0, 0, 5, 6) {
		t.Fatalf("bounds = %v", out.Bounds())
	}
	if out.RGBAAt(0, 0) != src.At(2, 3).(color.RGBA) {
		t.Fatalf("pixel mismatch")
	}
}

func TestMIMEMapping(t *testing.T) {
	for _, f := range []string{"png", "jpeg", "gif", "webp", "bmp", "tiff"} {
		if got := FormatFromMIME(MIMEType(f)); got != f {
			t.Errorf("%s -> %s -> %s", f, MIMEType(f), got)
		}
	}
	if got := FormatFromMIME("image/jpeg; q=1"); got != "jpeg" {
		t.Errorf("parameters: %s", got)
	}
}

func TestSaveWritesHeldBytes(t *testing.T) {
	data := encode(t, "jpeg", sample(3, 3))
	img, err := Decode(data, "photo.jpg")
	if err != nil {
		t.Fatal(err)
	}
	dir := t.TempDir()
	now := time.UnixMilli(1700000000123)
	path, err := Save(img, filepath.Join(dir, "out"), now)
	if err != nil {
		t.Fatal(err)
	}
	if filepath.Base(path) != "watermark-removed-1700000000123.jpg" {
		t.Errorf("name = %s", filepath.Base(path))
	}
	got, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, data) {
		t.Errorf("saved bytes differ from loaded bytes")
	}
}

func TestFromRaster(t *testing.T) {
	img, err := FromRaster(sample(2, 2), "clipboard")
	if err != nil {
		t.Fatal(err)
	}
	if img.Format != "png" || img.MIME() != "image/png" || img.Ext() != ".png" {
		t.Fatalf("unexpected format %q", img.Format)
	}
	if _, err := FromRaster(image.NewRGBA(image.Rectangle{}), ""); !errors.Is(err, ErrEmpty) {
		t.Fatalf("empty raster: %v", err)
	}
}
