// Package imageio holds the working image handle: the decoded raster plus the
// encoded bytes it came from, so saving and uploading never re-encode.
package imageio

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/draw"
	_ "image/gif"
	_ "image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "golang.org/x/image/bmp"
	_ "golang.org/x/image/tiff"
	_ "golang.org/x/image/webp"
)

// ErrEmpty is returned when there is nothing to decode.
var ErrEmpty = errors.New("no image data")

// Image is an immutable loaded image.
type Image struct {
	Pixels *image.RGBA
	Data   []byte
	Format string
	Name   string
}

// Width returns the pixel width.
func (i *Image) Width() int { return i.Pixels.Bounds().Dx() }

// Height returns the pixel height.
func (i *Image) Height() int { return i.Pixels.Bounds().Dy() }

// MIME returns the media type of the held encoding.
func (i *Image) MIME() string { return MIMEType(i.Format) }

// Ext returns the file extension for the held encoding, with the dot.
func (i *Image) Ext() string {
	switch i.Format {
	case "jpeg":
		return ".jpg"
	case "":
		return ".png"
	default:
		return "." + i.Format
	}
}

// MIMEType maps a registered image format name to its media type.
func MIMEType(format string) string {
	switch format {
	case "jpeg":
		return "image/jpeg"
	case "gif":
		return "image/gif"
	case "webp":
		return "image/webp"
	case "bmp":
		return "image/bmp"
	case "tiff":
		return "image/tiff"
	default:
		return "image/png"
	}
}

// FormatFromMIME is the inverse of MIMEType.
func FormatFromMIME(mime string) string {
	mime = strings.ToLower(strings.TrimSpace(mime))
	if i := strings.IndexByte(mime, ';'); i >= 0 {
		mime = strings.TrimSpace(mime[:i])
	}
	switch mime {
	case "image/jpeg", "image/jpg":
		return "jpeg"
	case "image/gif":
		return "gif"
	case "image/webp":
		return "webp"
	case "image/bmp":
		return "bmp"
	case "image/tiff":
		return "tiff"
	default:
		return "png"
	}
}

// Decode parses data in any registered format and keeps a copy of the bytes.
func Decode(data []byte, name string) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	img, format, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", displayName(name), err)
	}
	b := img.Bounds()
	if b.Empty() {
		return nil, fmt.Errorf("decode %s: image has no pixels", displayName(name))
	}
	return &Image{
		Pixels: ToRGBA(img),
		Data:   append([]byte(nil), data...),
		Format: format,
		Name:   name,
	}, nil
}

// FromRaster wraps an already decoded raster, encoding it as PNG.
func FromRaster(img image.Image, name string) (*Image, error) {
	if img == nil || img.Bounds().Empty() {
		return nil, ErrEmpty
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode %s: %w", displayName(name), err)
	}
	return &Image{Pixels: ToRGBA(img), Data: buf.Bytes(), Format: "png", Name: name}, nil
}

// Load reads and decodes a file.
func Load(path string) (*Image, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return Decode(data, filepath.Base(path))
}

// ToRGBA copies img into a zero-origin RGBA raster.
func ToRGBA(img image.Image) *image.RGBA {
	if rgba, ok := img.(*image.RGBA); ok && rgba.Bounds().Min == (image.Point{}) {
		return rgba
	}
	b := img.Bounds()
	out := image.NewRGBA(image.Rect(0, 0, b.Dx(), b.Dy()))
	draw.Draw(out, out.Bounds(), img, b.Min, draw.Src)
	return out
}

// DownloadName is the filename offered when saving the working image.
func DownloadName(img *Image, now time.Time) string {
	return fmt.Sprintf("watermark-removed-%d%s", now.UnixMilli(), img.Ext())
}

// Save writes the held bytes unchanged into dir under DownloadName and
// returns the path written.
func Save(img *Image, dir string, now time.Time) (string, error) {
	if img == nil {
		return "", ErrEmpty
	}
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("create %s: %w", dir, err)
	}
	path := filepath.Join(dir, DownloadName(img, now))
	if err := os.WriteFile(path, img.Data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", path, err)
	}
	return path, nil
}

func displayName(name string) string {
	if name == "" {
		return "image"
	}
	return name
}
