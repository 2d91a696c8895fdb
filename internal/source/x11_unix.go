//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"fmt"
	"image"

	"github.com/jezek/xgb"
	"github.com/jezek/xgb/xproto"
)

// grabRoot reads the whole X11 root window.
func grabRoot() (*image.RGBA, error) {
	conn, err := xgb.NewConn()
	if err != nil {
		return nil, fmt.Errorf("connect X server: %w", err)
	}
	defer conn.Close()

	setup := xproto.Setup(conn)
	if setup == nil {
		return nil, fmt.Errorf("xproto setup unavailable")
	}
	screen := setup.DefaultScreen(conn)
	w, h := screen.WidthInPixels, screen.HeightInPixels
	reply, err := xproto.GetImage(conn, xproto.ImageFormatZPixmap, xproto.Drawable(screen.Root), 0, 0, w, h, ^uint32(0)).Reply()
	if err != nil {
		return nil, fmt.Errorf("root pixels: %w", err)
	}
	return xImageToRGBA(setup.PixmapFormats, reply, int(w), int(h))
}

// xImageToRGBA converts a BGR(X) ZPixmap reply. Depths of 24 or less carry
// no alpha, so those pixels come out opaque.
func xImageToRGBA(formats []xproto.Format, reply *xproto.GetImageReply, width, height int) (*image.RGBA, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("root window has empty geometry")
	}
	if reply == nil || len(reply.Data) == 0 {
		return nil, fmt.Errorf("root pixels: empty image data")
	}
	bpp := 0
	for _, f := range formats {
		if f.Depth == reply.Depth {
			bpp = int(f.BitsPerPixel)
			break
		}
	}
	if bpp < 24 {
		return nil, fmt.Errorf("unsupported depth %d (%d bpp)", reply.Depth, bpp)
	}
	bytesPP := bpp / 8
	stride := len(reply.Data) / height
	if stride*height != len(reply.Data) || stride < width*bytesPP {
		return nil, fmt.Errorf("root pixels: unexpected stride")
	}
	hasAlpha := bytesPP >= 4 && reply.Depth > 24

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for y := 0; y < height; y++ {
		row := reply.Data[y*stride:]
		dst := img.Pix[y*img.Stride:]
		for x := 0; x < width; x++ {
			src := row[x*bytesPP:]
			d := dst[x*4:]
			d[0], d[1], d[2], d[3] = src[2], src[1], src[0], 0xFF
			if hasAlpha {
				d[3] = src[3]
			}
		}
	}
	return img, nil
}
