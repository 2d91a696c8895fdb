//go:build linux || freebsd || openbsd || netbsd || dragonfly

package source

import (
	"image/color"
	"testing"

	"github.com/godbus/dbus/v5"
	"github.com/jezek/xgb/xproto"
)

func TestScreenshotOptions(t *testing.T) {
	for _, interactive := range []bool{false, true} {
		opts := screenshotOptions(interactive, "tok")
		if got := opts["interactive"].Value().(bool); got != interactive {
			t.Errorf("interactive = %v", got)
		}
		if got := opts["modal"].Value().(bool); got != interactive {
			t.Errorf("modal = %v", got)
		}
		if got := opts["handle_token"].Value().(string); got != "tok" {
			t.Errorf("handle_token = %q", got)
		}
	}
}

func TestFileChooserOptions(t *testing.T) {
	opts := fileChooserOptions("tok")
	if sig := opts["filters"].Signature().String(); sig != "a(sa(us))" {
		t.Errorf("filters signature %s", sig)
	}
	if sig := opts["current_filter"].Signature().String(); sig != "(sa(us))" {
		t.Errorf("current_filter signature %s", sig)
	}
	if opts["multiple"].Value().(bool) {
		t.Error("expected single selection")
	}
}

func TestRequestPath(t *testing.T) {
	got := requestPath(":1.42", "unmark_1")
	want := dbus.ObjectPath("/org/freedesktop/portal/desktop/request/1_42/unmark_1")
	if got != want {
		t.Errorf("got %s want %s", got, want)
	}
}

func TestURIToPath(t *testing.T) {
	tests := []struct {
		uri     string
		want    string
		wantErr bool
	}{
		{"file:///tmp/a.png", "/tmp/a.png", false},
		{"file:///tmp/with%20space.png", "/tmp/with space.png", false},
		{"https://example.com/a.png", "", true},
	}
	for _, tt := range tests {
		got, err := uriToPath(tt.uri)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("%s: got %q, %v", tt.uri, got, err)
		}
	}
}

func TestXImageToRGBA(t *testing.T) {
	formats := []xproto.Format{{Depth: 24, BitsPerPixel: 32}, {Depth: 32, BitsPerPixel: 32}}
	data := []byte{
		10, 20, 30, 0, 40, 50, 60, 0,
		1, 2, 3, 0, 4, 5, 6, 0,
	}
	img, err := xImageToRGBA(formats, &xproto.GetImageReply{Depth: 24, Data: data}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if got := img.RGBAAt(0, 0); got != (color.RGBA{30, 20, 10, 255}) {
		t.Errorf("pixel (0,0) = %v", got)
	}
	if got := img.RGBAAt(1, 1); got != (color.RGBA{6, 5, 4, 255}) {
		t.Errorf("pixel (1,1) = %v", got)
	}

	argb, err := xImageToRGBA(formats, &xproto.GetImageReply{Depth: 32, Data: data}, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if a := argb.RGBAAt(0, 0).A; a != 0 {
		t.Errorf("depth 32 should keep alpha, got %d", a)
	}

	if _, err := xImageToRGBA(formats, &xproto.GetImageReply{Depth: 16, Data: data}, 2, 2); err == nil {
		t.Error("expected unsupported depth error")
	}
	if _, err := xImageToRGBA(formats, &xproto.GetImageReply{Depth: 24, Data: data[:15]}, 2, 2); err == nil {
		t.Error("expected stride error")
	}
}
