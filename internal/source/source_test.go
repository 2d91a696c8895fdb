package source

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"os"
	"path/filepath"
	"testing"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{255, 0, 0, 255})
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func writePNG(t *testing.T, dir string, w, h int) string {
	t.Helper()
	p := filepath.Join(dir, "shot.png")
	if err := os.WriteFile(p, pngBytes(t, w, h), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func swap[T any](t *testing.T, dst *T, v T) {
	t.Helper()
	orig := *dst
	*dst = v
	t.Cleanup(func() { *dst = orig })
}

func TestClipboardDecodes(t *testing.T) {
	data := pngBytes(t, 3, 2)
	swap(t, &readClipboard, func() ([]byte, error) { return data, nil })
	img, err := Clipboard()
	if err != nil {
		t.Fatal(err)
	}
	if img.Width() != 3 || img.Height() != 2 || !bytes.Equal(img.Data, data) {
		t.Errorf("unexpected image %dx%d", img.Width(), img.Height())
	}

	boom := errors.New("boom")
	swap(t, &readClipboard, func() ([]byte, error) { return nil, boom })
	if _, err := Clipboard(); !errors.Is(err, boom) {
		t.Errorf("expected wrapped error, got %v", err)
	}
}

func TestOpenUsesChooser(t *testing.T) {
	path := writePNG(t, t.TempDir(), 4, 4)
	swap(t, &chooseFile, func(context.Context, string) (string, error) { return path, nil })
	img, err := Open(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if img.Width() != 4 {
		t.Errorf("width %d", img.Width())
	}

	swap(t, &chooseFile, func(context.Context, string) (string, error) { return "", ErrCancelled })
	if _, err := Open(context.Background()); !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}

func TestCapturePortalRemovesFile(t *testing.T) {
	path := writePNG(t, t.TempDir(), 5, 5)
	swap(t, &screenshot, func(_ context.Context, interactive bool) (string, error) {
		if !interactive {
			t.Error("expected an interactive capture")
		}
		return path, nil
	})
	swap(t, &rootGrab, func() (*image.RGBA, error) {
		t.Error("root grab should not run when the portal works")
		return nil, nil
	})
	img, err := Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if img.Name != "screenshot" || img.Width() != 5 {
		t.Errorf("unexpected %q %d", img.Name, img.Width())
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("portal file should be removed")
	}
}

func TestCaptureFallsBackToRootGrab(t *testing.T) {
	swap(t, &screenshot, func(context.Context, bool) (string, error) { return "", errors.New("no portal") })
	swap(t, &rootGrab, func() (*image.RGBA, error) { return image.NewRGBA(image.Rect(0, 0, 7, 3)), nil })
	img, err := Capture(context.Background())
	if err != nil {
		t.Fatal(err)
	}
	if img.Width() != 7 || img.Height() != 3 || img.Format != "png" {
		t.Errorf("unexpected %dx%d %s", img.Width(), img.Height(), img.Format)
	}
}

func TestCaptureCancelDoesNotFallBack(t *testing.T) {
	swap(t, &screenshot, func(context.Context, bool) (string, error) { return "", ErrCancelled })
	swap(t, &rootGrab, func() (*image.RGBA, error) {
		t.Error("root grab should not run after a cancel")
		return nil, nil
	})
	if _, err := Capture(context.Background()); !errors.Is(err, ErrCancelled) {
		t.Errorf("expected ErrCancelled, got %v", err)
	}
}

func TestCaptureBothFail(t *testing.T) {
	swap(t, &screenshot, func(context.Context, bool) (string, error) { return "", errors.New("no portal") })
	swap(t, &rootGrab, func() (*image.RGBA, error) { return nil, ErrUnsupported })
	if _, err := Capture(context.Background()); !errors.Is(err, ErrUnsupported) {
		t.Errorf("expected ErrUnsupported, got %v", err)
	}
}
