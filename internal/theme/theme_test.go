package theme

import (
	"image/color"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestParseOverridesDefaults(t *testing.T) {
	in := `# comment
Name: Test
Background: #102030
StatusBackground: #00000080
Unknown: #FFFFFF
not a pair
`
	th, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatal(err)
	}
	if th.Name != "Test" {
		t.Errorf("name %q", th.Name)
	}
	if th.Background != (color.RGBA{0x10, 0x20, 0x30, 255}) {
		t.Errorf("background %v", th.Background)
	}
	if th.StatusBackground != (color.RGBA{0, 0, 0, 0x80}) {
		t.Errorf("status background %v", th.StatusBackground)
	}
	if th.Highlight != Default().Highlight {
		t.Errorf("unset key should keep default")
	}
}

func TestParseColorErrors(t *testing.T) {
	for _, in := range []string{"Background: 102030", "Background: #12345", "Background: #GG0000"} {
		if _, err := Parse(strings.NewReader(in)); err == nil {
			t.Errorf("%q: expected error", in)
		}
	}
}

func TestEmbeddedThemesLoad(t *testing.T) {
	l := &Loader{}
	for _, name := range []string{"dark", "Light", "dark.theme"} {
		th, err := l.Load(name)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		if th.Background.A != 255 {
			t.Errorf("%s: background should be opaque", name)
		}
	}
	dark, _ := l.Load("dark")
	if *dark != *withName(Default(), "Dark") {
		t.Errorf("embedded dark theme drifted from Default")
	}
}

func withName(t *Theme, name string) *Theme {
	t.Name = name
	return t
}

func TestLoaderSearchOrder(t *testing.T) {
	cfg := t.TempDir()
	sys := t.TempDir()
	if err := os.WriteFile(filepath.Join(sys, "mine.theme"), []byte("Name: System\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	l := &Loader{ConfigDir: cfg, SystemDir: sys}
	th, err := l.Load("mine")
	if err != nil || th.Name != "System" {
		t.Fatalf("system lookup: %v %v", th, err)
	}
	if err := os.WriteFile(filepath.Join(cfg, "mine.theme"), []byte("Name: User\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if th, _ := l.Load("mine"); th.Name != "User" {
		t.Errorf("config dir should win, got %q", th.Name)
	}
	direct := filepath.Join(cfg, "mine.theme")
	if th, _ := l.Load(direct); th.Name != "User" {
		t.Errorf("path lookup got %q", th.Name)
	}
	if _, err := l.Load("missing"); err == nil {
		t.Error("expected missing theme error")
	}
	if th, _ := l.Load(""); th.Name != "Default" {
		t.Errorf("empty name got %q", th.Name)
	}
}
