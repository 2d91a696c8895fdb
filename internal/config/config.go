// Package config loads unmark settings from an RC or YAML file and the
// environment.
package config

import (
	"fmt"
	"reflect"
	"sort"
	"strings"
	"time"

	"github.com/example/unmark/internal/theme"
)

const (
	DefaultModel   = "gemini-2.5-flash-image"
	DefaultTimeout = 2 * time.Minute
)

// Service configures the remote edit service.
type Service struct {
	APIKey  string
	Model   string
	BaseURL string
	Timeout time.Duration
}

// Brush holds brush defaults. Feather is the mask blur radius in pixels.
type Brush struct {
	Size    float64
	Feather int
}

// View holds canvas layout settings.
type View struct {
	Margin float64
}

// Notify selects which events raise desktop notifications.
type Notify struct {
	Process bool
	Save    bool
	Copy    bool
}

// Config holds the application configuration.
type Config struct {
	Theme   string
	SaveDir string
	Service Service
	Brush   Brush
	View    View
	Notify  Notify
	Themes  map[string]*theme.Theme
}

// New returns a Config with defaults. Zero brush and view values mean the
// editor's own defaults apply.
func New() *Config {
	return &Config{
		Service: Service{Model: DefaultModel, Timeout: DefaultTimeout},
		Themes:  make(map[string]*theme.Theme),
	}
}

// ApplyEnv overlays environment variables read through getenv.
func (c *Config) ApplyEnv(getenv func(string) string) {
	for _, k := range []string{"UNMARK_API_KEY", "GEMINI_API_KEY"} {
		if v := strings.TrimSpace(getenv(k)); v != "" {
			c.Service.APIKey = v
			break
		}
	}
	if v := strings.TrimSpace(getenv("UNMARK_MODEL")); v != "" {
		c.Service.Model = v
	}
	if v := strings.TrimSpace(getenv("UNMARK_THEME")); v != "" {
		c.Theme = v
	}
}

// ResolveTheme returns the configured theme, preferring themes defined in
// the config itself over the theme loader.
func (c *Config) ResolveTheme(l *theme.Loader) (*theme.Theme, error) {
	if t, ok := c.Themes[c.Theme]; ok {
		return t, nil
	}
	return l.Load(c.Theme)
}

// Redacted returns a copy with the API key masked, for display.
func (c *Config) Redacted() *Config {
	cp := *c
	if cp.Service.APIKey != "" {
		cp.Service.APIKey = "********"
	}
	return &cp
}

// String returns the configuration in RC format. Parse reads it back.
func (c *Config) String() string {
	var sb strings.Builder

	if c.Theme != "" {
		fmt.Fprintf(&sb, "theme = %s\n", c.Theme)
	}
	if c.SaveDir != "" {
		fmt.Fprintf(&sb, "save_dir = %s\n", c.SaveDir)
	}
	sb.WriteString("\n")

	sb.WriteString("[service]\n")
	if c.Service.APIKey != "" {
		fmt.Fprintf(&sb, "api_key = %s\n", c.Service.APIKey)
	}
	fmt.Fprintf(&sb, "model = %s\n", c.Service.Model)
	if c.Service.BaseURL != "" {
		fmt.Fprintf(&sb, "base_url = %s\n", c.Service.BaseURL)
	}
	fmt.Fprintf(&sb, "timeout = %s\n", c.Service.Timeout)
	sb.WriteString("\n")

	if c.Brush != (Brush{}) {
		sb.WriteString("[brush]\n")
		fmt.Fprintf(&sb, "size = %g\n", c.Brush.Size)
		fmt.Fprintf(&sb, "feather = %d\n", c.Brush.Feather)
		sb.WriteString("\n")
	}
	if c.View != (View{}) {
		sb.WriteString("[view]\n")
		fmt.Fprintf(&sb, "margin = %g\n", c.View.Margin)
		sb.WriteString("\n")
	}

	sb.WriteString("[notify]\n")
	fmt.Fprintf(&sb, "process = %v\n", c.Notify.Process)
	fmt.Fprintf(&sb, "save = %v\n", c.Notify.Save)
	fmt.Fprintf(&sb, "copy = %v\n", c.Notify.Copy)
	sb.WriteString("\n")

	names := make([]string, 0, len(c.Themes))
	for name := range c.Themes {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writeTheme(&sb, name, c.Themes[name])
	}
	return sb.String()
}

func writeTheme(sb *strings.Builder, section string, t *theme.Theme) {
	fmt.Fprintf(sb, "[theme.%s]\n", section)
	fmt.Fprintf(sb, "Name: %s\n", t.Name)
	v := reflect.ValueOf(t).Elem()
	for i := 0; i < v.NumField(); i++ {
		if v.Field(i).Type() != rgbaType {
			continue
		}
		fmt.Fprintf(sb, "%s: %s\n", v.Type().Field(i).Name, toHex(v.Field(i).Interface().(colorRGBA)))
	}
	sb.WriteString("\n")
}

func toHex(c colorRGBA) string {
	if c.A == 255 {
		return fmt.Sprintf("#%02X%02X%02X", c.R, c.G, c.B)
	}
	return fmt.Sprintf("#%02X%02X%02X%02X", c.R, c.G, c.B, c.A)
}
