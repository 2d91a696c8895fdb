package config

import (
	"fmt"
	"io"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/example/unmark/internal/theme"
)

type yamlConfig struct {
	Theme   string `yaml:"theme"`
	SaveDir string `yaml:"save_dir"`
	Service struct {
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		BaseURL string `yaml:"base_url"`
		Timeout string `yaml:"timeout"`
	} `yaml:"service"`
	Brush struct {
		Size    float64 `yaml:"size"`
		Feather int     `yaml:"feather"`
	} `yaml:"brush"`
	View struct {
		Margin float64 `yaml:"margin"`
	} `yaml:"view"`
	Notify struct {
		Process bool `yaml:"process"`
		Save    bool `yaml:"save"`
		Copy    bool `yaml:"copy"`
	} `yaml:"notify"`
	Themes map[string]map[string]string `yaml:"themes"`
}

// ParseYAML reads the YAML form of the configuration. Theme entries map
// colour field names to hex strings.
func ParseYAML(r io.Reader) (*Config, error) {
	var y yamlConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&y); err != nil && err != io.EOF {
		return nil, fmt.Errorf("decode yaml: %w", err)
	}

	cfg := New()
	cfg.Theme = y.Theme
	cfg.SaveDir = y.SaveDir
	cfg.Service.APIKey = y.Service.APIKey
	cfg.Service.BaseURL = y.Service.BaseURL
	if y.Service.Model != "" {
		cfg.Service.Model = y.Service.Model
	}
	if y.Service.Timeout != "" {
		d, err := time.ParseDuration(y.Service.Timeout)
		if err != nil {
			return nil, fmt.Errorf("service.timeout: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("service.timeout must be positive, got %s", y.Service.Timeout)
		}
		cfg.Service.Timeout = d
	}
	cfg.Brush = Brush{Size: y.Brush.Size, Feather: y.Brush.Feather}
	cfg.View = View{Margin: y.View.Margin}
	cfg.Notify = Notify{Process: y.Notify.Process, Save: y.Notify.Save, Copy: y.Notify.Copy}

	for name, fields := range y.Themes {
		t := theme.Default()
		t.Name = name
		for k, v := range fields {
			if err := setThemeField(t, k, v); err != nil {
				return nil, fmt.Errorf("themes.%s: %w", name, err)
			}
		}
		cfg.Themes[name] = t
	}
	return cfg, nil
}
