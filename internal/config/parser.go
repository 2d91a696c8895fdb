package config

import (
	"bufio"
	"fmt"
	"image/color"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/example/unmark/internal/theme"
)

type colorRGBA = color.RGBA

var rgbaType = reflect.TypeOf(color.RGBA{})

// Parse reads RC configuration: "key = value" lines grouped by [section],
// with [theme.<name>] sections holding theme colours.
func Parse(r io.Reader) (*Config, error) {
	cfg := New()
	scanner := bufio.NewScanner(r)

	var section string
	var current *theme.Theme
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "//") {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSpace(line[1 : len(line)-1])
			current = nil
			if name, ok := strings.CutPrefix(section, "theme."); ok {
				current = theme.Default()
				current.Name = name
				cfg.Themes[name] = current
			}
			continue
		}

		sep := strings.IndexAny(line, "=:")
		if sep < 0 {
			continue
		}
		key := strings.TrimSpace(line[:sep])
		value := strings.TrimSpace(line[sep+1:])
		if len(value) >= 2 && strings.HasPrefix(value, `"`) && strings.HasSuffix(value, `"`) {
			value = value[1 : len(value)-1]
		}

		var err error
		switch {
		case current != nil:
			err = setThemeField(current, key, value)
		case section == "":
			setRootField(cfg, key, value)
		case section == "service":
			err = setServiceField(&cfg.Service, key, value)
		case section == "brush":
			err = setBrushField(&cfg.Brush, key, value)
		case section == "view":
			err = setViewField(&cfg.View, key, value)
		case section == "notify":
			err = setNotifyField(&cfg.Notify, key, value)
		}
		if err != nil {
			name := section
			if name == "" {
				name = "root"
			}
			return nil, fmt.Errorf("line %d [%s]: %w", lineNo, name, err)
		}
	}
	return cfg, scanner.Err()
}

func setRootField(cfg *Config, key, value string) {
	switch strings.ToLower(key) {
	case "theme":
		cfg.Theme = value
	case "save_dir":
		cfg.SaveDir = value
	}
}

func setServiceField(s *Service, key, value string) error {
	switch strings.ToLower(key) {
	case "api_key":
		s.APIKey = value
	case "model":
		s.Model = value
	case "base_url":
		s.BaseURL = value
	case "timeout":
		d, err := time.ParseDuration(value)
		if err != nil {
			return fmt.Errorf("timeout: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("timeout must be positive, got %s", value)
		}
		s.Timeout = d
	}
	return nil
}

func setBrushField(b *Brush, key, value string) error {
	switch strings.ToLower(key) {
	case "size":
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("size: %w", err)
		}
		b.Size = f
	case "feather":
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("feather: %w", err)
		}
		b.Feather = n
	}
	return nil
}

func setViewField(v *View, key, value string) error {
	if strings.ToLower(key) == "margin" {
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("margin: %w", err)
		}
		v.Margin = f
	}
	return nil
}

func setNotifyField(n *Notify, key, value string) error {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return fmt.Errorf("invalid boolean for key %s: %w", key, err)
	}
	switch strings.ToLower(key) {
	case "process":
		n.Process = b
	case "save":
		n.Save = b
	case "copy":
		n.Copy = b
	}
	return nil
}

// setThemeField sets a colour by case-insensitive field name. Unknown keys
// are ignored.
func setThemeField(t *theme.Theme, key, value string) error {
	if strings.EqualFold(key, "Name") {
		t.Name = value
		return nil
	}
	v := reflect.ValueOf(t).Elem()
	for i := 0; i < v.NumField(); i++ {
		f := v.Type().Field(i)
		if !strings.EqualFold(f.Name, key) || f.Type != rgbaType {
			continue
		}
		col, err := theme.ParseColor(value)
		if err != nil {
			return fmt.Errorf("invalid color for key %s: %w", key, err)
		}
		v.Field(i).Set(reflect.ValueOf(col))
		return nil
	}
	return nil
}
