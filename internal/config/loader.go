package config

import (
	"os"
	"path/filepath"
	"strings"
)

// Loader locates and reads the configuration file.
type Loader struct {
	Version      string // "dev" enables the working directory lookup
	OverridePath string
	// HomeDir replaces os.UserHomeDir when set.
	HomeDir string
}

// NewLoader creates a new Loader.
func NewLoader(version, overridePath string) *Loader {
	return &Loader{Version: version, OverridePath: overridePath}
}

// Load reads the first configuration file found, or returns defaults when
// there is none. Environment overrides are applied either way.
func (l *Loader) Load() (*Config, error) {
	cfg, err := l.loadFile()
	if err != nil {
		return nil, err
	}
	cfg.ApplyEnv(os.Getenv)
	return cfg, nil
}

func (l *Loader) loadFile() (*Config, error) {
	path := l.GetConfigPath()
	if path == "" {
		return New(), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
		return ParseYAML(f)
	}
	return Parse(f)
}

// GetConfigPath returns the configuration file to read, or "" if none exists.
func (l *Loader) GetConfigPath() string {
	if l.OverridePath != "" {
		if _, err := os.Stat(l.OverridePath); err == nil {
			return l.OverridePath
		}
	}
	if l.Version == "dev" {
		if wd, err := os.Getwd(); err == nil {
			p := filepath.Join(wd, ".unmarkrc")
			if _, err := os.Stat(p); err == nil {
				return p
			}
		}
	}
	dir := l.configDir()
	if dir == "" {
		return ""
	}
	for _, name := range []string{"config.rc", "config.yaml"} {
		p := filepath.Join(dir, name)
		if _, err := os.Stat(p); err == nil {
			return p
		}
	}
	return ""
}

// DefaultPath is where "config save" writes.
func (l *Loader) DefaultPath() string {
	if l.OverridePath != "" {
		return l.OverridePath
	}
	dir := l.configDir()
	if dir == "" {
		return ".unmarkrc"
	}
	return filepath.Join(dir, "config.rc")
}

func (l *Loader) configDir() string {
	home := l.HomeDir
	if home == "" {
		var err error
		if home, err = os.UserHomeDir(); err != nil {
			return ""
		}
	}
	return filepath.Join(home, ".config", "unmark")
}

// Save writes cfg to path in RC format, creating parent directories.
func Save(cfg *Config, path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, []byte(cfg.String()), 0o600)
}
