package store

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

const (
	configFileName = "config.yaml"

	DefaultTreeFile   = "tree.txt"
	DefaultContentDir = "content"
)

// Config is the user's config.yaml. Zero values mean "use the default".
type Config struct {
	// DefaultFile is opened when no tree file is given on the command line.
	DefaultFile string `yaml:"default_file,omitempty"`

	// ContentDir holds linked content files. Relative paths resolve against the
	// tree file's directory.
	ContentDir string `yaml:"content_dir,omitempty"`

	// Theme is one of: light|dark|auto
	Theme string `yaml:"theme,omitempty"`

	// Style is one of: regular|slim
	Style string `yaml:"style,omitempty"`

	Panel *bool `yaml:"panel,omitempty"`

	// Opener overrides the OS default viewer command (e.g. "code -w").
	Opener string `yaml:"opener,omitempty"`

	// RestoreView restores the last selection and pan per tree file.
	RestoreView *bool `yaml:"restore_view,omitempty"`
}

func (c *Config) Validate() error {
	switch strings.TrimSpace(c.Theme) {
	case "", "light", "dark", "auto":
	default:
		return fmt.Errorf("config: theme must be light, dark or auto; got %q", c.Theme)
	}
	switch strings.TrimSpace(c.Style) {
	case "", "regular", "slim":
	default:
		return fmt.Errorf("config: style must be regular or slim; got %q", c.Style)
	}
	return nil
}

func (c *Config) TreeFile() string {
	if v := strings.TrimSpace(c.DefaultFile); v != "" {
		return v
	}
	return DefaultTreeFile
}

func (c *Config) ContentDirOrDefault() string {
	if v := strings.TrimSpace(c.ContentDir); v != "" {
		return v
	}
	return DefaultContentDir
}

func (c *Config) ThemeOrDefault() string {
	if v := strings.TrimSpace(c.Theme); v != "" {
		return v
	}
	return "auto"
}

func (c *Config) PanelOrDefault() bool {
	if c.Panel == nil {
		return true
	}
	return *c.Panel
}

func (c *Config) RestoreViewOrDefault() bool {
	if c.RestoreView == nil {
		return true
	}
	return *c.RestoreView
}

func (s Store) configPath() string {
	return filepath.Join(s.Dir, configFileName)
}

// LoadConfig reads config.yaml. A missing file yields the defaults.
func (s Store) LoadConfig() (*Config, error) {
	if strings.TrimSpace(s.Dir) == "" {
		return &Config{}, nil
	}
	b, err := os.ReadFile(s.configPath())
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return nil, err
	}
	var cfg Config
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return nil, fmt.Errorf("parse %s: %w", s.configPath(), err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (s Store) SaveConfig(cfg *Config) error {
	if cfg == nil {
		return nil
	}
	if err := cfg.Validate(); err != nil {
		return err
	}
	if err := s.Ensure(); err != nil {
		return err
	}
	b, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return atomicWriteFile(s.Dir, "config.yaml.*.tmp", s.configPath(), b, 0o600)
}
