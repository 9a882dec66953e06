package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"gopkg.in/yaml.v3"

	"project_switcher/internal/discovery"
)

// Themes lists the accepted catppuccin flavor names
var Themes = []string{"mocha", "macchiato", "frappe", "latte"}

// Log configures the file logger
type Log struct {
	// Level is one of debug, info, warn, error or off
	Level string `yaml:"level"`

	// Format is text or json
	Format string `yaml:"format"`

	// File overrides the default log path
	File string `yaml:"file"`

	MaxSizeMB  int `yaml:"max_size_mb"`
	MaxBackups int `yaml:"max_backups"`
}

// Config holds the application configuration
type Config struct {
	// Roots is a colon-separated list of directories to search for projects
	Roots string `yaml:"roots"`

	// Finder is the fd binary (some distributions ship it as fdfind)
	Finder string `yaml:"finder"`

	// MaxDepth limits how deep the finder descends below each root
	MaxDepth int `yaml:"max_depth"`

	// ScanTimeout bounds a single discovery run
	ScanTimeout time.Duration `yaml:"scan_timeout"`

	// Watch rescans when directories appear under a root
	Watch bool `yaml:"watch"`

	// Ignore holds doublestar globs; matching project paths are skipped
	Ignore []string `yaml:"ignore"`

	// Theme is the color theme to use (mocha, macchiato, frappe, latte)
	Theme string `yaml:"theme"`

	// Tmux is the tmux binary; looked up in PATH when empty
	Tmux string `yaml:"tmux"`

	// Defaults seed the catalog before the first scan completes
	Defaults map[string]string `yaml:"defaults"`

	Log Log `yaml:"log"`
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		Roots:       discovery.DefaultRoot,
		Finder:      discovery.DefaultFinder,
		MaxDepth:    discovery.DefaultMaxDepth,
		ScanTimeout: discovery.DefaultScanTimeout,
		Watch:       true,
		Theme:       "mocha",
		Defaults: map[string]string{
			"default": "~",
		},
		Log: Log{
			Level:      "info",
			Format:     "text",
			MaxSizeMB:  5,
			MaxBackups: 3,
		},
	}
}

// Load reads the config from a YAML file, falling back to defaults
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	cleanPath := filepath.Clean(path)
	data, err := os.ReadFile(cleanPath) //nolint:gosec // config path from known locations or --config
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil // Use defaults if no config file
		}
		return nil, err
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %q: %w", cleanPath, err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %q: %w", cleanPath, err)
	}

	return cfg, nil
}

// SearchPaths lists the config locations checked by LoadFromDefaultPath, in order
func SearchPaths() []string {
	paths := []string{
		"config.yaml",
		filepath.Join(os.Getenv("HOME"), ".config", "project_switcher", "config.yaml"),
	}

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "project_switcher", "config.yaml"))
	}
	return paths
}

// LoadFromDefaultPath attempts to load config from standard locations
func LoadFromDefaultPath() (*Config, error) {
	for _, path := range SearchPaths() {
		cleanPath := filepath.Clean(path)
		if _, err := os.Stat(cleanPath); err == nil {
			return Load(cleanPath)
		}
	}

	return DefaultConfig(), nil
}

// Validate reports the first invalid setting
func (c *Config) Validate() error {
	if c.MaxDepth < 0 {
		return fmt.Errorf("max_depth must not be negative, got %d", c.MaxDepth)
	}
	if c.ScanTimeout < 0 {
		return fmt.Errorf("scan_timeout must not be negative, got %s", c.ScanTimeout)
	}
	if !c.validTheme() {
		return fmt.Errorf("unknown theme %q (want one of %s)", c.Theme, strings.Join(Themes, ", "))
	}
	for _, p := range c.Ignore {
		if !doublestar.ValidatePattern(p) {
			return fmt.Errorf("ignore pattern %q: %w", p, doublestar.ErrBadPattern)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "", "text", "json":
	default:
		return errors.New("log.format must be text or json")
	}
	return nil
}

func (c *Config) validTheme() bool {
	if c.Theme == "" {
		return true
	}
	for _, t := range Themes {
		if strings.EqualFold(t, c.Theme) {
			return true
		}
	}
	return false
}

// RootList returns the configured roots, unexpanded
func (c *Config) RootList() []string {
	return discovery.SplitRoots(c.Roots)
}

// DefaultProjects returns the seed catalog with ~ expanded in paths
func (c *Config) DefaultProjects() map[string]string {
	out := make(map[string]string, len(c.Defaults))
	for name, path := range c.Defaults {
		out[name] = discovery.ExpandRoot(path)
	}
	return out
}
