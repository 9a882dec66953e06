package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Roots != "~" {
		t.Errorf("DefaultConfig roots = %q, want ~", cfg.Roots)
	}
	if cfg.Finder != "fd" {
		t.Errorf("DefaultConfig finder = %q, want fd", cfg.Finder)
	}
	if cfg.MaxDepth != 2 {
		t.Errorf("DefaultConfig max_depth = %d, want 2", cfg.MaxDepth)
	}
	if _, ok := cfg.Defaults["default"]; !ok {
		t.Error("DefaultConfig should seed a 'default' project")
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("DefaultConfig should validate, got %v", err)
	}
}

func TestRootList(t *testing.T) {
	tests := []struct {
		roots    string
		expected []string
	}{
		{"", []string{"~"}},
		{"~", []string{"~"}},
		{"~/personal_projects:~/work_projects", []string{"~/personal_projects", "~/work_projects"}},
	}

	for _, tt := range tests {
		t.Run(tt.roots, func(t *testing.T) {
			cfg := &Config{Roots: tt.roots}
			if got := cfg.RootList(); !reflect.DeepEqual(got, tt.expected) {
				t.Errorf("RootList() = %v, want %v", got, tt.expected)
			}
		})
	}
}

func TestDefaultProjectsExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := &Config{Defaults: map[string]string{
		"default":  "~",
		"dotfiles": "~/dotfiles",
		"srv":      "/srv",
	}}
	want := map[string]string{
		"default":  home,
		"dotfiles": filepath.Join(home, "dotfiles"),
		"srv":      "/srv",
	}
	if got := cfg.DefaultProjects(); !reflect.DeepEqual(got, want) {
		t.Errorf("DefaultProjects() = %v, want %v", got, want)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{"defaults", func(*Config) {}, false},
		{"negative depth", func(c *Config) { c.MaxDepth = -1 }, true},
		{"negative timeout", func(c *Config) { c.ScanTimeout = -time.Second }, true},
		{"unknown theme", func(c *Config) { c.Theme = "solarized" }, true},
		{"theme case", func(c *Config) { c.Theme = "Latte" }, false},
		{"empty theme", func(c *Config) { c.Theme = "" }, false},
		{"bad glob", func(c *Config) { c.Ignore = []string{"[oops"} }, true},
		{"good glob", func(c *Config) { c.Ignore = []string{"/**/node_modules/**"} }, false},
		{"bad log format", func(c *Config) { c.Log.Format = "xml" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoadFromFile(t *testing.T) {
	// Create a temp config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	content := `roots: "~/personal_projects:~/work_projects"
finder: fdfind
max_depth: 3
scan_timeout: 5s
watch: false
theme: latte
ignore:
  - "/**/vendor/**"
defaults:
  scratch: /tmp/scratch
log:
  level: debug
  format: json
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write test config: %v", err)
	}

	cfg, err := Load(configPath)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Finder != "fdfind" {
		t.Errorf("Expected finder fdfind, got %q", cfg.Finder)
	}
	if cfg.MaxDepth != 3 {
		t.Errorf("Expected max_depth 3, got %d", cfg.MaxDepth)
	}
	if cfg.ScanTimeout != 5*time.Second {
		t.Errorf("Expected scan_timeout 5s, got %s", cfg.ScanTimeout)
	}
	if cfg.Watch {
		t.Error("Expected watch to be disabled")
	}
	if cfg.Theme != "latte" {
		t.Errorf("Expected theme latte, got %q", cfg.Theme)
	}
	if len(cfg.RootList()) != 2 {
		t.Errorf("Expected 2 roots, got %v", cfg.RootList())
	}
	if len(cfg.Ignore) != 1 || cfg.Ignore[0] != "/**/vendor/**" {
		t.Errorf("Unexpected ignore list %v", cfg.Ignore)
	}
	// YAML maps merge into the default map
	if cfg.Defaults["scratch"] != "/tmp/scratch" {
		t.Errorf("Expected scratch default, got %v", cfg.Defaults)
	}
	if cfg.Log.Level != "debug" || cfg.Log.Format != "json" {
		t.Errorf("Unexpected log config %+v", cfg.Log)
	}
	// Unset fields keep their defaults
	if cfg.Log.MaxBackups != 3 {
		t.Errorf("Expected default max_backups, got %d", cfg.Log.MaxBackups)
	}
}

func TestLoadMissingFile(t *testing.T) {
	cfg, err := Load("/nonexistent/path/config.yaml")
	if err != nil {
		t.Fatalf("Load() should not error for missing file, got: %v", err)
	}

	// Should return defaults
	if cfg.Roots != "~" {
		t.Error("Should return default config")
	}
}

func TestLoadInvalid(t *testing.T) {
	tmpDir := t.TempDir()

	badYAML := filepath.Join(tmpDir, "bad.yaml")
	if err := os.WriteFile(badYAML, []byte("roots: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(badYAML); err == nil {
		t.Error("Load() should fail on malformed YAML")
	}

	badTheme := filepath.Join(tmpDir, "theme.yaml")
	if err := os.WriteFile(badTheme, []byte("theme: neon\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := Load(badTheme); err == nil {
		t.Error("Load() should fail on unknown theme")
	}
}

func TestLoadFromDefaultPathXDG(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	dir := filepath.Join(xdg, "project_switcher")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("finder: fdfind\n"), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadFromDefaultPath()
	if err != nil {
		t.Fatalf("LoadFromDefaultPath() error = %v", err)
	}
	if cfg.Finder != "fdfind" {
		t.Errorf("Expected XDG config to be loaded, got finder %q", cfg.Finder)
	}
}

func TestLoadFromDefaultPathNone(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", "")
	t.Setenv("HOME", t.TempDir())
	t.Chdir(t.TempDir())

	cfg, err := LoadFromDefaultPath()
	if err != nil {
		t.Fatalf("LoadFromDefaultPath() error = %v", err)
	}
	if cfg.Finder != "fd" {
		t.Errorf("Expected defaults, got finder %q", cfg.Finder)
	}
}
