package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadConfigMissingFileUsesDefaults(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", t.TempDir())

	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.ListenAddr != ":8080" {
		t.Errorf("expected default listen addr, got %q", cfg.ListenAddr)
	}
	if cfg.SearchTimeout.Duration != 10*time.Second {
		t.Errorf("expected default search timeout, got %v", cfg.SearchTimeout.Duration)
	}
	if cfg.StorageDir == "" {
		t.Error("expected default storage dir")
	}
	if cfg.Sources == nil {
		t.Error("expected sources map initialized")
	}
}

func TestLoadConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	content := `
storage_dir = "` + dir + `"
listen_addr = ":9090"
search_timeout = "5s"

[sources.tickets]
type = "ticket"
[sources.tickets.config]
base_url = "https://dev.example.com"
max_results = 100
`
	if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}

	if cfg.ListenAddr != ":9090" {
		t.Errorf("expected listen addr :9090, got %q", cfg.ListenAddr)
	}
	if cfg.SearchTimeout.Duration != 5*time.Second {
		t.Errorf("expected 5s timeout, got %v", cfg.SearchTimeout.Duration)
	}

	srcType, rawConfig, err := cfg.GetSourceConfig("tickets")
	if err != nil {
		t.Fatalf("GetSourceConfig failed: %v", err)
	}
	if srcType != "ticket" {
		t.Errorf("expected type ticket, got %q", srcType)
	}
	if rawConfig == nil {
		t.Error("expected source config table")
	}
}

func TestGetSourceConfigUnknown(t *testing.T) {
	cfg := &Config{Sources: map[string]SourceInfo{}}
	if _, _, err := cfg.GetSourceConfig("nope"); err == nil {
		t.Fatal("expected error for unknown source")
	}
}

func TestDurationUnmarshal(t *testing.T) {
	var d Duration
	if err := d.UnmarshalText([]byte("90s")); err != nil {
		t.Fatalf("UnmarshalText failed: %v", err)
	}
	if d.Duration != 90*time.Second {
		t.Errorf("expected 90s, got %v", d.Duration)
	}

	if err := d.UnmarshalText([]byte("not-a-duration")); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestSaveTemplateConfig(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.toml")

	cfg := &Config{StorageDir: dir}
	if err := cfg.SaveTemplateConfig(configPath); err != nil {
		t.Fatalf("SaveTemplateConfig failed: %v", err)
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		t.Fatalf("reading template: %v", err)
	}
	if len(data) == 0 {
		t.Fatal("expected non-empty template")
	}

	// The template must itself be loadable.
	loaded, err := LoadConfig(configPath)
	if err != nil {
		t.Fatalf("loading written template: %v", err)
	}
	if loaded.StorageDir != dir {
		t.Errorf("expected storage dir substituted, got %q", loaded.StorageDir)
	}
}
