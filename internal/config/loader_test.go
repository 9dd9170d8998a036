package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Briefing.Hour != 7 || cfg.Briefing.Minute != 30 {
		t.Errorf("briefing time = %d:%d", cfg.Briefing.Hour, cfg.Briefing.Minute)
	}
	if cfg.Briefing.Timezone != "America/New_York" {
		t.Errorf("timezone = %q", cfg.Briefing.Timezone)
	}
	if cfg.Briefing.WindowDays != 5 {
		t.Errorf("window days = %d", cfg.Briefing.WindowDays)
	}
	if cfg.Store.Backend != "sheets" {
		t.Errorf("backend = %q", cfg.Store.Backend)
	}
	if cfg.Extraction.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.Extraction.Model)
	}
}

func TestLoadFile_OverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taskme.yaml")
	yaml := `
server:
  addr: ":9090"
briefing:
  hour: 6
  window_days: 3
store:
  backend: sqlite
`
	if err := os.WriteFile(path, []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg := DefaultConfig()
	if err := loadFile(path, cfg); err != nil {
		t.Fatalf("loadFile: %v", err)
	}

	if cfg.Server.Addr != ":9090" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
	if cfg.Briefing.Hour != 6 {
		t.Errorf("hour = %d", cfg.Briefing.Hour)
	}
	if cfg.Briefing.WindowDays != 3 {
		t.Errorf("window days = %d", cfg.Briefing.WindowDays)
	}
	if cfg.Store.Backend != "sqlite" {
		t.Errorf("backend = %q", cfg.Store.Backend)
	}

	// Untouched keys keep their defaults.
	if cfg.Briefing.Minute != 30 {
		t.Errorf("minute = %d, default should survive a partial file", cfg.Briefing.Minute)
	}
	if cfg.Extraction.Model != "gpt-4o-mini" {
		t.Errorf("model = %q", cfg.Extraction.Model)
	}
}

func TestLoadFile_MissingFile(t *testing.T) {
	cfg := DefaultConfig()
	err := loadFile(filepath.Join(t.TempDir(), "nope.yaml"), cfg)
	if !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadFile_MalformedYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "taskme.yaml")
	if err := os.WriteFile(path, []byte("server: [unclosed"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := loadFile(path, DefaultConfig()); err == nil {
		t.Error("expected parse error")
	}
}

func TestWriteDefault_RoundTrips(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")

	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault: %v", err)
	}

	cfg := DefaultConfig()
	if err := loadFile(path, cfg); err != nil {
		t.Fatalf("generated config must parse: %v", err)
	}

	want := DefaultConfig()
	if cfg.Server.Addr != want.Server.Addr ||
		cfg.Briefing.Timezone != want.Briefing.Timezone ||
		cfg.Store.Sheets.Range != want.Store.Sheets.Range {
		t.Errorf("generated file drifted from defaults: %+v", cfg)
	}
}

func TestLoad_NoFilesUsesDefaults(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":8080" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}

func TestLoad_ProjectFileOverrides(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)
	t.Setenv("HOME", t.TempDir())

	yaml := "server:\n  addr: \":7070\"\n"
	if err := os.WriteFile(filepath.Join(dir, "taskme.yaml"), []byte(yaml), 0644); err != nil {
		t.Fatal(err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Server.Addr != ":7070" {
		t.Errorf("addr = %q", cfg.Server.Addr)
	}
}
