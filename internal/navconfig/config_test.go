package navconfig

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(File{Path: filepath.Join(t.TempDir(), "does-not-exist.yaml")})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 256 || cfg.Height != 256 {
		t.Fatalf("expected default grid extent, got %dx%d", cfg.Width, cfg.Height)
	}
	if cfg.ZoneBlockSize != 16 {
		t.Fatalf("expected default zone block size 16, got %d", cfg.ZoneBlockSize)
	}
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "navcore.yaml")
	contents := "grid:\n  width: 40\n  height: 30\n  pitch: 2.0\nzone:\n  block_size: 8\n"
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("unexpected error writing config file: %v", err)
	}
	cfg, err := Load(File{Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 40 || cfg.Height != 30 || cfg.Pitch != 2.0 {
		t.Fatalf("expected config-file values to override defaults, got %+v", cfg)
	}
	if cfg.ZoneBlockSize != 8 {
		t.Fatalf("expected zone.block_size 8, got %d", cfg.ZoneBlockSize)
	}
}

func TestLoadEnvOverridesFile(t *testing.T) {
	t.Setenv("NAVCORE_GRID_WIDTH", "99")
	path := filepath.Join(t.TempDir(), "navcore.yaml")
	os.WriteFile(path, []byte("grid:\n  width: 40\n"), 0o644)
	cfg, err := Load(File{Path: path})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Width != 99 {
		t.Fatalf("expected environment to win over the config file, got width=%d", cfg.Width)
	}
}
