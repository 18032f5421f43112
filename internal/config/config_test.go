package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoad_DefaultsWithoutFile(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.Viewer.RelayURL != "http://localhost:3001" {
		t.Errorf("unexpected relay url %q", cfg.Viewer.RelayURL)
	}
	if cfg.Viewer.PageSize != 12 || cfg.Viewer.ScrollDebounce != 150*time.Millisecond || cfg.Viewer.ScrollThreshold != 3 {
		t.Errorf("unexpected viewer defaults %+v", cfg.Viewer)
	}
	if cfg.Viewer.Timeout != 0 {
		t.Errorf("expected no relay timeout by default, got %s", cfg.Viewer.Timeout)
	}
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("VIEWER_RELAY_URL", "http://relay.internal:8080")
	t.Setenv("VIEWER_SCROLL_DEBOUNCE", "300ms")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Viewer.RelayURL != "http://relay.internal:8080" || cfg.Viewer.ScrollDebounce != 300*time.Millisecond {
		t.Errorf("expected environment to win, got %+v", cfg.Viewer)
	}
}

func TestLoad_ReadsEnvFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "viewer.env")
	if err := os.WriteFile(path, []byte("VIEWER_PAGE_SIZE=24\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	// The .env parser exports what it reads.
	t.Cleanup(func() { os.Unsetenv("VIEWER_PAGE_SIZE") })

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.Viewer.PageSize != 24 {
		t.Errorf("expected page size from file, got %d", cfg.Viewer.PageSize)
	}
}
