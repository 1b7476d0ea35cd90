package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "8080" || cfg.FrameRate != 30 || cfg.FrameIntervalMS != 100 || !cfg.AutoMarkEndOnRelease {
		t.Errorf("Unexpected defaults %+v", cfg)
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	path := filepath.Join(dir, "vlabel.yaml")
	content := "port: \"9000\"\nframe_rate: 25\nframe_interval_ms: 50\nauto_mark_end_on_release: false\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config: %v", err)
	}
	t.Setenv("PORT", "9100")
	t.Setenv("UPLOAD_DIR", "/data/videos")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Port != "9100" {
		t.Errorf("Expected env to override port, got %s", cfg.Port)
	}
	if cfg.UploadDir != "/data/videos" {
		t.Errorf("Expected upload dir from env, got %s", cfg.UploadDir)
	}

	opts := cfg.SessionOptions()
	if opts.FrameRate != 25 || opts.FrameInterval != 50*time.Millisecond || opts.AutoMarkEndOnRelease {
		t.Errorf("Unexpected session options %+v", opts)
	}
}

func TestLoadDotEnv(t *testing.T) {
	dir := t.TempDir()
	t.Chdir(dir)

	if err := os.WriteFile(filepath.Join(dir, ".env"), []byte("DB_PATH=/tmp/labels.db\n"), 0644); err != nil {
		t.Fatalf("Failed to write .env: %v", err)
	}
	// godotenv never overrides a variable that is already set.
	t.Setenv("DB_PATH", "")
	os.Unsetenv("DB_PATH")

	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.DBPath != "/tmp/labels.db" {
		t.Errorf("Expected DB path from .env, got %s", cfg.DBPath)
	}
}

func TestLoadRejectsInvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"frame rate below one", "DEFAULT_FRAME_RATE", "0.5"},
		{"frame rate not a number", "DEFAULT_FRAME_RATE", "fast"},
		{"interval too short", "FRAME_INTERVAL_MS", "5"},
		{"upload size", "MAX_UPLOAD_SIZE", "-1"},
		{"auto mark", "AUTO_MARK_END_ON_RELEASE", "sometimes"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())
			t.Setenv(tt.key, tt.val)
			if _, err := Load(""); err == nil {
				t.Errorf("Expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}
