package config

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/soocke/pose-label-go/domain/geometry"
)

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if cfg.EdgeLength != geometry.DefaultEdgeLength || !cfg.Inherit {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	cfg := DefaultConfig()
	cfg.SessionID = "s1"
	cfg.EdgeLength = 96
	cfg.UnlabeledOnly = true
	if err := cfg.Save(path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if *got != *cfg {
		t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", got, cfg)
	}
}

func TestLoad_BadJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cfg.json")
	if err := os.WriteFile(path, []byte("{"), 0o600); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err == nil || cfg == nil || cfg.EdgeLength != geometry.DefaultEdgeLength {
		t.Fatalf("expected defaults with error, got %+v err=%v", cfg, err)
	}
}

func TestValidate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.EdgeLength = 4
	cfg.RequestTimeoutSeconds = 0
	cfg.PreviewSize = 1
	cfg.LogLevel = "loud"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("repairable values should not error: %v", err)
	}
	if cfg.EdgeLength != geometry.DefaultEdgeLength || cfg.RequestTimeoutSeconds != 10 || cfg.PreviewSize != 128 || cfg.LogLevel != "info" {
		t.Fatalf("values not clamped: %+v", cfg)
	}

	cfg.ServerURL = "not a url"
	cfg.SessionID = "a/b"
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for bad url and session")
	}
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"POSE_LABEL_SERVER_URL":     "http://labels:9000",
		"POSE_LABEL_SESSION_ID":     "cam-3",
		"POSE_LABEL_EDGE_LENGTH":    "64",
		"POSE_LABEL_UNLABELED_ONLY": "true",
		"POSE_LABEL_PREVIEW_SIZE":   "abc",
	}
	lookup := func(k string) (string, bool) { v, ok := env[k]; return v, ok }
	cfg := DefaultConfig()
	err := cfg.ApplyEnv(lookup)
	if err == nil {
		t.Fatalf("expected error for unparseable preview size")
	}
	if cfg.ServerURL != "http://labels:9000" || cfg.SessionID != "cam-3" || cfg.EdgeLength != 64 || !cfg.UnlabeledOnly {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if cfg.PreviewSize != 128 {
		t.Fatalf("bad value must be skipped, got %d", cfg.PreviewSize)
	}
}

func TestLoadEnv(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".env")
	if err := os.WriteFile(path, []byte("POSE_LABEL_TEST_ONLY=from-file\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	t.Setenv("POSE_LABEL_TEST_ONLY", "")
	os.Unsetenv("POSE_LABEL_TEST_ONLY")
	if err := LoadEnv(filepath.Join(dir, "missing.env"), path); err != nil {
		t.Fatalf("load env: %v", err)
	}
	if got := os.Getenv("POSE_LABEL_TEST_ONLY"); got != "from-file" {
		t.Fatalf("expected value from file, got %q", got)
	}
}

func TestLevel(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LogLevel = "warn"
	if cfg.Level() != slog.LevelWarn {
		t.Fatalf("expected warn")
	}
	cfg.Debug = true
	if cfg.Level() != slog.LevelDebug {
		t.Fatalf("debug flag should force debug level")
	}
}
