package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, _, exists, err := Load(filepath.Join(t.TempDir(), "config.toml"))
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if exists {
		t.Fatal("expected exists=false for missing file")
	}
	if cfg.Analysis.SampleRate != defaultAnalysisSampleRate {
		t.Errorf("sample rate: got %d, want %d", cfg.Analysis.SampleRate, defaultAnalysisSampleRate)
	}
	if cfg.Analysis.Method != "waveform" {
		t.Errorf("method: got %q, want waveform", cfg.Analysis.Method)
	}
}

func TestLoadParsesAndNormalizes(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")
	content := `
[analysis]
method = "Transcript"
window_seconds = 30

[batch]
tool_timeout_seconds = -5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, resolved, exists, err := Load(path)
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if !exists || resolved != path {
		t.Fatalf("expected to load %s, got %s exists=%v", path, resolved, exists)
	}
	if cfg.Analysis.Method != "transcript" {
		t.Errorf("method not normalized: %q", cfg.Analysis.Method)
	}
	if cfg.Analysis.WindowSeconds != 30 {
		t.Errorf("window seconds: got %d, want 30", cfg.Analysis.WindowSeconds)
	}
	if cfg.Batch.ToolTimeoutSeconds != defaultToolTimeoutSeconds {
		t.Errorf("expected negative timeout replaced with default, got %d", cfg.Batch.ToolTimeoutSeconds)
	}
	if !filepath.IsAbs(cfg.Paths.CacheFile) {
		t.Errorf("cache file not absolute: %q", cfg.Paths.CacheFile)
	}
}

func TestValidateRejectsBadMethod(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	cfg.Analysis.Method = "hybrid"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for unknown method")
	}
}

func TestValidateRejectsOutOfRangeThreshold(t *testing.T) {
	cfg := Default()
	if err := cfg.normalize(); err != nil {
		t.Fatal(err)
	}
	cfg.Analysis.WaveformThreshold = 1.5
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected validation error for threshold > 1")
	}
}

func TestThresholdFollowsMethod(t *testing.T) {
	cfg := Default()
	cfg.Analysis.Method = "waveform"
	if got := cfg.Threshold(); got != defaultWaveformThreshold {
		t.Errorf("waveform threshold: got %v", got)
	}
	cfg.Analysis.Method = "transcript"
	if got := cfg.Threshold(); got != defaultTranscriptThreshold {
		t.Errorf("transcript threshold: got %v", got)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	if err := CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "[analysis]") {
		t.Error("sample config missing [analysis] section")
	}
}

func TestExpandPathHome(t *testing.T) {
	home, err := os.UserHomeDir()
	if err != nil {
		t.Skip("no home directory")
	}
	got, err := ExpandPath("~/videos")
	if err != nil {
		t.Fatal(err)
	}
	if got != filepath.Join(home, "videos") {
		t.Errorf("ExpandPath: got %q", got)
	}
}
