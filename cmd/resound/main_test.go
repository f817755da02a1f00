package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"resound/internal/config"
	"resound/internal/logging"
	"resound/internal/runlog"
	"resound/internal/transcripts"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	cfgVal := config.Default()
	cfgVal.Paths.TagsFile = filepath.Join(base, "tags.json")
	cfgVal.Paths.AudioDir = filepath.Join(base, "audio")
	cfgVal.Paths.VideoDir = filepath.Join(base, "videos")
	cfgVal.Paths.OutputDir = filepath.Join(base, "out")
	cfgVal.Paths.CacheFile = filepath.Join(base, "cache.json")
	cfgVal.Paths.RunLogDB = filepath.Join(base, "runlog.db")
	cfgVal.Paths.LogDir = filepath.Join(base, "logs")
	cfgVal.Logging.Format = "console"

	configPath := filepath.Join(base, "config.toml")
	rendered, err := toml.Marshal(cfgVal)
	if err != nil {
		t.Fatalf("marshal config: %v", err)
	}
	if err := os.WriteFile(configPath, rendered, 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	if err := os.WriteFile(cfgVal.Paths.TagsFile, []byte("{}"), 0o644); err != nil {
		t.Fatalf("write tags: %v", err)
	}
	for _, dir := range []string{cfgVal.Paths.AudioDir, cfgVal.Paths.VideoDir} {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			t.Fatalf("mkdir: %v", err)
		}
	}

	return &cliTestEnv{cfg: &cfgVal, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, want string) {
	t.Helper()
	if !strings.Contains(output, want) {
		t.Fatalf("expected output to contain %q, got:\n%s", want, output)
	}
}

func TestCLICacheCommands(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"cache", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("cache show: %v", err)
	}
	requireContains(t, out, "Transcript cache is empty")

	cache := transcripts.NewCache(env.cfg.Paths.CacheFile, logging.NewNop())
	key := transcripts.Key(transcripts.TagAudio, filepath.Join(env.baseDir, "room.wav"))
	if err := cache.Store(key, "hello from the second room"); err != nil {
		t.Fatalf("seed cache: %v", err)
	}

	out, _, err = runCLI(t, []string{"cache", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("cache show: %v", err)
	}
	requireContains(t, out, "room.wav")
	requireContains(t, out, "1 cached transcript(s)")

	out, _, err = runCLI(t, []string{"cache", "clear"}, env.configPath)
	if err != nil {
		t.Fatalf("cache clear: %v", err)
	}
	requireContains(t, out, "Removed 1 cached transcript(s)")

	out, _, err = runCLI(t, []string{"cache", "show"}, env.configPath)
	if err != nil {
		t.Fatalf("cache show after clear: %v", err)
	}
	requireContains(t, out, "Transcript cache is empty")
}

func TestCLIHistoryCommand(t *testing.T) {
	env := setupCLITestEnv(t)

	out, _, err := runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "No recorded runs")

	store, err := runlog.Open(env.cfg.Paths.RunLogDB)
	if err != nil {
		t.Fatalf("open runlog: %v", err)
	}
	if _, err := store.Record(context.Background(), runlog.Entry{
		RunID:     "0123456789abcdef",
		Reference: "talk.mp4",
		Candidate: "room.wav",
		Method:    "waveform",
		Score:     0.83,
		Status:    "synced",
	}); err != nil {
		t.Fatalf("seed runlog: %v", err)
	}
	if err := store.Close(); err != nil {
		t.Fatalf("close runlog: %v", err)
	}

	out, _, err = runCLI(t, []string{"history"}, env.configPath)
	if err != nil {
		t.Fatalf("history: %v", err)
	}
	requireContains(t, out, "talk.mp4")
	requireContains(t, out, "room.wav")
	requireContains(t, out, "01234567")
	requireContains(t, out, "synced")

	out, _, err = runCLI(t, []string{"history", "--reference", "talk.mp4"}, env.configPath)
	if err != nil {
		t.Fatalf("history --reference: %v", err)
	}
	requireContains(t, out, "talk.mp4")
}

func TestCLIMatchRejectsUnknownMethod(t *testing.T) {
	env := setupCLITestEnv(t)

	_, _, err := runCLI(t, []string{"match", "--method", "psychic", "talk.mp4"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "unknown matching method") {
		t.Fatalf("expected method error, got %v", err)
	}
}

func TestCLIMatchRequiresCandidates(t *testing.T) {
	env := setupCLITestEnv(t)
	stubExternalTools(t)
	videoPath := filepath.Join(env.cfg.Paths.VideoDir, "talk.mp4")
	if err := os.WriteFile(videoPath, []byte("video"), 0o644); err != nil {
		t.Fatal(err)
	}

	_, _, err := runCLI(t, []string{"match", videoPath}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "no audio candidates") {
		t.Fatalf("expected empty pool error, got %v", err)
	}
}

func TestCLISyncDryRunWithNoReferences(t *testing.T) {
	env := setupCLITestEnv(t)
	stubExternalTools(t)

	out, _, err := runCLI(t, []string{"sync", "--dry-run"}, env.configPath)
	if err != nil {
		t.Fatalf("sync --dry-run: %v", err)
	}
	requireContains(t, out, "0 synced, 0 skipped, 0 failed")
}

func TestCLISyncFailsWithoutFFmpeg(t *testing.T) {
	env := setupCLITestEnv(t)
	t.Setenv("PATH", t.TempDir())

	_, _, err := runCLI(t, []string{"sync", "--dry-run"}, env.configPath)
	if err == nil || !strings.Contains(err.Error(), "missing required tools") {
		t.Fatalf("expected missing tool error, got %v", err)
	}
}

func TestCLIDepsCommand(t *testing.T) {
	env := setupCLITestEnv(t)
	stubExternalTools(t)

	out, _, err := runCLI(t, []string{"deps"}, env.configPath)
	if err != nil {
		t.Fatalf("deps: %v", err)
	}
	requireContains(t, out, "FFmpeg")
	requireContains(t, out, "uvx")
}

// stubExternalTools prepends a directory of no-op ffmpeg/ffprobe/uvx
// binaries to PATH.
func stubExternalTools(t *testing.T) {
	t.Helper()
	binDir := t.TempDir()
	for _, name := range []string{"ffmpeg", "ffprobe", "uvx"} {
		path := filepath.Join(binDir, name)
		if err := os.WriteFile(path, []byte("#!/bin/sh\nexit 0\n"), 0o755); err != nil {
			t.Fatalf("write stub %s: %v", name, err)
		}
	}
	t.Setenv("PATH", binDir+string(os.PathListSeparator)+os.Getenv("PATH"))
}
