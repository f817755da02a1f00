package whisper

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"resound/internal/services"
)

func TestBuildArgsCPUDefaults(t *testing.T) {
	svc := NewService(Config{Language: "en"})
	args := svc.buildArgs("audio.wav", "/tmp/out")

	if args[0] != "--index-url" || args[1] != PypiIndexURL {
		t.Errorf("expected pypi index first, got %v", args[:2])
	}
	for _, want := range [][]string{
		{"--model", DefaultModel},
		{"--output_format", OutputFormat},
		{"--language", "en"},
		{"--device", CPUDevice},
		{"--compute_type", CPUComputeType},
	} {
		if !containsPair(args, want[0], want[1]) {
			t.Errorf("missing %v in args %v", want, args)
		}
	}
}

func TestBuildArgsCUDA(t *testing.T) {
	svc := NewService(Config{Model: "large-v3", CUDAEnabled: true})
	args := svc.buildArgs("audio.wav", "/tmp/out")

	if !containsPair(args, "--index-url", CUDAIndexURL) {
		t.Errorf("expected CUDA index url in %v", args)
	}
	if !containsPair(args, "--device", CUDADevice) {
		t.Errorf("expected cuda device in %v", args)
	}
	if slices.Contains(args, "--compute_type") {
		t.Errorf("unexpected compute_type for CUDA in %v", args)
	}
}

func TestTranscribeFileReadsJSONOutput(t *testing.T) {
	outputDir := t.TempDir()
	payload := `{"segments":[{"text":" the quick brown fox ","start":0,"end":2.5},{"text":"jumps over","start":2.5,"end":4},{"text":"  ","start":4,"end":4.5}]}`

	svc := NewService(Config{})
	svc.WithCommandRunner(func(_ context.Context, name string, args ...string) error {
		if name != UVXCommand {
			t.Errorf("command: got %q, want %q", name, UVXCommand)
		}
		// Simulate whisperx writing its JSON next to the requested output dir.
		return os.WriteFile(filepath.Join(outputDir, "clip.json"), []byte(payload), 0o644)
	})

	text, err := svc.TranscribeFile(context.Background(), "/media/clip.wav", outputDir)
	if err != nil {
		t.Fatalf("TranscribeFile failed: %v", err)
	}
	if text != "the quick brown fox jumps over" {
		t.Errorf("text: got %q", text)
	}
}

func TestTranscribeFileToolFailure(t *testing.T) {
	svc := NewService(Config{})
	svc.WithCommandRunner(func(context.Context, string, ...string) error {
		return errors.New("exit status 2")
	})

	_, err := svc.TranscribeFile(context.Background(), "/media/clip.wav", t.TempDir())
	if !errors.Is(err, services.ErrTranscribe) {
		t.Fatalf("expected ErrTranscribe, got %v", err)
	}
}

func TestTranscribeFileRequiresSource(t *testing.T) {
	svc := NewService(Config{})
	if _, err := svc.TranscribeFile(context.Background(), "", t.TempDir()); err == nil {
		t.Fatal("expected error for empty source")
	}
}

func containsPair(args []string, flag, value string) bool {
	for i := 0; i+1 < len(args); i++ {
		if args[i] == flag && args[i+1] == value {
			return true
		}
	}
	return false
}
