package deps

import (
	"os"
	"path/filepath"
	"testing"

	"resound/internal/config"
	"resound/internal/match"
)

func TestCheckBinaries(t *testing.T) {
	binDir := t.TempDir()
	present := filepath.Join(binDir, "present")
	script := []byte("#!/bin/sh\nexit 0\n")
	if err := os.WriteFile(present, script, 0o755); err != nil {
		t.Fatalf("write stub: %v", err)
	}
	reqs := []Requirement{
		{Name: "Present", Command: present},
		{Name: "Missing", Command: "clearly-not-present-binary"},
		{Name: "Unset", Command: "  "},
	}

	results := CheckBinaries(reqs)
	if len(results) != len(reqs) {
		t.Fatalf("expected %d results, got %d", len(reqs), len(results))
	}

	if !results[0].Available {
		t.Fatalf("expected first requirement to be available, got %#v", results[0])
	}
	if results[0].Detail != "" {
		t.Fatalf("unexpected detail for available dependency: %s", results[0].Detail)
	}

	if results[1].Available {
		t.Fatal("expected missing binary to be unavailable")
	}
	if results[1].Detail == "" {
		t.Fatal("expected detail message for missing binary")
	}

	if results[2].Available || results[2].Detail != "command not configured" {
		t.Fatalf("unexpected status for unset command: %#v", results[2])
	}
}

func TestForMethodRequiresTranscriberOnlyForTranscript(t *testing.T) {
	cfg := config.Default()

	find := func(method match.Method, name string) Requirement {
		for _, req := range ForMethod(&cfg, method) {
			if req.Name == name {
				return req
			}
		}
		t.Fatalf("requirement %s not listed", name)
		return Requirement{}
	}

	if req := find(match.MethodWaveform, "uvx"); !req.Optional {
		t.Error("uvx should be optional for waveform matching")
	}
	if req := find(match.MethodTranscript, "uvx"); req.Optional {
		t.Error("uvx should be required for transcript matching")
	}
	if req := find(match.MethodWaveform, "FFmpeg"); req.Optional {
		t.Error("ffmpeg is always required")
	}
}

func TestVerifyReportsMissingRequired(t *testing.T) {
	cfg := config.Default()
	// Point ffmpeg at a binary that cannot exist.
	t.Setenv("PATH", t.TempDir())

	err := Verify(&cfg, match.MethodWaveform)
	if err == nil {
		t.Fatal("expected missing ffmpeg to fail verification")
	}
}
