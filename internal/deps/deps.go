// Package deps verifies the external tools a matching run shells out to.
package deps

import (
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"resound/internal/config"
	"resound/internal/match"
	"resound/internal/services/whisper"
)

// Requirement defines an external tool resound relies on.
type Requirement struct {
	Name        string
	Command     string
	Description string
	Optional    bool
}

// Status reports the availability of a requirement.
type Status struct {
	Name        string
	Command     string
	Description string
	Optional    bool
	Available   bool
	Detail      string
}

// ForMethod lists the requirements of a run with the given matching method.
// The transcriber is only required when transcript matching is selected.
func ForMethod(cfg *config.Config, method match.Method) []Requirement {
	return []Requirement{
		{Name: "FFmpeg", Command: cfg.FFmpegBinary(), Description: "Audio extraction and muxing"},
		{Name: "FFprobe", Command: cfg.FFprobeBinary(), Description: "Media inspection", Optional: true},
		{
			Name:        "uvx",
			Command:     whisper.UVXCommand,
			Description: "Launches whisperx for transcription",
			Optional:    method != match.MethodTranscript,
		},
	}
}

// CheckBinaries evaluates the provided requirements and reports availability.
func CheckBinaries(requirements []Requirement) []Status {
	results := make([]Status, len(requirements))
	for i, req := range requirements {
		results[i] = check(req)
	}
	return results
}

func check(req Requirement) Status {
	status := Status{
		Name:        req.Name,
		Command:     strings.TrimSpace(req.Command),
		Description: strings.TrimSpace(req.Description),
		Optional:    req.Optional,
	}
	if status.Command == "" {
		status.Detail = "command not configured"
		return status
	}
	if _, err := exec.LookPath(status.Command); err != nil {
		status.Detail = fmt.Sprintf("binary %q not found", status.Command)
		return status
	}
	status.Available = true
	return status
}

// Verify returns an error naming every missing required tool.
func Verify(cfg *config.Config, method match.Method) error {
	var missing []string
	for _, status := range CheckBinaries(ForMethod(cfg, method)) {
		if status.Available || status.Optional {
			continue
		}
		missing = append(missing, fmt.Sprintf("%s (%s)", status.Name, status.Detail))
	}
	if len(missing) == 0 {
		return nil
	}
	return errors.New("missing required tools: " + strings.Join(missing, ", "))
}
