package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"
	"strconv"
	"strings"

	"resound/internal/services"
)

// DefaultBinary is the ffmpeg executable name.
const DefaultBinary = "ffmpeg"

// CommandRunner executes an external command; tests substitute their own.
type CommandRunner func(ctx context.Context, name string, args ...string) error

// Transcoder shells out to ffmpeg for audio extraction and muxing.
type Transcoder struct {
	binary string
	runner CommandRunner
}

// NewTranscoder creates a transcoder using the given ffmpeg binary.
func NewTranscoder(binary string) *Transcoder {
	if strings.TrimSpace(binary) == "" {
		binary = DefaultBinary
	}
	return &Transcoder{binary: binary}
}

// WithCommandRunner sets a custom command runner (for testing).
func (t *Transcoder) WithCommandRunner(runner CommandRunner) {
	t.runner = runner
}

// ExtractPCM decodes a mono PCM WAV prefix of source into dest at the given
// sample rate. A durationSeconds of 0 or less extracts the full stream.
// Failures are tagged as decode errors so callers can exclude the source
// from ranking without failing the batch.
func (t *Transcoder) ExtractPCM(ctx context.Context, source, dest string, durationSeconds, sampleRate int) error {
	if strings.TrimSpace(source) == "" {
		return services.Wrap(services.ErrDecode, "ffmpeg", "extract pcm", fmt.Errorf("source path required"))
	}
	if sampleRate <= 0 {
		return services.Wrap(services.ErrDecode, "ffmpeg", "extract pcm", fmt.Errorf("invalid sample rate %d", sampleRate))
	}

	args := extractArgs(source, dest, durationSeconds, sampleRate)
	if err := t.run(ctx, args...); err != nil {
		return services.Wrap(services.ErrDecode, "ffmpeg", "extract pcm", err)
	}
	return nil
}

// Mux writes output as a copy of the video stream from videoPath with the
// audio stream from audioPath shifted by offsetSeconds. A positive offset
// delays the replacement audio; a negative offset trims its start. The
// result is truncated to the shorter stream.
func (t *Transcoder) Mux(ctx context.Context, videoPath, audioPath string, offsetSeconds float64, output string) error {
	if strings.TrimSpace(videoPath) == "" || strings.TrimSpace(audioPath) == "" {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "mux", fmt.Errorf("video and audio paths required"))
	}

	args := muxArgs(videoPath, audioPath, offsetSeconds, output)
	if err := t.run(ctx, args...); err != nil {
		return services.Wrap(services.ErrExternalTool, "ffmpeg", "mux", err)
	}
	return nil
}

func (t *Transcoder) run(ctx context.Context, args ...string) error {
	if t.runner != nil {
		return t.runner(ctx, t.binary, args...)
	}
	cmd := exec.CommandContext(ctx, t.binary, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", t.binary, err, strings.TrimSpace(string(output)))
	}
	return nil
}

func extractArgs(source, dest string, durationSeconds, sampleRate int) []string {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
	}
	if durationSeconds > 0 {
		args = append(args, "-t", strconv.Itoa(durationSeconds))
	}
	args = append(args,
		"-vn",
		"-sn",
		"-dn",
		"-ac", "1",
		"-ar", strconv.Itoa(sampleRate),
		"-c:a", "pcm_s16le",
		"-f", "wav",
		dest,
	)
	return args
}

func muxArgs(videoPath, audioPath string, offsetSeconds float64, output string) []string {
	var audioFilter string
	if offsetSeconds >= 0 {
		delayMillis := int(offsetSeconds * 1000)
		audioFilter = fmt.Sprintf("adelay=%d|%d", delayMillis, delayMillis)
	} else {
		audioFilter = fmt.Sprintf("atrim=start=%s,asetpts=PTS-STARTPTS",
			strconv.FormatFloat(-offsetSeconds, 'f', -1, 64))
	}

	return []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", videoPath,
		"-i", audioPath,
		"-c:v", "copy",
		"-af", audioFilter,
		"-map", "0:v:0",
		"-map", "1:a:0",
		"-shortest",
		output,
	}
}
