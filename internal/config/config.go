package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains file and directory locations.
type Paths struct {
	TagsFile  string `toml:"tags_file"`
	AudioDir  string `toml:"audio_dir"`
	VideoDir  string `toml:"video_dir"`
	OutputDir string `toml:"output_dir"`
	CacheFile string `toml:"cache_file"`
	RunLogDB  string `toml:"runlog_db"`
	LogDir    string `toml:"log_dir"`
}

// Analysis contains tunables for the matching engine.
type Analysis struct {
	// Method selects the matcher for batch runs: "waveform" or "transcript".
	Method string `toml:"method"`
	// SampleRate is the reduced analysis rate for waveform correlation (Hz).
	SampleRate int `toml:"sample_rate"`
	// WindowSeconds bounds the reference audio prefix used for correlation.
	WindowSeconds int `toml:"window_seconds"`
	// CandidateWindowFactor scales WindowSeconds for candidate extraction so
	// a candidate recording that starts earlier still covers the reference.
	CandidateWindowFactor int `toml:"candidate_window_factor"`
	// TranscribeWindowSeconds bounds the audio prefix sent to the transcriber.
	TranscribeWindowSeconds int `toml:"transcribe_window_seconds"`
	// TranscribeSampleRate is the rate whisper expects (Hz).
	TranscribeSampleRate int `toml:"transcribe_sample_rate"`
	// WordsPerSecond is the assumed speaking rate for transcript offsets.
	WordsPerSecond float64 `toml:"words_per_second"`
	// QueryWindowTokens is the reference token window for offset estimation.
	QueryWindowTokens int `toml:"query_window_tokens"`
	// WaveformThreshold is the minimum correlation score to accept a match.
	WaveformThreshold float64 `toml:"waveform_threshold"`
	// TranscriptThreshold is the minimum similarity ratio to accept a match.
	TranscriptThreshold float64 `toml:"transcript_threshold"`
}

// Batch contains orchestrator settings.
type Batch struct {
	// Concurrency bounds parallel candidate evaluation; 0 means NumCPU.
	Concurrency int `toml:"concurrency"`
	// ToolTimeoutSeconds caps each external decode/transcribe invocation.
	ToolTimeoutSeconds int `toml:"tool_timeout_seconds"`
	// ReferenceMarker selects tag entries whose path identifies them as
	// alignment targets (e.g. "Second Room").
	ReferenceMarker string `toml:"reference_marker"`
}

// Whisper contains transcriber settings.
type Whisper struct {
	Model       string `toml:"model"`
	Language    string `toml:"language"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
}

// Logging contains log output settings.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for resound.
type Config struct {
	Paths    Paths    `toml:"paths"`
	Analysis Analysis `toml:"analysis"`
	Batch    Batch    `toml:"batch"`
	Whisper  Whisper  `toml:"whisper"`
	Logging  Logging  `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/resound/config.toml")
}

// Load locates, parses, and validates a configuration file. The returned
// config has all path fields expanded and normalized. When the file does not
// exist the repository defaults are returned.
func Load(path string) (*Config, string, bool, error) {
	cfg := Default()

	resolvedPath, exists, err := resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, err := os.Open(resolvedPath)
		if err != nil {
			return nil, "", false, fmt.Errorf("open config: %w", err)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if err := decoder.Decode(&cfg); err != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", err)
		}
	}

	if err := cfg.normalize(); err != nil {
		return nil, "", false, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, "", false, err
	}

	return &cfg, resolvedPath, exists, nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err := os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return expanded, false, nil
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	defaultPath, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}

	projectPath, err := filepath.Abs("resound.toml")
	if err != nil {
		return "", false, err
	}

	if info, err := os.Stat(defaultPath); err == nil && !info.IsDir() {
		return defaultPath, true, nil
	}
	if info, err := os.Stat(projectPath); err == nil && !info.IsDir() {
		return projectPath, true, nil
	}

	return defaultPath, false, nil
}

// EnsureDirectories creates the directories a batch run writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %q: %w", dir, err)
		}
	}
	for _, file := range []string{c.Paths.CacheFile, c.Paths.RunLogDB} {
		if strings.TrimSpace(file) == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(file), 0o755); err != nil {
			return fmt.Errorf("create directory for %q: %w", file, err)
		}
	}
	return nil
}

// Concurrency returns the effective candidate-evaluation parallelism.
func (c *Config) Concurrency() int {
	if c.Batch.Concurrency > 0 {
		return c.Batch.Concurrency
	}
	return runtime.NumCPU()
}

// FFmpegBinary returns the ffmpeg executable name.
func (c *Config) FFmpegBinary() string {
	return "ffmpeg"
}

// FFprobeBinary returns the ffprobe executable name.
func (c *Config) FFprobeBinary() string {
	return "ffprobe"
}

func expandPath(pathValue string) (string, error) {
	if pathValue == "" {
		return pathValue, nil
	}
	if strings.HasPrefix(pathValue, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		if pathValue == "~" {
			pathValue = home
		} else if len(pathValue) > 1 && (pathValue[1] == '/' || pathValue[1] == '\\') {
			pathValue = filepath.Join(home, pathValue[2:])
		}
	}
	cleaned := filepath.Clean(pathValue)
	absolute, err := filepath.Abs(cleaned)
	if err != nil {
		return "", fmt.Errorf("resolve absolute path for %q: %w", cleaned, err)
	}
	return absolute, nil
}

// ExpandPath exposes the repository path expansion rules for other packages.
func ExpandPath(pathValue string) (string, error) {
	return expandPath(pathValue)
}

// CreateSample writes a sample configuration file to the specified location.
func CreateSample(path string) error {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}
