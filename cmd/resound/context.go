package main

import (
	"fmt"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"

	"resound/internal/config"
	"resound/internal/logging"
	"resound/internal/match"
	"resound/internal/media/ffmpeg"
	"resound/internal/services/whisper"
	"resound/internal/transcripts"
)

type commandContext struct {
	configFlag *string

	configOnce sync.Once
	config     *config.Config
	configErr  error
}

func newCommandContext(configFlag *string) *commandContext {
	return &commandContext{configFlag: configFlag}
}

func (c *commandContext) ensureConfig() (*config.Config, error) {
	c.configOnce.Do(func() {
		var path string
		if c.configFlag != nil {
			path = strings.TrimSpace(*c.configFlag)
		}
		cfg, _, _, err := config.Load(path)
		if err != nil {
			c.configErr = err
			return
		}
		if err := cfg.EnsureDirectories(); err != nil {
			c.configErr = err
			return
		}
		c.config = cfg
	})
	return c.config, c.configErr
}

func (c *commandContext) newLogger() (*slog.Logger, error) {
	cfg, err := c.ensureConfig()
	if err != nil {
		return nil, err
	}
	return logging.New(logging.Options{
		Level:  cfg.Logging.Level,
		Format: cfg.Logging.Format,
	})
}

// resolveMethod applies an optional per-invocation override of the
// configured matching method.
func resolveMethod(cfg *config.Config, override string) (match.Method, error) {
	method := strings.TrimSpace(override)
	if method == "" {
		method = cfg.Analysis.Method
	}
	switch match.Method(method) {
	case match.MethodWaveform, match.MethodTranscript:
		return match.Method(method), nil
	default:
		return "", fmt.Errorf("unknown matching method %q (expected waveform or transcript)", method)
	}
}

// newMatcher assembles the matcher for one invocation. The returned cleanup
// removes the extraction work directory.
func newMatcher(cfg *config.Config, method match.Method, logger *slog.Logger) (match.Matcher, func(), error) {
	workDir, err := os.MkdirTemp("", "resound-*")
	if err != nil {
		return nil, nil, fmt.Errorf("create work directory: %w", err)
	}
	cleanup := func() { _ = os.RemoveAll(workDir) }

	transcoder := ffmpeg.NewTranscoder(cfg.FFmpegBinary())
	timeout := time.Duration(cfg.Batch.ToolTimeoutSeconds) * time.Second

	switch method {
	case match.MethodTranscript:
		transcriber := whisper.NewService(whisper.Config{
			Model:       cfg.Whisper.Model,
			Language:    cfg.Whisper.Language,
			CUDAEnabled: cfg.Whisper.CUDAEnabled,
		})
		cache := transcripts.NewCache(cfg.Paths.CacheFile, logger)
		matcher := match.NewTranscriptMatcher(transcoder, transcriber, cache, match.TranscriptConfig{
			TranscribeWindowSeconds: cfg.Analysis.TranscribeWindowSeconds,
			TranscribeSampleRate:    cfg.Analysis.TranscribeSampleRate,
			QueryWindowTokens:       cfg.Analysis.QueryWindowTokens,
			WordsPerSecond:          cfg.Analysis.WordsPerSecond,
			WorkDir:                 workDir,
			ToolTimeout:             timeout,
		}, logger)
		return matcher, cleanup, nil
	default:
		matcher := match.NewWaveformMatcher(transcoder, match.WaveformConfig{
			SampleRate:            cfg.Analysis.SampleRate,
			WindowSeconds:         cfg.Analysis.WindowSeconds,
			CandidateWindowFactor: cfg.Analysis.CandidateWindowFactor,
			WorkDir:               workDir,
			ToolTimeout:           timeout,
		}, logger)
		return matcher, cleanup, nil
	}
}
