package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	if err := c.normalizePaths(); err != nil {
		return err
	}
	c.normalizeAnalysis()
	c.normalizeBatch()
	c.normalizeWhisper()
	c.normalizeLogging()
	return nil
}

func (c *Config) normalizePaths() error {
	var err error
	if c.Paths.TagsFile, err = expandPath(c.Paths.TagsFile); err != nil {
		return fmt.Errorf("paths.tags_file: %w", err)
	}
	if c.Paths.AudioDir, err = expandPath(c.Paths.AudioDir); err != nil {
		return fmt.Errorf("paths.audio_dir: %w", err)
	}
	if c.Paths.VideoDir, err = expandPath(c.Paths.VideoDir); err != nil {
		return fmt.Errorf("paths.video_dir: %w", err)
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if c.Paths.CacheFile, err = expandPath(c.Paths.CacheFile); err != nil {
		return fmt.Errorf("paths.cache_file: %w", err)
	}
	if c.Paths.RunLogDB, err = expandPath(c.Paths.RunLogDB); err != nil {
		return fmt.Errorf("paths.runlog_db: %w", err)
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}
	return nil
}

func (c *Config) normalizeAnalysis() {
	d := Default().Analysis
	c.Analysis.Method = strings.ToLower(strings.TrimSpace(c.Analysis.Method))
	if c.Analysis.Method == "" {
		c.Analysis.Method = d.Method
	}
	if c.Analysis.SampleRate <= 0 {
		c.Analysis.SampleRate = d.SampleRate
	}
	if c.Analysis.WindowSeconds <= 0 {
		c.Analysis.WindowSeconds = d.WindowSeconds
	}
	if c.Analysis.CandidateWindowFactor <= 0 {
		c.Analysis.CandidateWindowFactor = d.CandidateWindowFactor
	}
	if c.Analysis.TranscribeWindowSeconds <= 0 {
		c.Analysis.TranscribeWindowSeconds = d.TranscribeWindowSeconds
	}
	if c.Analysis.TranscribeSampleRate <= 0 {
		c.Analysis.TranscribeSampleRate = d.TranscribeSampleRate
	}
	if c.Analysis.WordsPerSecond <= 0 {
		c.Analysis.WordsPerSecond = d.WordsPerSecond
	}
	if c.Analysis.QueryWindowTokens <= 0 {
		c.Analysis.QueryWindowTokens = d.QueryWindowTokens
	}
}

func (c *Config) normalizeBatch() {
	if c.Batch.Concurrency < 0 {
		c.Batch.Concurrency = 0
	}
	if c.Batch.ToolTimeoutSeconds <= 0 {
		c.Batch.ToolTimeoutSeconds = defaultToolTimeoutSeconds
	}
}

func (c *Config) normalizeWhisper() {
	if strings.TrimSpace(c.Whisper.Model) == "" {
		c.Whisper.Model = defaultWhisperModel
	}
	if strings.TrimSpace(c.Whisper.Language) == "" {
		c.Whisper.Language = defaultWhisperLanguage
	}
}

func (c *Config) normalizeLogging() {
	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	c.Logging.Level = strings.ToLower(strings.TrimSpace(c.Logging.Level))
	if c.Logging.Level == "" {
		c.Logging.Level = defaultLogLevel
	}
}
