package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateAnalysis(); err != nil {
		return err
	}
	if err := c.validateLogging(); err != nil {
		return err
	}
	return nil
}

func (c *Config) validateAnalysis() error {
	switch c.Analysis.Method {
	case "waveform", "transcript":
	default:
		return fmt.Errorf("analysis.method must be \"waveform\" or \"transcript\", got %q", c.Analysis.Method)
	}
	if c.Analysis.WaveformThreshold < 0 || c.Analysis.WaveformThreshold > 1 {
		return errors.New("analysis.waveform_threshold must be between 0 and 1")
	}
	if c.Analysis.TranscriptThreshold < 0 || c.Analysis.TranscriptThreshold > 1 {
		return errors.New("analysis.transcript_threshold must be between 0 and 1")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format must be \"console\" or \"json\", got %q", c.Logging.Format)
	}
	return nil
}

// Threshold returns the accept threshold for the configured method.
func (c *Config) Threshold() float64 {
	if c.Analysis.Method == "transcript" {
		return c.Analysis.TranscriptThreshold
	}
	return c.Analysis.WaveformThreshold
}
