package config

import (
	"errors"
	"fmt"
)

// Validate ensures the configuration is usable.
func (c *Config) Validate() error {
	if err := c.validateDetection(); err != nil {
		return err
	}
	if err := c.validateMatching(); err != nil {
		return err
	}
	if err := c.validateTranscription(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateDetection() error {
	if c.Detection.SSIMThreshold < 0 || c.Detection.SSIMThreshold > 1 {
		return errors.New("detection.ssim_threshold must be between 0 and 1")
	}
	if c.Detection.DedupThreshold < 0 || c.Detection.DedupThreshold > 1 {
		return errors.New("detection.dedup_threshold must be between 0 and 1")
	}
	if c.Detection.FrameInterval <= 0 {
		return errors.New("detection.frame_interval must be positive")
	}
	return nil
}

func (c *Config) validateMatching() error {
	if c.Matching.WindowSeconds < 0 {
		return errors.New("matching.window_seconds must not be negative")
	}
	if c.Matching.PreContextSeconds < 0 {
		return errors.New("matching.pre_context_seconds must not be negative")
	}
	return nil
}

func (c *Config) validateTranscription() error {
	switch c.Transcription.VADMethod {
	case "silero", "pyannote":
	default:
		return fmt.Errorf("transcription.vad_method: unsupported value %q", c.Transcription.VADMethod)
	}
	if c.Transcription.VADMethod == "pyannote" && c.Transcription.HFToken == "" {
		return errors.New("transcription.hf_token must be set when transcription.vad_method is pyannote")
	}
	return nil
}

func (c *Config) validateLogging() error {
	switch c.Logging.Format {
	case "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q", c.Logging.Format)
	}
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("logging.level: unsupported value %q", c.Logging.Level)
	}
	return nil
}
