package config

import (
	"fmt"
	"strings"
)

func (c *Config) normalize() error {
	var err error
	if strings.TrimSpace(c.Paths.OutputDir) == "" {
		c.Paths.OutputDir = defaultOutputDir
	}
	if c.Paths.OutputDir, err = expandPath(c.Paths.OutputDir); err != nil {
		return fmt.Errorf("paths.output_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.WorkDir) == "" {
		c.Paths.WorkDir = defaultWorkDir
	}
	if c.Paths.WorkDir, err = expandPath(c.Paths.WorkDir); err != nil {
		return fmt.Errorf("paths.work_dir: %w", err)
	}
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		c.Paths.LogDir = defaultLogDir
	}
	if c.Paths.LogDir, err = expandPath(c.Paths.LogDir); err != nil {
		return fmt.Errorf("paths.log_dir: %w", err)
	}

	if strings.TrimSpace(c.Transcriber.Model) == "" {
		c.Transcriber.Model = defaultTranscriberModel
	}
	if strings.TrimSpace(c.Transcriber.Language) == "" {
		c.Transcriber.Language = defaultLanguage
	}

	if c.PhraseAlign.MaxRetries <= 0 {
		c.PhraseAlign.MaxRetries = defaultPhraseAlignRetries
	}
	if c.PhraseAlign.LookaheadWords <= 0 {
		c.PhraseAlign.LookaheadWords = defaultPhraseAlignLookahead
	}

	c.ForcedAlign.URL = strings.TrimRight(strings.TrimSpace(c.ForcedAlign.URL), "/")
	if c.ForcedAlign.URL == "" {
		c.ForcedAlign.URL = defaultForcedAlignURL
	}
	if c.ForcedAlign.TimeoutSeconds <= 0 {
		c.ForcedAlign.TimeoutSeconds = defaultForcedAlignTimeout
	}
	if c.ForcedAlign.MaxDurationSeconds <= 0 {
		c.ForcedAlign.MaxDurationSeconds = defaultForcedAlignMaxDuration
	}
	if c.ForcedAlign.MaxInFlight <= 0 {
		c.ForcedAlign.MaxInFlight = defaultForcedAlignMaxInFlight
	}
	if strings.TrimSpace(c.ForcedAlign.Bind) == "" {
		c.ForcedAlign.Bind = defaultForcedAlignBind
	}
	if strings.TrimSpace(c.ForcedAlign.Model) == "" {
		c.ForcedAlign.Model = c.Transcriber.Model
	}

	c.Logging.Format = strings.ToLower(strings.TrimSpace(c.Logging.Format))
	if c.Logging.Format == "" {
		c.Logging.Format = defaultLogFormat
	}
	if strings.TrimSpace(c.Logging.Level) == "" {
		c.Logging.Level = defaultLogLevel
	}
	return nil
}
