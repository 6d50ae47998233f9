package config

import (
	"fmt"
	"net/url"
	"strings"
)

// Validate checks configuration values that normalize could not repair.
func (c *Config) Validate() error {
	switch c.Logging.Format {
	case "auto", "console", "json":
	default:
		return fmt.Errorf("logging.format: unsupported value %q (use auto, console, or json)", c.Logging.Format)
	}

	parsed, err := url.Parse(c.ForcedAlign.URL)
	if err != nil || parsed.Scheme == "" || parsed.Host == "" {
		return fmt.Errorf("forced_align.url: %q is not an absolute URL", c.ForcedAlign.URL)
	}
	switch parsed.Scheme {
	case "http", "https":
	default:
		return fmt.Errorf("forced_align.url: unsupported scheme %q", parsed.Scheme)
	}

	if strings.Contains(c.Transcriber.Language, " ") {
		return fmt.Errorf("transcriber.language: %q is not a language code", c.Transcriber.Language)
	}
	return nil
}
