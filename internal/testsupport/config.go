package testsupport

import (
	"path/filepath"
	"testing"

	"lyricsync/internal/config"
)

// ConfigOption allows callers to customize the generated test configuration.
type ConfigOption func(*config.Config)

// NewConfig produces a config seeded with unique temp directories per test.
// It defaults common fields and applies any provided options.
func NewConfig(t testing.TB, opts ...ConfigOption) *config.Config {
	t.Helper()

	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.OutputDir = filepath.Join(base, "output")
	cfg.Paths.WorkDir = filepath.Join(base, "work")
	cfg.Paths.LogDir = filepath.Join(base, "logs")
	cfg.ForcedAlign.Bind = "127.0.0.1:0"

	for _, opt := range opts {
		opt(&cfg)
	}
	return &cfg
}

// WithRefinement enables the forced-alignment stage pointed at url.
func WithRefinement(url string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.ForcedAlign.Enabled = true
		cfg.ForcedAlign.URL = url
	}
}

// WithLanguage sets the default transcription language.
func WithLanguage(language string) ConfigOption {
	return func(cfg *config.Config) {
		cfg.Transcriber.Language = language
	}
}
