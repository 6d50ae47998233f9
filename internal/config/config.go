package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

//go:embed sample_config.toml
var sampleConfig string

// Paths contains directory configuration.
type Paths struct {
	// OutputDir receives finished LRC files.
	OutputDir string `toml:"output_dir"`
	// WorkDir holds extracted audio, transcription JSON, and other
	// per-job scratch files.
	WorkDir string `toml:"work_dir"`
	// LogDir holds the log file and the job database.
	LogDir string `toml:"log_dir"`
}

// Transcriber contains settings for the WhisperX transcription stage.
type Transcriber struct {
	Model       string `toml:"model"`
	Language    string `toml:"language"`
	CUDAEnabled bool   `toml:"cuda_enabled"`
}

// PhraseAlign contains settings for the phrase-level baseline stage.
type PhraseAlign struct {
	// MaxRetries bounds baseline computation attempts before the job fails.
	MaxRetries int `toml:"max_retries"`
	// LookaheadWords is how far past the cursor the matcher scans for a
	// line's leading token.
	LookaheadWords int `toml:"lookahead_words"`
}

// ForcedAlign contains settings for the refinement service and its client.
type ForcedAlign struct {
	Enabled bool `toml:"enabled"`
	// URL is the base URL of the forced-alignment service.
	URL string `toml:"url"`
	// TimeoutSeconds bounds one refinement round trip.
	TimeoutSeconds int `toml:"timeout_seconds"`
	// MaxDurationSeconds is the service's hard per-request audio ceiling.
	// The pipeline skips refinement entirely above it.
	MaxDurationSeconds int `toml:"max_duration_seconds"`
	// MaxInFlight bounds concurrent alignments in the service process.
	MaxInFlight int `toml:"max_in_flight"`
	// Bind is the listen address used by `lyricsync serve`.
	Bind string `toml:"bind"`
	// Model is the alignment model identifier loaded at service start.
	Model string `toml:"model"`
}

// Logging contains configuration for log output.
type Logging struct {
	Format string `toml:"format"`
	Level  string `toml:"level"`
}

// Config encapsulates all configuration values for lyricsync.
type Config struct {
	Paths       Paths       `toml:"paths"`
	Transcriber Transcriber `toml:"transcriber"`
	PhraseAlign PhraseAlign `toml:"phrase_align"`
	ForcedAlign ForcedAlign `toml:"forced_align"`
	Logging     Logging     `toml:"logging"`
}

// DefaultConfigPath returns the default configuration file location.
func DefaultConfigPath() (string, error) {
	return expandPath("~/.config/lyricsync/config.toml")
}

// Load locates, parses, normalizes, and validates a configuration file.
// A missing file is not an error: defaults apply and exists reports false.
func Load(path string) (cfg *Config, resolvedPath string, exists bool, err error) {
	value := Default()

	resolvedPath, exists, err = resolveConfigPath(path)
	if err != nil {
		return nil, "", false, err
	}

	if exists {
		file, openErr := os.Open(resolvedPath)
		if openErr != nil {
			return nil, "", false, fmt.Errorf("open config: %w", openErr)
		}
		defer file.Close()

		decoder := toml.NewDecoder(file)
		if decodeErr := decoder.Decode(&value); decodeErr != nil {
			return nil, "", false, fmt.Errorf("parse config: %w", decodeErr)
		}
	}

	if err = value.normalize(); err != nil {
		return nil, "", false, err
	}
	if err = value.Validate(); err != nil {
		return nil, "", false, err
	}
	return &value, resolvedPath, exists, nil
}

// EnsureDirectories creates the directories the pipeline writes into.
func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.Paths.OutputDir, c.Paths.WorkDir, c.Paths.LogDir} {
		if strings.TrimSpace(dir) == "" {
			continue
		}
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}
	return nil
}

// LogPath returns the log file location under the configured log directory.
func (c *Config) LogPath() string {
	if strings.TrimSpace(c.Paths.LogDir) == "" {
		return ""
	}
	return filepath.Join(c.Paths.LogDir, "lyricsync.log")
}

// WriteSample writes the annotated sample configuration to path.
func WriteSample(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	if _, err := os.Stat(path); err == nil {
		return fmt.Errorf("config file already exists at %s", path)
	}
	if err := os.WriteFile(path, []byte(sampleConfig), 0o644); err != nil {
		return fmt.Errorf("write sample config: %w", err)
	}
	return nil
}

func resolveConfigPath(path string) (string, bool, error) {
	if path != "" {
		expanded, err := expandPath(path)
		if err != nil {
			return "", false, err
		}
		if _, err = os.Stat(expanded); err != nil {
			if errors.Is(err, fs.ErrNotExist) {
				return "", false, fmt.Errorf("config file not found at %s", expanded)
			}
			return "", false, fmt.Errorf("stat config: %w", err)
		}
		return expanded, true, nil
	}

	fallback, err := DefaultConfigPath()
	if err != nil {
		return "", false, err
	}
	if _, err = os.Stat(fallback); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return fallback, false, nil
		}
		return "", false, fmt.Errorf("stat config: %w", err)
	}
	return fallback, true, nil
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
