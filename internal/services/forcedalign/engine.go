package forcedalign

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
)

// Request describes one forced-alignment invocation: known text against
// audio, with a language hint for the alignment model.
type Request struct {
	AudioPath string   `json:"audio_path"`
	Lines     []string `json:"lines"`
	Language  string   `json:"language"`
	// DurationSeconds is the caller's best estimate of the audio length,
	// used for the service's hard ceiling check.
	DurationSeconds float64 `json:"duration_seconds"`
}

// Segment is one aligned span of normalized text with its time range.
type Segment struct {
	Text  string  `json:"text"`
	Start float64 `json:"start"`
	End   float64 `json:"end"`
}

// Engine is the alignment model implementation behind the Service.
type Engine interface {
	// Load prepares the model. Called once at service start.
	Load(ctx context.Context) error
	// Align computes character-level segments for known text.
	Align(ctx context.Context, req Request) ([]Segment, error)
}

// WhisperXEngine aligns text by running the WhisperX alignment model
// through uvx with an embedded driver script.
type WhisperXEngine struct {
	workDir       string
	cudaEnabled   bool
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewWhisperXEngine creates the exec-based engine. workDir receives the
// per-request line files and segment JSON.
func NewWhisperXEngine(workDir string, cudaEnabled bool) *WhisperXEngine {
	return &WhisperXEngine{workDir: workDir, cudaEnabled: cudaEnabled}
}

// WithCommandRunner sets a custom command runner (for testing).
func (e *WhisperXEngine) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	e.commandRunner = runner
}

// Load warms the alignment model by resolving the whisperx package once.
// A failure here leaves the service degraded rather than crashed.
func (e *WhisperXEngine) Load(ctx context.Context) error {
	if err := os.MkdirAll(e.workDir, 0o755); err != nil {
		return fmt.Errorf("ensure work dir: %w", err)
	}
	args := []string{
		"--index-url", pypiIndexURL,
		"--from", "whisperx",
		"python", "-c", "import whisperx",
	}
	if err := e.run(ctx, uvxCommand, args...); err != nil {
		return fmt.Errorf("load alignment model: %w", err)
	}
	return nil
}

// Align writes the canonical lines to disk, runs the aligner script, and
// reads back the segment JSON.
func (e *WhisperXEngine) Align(ctx context.Context, req Request) ([]Segment, error) {
	if err := os.MkdirAll(e.workDir, 0o755); err != nil {
		return nil, fmt.Errorf("ensure work dir: %w", err)
	}
	base := strings.TrimSuffix(filepath.Base(req.AudioPath), filepath.Ext(req.AudioPath))
	linesPath := filepath.Join(e.workDir, base+".lines.txt")
	outputPath := filepath.Join(e.workDir, base+".segments.json")
	if err := os.WriteFile(linesPath, []byte(strings.Join(req.Lines, "\n")), 0o644); err != nil {
		return nil, fmt.Errorf("write lines: %w", err)
	}

	language := strings.TrimSpace(req.Language)
	if language == "" {
		language = "en"
	}
	device := "cpu"
	if e.cudaEnabled {
		device = "cuda"
	}
	args := []string{
		"--index-url", pypiIndexURL,
		"--from", "whisperx",
		"python", "-c", alignerScript,
		req.AudioPath,
		linesPath,
		outputPath,
		language,
		device,
	}
	if err := e.run(ctx, uvxCommand, args...); err != nil {
		return nil, fmt.Errorf("whisperx align: %w", err)
	}

	data, err := os.ReadFile(outputPath)
	if err != nil {
		return nil, fmt.Errorf("read aligned segments: %w", err)
	}
	var payload struct {
		Segments []Segment `json:"segments"`
	}
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("parse aligned segments: %w", err)
	}
	return payload.Segments, nil
}

func (e *WhisperXEngine) run(ctx context.Context, name string, args ...string) error {
	if e.commandRunner != nil {
		return e.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}

const (
	uvxCommand   = "uvx"
	pypiIndexURL = "https://pypi.org/simple"
)
