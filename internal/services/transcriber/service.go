package transcriber

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"lyricsync/internal/services"
)

// Transcriber produces word-level timestamps for a song's audio.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) ([]Word, error)
}

// Service runs WhisperX through uvx to transcribe song audio.
type Service struct {
	cfg           Config
	workDir       string
	ffmpegBinary  string
	commandRunner func(ctx context.Context, name string, args ...string) error
}

// NewService creates a WhisperX transcription service. workDir receives the
// extracted WAV and WhisperX output files.
func NewService(cfg Config, workDir string) *Service {
	return &Service{
		cfg:          cfg,
		workDir:      workDir,
		ffmpegBinary: FFmpegCommand,
	}
}

// WithCommandRunner sets a custom command runner (for testing).
func (s *Service) WithCommandRunner(runner func(ctx context.Context, name string, args ...string) error) {
	s.commandRunner = runner
}

// Transcribe extracts mono 16kHz audio, runs WhisperX with word timestamps,
// and loads the resulting word list. An empty word list is an error: the
// rest of the pipeline has nothing to anchor timing on.
func (s *Service) Transcribe(ctx context.Context, audioPath, language string) ([]Word, error) {
	if strings.TrimSpace(audioPath) == "" {
		return nil, services.Wrap(services.ErrValidation, "transcribe", "input", "audio path required", nil)
	}
	if err := os.MkdirAll(s.workDir, 0o755); err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "ensure work dir", "", err)
	}

	baseName := strings.TrimSuffix(filepath.Base(audioPath), filepath.Ext(audioPath))
	wavPath := filepath.Join(s.workDir, baseName+".wav")
	if err := s.extractAudio(ctx, audioPath, wavPath); err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "extract audio", "ffmpeg failed", err)
	}

	args := s.buildArgs(wavPath, s.workDir, language)
	if err := s.run(ctx, UVXCommand, args...); err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "whisperx", "", err)
	}

	jsonPath := filepath.Join(s.workDir, baseName+".json")
	words, err := LoadWords(jsonPath)
	if err != nil {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "load words", "", err)
	}
	if len(words) == 0 {
		return nil, services.Wrap(services.ErrTranscription, "transcribe", "load words", "transcription produced no words", nil)
	}
	return words, nil
}

func (s *Service) extractAudio(ctx context.Context, source, dest string) error {
	args := []string{
		"-y",
		"-hide_banner",
		"-loglevel", "error",
		"-i", source,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-c:a", "pcm_s16le",
		dest,
	}
	return s.run(ctx, s.ffmpegBinary, args...)
}

func (s *Service) buildArgs(source, outputDir, language string) []string {
	args := make([]string, 0, 24)
	if s.cfg.CUDAEnabled {
		args = append(args,
			"--index-url", CUDAIndexURL,
			"--extra-index-url", PypiIndexURL,
		)
	} else {
		args = append(args, "--index-url", PypiIndexURL)
	}

	model := s.cfg.Model
	if model == "" {
		model = DefaultModel
	}

	args = append(args,
		"whisperx",
		source,
		"--model", model,
		"--batch_size", BatchSize,
		"--output_dir", outputDir,
		"--output_format", OutputFormat,
		"--vad_onset", VADOnset,
		"--vad_offset", VADOffset,
		"--temperature", Temperature,
	)

	if lang := strings.TrimSpace(language); lang != "" {
		args = append(args, "--language", lang)
	}
	if s.cfg.CUDAEnabled {
		args = append(args, "--device", CUDADevice)
	} else {
		args = append(args, "--device", CPUDevice, "--compute_type", CPUComputeType)
	}
	return args
}

func (s *Service) run(ctx context.Context, name string, args ...string) error {
	if s.commandRunner != nil {
		return s.commandRunner(ctx, name, args...)
	}
	cmd := exec.CommandContext(ctx, name, args...) //nolint:gosec
	if output, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(output)))
	}
	return nil
}
