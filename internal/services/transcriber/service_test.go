package transcriber

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"lyricsync/internal/services"
)

const sampleJSON = `{
  "segments": [
    {"text": "amazing grace", "start": 1.0, "end": 2.5,
     "words": [
       {"word": "amazing", "start": 1.0, "end": 1.8},
       {"word": "grace", "start": 1.9, "end": 2.5}
     ]},
    {"text": "how sweet", "start": 3.0, "end": 4.0,
     "words": [
       {"word": "how", "start": 3.0, "end": 3.4},
       {"word": "sweet", "start": 3.5, "end": 4.0}
     ]}
  ]
}`

func TestParseWords(t *testing.T) {
	words, err := ParseWords([]byte(sampleJSON))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 4 {
		t.Fatalf("word count = %d, want 4", len(words))
	}
	if words[0].Word != "amazing" || words[3].End != 4.0 {
		t.Fatalf("unexpected words: %+v", words)
	}
}

func TestParseWordsRejectsGarbage(t *testing.T) {
	if _, err := ParseWords([]byte("{not json")); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestDuration(t *testing.T) {
	words, _ := ParseWords([]byte(sampleJSON))
	if got := Duration(words); got != 4.0 {
		t.Fatalf("Duration = %v, want 4.0", got)
	}
	if got := Duration(nil); got != 0 {
		t.Fatalf("Duration(nil) = %v, want 0", got)
	}
}

func TestTranscribeRunsToolchainAndLoadsWords(t *testing.T) {
	workDir := t.TempDir()
	svc := NewService(Config{Model: "large-v3"}, workDir)

	var commands [][]string
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		commands = append(commands, append([]string{name}, args...))
		if name == UVXCommand {
			// WhisperX writes <base>.json into the output dir.
			return os.WriteFile(filepath.Join(workDir, "song.json"), []byte(sampleJSON), 0o644)
		}
		return nil
	})

	words, err := svc.Transcribe(context.Background(), "/music/song.mp3", "en")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(words) != 4 {
		t.Fatalf("word count = %d, want 4", len(words))
	}
	if len(commands) != 2 {
		t.Fatalf("expected ffmpeg then uvx, got %d commands", len(commands))
	}
	if commands[0][0] != FFmpegCommand {
		t.Fatalf("first command = %q, want ffmpeg", commands[0][0])
	}
	joined := strings.Join(commands[1], " ")
	if !strings.Contains(joined, "--language en") || !strings.Contains(joined, "--model large-v3") {
		t.Fatalf("whisperx args missing language/model: %s", joined)
	}
}

func TestTranscribeEmptyWordsIsFatal(t *testing.T) {
	workDir := t.TempDir()
	svc := NewService(Config{}, workDir)
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		if name == UVXCommand {
			return os.WriteFile(filepath.Join(workDir, "song.json"), []byte(`{"segments": []}`), 0o644)
		}
		return nil
	})
	_, err := svc.Transcribe(context.Background(), "/music/song.flac", "en")
	if err == nil || !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected fatal transcription error, got %v", err)
	}
	if !services.Fatal(err) {
		t.Fatal("transcription failure must classify as fatal")
	}
}

func TestTranscribeToolFailure(t *testing.T) {
	svc := NewService(Config{}, t.TempDir())
	svc.WithCommandRunner(func(ctx context.Context, name string, args ...string) error {
		return errors.New("boom")
	})
	_, err := svc.Transcribe(context.Background(), "/music/song.mp3", "en")
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected transcription marker, got %v", err)
	}
}

func TestTranscribeRequiresAudioPath(t *testing.T) {
	svc := NewService(Config{}, t.TempDir())
	_, err := svc.Transcribe(context.Background(), "  ", "en")
	if !errors.Is(err, services.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
}
