package services

import (
	"errors"
	"fmt"
	"strings"
)

// Sentinel markers classifying pipeline failures. The first two abort a job;
// everything tagged with the refinement markers is absorbed at the pipeline
// boundary and only ever downgrades output quality.
var (
	// ErrTranscription marks transcription failures. Without transcription
	// no timing data exists, so this is fatal.
	ErrTranscription = errors.New("transcription error")
	// ErrPhraseAlignment marks phrase alignment failures after retries.
	// Without the baseline there is nothing to publish, so this is fatal.
	ErrPhraseAlignment = errors.New("phrase alignment error")
	// ErrRefinementUnavailable marks connectivity, timeout, remote, or
	// malformed-response failures from the forced aligner. Never fatal.
	ErrRefinementUnavailable = errors.New("refinement unavailable")
	// ErrDurationExceeded marks requests over the forced aligner's hard
	// duration ceiling. Expected for long audio, never fatal.
	ErrDurationExceeded = errors.New("duration exceeded")
	// ErrBusy marks rejection by the forced aligner's concurrency bound.
	// Treated identically to a timeout. Never fatal.
	ErrBusy = errors.New("aligner busy")
	// ErrNotReady marks a forced aligner whose model is not loaded.
	ErrNotReady = errors.New("aligner not ready")

	// ErrValidation marks caller mistakes (missing files, bad arguments).
	ErrValidation = errors.New("validation error")
	// ErrConfiguration marks unusable configuration.
	ErrConfiguration = errors.New("configuration error")
)

// Wrap builds an error message that includes stage context while tagging it
// with the provided marker for later classification via errors.Is.
func Wrap(marker error, stage, operation, message string, err error) error {
	detail := buildDetail(stage, operation, message)
	if marker == nil {
		marker = ErrRefinementUnavailable
	}
	if err != nil {
		return fmt.Errorf("%w: %s: %w", marker, detail, err)
	}
	return fmt.Errorf("%w: %s", marker, detail)
}

// Fatal reports whether an error must abort the job rather than fall back
// to the phrase-level baseline.
func Fatal(err error) bool {
	return errors.Is(err, ErrTranscription) ||
		errors.Is(err, ErrPhraseAlignment) ||
		errors.Is(err, ErrValidation) ||
		errors.Is(err, ErrConfiguration)
}

func buildDetail(stage, operation, message string) string {
	parts := make([]string, 0, 3)
	if stage = strings.TrimSpace(stage); stage != "" {
		parts = append(parts, stage)
	}
	if operation = strings.TrimSpace(operation); operation != "" {
		parts = append(parts, operation)
	}
	if message = strings.TrimSpace(message); message != "" {
		parts = append(parts, message)
	}
	if len(parts) == 0 {
		return "service failure"
	}
	return strings.Join(parts, ": ")
}
