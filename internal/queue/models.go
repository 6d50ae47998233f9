package queue

import "time"

// Status represents the lifecycle of an alignment job.
type Status string

const (
	StatusPending        Status = "pending"
	StatusTranscribing   Status = "transcribing"
	StatusPhraseAligning Status = "phrase_aligning"
	StatusRefining       Status = "refining"
	StatusCompleted      Status = "completed"
	StatusFailed         Status = "failed"
)

// OutcomeSource records which stage produced the published timestamps.
type OutcomeSource string

const (
	// OutcomeBaseline means phrase-level timestamps were published.
	OutcomeBaseline OutcomeSource = "baseline"
	// OutcomeRefined means forced-alignment timestamps were published.
	OutcomeRefined OutcomeSource = "refined"
)

// Job is one song's trip through the alignment pipeline.
type Job struct {
	ID         string
	Title      string
	AudioPath  string
	LyricsPath string
	Language   string
	Status     Status

	// OutcomeSource and OutcomeReason describe how the final timestamps
	// were produced. Reason is empty for a successful refinement and
	// explains the fallback otherwise (duration-exceeded, aligner down).
	OutcomeSource     OutcomeSource
	OutcomeReason     string
	InterpolatedLines int

	// BaselineLRC is persisted before refinement starts so cancellation
	// mid-refinement never loses the usable result.
	BaselineLRC string
	FinalLRC    string
	ErrorText   string

	CreatedAt time.Time
	UpdatedAt time.Time
}
