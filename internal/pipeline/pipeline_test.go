package pipeline

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"lyricsync/internal/logging"
	"lyricsync/internal/lyrics"
	"lyricsync/internal/queue"
	"lyricsync/internal/services"
	"lyricsync/internal/services/forcedalign"
	"lyricsync/internal/services/phrasealign"
	"lyricsync/internal/services/transcriber"
)

type fakeTranscriber struct {
	words []transcriber.Word
	err   error
}

func (f *fakeTranscriber) Transcribe(_ context.Context, _, _ string) ([]transcriber.Word, error) {
	return f.words, f.err
}

type fakePhraseAligner struct {
	phrases []phrasealign.Phrase
	err     error
	calls   int
}

func (f *fakePhraseAligner) Align(_ []lyrics.Line, _ []transcriber.Word) ([]phrasealign.Phrase, error) {
	f.calls++
	return f.phrases, f.err
}

type fakeForcedAligner struct {
	segments []forcedalign.Segment
	err      error
	calls    int
}

func (f *fakeForcedAligner) Align(_ context.Context, _ forcedalign.Request) ([]forcedalign.Segment, error) {
	f.calls++
	return f.segments, f.err
}

func (f *fakeForcedAligner) Healthy(context.Context) error {
	return nil
}

func testLines() []lyrics.Line {
	return []lyrics.Line{
		{Index: 0, Text: "Amazing grace"},
		{Index: 1, Text: "How sweet the sound"},
	}
}

func testWords() []transcriber.Word {
	return []transcriber.Word{
		{Word: "amazing", Start: 0.2, End: 1.0},
		{Word: "sound", Start: 8.0, End: 10.0},
	}
}

func testPhrases(lines []lyrics.Line) []phrasealign.Phrase {
	return []phrasealign.Phrase{
		{Line: lines[0], Start: 0.2},
		{Line: lines[1], Start: 4.0},
	}
}

func newTestPipeline(t *testing.T, tr Transcriber, pa PhraseAligner, fa forcedalign.Aligner, opts Options) (*Pipeline, *queue.Store) {
	t.Helper()
	store, err := queue.OpenPath(filepath.Join(t.TempDir(), "jobs.db"))
	if err != nil {
		t.Fatalf("open store: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })
	return New(tr, pa, fa, store, opts, logging.NewNop()), store
}

func newJob(t *testing.T, store *queue.Store) string {
	t.Helper()
	job, err := store.NewJob(context.Background(), "Amazing Grace", "/music/ag.flac", "/lyrics/ag.txt", "en")
	if err != nil {
		t.Fatalf("new job: %v", err)
	}
	return job.ID
}

func runSong(t *testing.T, p *Pipeline, jobID string) *Result {
	t.Helper()
	result, err := p.Run(context.Background(), Song{
		JobID:     jobID,
		Title:     "Amazing Grace",
		AudioPath: "/music/ag.flac",
		Language:  "en",
		Lines:     testLines(),
	})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	return result
}

func TestRefinedResultReplacesBaseline(t *testing.T) {
	lines := testLines()
	fa := &fakeForcedAligner{segments: []forcedalign.Segment{
		{Text: "Amazing grace", Start: 0.5, End: 3.5},
		{Text: "How sweet the sound", Start: 4.5, End: 9.5},
	}}
	p, store := newTestPipeline(t,
		&fakeTranscriber{words: testWords()},
		&fakePhraseAligner{phrases: testPhrases(lines)},
		fa,
		Options{RefinementEnabled: true, MaxDurationSeconds: 300},
	)
	jobID := newJob(t, store)

	result := runSong(t, p, jobID)
	if !result.Outcome.Refined() {
		t.Fatalf("expected refined outcome, got %+v", result.Outcome)
	}
	if result.Cues[0].Start != 0.5 || result.Cues[1].Start != 4.5 {
		t.Fatalf("refined starts not used: %+v", result.Cues)
	}
	if result.FinalLRC == result.BaselineLRC {
		t.Fatal("final output should differ from baseline")
	}

	job, err := store.GetByID(context.Background(), jobID)
	if err != nil {
		t.Fatal(err)
	}
	if job.Status != queue.StatusCompleted || job.OutcomeSource != queue.OutcomeRefined {
		t.Fatalf("unexpected job record: %+v", job)
	}
	if job.BaselineLRC == "" || job.FinalLRC != result.FinalLRC {
		t.Fatalf("result not persisted: %+v", job)
	}
}

func TestRefinementFailuresFallBackToBaseline(t *testing.T) {
	cases := []struct {
		name   string
		err    error
		reason string
	}{
		{"unreachable", services.ErrRefinementUnavailable, ReasonUnavailable},
		{"timeout", context.DeadlineExceeded, ReasonUnavailable},
		{"busy", services.ErrBusy, ReasonAlignerBusy},
		{"not ready", services.ErrNotReady, ReasonAlignerNotReady},
		{"over ceiling remotely", services.ErrDurationExceeded, ReasonDurationExceeded},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			lines := testLines()
			p, store := newTestPipeline(t,
				&fakeTranscriber{words: testWords()},
				&fakePhraseAligner{phrases: testPhrases(lines)},
				&fakeForcedAligner{err: tc.err},
				Options{RefinementEnabled: true, MaxDurationSeconds: 300},
			)
			jobID := newJob(t, store)

			result := runSong(t, p, jobID)
			if result.Outcome.Refined() {
				t.Fatal("failure should not produce a refined outcome")
			}
			if result.Outcome.Reason != tc.reason {
				t.Fatalf("reason = %q, want %q", result.Outcome.Reason, tc.reason)
			}
			if result.FinalLRC != result.BaselineLRC {
				t.Fatal("fallback output must be identical to the baseline")
			}

			job, err := store.GetByID(context.Background(), jobID)
			if err != nil {
				t.Fatal(err)
			}
			if job.Status != queue.StatusCompleted {
				t.Fatalf("job should still complete, got %s", job.Status)
			}
			if job.OutcomeSource != queue.OutcomeBaseline || job.OutcomeReason != tc.reason {
				t.Fatalf("unexpected provenance: %+v", job)
			}
		})
	}
}

func TestEmptyRefinementResponseFallsBack(t *testing.T) {
	lines := testLines()
	p, store := newTestPipeline(t,
		&fakeTranscriber{words: testWords()},
		&fakePhraseAligner{phrases: testPhrases(lines)},
		&fakeForcedAligner{segments: []forcedalign.Segment{}},
		Options{RefinementEnabled: true, MaxDurationSeconds: 300},
	)
	result := runSong(t, p, newJob(t, store))
	if result.Outcome.Reason != ReasonEmptyResponse {
		t.Fatalf("reason = %q, want %q", result.Outcome.Reason, ReasonEmptyResponse)
	}
	if result.FinalLRC != result.BaselineLRC {
		t.Fatal("empty response must publish the baseline unchanged")
	}
}

func TestDurationCeilingSkipsRefinementWithoutCalling(t *testing.T) {
	lines := testLines()
	fa := &fakeForcedAligner{}
	longWords := []transcriber.Word{{Word: "amazing", Start: 0, End: 301}}
	p, store := newTestPipeline(t,
		&fakeTranscriber{words: longWords},
		&fakePhraseAligner{phrases: testPhrases(lines)},
		fa,
		Options{RefinementEnabled: true, MaxDurationSeconds: 300},
	)
	result := runSong(t, p, newJob(t, store))
	if fa.calls != 0 {
		t.Fatalf("aligner called %d times, want 0", fa.calls)
	}
	if result.Outcome.Reason != ReasonDurationExceeded {
		t.Fatalf("reason = %q, want %q", result.Outcome.Reason, ReasonDurationExceeded)
	}
}

func TestRefinementDisabled(t *testing.T) {
	lines := testLines()
	p, store := newTestPipeline(t,
		&fakeTranscriber{words: testWords()},
		&fakePhraseAligner{phrases: testPhrases(lines)},
		nil,
		Options{RefinementEnabled: false},
	)
	result := runSong(t, p, newJob(t, store))
	if result.Outcome.Reason != ReasonRefinementDisabled {
		t.Fatalf("reason = %q, want %q", result.Outcome.Reason, ReasonRefinementDisabled)
	}
	if result.FinalLRC != result.BaselineLRC {
		t.Fatal("disabled refinement must publish the baseline")
	}
}

func TestTranscriptionFailureIsFatal(t *testing.T) {
	cause := services.Wrap(services.ErrTranscription, "transcriber", "run whisperx", "exit status 1", nil)
	p, store := newTestPipeline(t,
		&fakeTranscriber{err: cause},
		&fakePhraseAligner{},
		nil,
		Options{},
	)
	jobID := newJob(t, store)

	_, err := p.Run(context.Background(), Song{JobID: jobID, AudioPath: "/a.flac", Lines: testLines()})
	if !errors.Is(err, services.ErrTranscription) {
		t.Fatalf("expected transcription error, got %v", err)
	}
	job, getErr := store.GetByID(context.Background(), jobID)
	if getErr != nil {
		t.Fatal(getErr)
	}
	if job.Status != queue.StatusFailed || job.ErrorText == "" {
		t.Fatalf("failure not recorded: %+v", job)
	}
}

func TestPhraseAlignmentRetriesThenFails(t *testing.T) {
	pa := &fakePhraseAligner{err: services.Wrap(services.ErrPhraseAlignment, "phrase-align", "match", "no anchors", nil)}
	p, store := newTestPipeline(t,
		&fakeTranscriber{words: testWords()},
		pa,
		nil,
		Options{PhraseAlignRetries: 3},
	)
	jobID := newJob(t, store)

	_, err := p.Run(context.Background(), Song{JobID: jobID, AudioPath: "/a.flac", Lines: testLines()})
	if !errors.Is(err, services.ErrPhraseAlignment) {
		t.Fatalf("expected phrase alignment error, got %v", err)
	}
	if pa.calls != 3 {
		t.Fatalf("attempts = %d, want 3", pa.calls)
	}
	job, _ := store.GetByID(context.Background(), jobID)
	if job.Status != queue.StatusFailed {
		t.Fatalf("job status = %s, want failed", job.Status)
	}
}

func TestBaselinePersistedBeforeRefinement(t *testing.T) {
	lines := testLines()
	p, store := newTestPipeline(t,
		&fakeTranscriber{words: testWords()},
		&fakePhraseAligner{phrases: testPhrases(lines)},
		&fakeForcedAligner{err: services.ErrRefinementUnavailable},
		Options{RefinementEnabled: true, MaxDurationSeconds: 300},
	)
	jobID := newJob(t, store)

	result := runSong(t, p, jobID)
	job, err := store.GetByID(context.Background(), jobID)
	if err != nil {
		t.Fatal(err)
	}
	if job.BaselineLRC != result.BaselineLRC || job.BaselineLRC == "" {
		t.Fatalf("baseline not durable: %+v", job)
	}
}

func TestRunWithoutStore(t *testing.T) {
	lines := testLines()
	p := New(
		&fakeTranscriber{words: testWords()},
		&fakePhraseAligner{phrases: testPhrases(lines)},
		nil,
		nil,
		Options{},
		logging.NewNop(),
	)
	result, err := p.Run(context.Background(), Song{AudioPath: "/a.flac", Lines: lines})
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if len(result.Cues) != 2 {
		t.Fatalf("cue count = %d, want 2", len(result.Cues))
	}
}
