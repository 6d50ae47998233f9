package pipeline

import (
	"context"
	"log/slog"

	"lyricsync/internal/logging"
	"lyricsync/internal/lrc"
	"lyricsync/internal/lyrics"
	"lyricsync/internal/queue"
	"lyricsync/internal/services/forcedalign"
	"lyricsync/internal/services/phrasealign"
	"lyricsync/internal/services/transcriber"
	"lyricsync/internal/timing"
)

// Transcriber produces the noisy word-level timestamps the baseline is
// built from. A failure here is fatal: no timing data exists without it.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) ([]transcriber.Word, error)
}

// PhraseAligner produces exactly one phrase per canonical line.
type PhraseAligner interface {
	Align(lines []lyrics.Line, words []transcriber.Word) ([]phrasealign.Phrase, error)
}

// Song is one unit of pipeline work.
type Song struct {
	// JobID links store updates to a queued job. Empty disables recording.
	JobID     string
	Title     string
	AudioPath string
	Language  string
	Lines     []lyrics.Line
}

// Result is a finished pipeline run: the final cues plus provenance.
type Result struct {
	Cues            []lrc.Cue
	Outcome         Outcome
	DurationSeconds float64
	BaselineLRC     string
	FinalLRC        string
}

// Options tunes pipeline behavior.
type Options struct {
	// RefinementEnabled gates the forced-alignment stage entirely.
	RefinementEnabled bool
	// MaxDurationSeconds skips refinement for longer audio without any
	// network call. Matches the forced aligner's own hard ceiling.
	MaxDurationSeconds float64
	// PhraseAlignRetries bounds baseline attempts before the job fails.
	PhraseAlignRetries int
}

// Pipeline sequences the alignment stages for one song. Transcription and
// phrase alignment must succeed; every refinement failure falls back to
// the phrase-level baseline and the job still completes.
type Pipeline struct {
	transcriber   Transcriber
	phraseAligner PhraseAligner
	forcedAligner forcedalign.Aligner
	store         *queue.Store
	opts          Options
	logger        *slog.Logger
}

// New constructs a pipeline. forcedAligner may be nil when refinement is
// disabled; store may be nil to skip job recording.
func New(t Transcriber, p PhraseAligner, f forcedalign.Aligner, store *queue.Store, opts Options, logger *slog.Logger) *Pipeline {
	if opts.PhraseAlignRetries <= 0 {
		opts.PhraseAlignRetries = 3
	}
	return &Pipeline{
		transcriber:   t,
		phraseAligner: p,
		forcedAligner: f,
		store:         store,
		opts:          opts,
		logger:        logging.NewComponentLogger(logger, "pipeline"),
	}
}

// Run executes the full pipeline for one song. The returned error is
// non-nil only for fatal stages (transcription, phrase alignment) or
// cancellation; refinement problems surface in the outcome instead.
func (p *Pipeline) Run(ctx context.Context, song Song) (*Result, error) {
	p.setStatus(ctx, song.JobID, queue.StatusTranscribing)
	words, err := p.transcriber.Transcribe(ctx, song.AudioPath, song.Language)
	if err != nil {
		p.fail(ctx, song.JobID, err)
		return nil, err
	}
	duration := transcriber.Duration(words)
	p.logger.Info("transcription complete",
		logging.String("title", song.Title),
		logging.Int("words", len(words)),
		logging.Float64("duration_seconds", duration),
	)

	p.setStatus(ctx, song.JobID, queue.StatusPhraseAligning)
	phrases, err := p.alignPhrases(song, words)
	if err != nil {
		p.fail(ctx, song.JobID, err)
		return nil, err
	}
	baseline := phraseCues(phrases)
	baselineLRC := lrc.Render(baseline)
	if song.JobID != "" && p.store != nil {
		// The baseline must be durable before refinement starts;
		// cancelling the refinement round trip must never lose it.
		if err := p.store.SaveBaseline(ctx, song.JobID, baselineLRC); err != nil {
			p.logger.Warn("baseline not persisted", logging.Error(err))
		}
	}

	p.setStatus(ctx, song.JobID, queue.StatusRefining)
	cues, outcome := p.refine(ctx, song, duration, baseline)
	if ctx.Err() != nil {
		p.fail(ctx, song.JobID, ctx.Err())
		return nil, ctx.Err()
	}

	result := &Result{
		Cues:            cues,
		Outcome:         outcome,
		DurationSeconds: duration,
		BaselineLRC:     baselineLRC,
		FinalLRC:        lrc.Render(cues),
	}
	if song.JobID != "" && p.store != nil {
		if err := p.store.Complete(ctx, song.JobID, outcome.Source, outcome.Reason, outcome.Interpolated, result.FinalLRC); err != nil {
			p.logger.Warn("job completion not persisted", logging.Error(err))
		}
	}
	if outcome.Refined() {
		p.logger.Info("refined alignment published",
			logging.String("title", song.Title),
			logging.Int("interpolated_lines", outcome.Interpolated),
		)
	}
	return result, nil
}

func (p *Pipeline) alignPhrases(song Song, words []transcriber.Word) ([]phrasealign.Phrase, error) {
	var lastErr error
	for attempt := 1; attempt <= p.opts.PhraseAlignRetries; attempt++ {
		phrases, err := p.phraseAligner.Align(song.Lines, words)
		if err == nil {
			return phrases, nil
		}
		lastErr = err
		p.logger.Warn("phrase alignment attempt failed",
			logging.Int("attempt", attempt),
			logging.Int("max_attempts", p.opts.PhraseAlignRetries),
			logging.Error(err),
		)
	}
	return nil, lastErr
}

// refine runs the forced-alignment stage. All failure modes converge here:
// whatever goes wrong, the baseline cues come back with a reason code and
// the job continues.
func (p *Pipeline) refine(ctx context.Context, song Song, duration float64, baseline []lrc.Cue) ([]lrc.Cue, Outcome) {
	if !p.opts.RefinementEnabled || p.forcedAligner == nil {
		p.logger.Info("refinement skipped",
			logging.String("reason", ReasonRefinementDisabled),
		)
		return baseline, Outcome{Source: queue.OutcomeBaseline, Reason: ReasonRefinementDisabled}
	}
	if p.opts.MaxDurationSeconds > 0 && duration > p.opts.MaxDurationSeconds {
		p.logger.Info("refinement skipped",
			logging.String("reason", ReasonDurationExceeded),
			logging.Float64("duration_seconds", duration),
			logging.Float64("ceiling_seconds", p.opts.MaxDurationSeconds),
		)
		return baseline, Outcome{Source: queue.OutcomeBaseline, Reason: ReasonDurationExceeded}
	}

	req := forcedalign.Request{
		AudioPath:       song.AudioPath,
		Lines:           sungTexts(song.Lines),
		Language:        song.Language,
		DurationSeconds: duration,
	}
	segments, err := p.forcedAligner.Align(ctx, req)
	if err != nil {
		if ctx.Err() != nil {
			return baseline, Outcome{Source: queue.OutcomeBaseline, Reason: ReasonUnavailable}
		}
		reason := reasonFor(err)
		p.logger.Warn("refinement failed, publishing baseline",
			logging.String("reason", reason),
			logging.Error(err),
		)
		return baseline, Outcome{Source: queue.OutcomeBaseline, Reason: reason}
	}
	if len(segments) == 0 {
		p.logger.Warn("refinement returned no segments, publishing baseline")
		return baseline, Outcome{Source: queue.OutcomeBaseline, Reason: ReasonEmptyResponse}
	}

	mapped := timing.MapToLines(song.Lines, timingSegments(segments), duration)
	if mapped.Interpolated > 0 {
		p.logger.Info("mapping degraded for some lines",
			logging.Int("interpolated_lines", mapped.Interpolated),
			logging.Int("total_lines", len(song.Lines)),
		)
	}
	return timingCues(mapped), Outcome{
		Source:       queue.OutcomeRefined,
		Interpolated: mapped.Interpolated,
	}
}

func (p *Pipeline) setStatus(ctx context.Context, jobID string, status queue.Status) {
	if jobID == "" || p.store == nil {
		return
	}
	if err := p.store.SetStatus(ctx, jobID, status); err != nil {
		p.logger.Warn("status not persisted",
			logging.String("status", string(status)),
			logging.Error(err),
		)
	}
}

func (p *Pipeline) fail(ctx context.Context, jobID string, cause error) {
	if jobID == "" || p.store == nil {
		return
	}
	if err := p.store.Fail(context.WithoutCancel(ctx), jobID, cause.Error()); err != nil {
		p.logger.Warn("failure not persisted", logging.Error(err))
	}
}

func phraseCues(phrases []phrasealign.Phrase) []lrc.Cue {
	cues := make([]lrc.Cue, len(phrases))
	for i, phrase := range phrases {
		cues[i] = lrc.Cue{Start: phrase.Start, Text: phrase.Line.Text}
	}
	return cues
}

func timingCues(result timing.Result) []lrc.Cue {
	cues := make([]lrc.Cue, len(result.Timings))
	for i, t := range result.Timings {
		cues[i] = lrc.Cue{Start: t.Start, Text: t.Line.Text}
	}
	return cues
}

func timingSegments(segments []forcedalign.Segment) []timing.Segment {
	converted := make([]timing.Segment, len(segments))
	for i, seg := range segments {
		converted[i] = timing.Segment{Text: seg.Text, Start: seg.Start, End: seg.End}
	}
	return converted
}

func sungTexts(lines []lyrics.Line) []string {
	texts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Sung() {
			texts = append(texts, line.Text)
		}
	}
	return texts
}
