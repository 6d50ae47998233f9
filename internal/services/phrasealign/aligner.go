package phrasealign

import (
	"strings"

	"lyricsync/internal/lyrics"
	"lyricsync/internal/services"
	"lyricsync/internal/services/transcriber"
	"lyricsync/internal/textutil"
)

// Phrase is one canonical line with its phrase-level start time.
type Phrase struct {
	Line  lyrics.Line
	Start float64
}

// Aligner derives one timestamp per canonical line from the noisy word
/// stream. The result is the pipeline's baseline: coarse but always
// available, and the final output whenever refinement is skipped or fails.
type Aligner struct {
	lookahead int
}

// New creates an aligner. lookahead bounds how many words past the cursor
// are scanned for a line's leading token; values <= 0 fall back to 20.
func New(lookahead int) *Aligner {
	if lookahead <= 0 {
		lookahead = 20
	}
	return &Aligner{lookahead: lookahead}
}

// Align assigns a start time to every line, in order. The contract is
// strict: exactly one phrase per input line, none dropped or reordered,
// times non-decreasing. An empty word stream is unusable and errors.
func (a *Aligner) Align(lines []lyrics.Line, words []transcriber.Word) ([]Phrase, error) {
	if len(lines) == 0 {
		return []Phrase{}, nil
	}
	if len(words) == 0 {
		return nil, services.Wrap(services.ErrPhraseAlignment, "phrase-align", "input", "no transcribed words", nil)
	}

	tokens := make([]string, len(words))
	for i, word := range words {
		tokens[i] = textutil.Normalize(word.Word)
	}

	// Forward pass: anchor each sung line on the first plausible occurrence
	// of its leading token within the lookahead window. The cursor then
	// jumps past the line's word count so the next line searches later
	// audio, which keeps repeated lines on distinct occurrences.
	const unmatched, structural = -1, -2
	matched := make([]int, len(lines))
	cursor := 0
	for i, line := range lines {
		lineTokens := textutil.Tokenize(line.Text)
		if len(lineTokens) == 0 {
			matched[i] = structural
			continue
		}
		matched[i] = unmatched
		limit := cursor + a.lookahead
		if limit > len(tokens) {
			limit = len(tokens)
		}
		for j := cursor; j < limit; j++ {
			if !tokenMatch(tokens[j], lineTokens[0]) {
				continue
			}
			matched[i] = j
			cursor = j + len(lineTokens)
			if cursor > len(tokens) {
				cursor = len(tokens)
			}
			break
		}
	}

	duration := transcriber.Duration(words)
	starts := fillStarts(lines, matched, words, duration)

	phrases := make([]Phrase, len(lines))
	prev := 0.0
	for i, line := range lines {
		start := starts[i]
		if matched[i] == structural {
			start = prev
		}
		if start < prev {
			start = prev
		}
		prev = start
		phrases[i] = Phrase{Line: line, Start: start}
	}
	return phrases, nil
}

// fillStarts assigns matched word starts and interpolates unmatched runs
// proportionally between their matched neighbors.
func fillStarts(lines []lyrics.Line, matched []int, words []transcriber.Word, duration float64) []float64 {
	starts := make([]float64, len(lines))
	i := 0
	lastEnd := 0.0
	for i < len(lines) {
		switch {
		case matched[i] >= 0:
			starts[i] = words[matched[i]].Start
			lastEnd = words[matched[i]].End
			i++
		case matched[i] == -2:
			i++
		default:
			var run []int
			j := i
			for j < len(lines) && matched[j] < 0 {
				if matched[j] == -1 {
					run = append(run, j)
				}
				j++
			}
			gapStart := lastEnd
			gapEnd := duration
			if j < len(lines) {
				gapEnd = words[matched[j]].Start
			}
			if gapEnd < gapStart {
				gapEnd = gapStart
			}
			step := (gapEnd - gapStart) / float64(len(run)+1)
			for k, idx := range run {
				starts[idx] = gapStart + float64(k+1)*step
			}
			i = j
		}
	}
	return starts
}

// tokenMatch accepts exact normalized equality plus prefix agreement for
// longer tokens, which tolerates whisper splitting or eliding suffixes.
func tokenMatch(wordToken, lineToken string) bool {
	if wordToken == "" || lineToken == "" {
		return false
	}
	if wordToken == lineToken {
		return true
	}
	if len(lineToken) >= 4 && strings.HasPrefix(wordToken, lineToken) {
		return true
	}
	if len(wordToken) >= 4 && strings.HasPrefix(lineToken, wordToken) {
		return true
	}
	return false
}
