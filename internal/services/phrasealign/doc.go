// Package phrasealign reconciles noisy word-level transcription with the
// canonical lyric lines, producing exactly one phrase-level timestamp per
// line. This baseline is the pipeline's safety net: it is computed for
// every job and stands as the final result unless forced-alignment
// refinement supersedes it.
package phrasealign
