// Package textutil provides text normalization and tokenization for lyric
// matching.
//
// Canonical lyric lines and aligner output rarely agree on formatting:
// punctuation, letter case, full-width vs half-width forms, and whitespace
// all differ between sources. Normalize collapses both sides onto a common
// form so that comparison is purely about the sung words.
//
// Normalization applies Unicode NFKC (folding full-width and compatibility
// forms), lowercases, drops punctuation and symbols for any script, and
// collapses whitespace runs to single spaces.
package textutil
