package phrasealign

import (
	"errors"
	"testing"

	"lyricsync/internal/lyrics"
	"lyricsync/internal/services"
	"lyricsync/internal/services/transcriber"
)

func makeLines(texts ...string) []lyrics.Line {
	lines := make([]lyrics.Line, len(texts))
	for i, text := range texts {
		lines[i] = lyrics.Line{Index: i, Text: text}
	}
	return lines
}

func wordsFor(entries ...[3]any) []transcriber.Word {
	words := make([]transcriber.Word, len(entries))
	for i, entry := range entries {
		words[i] = transcriber.Word{
			Word:  entry[0].(string),
			Start: float64(entry[1].(int)),
			End:   float64(entry[2].(int)),
		}
	}
	return words
}

func TestAlignAnchorsLinesOnLeadingTokens(t *testing.T) {
	lines := makeLines("Amazing grace", "How sweet the sound")
	words := wordsFor(
		[3]any{"Amazing", 2, 3},
		[3]any{"grace", 3, 4},
		[3]any{"how", 8, 9},
		[3]any{"sweet", 9, 10},
		[3]any{"the", 10, 11},
		[3]any{"sound", 11, 12},
	)
	phrases, err := New(0).Align(lines, words)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(phrases) != 2 {
		t.Fatalf("phrase count = %d, want 2", len(phrases))
	}
	if phrases[0].Start != 2 || phrases[1].Start != 8 {
		t.Fatalf("starts = [%v %v], want [2 8]", phrases[0].Start, phrases[1].Start)
	}
}

func TestAlignAlwaysReturnsOnePhrasePerLine(t *testing.T) {
	lines := makeLines("First line", "", "Totally absent words", "Last line")
	words := wordsFor(
		[3]any{"first", 0, 1},
		[3]any{"line", 1, 2},
		[3]any{"last", 20, 21},
		[3]any{"line", 21, 22},
	)
	phrases, err := New(0).Align(lines, words)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(phrases) != len(lines) {
		t.Fatalf("phrase count = %d, want %d", len(phrases), len(lines))
	}
	for i := 1; i < len(phrases); i++ {
		if phrases[i].Start < phrases[i-1].Start {
			t.Fatalf("starts decrease at %d: %+v", i, phrases)
		}
	}
	// Structural line copies its predecessor.
	if phrases[1].Start != phrases[0].Start {
		t.Fatalf("structural line start = %v, want %v", phrases[1].Start, phrases[0].Start)
	}
	// Unmatched line sits strictly inside the surrounding gap.
	if phrases[2].Start <= 2 || phrases[2].Start >= 20 {
		t.Fatalf("interpolated start %v outside (2, 20)", phrases[2].Start)
	}
}

func TestAlignRepeatedLinesAdvance(t *testing.T) {
	lines := makeLines("Holy holy", "Holy holy")
	words := wordsFor(
		[3]any{"holy", 1, 2},
		[3]any{"holy", 2, 3},
		[3]any{"holy", 10, 11},
		[3]any{"holy", 11, 12},
	)
	phrases, err := New(0).Align(lines, words)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if phrases[0].Start != 1 || phrases[1].Start != 10 {
		t.Fatalf("starts = [%v %v], want [1 10]", phrases[0].Start, phrases[1].Start)
	}
}

func TestAlignEmptyWordsErrors(t *testing.T) {
	_, err := New(0).Align(makeLines("A line"), nil)
	if err == nil || !errors.Is(err, services.ErrPhraseAlignment) {
		t.Fatalf("expected phrase alignment error, got %v", err)
	}
	if !services.Fatal(err) {
		t.Fatal("baseline failure must classify as fatal")
	}
}

func TestAlignEmptyLines(t *testing.T) {
	phrases, err := New(0).Align(nil, wordsFor([3]any{"word", 0, 1}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(phrases) != 0 {
		t.Fatalf("expected empty result, got %+v", phrases)
	}
}

func TestTokenMatchPrefixes(t *testing.T) {
	if !tokenMatch("singing", "sing") {
		t.Fatal("expected prefix match for longer line token")
	}
	if tokenMatch("in", "it") {
		t.Fatal("short tokens must match exactly")
	}
}
