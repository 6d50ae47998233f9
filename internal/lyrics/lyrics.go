package lyrics

import (
	"fmt"
	"os"
	"strings"

	"lyricsync/internal/textutil"
)

// Line is one canonical lyric line. Empty text marks a structural line
// (section header spacing, instrumental break) that is displayed but never
// sung; such lines inherit timing from their predecessor during alignment.
type Line struct {
	// Index is the zero-based position within the song.
	Index int
	// Text is the display text exactly as authored.
	Text string
}

// Sung reports whether the line carries sung content after normalization.
func (l Line) Sung() bool {
	return textutil.Normalize(l.Text) != ""
}

// Parse splits raw lyric text into ordered lines. Line breaks are the only
// structure recognized; blank lines are preserved as structural markers.
// Trailing blank lines are dropped so a final newline does not grow the song.
func Parse(raw string) []Line {
	raw = strings.ReplaceAll(raw, "\r\n", "\n")
	split := strings.Split(raw, "\n")
	for len(split) > 0 && strings.TrimSpace(split[len(split)-1]) == "" {
		split = split[:len(split)-1]
	}
	lines := make([]Line, 0, len(split))
	for i, text := range split {
		lines = append(lines, Line{Index: i, Text: strings.TrimRight(text, " \t")})
	}
	return lines
}

// Load reads a lyric file and parses it into lines.
func Load(path string) ([]Line, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read lyrics %s: %w", path, err)
	}
	return Parse(string(data)), nil
}

// Texts returns the display text of each line in order.
func Texts(lines []Line) []string {
	texts := make([]string, len(lines))
	for i, line := range lines {
		texts[i] = line.Text
	}
	return texts
}

// Joined concatenates the sung lines into a single block, one line per row.
// This is the canonical-text payload handed to the forced aligner.
func Joined(lines []Line) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if line.Sung() {
			parts = append(parts, line.Text)
		}
	}
	return strings.Join(parts, "\n")
}
