// Package lrc reads and writes line-timed lyric files in the LRC format:
// one `[mm:ss.hh]text` row per lyric line, in non-decreasing time order.
package lrc

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
)

// Cue pairs a display line with its start time in seconds.
type Cue struct {
	Start float64
	Text  string
}

// FormatTimestamp renders seconds as an LRC tag at centisecond precision.
// Negative values clamp to zero; minutes may exceed 59 for long audio.
func FormatTimestamp(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	centis := int64(math.Round(seconds * 100))
	minutes := centis / 6000
	centis -= minutes * 6000
	return fmt.Sprintf("[%02d:%02d.%02d]", minutes, centis/100, centis%100)
}

// ParseTimestamp converts an `mm:ss.hh` tag body (without brackets) to seconds.
func ParseTimestamp(value string) (float64, error) {
	value = strings.TrimSpace(value)
	parts := strings.SplitN(value, ":", 2)
	if len(parts) != 2 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	minutes, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	seconds, err := strconv.ParseFloat(parts[1], 64)
	if err != nil || seconds < 0 {
		return 0, fmt.Errorf("invalid timestamp %q", value)
	}
	return float64(minutes)*60 + seconds, nil
}

// Render serializes cues to LRC text. Cues must already be ordered; Render
// enforces non-decreasing output by clamping any backward step to its
// predecessor, so a serialized file is always monotonic.
func Render(cues []Cue) string {
	var sb strings.Builder
	last := 0.0
	for _, cue := range cues {
		start := cue.Start
		if start < last {
			start = last
		}
		last = start
		sb.WriteString(FormatTimestamp(start))
		sb.WriteString(cue.Text)
		sb.WriteByte('\n')
	}
	return sb.String()
}

// Write serializes cues and writes them to path.
func Write(path string, cues []Cue) error {
	if err := os.WriteFile(path, []byte(Render(cues)), 0o644); err != nil {
		return fmt.Errorf("write lrc %s: %w", path, err)
	}
	return nil
}

// Parse reads LRC text back into cues. Rows without a leading timestamp tag
// are skipped; this keeps the parser tolerant of metadata headers other
// tools prepend ([ti:...], [ar:...]) without modeling them.
func Parse(content string) []Cue {
	var cues []Cue
	for _, row := range strings.Split(content, "\n") {
		row = strings.TrimRight(row, "\r")
		if !strings.HasPrefix(row, "[") {
			continue
		}
		end := strings.Index(row, "]")
		if end < 0 {
			continue
		}
		start, err := ParseTimestamp(row[1:end])
		if err != nil {
			continue
		}
		cues = append(cues, Cue{Start: start, Text: row[end+1:]})
	}
	return cues
}
