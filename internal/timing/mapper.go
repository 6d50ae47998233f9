package timing

import (
	"lyricsync/internal/lyrics"
	"lyricsync/internal/textutil"
)

// Segment is a contiguous span of aligned text with its time range, as
// produced by the forced aligner. Segments arrive in time order.
type Segment struct {
	Text  string
	Start float64
	End   float64
}

// LineTiming is one line with its assigned start time.
type LineTiming struct {
	Line  lyrics.Line
	Start float64
	// Interpolated is set when no segment matched and the timestamp was
	// estimated from the surrounding matches.
	Interpolated bool
}

// Result is the full mapping outcome. Timings always has exactly one entry
// per input line, in input order.
type Result struct {
	Timings []LineTiming
	// Interpolated counts sung lines that needed estimation. Structural
	// lines inheriting their predecessor's time are not counted.
	Interpolated int
}

// MapToLines assigns one timestamp to every line using the segment stream.
//
// Matching walks a forward-only cursor through the segments: each line
// consumes the first unconsumed segment whose normalized text equals the
// line's normalized text. The cursor is what keeps repeated lines apart; a
// chorus sung three times matches three distinct segments in time order
// instead of re-matching the first.
//
// Lines with no match are interpolated proportionally inside the open gap
// between the end of the last matched segment and the start of the next
// (or the audio duration at the tail). Structural lines copy their
// predecessor's timestamp, 0.0 when first.
func MapToLines(lines []lyrics.Line, segments []Segment, duration float64) Result {
	if len(lines) == 0 {
		return Result{Timings: []LineTiming{}}
	}
	if duration < 0 {
		duration = 0
	}

	normSegs := make([]string, len(segments))
	for i, seg := range segments {
		normSegs[i] = textutil.Normalize(seg.Text)
	}

	// Pass 1: forward matching. matched[i] holds the consumed segment
	// index for line i, -1 for no match, -2 for structural lines.
	matched := make([]int, len(lines))
	cursor := 0
	for i, line := range lines {
		norm := textutil.Normalize(line.Text)
		if norm == "" {
			matched[i] = -2
			continue
		}
		matched[i] = -1
		for j := cursor; j < len(normSegs); j++ {
			if normSegs[j] == norm {
				matched[i] = j
				cursor = j + 1
				break
			}
		}
	}

	// Pass 2: assign matched starts, interpolate the unmatched runs.
	starts := make([]float64, len(lines))
	interpolated := 0
	i := 0
	lastEnd := 0.0 // end of the most recent matched segment
	for i < len(lines) {
		switch {
		case matched[i] >= 0:
			seg := segments[matched[i]]
			starts[i] = seg.Start
			lastEnd = seg.End
			i++
		case matched[i] == -2:
			// Structural line, filled from its predecessor below.
			i++
		default:
			// Run of unmatched sung lines; structural lines inside the
			// run do not take an interpolation slot.
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
				gapEnd = segments[matched[j]].Start
			}
			if gapEnd < gapStart {
				gapEnd = gapStart
			}
			step := (gapEnd - gapStart) / float64(len(run)+1)
			for k, idx := range run {
				starts[idx] = gapStart + float64(k+1)*step
			}
			interpolated += len(run)
			i = j
		}
	}

	// Pass 3: structural lines copy their predecessor, then clamp so the
	// sequence is non-decreasing no matter what the segment stream held.
	timings := make([]LineTiming, len(lines))
	prev := 0.0
	for i, line := range lines {
		start := starts[i]
		if matched[i] == -2 {
			start = prev
		}
		if start < prev {
			start = prev
		}
		prev = start
		timings[i] = LineTiming{
			Line:         line,
			Start:        start,
			Interpolated: matched[i] == -1,
		}
	}
	return Result{Timings: timings, Interpolated: interpolated}
}
