package timing

import (
	"math"
	"testing"

	"lyricsync/internal/lyrics"
)

func makeLines(texts ...string) []lyrics.Line {
	lines := make([]lyrics.Line, len(texts))
	for i, text := range texts {
		lines[i] = lyrics.Line{Index: i, Text: text}
	}
	return lines
}

func starts(result Result) []float64 {
	values := make([]float64, len(result.Timings))
	for i, timing := range result.Timings {
		values[i] = timing.Start
	}
	return values
}

func assertNonDecreasing(t *testing.T, values []float64) {
	t.Helper()
	for i := 1; i < len(values); i++ {
		if values[i] < values[i-1] {
			t.Fatalf("timestamps decrease at %d: %v", i, values)
		}
	}
}

func TestRepeatedChorusConsumesDistinctOccurrences(t *testing.T) {
	lines := makeLines("Verse one", "Chorus A", "Chorus A", "Verse two", "Chorus A")
	segments := []Segment{
		{Text: "Verse one", Start: 0, End: 2},
		{Text: "Chorus A", Start: 2, End: 4},
		{Text: "Chorus A", Start: 4, End: 6},
		{Text: "Verse two", Start: 6, End: 8},
		{Text: "Chorus A", Start: 8, End: 10},
	}
	result := MapToLines(lines, segments, 10)
	want := []float64{0, 2, 4, 6, 8}
	got := starts(result)
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("timestamps = %v, want %v", got, want)
		}
	}
	if result.Interpolated != 0 {
		t.Fatalf("interpolated = %d, want 0", result.Interpolated)
	}
}

func TestStructuralLineCopiesPredecessor(t *testing.T) {
	lines := makeLines("", "Hello world")
	segments := []Segment{{Text: "Hello world", Start: 3, End: 5}}
	got := starts(MapToLines(lines, segments, 12))
	if got[0] != 0.0 || got[1] != 3.0 {
		t.Fatalf("timestamps = %v, want [0 3]", got)
	}
}

func TestStructuralLineAfterMatchInheritsTime(t *testing.T) {
	lines := makeLines("Verse", "", "Chorus")
	segments := []Segment{
		{Text: "Verse", Start: 1, End: 4},
		{Text: "Chorus", Start: 6, End: 9},
	}
	got := starts(MapToLines(lines, segments, 10))
	if got[0] != 1 || got[1] != 1 || got[2] != 6 {
		t.Fatalf("timestamps = %v, want [1 1 6]", got)
	}
}

func TestUnmatchedLineInterpolatesWithinGap(t *testing.T) {
	lines := makeLines("Known line", "Unknown ad-lib", "Known line 2")
	segments := []Segment{
		{Text: "Known line", Start: 0, End: 2},
		{Text: "Known line 2", Start: 10, End: 12},
	}
	result := MapToLines(lines, segments, 12)
	got := starts(result)
	if got[0] != 0 || got[2] != 10 {
		t.Fatalf("anchor timestamps wrong: %v", got)
	}
	if got[1] <= 2 || got[1] >= 10 {
		t.Fatalf("ad-lib timestamp %v not strictly inside (2, 10)", got[1])
	}
	if !result.Timings[1].Interpolated || result.Interpolated != 1 {
		t.Fatalf("expected one interpolated line, got %+v", result)
	}
}

func TestTrailingUnmatchedLinesSpreadToDuration(t *testing.T) {
	lines := makeLines("Opening", "Outro one", "Outro two")
	segments := []Segment{{Text: "Opening", Start: 0, End: 3}}
	got := starts(MapToLines(lines, segments, 12))
	// Gap [3, 12] split into three steps of 3.
	if got[1] != 6 || got[2] != 9 {
		t.Fatalf("timestamps = %v, want [0 6 9]", got)
	}
}

func TestEmptySegmentsInterpolateAcrossDuration(t *testing.T) {
	lines := makeLines("One", "Two", "Three")
	result := MapToLines(lines, nil, 8)
	got := starts(result)
	want := []float64{2, 4, 6}
	for i := range want {
		if math.Abs(got[i]-want[i]) > 1e-9 {
			t.Fatalf("timestamps = %v, want %v", got, want)
		}
	}
	if result.Interpolated != 3 {
		t.Fatalf("interpolated = %d, want 3", result.Interpolated)
	}
	assertNonDecreasing(t, got)
}

func TestEmptyLinesYieldEmptyResult(t *testing.T) {
	result := MapToLines(nil, []Segment{{Text: "x", Start: 0, End: 1}}, 5)
	if len(result.Timings) != 0 {
		t.Fatalf("expected empty result, got %+v", result.Timings)
	}
}

func TestNoSegmentMatchesFallsBackEverywhere(t *testing.T) {
	lines := makeLines("Alpha", "Beta")
	segments := []Segment{{Text: "completely different", Start: 1, End: 2}}
	result := MapToLines(lines, segments, 9)
	if result.Interpolated != 2 {
		t.Fatalf("interpolated = %d, want 2", result.Interpolated)
	}
	assertNonDecreasing(t, starts(result))
}

func TestFormattingDifferencesStillMatch(t *testing.T) {
	lines := makeLines("How Great Thou Art!")
	segments := []Segment{{Text: "how great thou art", Start: 4, End: 7}}
	result := MapToLines(lines, segments, 10)
	if result.Timings[0].Start != 4 || result.Timings[0].Interpolated {
		t.Fatalf("normalization should have matched: %+v", result.Timings[0])
	}
}

func TestOutputLengthAlwaysMatchesInput(t *testing.T) {
	cases := []struct {
		lines    []lyrics.Line
		segments []Segment
	}{
		{makeLines("a", "", "b", "c"), nil},
		{makeLines("", "", ""), []Segment{{Text: "a", Start: 0, End: 1}}},
		{makeLines("x"), []Segment{{Text: "x", Start: 0, End: 1}, {Text: "x", Start: 1, End: 2}}},
	}
	for i, tc := range cases {
		result := MapToLines(tc.lines, tc.segments, 30)
		if len(result.Timings) != len(tc.lines) {
			t.Fatalf("case %d: output length %d != input length %d", i, len(result.Timings), len(tc.lines))
		}
		assertNonDecreasing(t, starts(result))
	}
}

func TestMappingIsIdempotent(t *testing.T) {
	lines := makeLines("Verse one", "Chorus", "", "Chorus", "Tag")
	segments := []Segment{
		{Text: "Verse one", Start: 0, End: 4},
		{Text: "Chorus", Start: 4, End: 8},
		{Text: "Chorus", Start: 12, End: 16},
	}
	first := MapToLines(lines, segments, 20)
	second := MapToLines(lines, segments, 20)
	for i := range first.Timings {
		if first.Timings[i] != second.Timings[i] {
			t.Fatalf("mapping not idempotent at line %d", i)
		}
	}
}

func TestOutOfOrderSegmentTimesStayMonotonic(t *testing.T) {
	// A defective aligner response must still produce ordered output.
	lines := makeLines("One", "Two")
	segments := []Segment{
		{Text: "One", Start: 8, End: 9},
		{Text: "Two", Start: 2, End: 3},
	}
	got := starts(MapToLines(lines, segments, 10))
	assertNonDecreasing(t, got)
}
