package lyrics

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParsePreservesStructure(t *testing.T) {
	lines := Parse("Verse 1\nAmazing grace\n\nChorus\nHow sweet the sound\n")
	if len(lines) != 5 {
		t.Fatalf("line count = %d, want 5", len(lines))
	}
	if lines[2].Text != "" {
		t.Fatalf("expected structural blank at index 2, got %q", lines[2].Text)
	}
	if lines[2].Sung() {
		t.Fatal("blank line should not be sung")
	}
	for i, line := range lines {
		if line.Index != i {
			t.Fatalf("line %d carries index %d", i, line.Index)
		}
	}
}

func TestParseDropsTrailingBlanks(t *testing.T) {
	lines := Parse("Only line\n\n\n")
	if len(lines) != 1 {
		t.Fatalf("line count = %d, want 1", len(lines))
	}
}

func TestParseEmpty(t *testing.T) {
	if lines := Parse(""); len(lines) != 0 {
		t.Fatalf("expected no lines, got %d", len(lines))
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "song.txt")
	if err := os.WriteFile(path, []byte("First\r\nSecond\r\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	lines, err := Load(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(lines) != 2 || lines[0].Text != "First" || lines[1].Text != "Second" {
		t.Fatalf("unexpected lines: %+v", lines)
	}
}

func TestJoinedSkipsStructuralLines(t *testing.T) {
	lines := Parse("Verse\n\nLine two")
	if got := Joined(lines); got != "Verse\nLine two" {
		t.Fatalf("Joined = %q", got)
	}
}
