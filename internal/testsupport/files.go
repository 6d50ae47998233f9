package testsupport

import (
	"os"
	"path/filepath"
	"testing"
)

// WriteFile creates path with the given contents, making parent
// directories as needed.
func WriteFile(t testing.TB, path, contents string) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteLyrics writes a lyric sheet into dir and returns its path.
func WriteLyrics(t testing.TB, dir, contents string) string {
	t.Helper()

	path := filepath.Join(dir, "lyrics.txt")
	WriteFile(t, path, contents)
	return path
}
