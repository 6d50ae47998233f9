// Command lyricsync generates time-synchronized LRC lyric files for
// songs. `align` runs the full pipeline for one song, `serve` runs the
// forced-alignment refinement service, and `jobs` inspects past runs.
package main
