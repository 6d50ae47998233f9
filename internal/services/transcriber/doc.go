// Package transcriber produces noisy word-level timestamps for song audio
// by running WhisperX through uvx, after extracting a mono 16kHz WAV with
// ffmpeg. Its output anchors every later alignment stage; a failure here is
// fatal to the job.
package transcriber
