// Package language normalizes the language identifiers users put in
// config files and flags ("English", "eng", "en") to the ISO 639-1 codes
// the transcription and alignment tools expect.
package language
