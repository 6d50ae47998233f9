// Package config loads, normalizes, and validates the TOML configuration
// for lyricsync. Missing files and missing keys fall back to defaults so a
// fresh install works with no configuration at all.
package config
