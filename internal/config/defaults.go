package config

const (
	defaultOutputDir = "~/.local/share/lyricsync/output"
	defaultWorkDir   = "~/.local/share/lyricsync/work"
	defaultLogDir    = "~/.local/share/lyricsync/logs"

	defaultTranscriberModel = "large-v3"
	defaultLanguage         = "en"

	defaultPhraseAlignRetries   = 3
	defaultPhraseAlignLookahead = 20

	defaultForcedAlignURL         = "http://127.0.0.1:7607"
	defaultForcedAlignTimeout     = 120
	defaultForcedAlignMaxDuration = 300
	defaultForcedAlignMaxInFlight = 2
	defaultForcedAlignBind        = "127.0.0.1:7607"

	defaultLogFormat = "auto"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
		},
		Transcriber: Transcriber{
			Model:    defaultTranscriberModel,
			Language: defaultLanguage,
		},
		PhraseAlign: PhraseAlign{
			MaxRetries:     defaultPhraseAlignRetries,
			LookaheadWords: defaultPhraseAlignLookahead,
		},
		ForcedAlign: ForcedAlign{
			Enabled:            true,
			URL:                defaultForcedAlignURL,
			TimeoutSeconds:     defaultForcedAlignTimeout,
			MaxDurationSeconds: defaultForcedAlignMaxDuration,
			MaxInFlight:        defaultForcedAlignMaxInFlight,
			Bind:               defaultForcedAlignBind,
			Model:              defaultTranscriberModel,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
