package config

const (
	defaultTagsFile  = "~/videos/quadrant-tags.json"
	defaultAudioDir  = "~/recordings/audio"
	defaultVideoDir  = "~/videos/processed"
	defaultOutputDir = "~/videos/synced"
	defaultCacheFile = "~/.local/share/resound/transcripts.json"
	defaultRunLogDB  = "~/.local/share/resound/runs.db"
	defaultLogDir    = "~/.local/share/resound/logs"

	defaultMethod                  = "waveform"
	defaultAnalysisSampleRate      = 8000
	defaultWindowSeconds           = 60
	defaultCandidateWindowFactor   = 2
	defaultTranscribeWindowSeconds = 120
	defaultTranscribeSampleRate    = 16000
	defaultWordsPerSecond          = 2.5
	defaultQueryWindowTokens       = 50
	defaultWaveformThreshold       = 0.05
	defaultTranscriptThreshold     = 0.3

	defaultToolTimeoutSeconds = 600
	defaultReferenceMarker    = "Second Room"

	defaultWhisperModel    = "base"
	defaultWhisperLanguage = "en"

	defaultLogFormat = "console"
	defaultLogLevel  = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			TagsFile:  defaultTagsFile,
			AudioDir:  defaultAudioDir,
			VideoDir:  defaultVideoDir,
			OutputDir: defaultOutputDir,
			CacheFile: defaultCacheFile,
			RunLogDB:  defaultRunLogDB,
			LogDir:    defaultLogDir,
		},
		Analysis: Analysis{
			Method:                  defaultMethod,
			SampleRate:              defaultAnalysisSampleRate,
			WindowSeconds:           defaultWindowSeconds,
			CandidateWindowFactor:   defaultCandidateWindowFactor,
			TranscribeWindowSeconds: defaultTranscribeWindowSeconds,
			TranscribeSampleRate:    defaultTranscribeSampleRate,
			WordsPerSecond:          defaultWordsPerSecond,
			QueryWindowTokens:       defaultQueryWindowTokens,
			WaveformThreshold:       defaultWaveformThreshold,
			TranscriptThreshold:     defaultTranscriptThreshold,
		},
		Batch: Batch{
			ToolTimeoutSeconds: defaultToolTimeoutSeconds,
			ReferenceMarker:    defaultReferenceMarker,
		},
		Whisper: Whisper{
			Model:    defaultWhisperModel,
			Language: defaultWhisperLanguage,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
