package config

const (
	defaultOutputDir      = "~/lectern"
	defaultWorkDir        = "~/.local/share/lectern/work"
	defaultLogDir         = "~/.local/share/lectern/logs"
	defaultDataDir        = "~/.local/share/lectern"
	defaultSSIMThreshold  = 0.85
	defaultFrameInterval  = 2.0
	defaultDedupThreshold = 0.95
	defaultWindowSeconds  = 10.0
	defaultPreContext     = 5.0
	defaultModel          = "large-v3"
	defaultLanguage       = "auto"
	defaultVADMethod      = "silero"
	defaultFFmpegBinary   = "ffmpeg"
	defaultFFprobeBinary  = "ffprobe"
	defaultUVXBinary      = "uvx"
	defaultLogFormat      = "console"
	defaultLogLevel       = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			OutputDir: defaultOutputDir,
			WorkDir:   defaultWorkDir,
			LogDir:    defaultLogDir,
			DataDir:   defaultDataDir,
		},
		Detection: Detection{
			SSIMThreshold:  defaultSSIMThreshold,
			FrameInterval:  defaultFrameInterval,
			DedupThreshold: defaultDedupThreshold,
		},
		Matching: Matching{
			WindowSeconds:     defaultWindowSeconds,
			PreContextSeconds: defaultPreContext,
		},
		Transcription: Transcription{
			Model:     defaultModel,
			Language:  defaultLanguage,
			VADMethod: defaultVADMethod,
		},
		Export: Export{
			TXT: true,
			SRT: true,
		},
		Tools: Tools{
			FFmpeg:  defaultFFmpegBinary,
			FFprobe: defaultFFprobeBinary,
			UVX:     defaultUVXBinary,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
