package config

const (
	defaultDataDir              = "~/.local/share/vidvault"
	defaultThumbnailHeight      = 300
	defaultThumbnailPrefixChars = 16
	defaultFfmpegBinary         = "ffmpeg"
	defaultFfprobeBinary        = "ffprobe"
	defaultAccessIterations     = 100_000
	defaultPartSize             = 10
	defaultMediaSubdir          = "Android/media/com.whatsapp/WhatsApp/Media/WhatsApp Video"
	defaultReencodeMaxLines     = 1080
	defaultReencodeMaxFPS       = 31
	defaultReencodeMaxMiBPerS   = 0.5
	defaultLogFormat            = "console"
	defaultLogLevel             = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			DataDir: defaultDataDir,
		},
		Access: Access{
			Iterations: defaultAccessIterations,
		},
		Thumbnails: Thumbnails{
			Height:          defaultThumbnailHeight,
			HashPrefixChars: defaultThumbnailPrefixChars,
			FfmpegBinary:    defaultFfmpegBinary,
			FfprobeBinary:   defaultFfprobeBinary,
		},
		Tagging: Tagging{
			PartSize: defaultPartSize,
		},
		Device: Device{
			MediaSubdir: defaultMediaSubdir,
		},
		Reencode: Reencode{
			MaxLines:        defaultReencodeMaxLines,
			MaxFPS:          defaultReencodeMaxFPS,
			MaxMiBPerSecond: defaultReencodeMaxMiBPerS,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
