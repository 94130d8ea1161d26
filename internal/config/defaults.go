package config

const (
	defaultConfigPath = "~/.config/blip/config.toml"
	defaultSampleRate = 44100
	defaultDuration   = 180
	defaultFadeout    = 5
	defaultLogFormat  = "console"
	defaultLogLevel   = "info"
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Render: Render{
			SampleRate: defaultSampleRate,
			Duration:   defaultDuration,
			Fadeout:    defaultFadeout,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
