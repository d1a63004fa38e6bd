package config

const (
	defaultWatchDir                = "~/Downloads/intake"
	defaultLogDir                  = "~/.local/share/docsort/logs"
	defaultLogFormat               = "console"
	defaultLogLevel                = "info"
	defaultStabilityTimeoutSeconds = 10
	defaultStabilityPollSeconds    = 1
	defaultMoveAttempts            = 3
	defaultMoveRetryDelaySeconds   = 2
)

// Default returns a Config populated with repository defaults.
func Default() Config {
	return Config{
		Paths: Paths{
			WatchDir: defaultWatchDir,
			LogDir:   defaultLogDir,
		},
		Sorting: Sorting{
			StabilityTimeoutSeconds: defaultStabilityTimeoutSeconds,
			StabilityPollSeconds:    defaultStabilityPollSeconds,
			MoveAttempts:            defaultMoveAttempts,
			MoveRetryDelaySeconds:   defaultMoveRetryDelaySeconds,
		},
		Logging: Logging{
			Format: defaultLogFormat,
			Level:  defaultLogLevel,
		},
	}
}
