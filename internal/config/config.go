package config

// Config holds runtime configuration for the server.
type Config struct {
	Port         string
	PollInterval Duration
	Provider     string
	SeasonID     uint32
	AdminToken   string
	Log          LogConfig
	Upstream     UpstreamConfig
	Metrics      MetricsConfig
	Snapshots    SnapshotConfig

	// StreamAllowedOrigins lists extra browser origins allowed to open /stream.
	StreamAllowedOrigins []string
}

// LogConfig selects the logger's level and handler format.
type LogConfig struct {
	Level  string
	Format string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	return Config{
		Port:         envOrDefault(envPort, defaultPort),
		PollInterval: durationEnvOrDefault(envPollInterval, defaultPollInterval),
		Provider:     envOrDefault(envProvider, defaultProvider),
		SeasonID:     uint32EnvOrDefault(envSeasonID, defaultSeasonID),
		AdminToken:   envOrDefault(envAdminToken, ""),
		Log: LogConfig{
			Level:  envOrDefault(envLogLevel, defaultLogLevel),
			Format: envOrDefault(envLogFormat, defaultLogFormat),
		},
		Upstream:             loadUpstream(),
		Metrics:              loadMetrics(),
		Snapshots:            loadSnapshots(),
		StreamAllowedOrigins: listEnv(envStreamOrigins),
	}
}
