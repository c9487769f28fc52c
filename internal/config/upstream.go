package config

// UpstreamConfig controls how we talk to the simulation backend's HTTP API.
type UpstreamConfig struct {
	BaseURL       string
	SessionCookie string
	Timeout       Duration
	RetryAttempts int
	MinInterval   Duration
}

func loadUpstream() UpstreamConfig {
	return UpstreamConfig{
		BaseURL:       envOrDefault(envDysBaseURL, defaultDysBaseURL),
		SessionCookie: envOrDefault(envDysSessionCookie, ""),
		Timeout:       durationEnvOrDefault(envDysTimeout, defaultDysTimeout),
		RetryAttempts: intEnvOrDefault(envDysRetryAttempts, defaultDysRetryAttempts),
		MinInterval:   durationEnvOrDefault(envDysMinInterval, defaultDysMinInterval),
	}
}
