package server

import (
	"log/slog"

	"github.com/preston-bernstein/season-sync-service/internal/config"
	"github.com/preston-bernstein/season-sync-service/internal/metrics"
	"github.com/preston-bernstein/season-sync-service/internal/providers"
)

// providerFactory assembles the provider with shared wrappers (rate limit + retry).
type providerFactory struct {
	logger  *slog.Logger
	metrics *metrics.Recorder
}

func newProviderFactory(logger *slog.Logger, metrics *metrics.Recorder) providerFactory {
	return providerFactory{logger: logger, metrics: metrics}
}

// build returns the wrapped provider and a func that releases the rate limiter.
func (f providerFactory) build(cfg config.Config) (providers.SeasonProvider, func()) {
	base := selectProvider(cfg, f.logger)
	name := normalizeProviderName(cfg.Provider, base)
	if cfg.Provider != config.ProviderDysAPI {
		return providers.NewRetryingProvider(base, f.logger, f.metrics, name, cfg.Upstream.RetryAttempts, 0), func() {}
	}

	// A full refresh fans out four calls; the limiter spaces them for the backend.
	limited := providers.NewRateLimitedProvider(base, cfg.Upstream.MinInterval, f.logger)
	release := func() {
		if c, ok := limited.(interface{ Close() }); ok {
			c.Close()
		}
	}
	return providers.NewRetryingProvider(limited, f.logger, f.metrics, name, cfg.Upstream.RetryAttempts, 0), release
}

// NewProvider builds the configured provider with the same wrappers the server
// uses. Callers must invoke the returned func once the provider is no longer used.
func NewProvider(cfg config.Config, logger *slog.Logger, recorder *metrics.Recorder) (providers.SeasonProvider, func()) {
	return newProviderFactory(logger, recorder).build(cfg)
}
