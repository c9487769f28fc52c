package server

import (
	"log/slog"

	"github.com/preston-bernstein/season-sync-service/internal/config"
	"github.com/preston-bernstein/season-sync-service/internal/logging"
	"github.com/preston-bernstein/season-sync-service/internal/providers"
	"github.com/preston-bernstein/season-sync-service/internal/providers/dysapi"
	"github.com/preston-bernstein/season-sync-service/internal/providers/fixture"
)

func selectProvider(cfg config.Config, logger *slog.Logger) providers.SeasonProvider {
	switch cfg.Provider {
	case config.ProviderFixture, "":
		return fixture.New()
	case config.ProviderDysAPI:
		return dysapi.NewClient(dysapi.Config{
			BaseURL:       cfg.Upstream.BaseURL,
			SessionCookie: cfg.Upstream.SessionCookie,
			Timeout:       cfg.Upstream.Timeout,
		})
	default:
		logging.Warn(logger, "unknown provider, falling back to fixture", slog.String(logging.FieldProvider, cfg.Provider))
		return fixture.New()
	}
}
