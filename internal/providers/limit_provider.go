package providers

import (
	"context"
	"log/slog"
	"time"

	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
)

// rateLimitedProvider wraps a SeasonProvider and enforces a minimum interval between calls.
type rateLimitedProvider struct {
	next     SeasonProvider
	interval time.Duration
	ticker   *time.Ticker
	logger   *slog.Logger
}

// NewRateLimitedProvider returns a SeasonProvider that limits calls to the given interval.
// Calls block until the next tick; every endpoint shares the same budget.
func NewRateLimitedProvider(next SeasonProvider, interval time.Duration, logger *slog.Logger) SeasonProvider {
	if interval <= 0 {
		interval = time.Second
	}
	return &rateLimitedProvider{
		next:     next,
		interval: interval,
		ticker:   time.NewTicker(interval),
		logger:   logger,
	}
}

func (p *rateLimitedProvider) Name() string {
	return NameOf(p.next, "rate-limited")
}

func (p *rateLimitedProvider) FetchSeason(ctx context.Context) (season.Season, error) {
	if err := p.wait(ctx, "season"); err != nil {
		return season.Season{}, err
	}
	return p.next.FetchSeason(ctx)
}

func (p *rateLimitedProvider) FetchWorldState(ctx context.Context) ([]byte, error) {
	if err := p.wait(ctx, "world_state"); err != nil {
		return nil, err
	}
	return p.next.FetchWorldState(ctx)
}

func (p *rateLimitedProvider) FetchSeasonStats(ctx context.Context, seasonID uint32) (map[string][]byte, error) {
	if err := p.wait(ctx, "season_stats"); err != nil {
		return nil, err
	}
	return p.next.FetchSeasonStats(ctx, seasonID)
}

func (p *rateLimitedProvider) FetchGameSummaries(ctx context.Context) (season.Summaries, error) {
	if err := p.wait(ctx, "game_summaries"); err != nil {
		return season.Summaries{}, err
	}
	return p.next.FetchGameSummaries(ctx)
}

func (p *rateLimitedProvider) wait(ctx context.Context, op string) error {
	if p.next == nil {
		logWithProvider(ctx, p.logger, slog.LevelWarn, "rate-limited", "provider unavailable")
		return ErrProviderUnavailable
	}
	select {
	case <-ctx.Done():
		logWithProvider(ctx, p.logger, slog.LevelWarn, p.Name(), "rate-limited fetch canceled", "operation", op)
		return ctx.Err()
	case <-p.ticker.C:
	}
	logWithProvider(ctx, p.logger, slog.LevelDebug, p.Name(), "rate-limited provider fetch", "operation", op)
	return nil
}

// Close stops the underlying ticker.
func (p *rateLimitedProvider) Close() {
	if p.ticker != nil {
		p.ticker.Stop()
	}
}
