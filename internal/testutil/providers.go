package testutil

import (
	"context"

	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
	"github.com/preston-bernstein/season-sync-service/internal/providers"
)

// ErrProvider fails every fetch with Err.
type ErrProvider struct {
	Err error
}

func (p ErrProvider) FetchSeason(ctx context.Context) (season.Season, error) {
	return season.Season{}, p.Err
}

func (p ErrProvider) FetchWorldState(ctx context.Context) ([]byte, error) {
	return nil, p.Err
}

func (p ErrProvider) FetchSeasonStats(ctx context.Context, seasonID uint32) (map[string][]byte, error) {
	return nil, p.Err
}

func (p ErrProvider) FetchGameSummaries(ctx context.Context) (season.Summaries, error) {
	return season.Summaries{}, p.Err
}

// UnavailableProvider fails every fetch with ErrProviderUnavailable.
func UnavailableProvider() ErrProvider {
	return ErrProvider{Err: providers.ErrProviderUnavailable}
}
