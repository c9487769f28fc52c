package providers

import (
	"context"
	"errors"

	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
)

// ErrProviderUnavailable is returned when a wrapper has no upstream to call.
var ErrProviderUnavailable = errors.New("provider unavailable")

// SeasonProvider fetches the simulation backend's season, world and stats payloads.
// Implementations only perform transport and envelope decoding; blob fields are
// returned undecoded so normalization stays in one place.
type SeasonProvider interface {
	// FetchSeason returns the season id, current date and every series.
	FetchSeason(ctx context.Context) (season.Season, error)
	// FetchWorldState returns the world state blob (UTF-8 JSON bytes).
	FetchWorldState(ctx context.Context) ([]byte, error)
	// FetchSeasonStats returns the per-combatant statline blobs keyed by id text.
	FetchSeasonStats(ctx context.Context, seasonID uint32) (map[string][]byte, error)
	// FetchGameSummaries returns completed game results and the upcoming games.
	FetchGameSummaries(ctx context.Context) (season.Summaries, error)
}

// Named is implemented by providers that report a stable name for logs and metrics.
type Named interface {
	Name() string
}

// NameOf returns the provider's name, or fallback when it does not report one.
func NameOf(p SeasonProvider, fallback string) string {
	if n, ok := p.(Named); ok && n.Name() != "" {
		return n.Name()
	}
	return fallback
}
