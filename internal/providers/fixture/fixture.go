// Package fixture serves a small, deterministic season for local runs and tests.
// The world state uses the array-encoded collections the backend emits.
package fixture

import (
	"context"
	"embed"
	"fmt"
	"sort"

	"github.com/goccy/go-json"

	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
)

//go:embed data/*.json
var data embed.FS

const providerName = "fixture"

// Provider returns embedded payloads without any network access.
type Provider struct {
	season    season.Season
	world     []byte
	stats     map[string][]byte
	summaries season.Summaries
}

// New loads the embedded payloads. It panics only if the embedded files are malformed.
func New() *Provider {
	p, err := load()
	if err != nil {
		panic(fmt.Sprintf("fixture: %v", err))
	}
	return p
}

func load() (*Provider, error) {
	p := &Provider{}

	if err := readJSON("data/season.json", &p.season); err != nil {
		return nil, err
	}

	world, err := data.ReadFile("data/world_state.json")
	if err != nil {
		return nil, err
	}
	p.world = world

	var rawStats map[string]json.RawMessage
	if err := readJSON("data/season_stats.json", &rawStats); err != nil {
		return nil, err
	}
	p.stats = make(map[string][]byte, len(rawStats))
	for key, blob := range rawStats {
		p.stats[key] = []byte(blob)
	}

	if err := readJSON("data/game_summaries.json", &p.summaries); err != nil {
		return nil, err
	}
	return p, nil
}

func readJSON(name string, v any) error {
	raw, err := data.ReadFile(name)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

func (p *Provider) Name() string {
	return providerName
}

// FetchSeason returns the embedded season.
func (p *Provider) FetchSeason(ctx context.Context) (season.Season, error) {
	if err := ctx.Err(); err != nil {
		return season.Season{}, err
	}
	out := p.season
	out.Series = make([]season.Series, len(p.season.Series))
	for i, s := range p.season.Series {
		s.Games = append([]season.GameInstance(nil), s.Games...)
		out.Series[i] = s
	}
	return out, nil
}

// FetchWorldState returns the embedded world blob.
func (p *Provider) FetchWorldState(ctx context.Context) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return append([]byte(nil), p.world...), nil
}

// FetchSeasonStats returns the embedded statlines for season 1 and nothing for any other season.
func (p *Provider) FetchSeasonStats(ctx context.Context, seasonID uint32) (map[string][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	out := make(map[string][]byte)
	if seasonID != p.season.ID {
		return out, nil
	}
	for key, blob := range p.stats {
		out[key] = append([]byte(nil), blob...)
	}
	return out, nil
}

// FetchGameSummaries returns the embedded results.
func (p *Provider) FetchGameSummaries(ctx context.Context) (season.Summaries, error) {
	if err := ctx.Err(); err != nil {
		return season.Summaries{}, err
	}
	return season.Summaries{
		Completed: append([]season.GameSummary(nil), p.summaries.Completed...),
		Next:      append([]season.GameSummary(nil), p.summaries.Next...),
	}, nil
}

// StatKeys returns the embedded statline keys in sorted order.
func (p *Provider) StatKeys() []string {
	keys := make([]string, 0, len(p.stats))
	for k := range p.stats {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
