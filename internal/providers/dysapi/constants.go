package dysapi

import "time"

const (
	providerName       = "dysapi"
	defaultBaseURL     = "http://localhost:8080"
	defaultHTTPTimeout = 10 * time.Second
	maxErrorBody       = 512
	maxPayloadBytes    = 64 << 20

	pathSeason        = "season"
	pathWorldState    = "world_state"
	pathSeasonStats   = "season_stats"
	pathGameSummaries = "game_results/summaries"
)
