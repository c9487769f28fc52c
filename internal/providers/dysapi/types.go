package dysapi

import (
	"encoding/json"

	"github.com/preston-bernstein/season-sync-service/internal/payload"
)

type dateResponse struct {
	Year  int `json:"year"`
	Month int `json:"month"`
	Day   int `json:"day"`
}

type gameInstanceResponse struct {
	GameID           payload.Uint64 `json:"gameId"`
	HomeTeamID       payload.Uint64 `json:"homeTeamId"`
	AwayTeamID       payload.Uint64 `json:"awayTeamId"`
	ArenaID          payload.Uint64 `json:"arenaId"`
	Date             dateResponse   `json:"date"`
	UTCScheduledTime payload.Int64  `json:"utcScheduledTime"`
}

type seriesResponse struct {
	Games             []gameInstanceResponse `json:"games"`
	SeriesType        json.RawMessage        `json:"seriesType"`
	SeriesTypePayload payload.Int64          `json:"seriesTypePayload"`
}

type seasonResponse struct {
	SeasonID    payload.Uint64   `json:"seasonId"`
	CurrentDate dateResponse     `json:"currentDate"`
	AllSeries   []seriesResponse `json:"allSeries"`
}

type worldStateResponse struct {
	WorldStateJSON payload.Bytes `json:"worldStateJson"`
}

type seasonStatsResponse struct {
	CombatantStatlines map[string]payload.Bytes `json:"combatantStatlines"`
}

type gameSummaryResponse struct {
	GameID         payload.Uint64  `json:"gameId"`
	AwayTeamName   string          `json:"awayTeamName"`
	HomeTeamName   string          `json:"homeTeamName"`
	AwayTeamScore  *payload.Uint64 `json:"awayTeamScore"`
	HomeTeamScore  *payload.Uint64 `json:"homeTeamScore"`
	Date           dateResponse    `json:"date"`
	HomeTeamRecord string          `json:"homeTeamRecord"`
	AwayTeamRecord string          `json:"awayTeamRecord"`
}

type gameSummariesResponse struct {
	GameSummaries []gameSummaryResponse `json:"gameSummaries"`
	NextGames     []gameSummaryResponse `json:"nextGames"`
}
