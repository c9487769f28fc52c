package season

import "github.com/preston-bernstein/season-sync-service/internal/domain/calendar"

// SeriesType mirrors the backend's series lifecycle rule.
type SeriesType string

const (
	SeriesNormal  SeriesType = "NORMAL"
	SeriesFirstTo SeriesType = "FIRST_TO"
)

// GameInstance is a scheduled contest that may or may not have been played yet.
type GameInstance struct {
	GameID           uint64        `json:"gameId"`
	HomeTeamID       uint64        `json:"homeTeamId"`
	AwayTeamID       uint64        `json:"awayTeamId"`
	ArenaID          uint64        `json:"arenaId"`
	Date             calendar.Date `json:"date"`
	UTCScheduledTime int64         `json:"utcScheduledTime,omitempty"`
}

// Series groups game instances played under one series rule.
type Series struct {
	Games   []GameInstance `json:"games"`
	Type    SeriesType     `json:"seriesType"`
	FirstTo int            `json:"seriesTypePayload,omitempty"`
}

// Season is the normalized season payload.
type Season struct {
	ID          uint32        `json:"seasonId"`
	CurrentDate calendar.Date `json:"currentDate"`
	Series      []Series      `json:"allSeries"`
}

// Games flattens every series into one list, preserving series then game order.
func (s Season) Games() []GameInstance {
	total := 0
	for _, series := range s.Series {
		total += len(series.Games)
	}
	games := make([]GameInstance, 0, total)
	for _, series := range s.Series {
		games = append(games, series.Games...)
	}
	return games
}

// GameSummary is the result record for one game. Scores are nil until the game is played.
type GameSummary struct {
	GameID         uint64        `json:"gameId"`
	AwayTeamName   string        `json:"awayTeamName"`
	HomeTeamName   string        `json:"homeTeamName"`
	AwayTeamScore  *uint32       `json:"awayTeamScore,omitempty"`
	HomeTeamScore  *uint32       `json:"homeTeamScore,omitempty"`
	Date           calendar.Date `json:"date"`
	HomeTeamRecord string        `json:"homeTeamRecord,omitempty"`
	AwayTeamRecord string        `json:"awayTeamRecord,omitempty"`
}

// Completed reports whether both scores are known.
func (g GameSummary) Completed() bool {
	return g.AwayTeamScore != nil && g.HomeTeamScore != nil
}

// Summaries is the normalized game results payload.
type Summaries struct {
	Completed []GameSummary `json:"gameSummaries"`
	Next      []GameSummary `json:"nextGames"`
}
