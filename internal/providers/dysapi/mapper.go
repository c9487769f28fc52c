package dysapi

import (
	"bytes"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/preston-bernstein/season-sync-service/internal/domain/calendar"
	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
	"github.com/preston-bernstein/season-sync-service/internal/payload"
)

func mapDate(d dateResponse) calendar.Date {
	return calendar.New(d.Year, d.Month, d.Day)
}

func mapGameInstance(g gameInstanceResponse) season.GameInstance {
	return season.GameInstance{
		GameID:           uint64(g.GameID),
		HomeTeamID:       uint64(g.HomeTeamID),
		AwayTeamID:       uint64(g.AwayTeamID),
		ArenaID:          uint64(g.ArenaID),
		Date:             mapDate(g.Date),
		UTCScheduledTime: int64(g.UTCScheduledTime),
	}
}

func mapSeason(resp seasonResponse) (season.Season, error) {
	if uint64(resp.SeasonID) > math.MaxUint32 {
		return season.Season{}, fmt.Errorf("season id %d out of range", resp.SeasonID)
	}
	out := season.Season{
		ID:          uint32(resp.SeasonID),
		CurrentDate: mapDate(resp.CurrentDate),
		Series:      make([]season.Series, 0, len(resp.AllSeries)),
	}
	for i, s := range resp.AllSeries {
		seriesType, err := mapSeriesType(s.SeriesType)
		if err != nil {
			return season.Season{}, fmt.Errorf("allSeries[%d]: %w", i, err)
		}
		games := make([]season.GameInstance, 0, len(s.Games))
		for _, g := range s.Games {
			games = append(games, mapGameInstance(g))
		}
		out.Series = append(out.Series, season.Series{
			Games:   games,
			Type:    seriesType,
			FirstTo: int(s.SeriesTypePayload),
		})
	}
	return out, nil
}

// mapSeriesType accepts the enum name or its proto number. A missing value is NORMAL.
func mapSeriesType(raw []byte) (season.SeriesType, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return season.SeriesNormal, nil
	}
	text := strings.Trim(string(raw), `"`)
	if n, err := strconv.Atoi(text); err == nil {
		switch n {
		case 0:
			return season.SeriesNormal, nil
		case 1:
			return season.SeriesFirstTo, nil
		}
		return "", fmt.Errorf("unknown series type %d", n)
	}
	switch t := season.SeriesType(strings.ToUpper(text)); t {
	case season.SeriesNormal, season.SeriesFirstTo:
		return t, nil
	default:
		return "", fmt.Errorf("unknown series type %q", text)
	}
}

func mapGameSummary(g gameSummaryResponse) (season.GameSummary, error) {
	away, err := mapScore("awayTeamScore", g.AwayTeamScore)
	if err != nil {
		return season.GameSummary{}, err
	}
	home, err := mapScore("homeTeamScore", g.HomeTeamScore)
	if err != nil {
		return season.GameSummary{}, err
	}
	return season.GameSummary{
		GameID:         uint64(g.GameID),
		AwayTeamName:   g.AwayTeamName,
		HomeTeamName:   g.HomeTeamName,
		AwayTeamScore:  away,
		HomeTeamScore:  home,
		Date:           mapDate(g.Date),
		HomeTeamRecord: g.HomeTeamRecord,
		AwayTeamRecord: g.AwayTeamRecord,
	}, nil
}

func mapScore(field string, score *payload.Uint64) (*uint32, error) {
	if score == nil {
		return nil, nil
	}
	if uint64(*score) > math.MaxUint32 {
		return nil, fmt.Errorf("%s %d out of range", field, uint64(*score))
	}
	v := uint32(*score)
	return &v, nil
}

func mapSummaries(resp gameSummariesResponse) (season.Summaries, error) {
	out := season.Summaries{
		Completed: make([]season.GameSummary, 0, len(resp.GameSummaries)),
		Next:      make([]season.GameSummary, 0, len(resp.NextGames)),
	}
	for i, g := range resp.GameSummaries {
		summary, err := mapGameSummary(g)
		if err != nil {
			return season.Summaries{}, fmt.Errorf("gameSummaries[%d]: %w", i, err)
		}
		out.Completed = append(out.Completed, summary)
	}
	for i, g := range resp.NextGames {
		summary, err := mapGameSummary(g)
		if err != nil {
			return season.Summaries{}, fmt.Errorf("nextGames[%d]: %w", i, err)
		}
		out.Next = append(out.Next, summary)
	}
	return out, nil
}

func mapStatlines(resp seasonStatsResponse) map[string][]byte {
	out := make(map[string][]byte, len(resp.CombatantStatlines))
	for key, blob := range resp.CombatantStatlines {
		out[key] = []byte(blob)
	}
	return out
}
