package snapshots

import (
	"testing"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/season-sync-service/internal/domain/calendar"
	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
	"github.com/preston-bernstein/season-sync-service/internal/domain/stats"
	"github.com/preston-bernstein/season-sync-service/internal/domain/world"
	"github.com/preston-bernstein/season-sync-service/internal/schedule"
	"github.com/preston-bernstein/season-sync-service/internal/store"
)

func fixedClock() *clock.Mock {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC))
	return mock
}

func newTestWriter(t *testing.T, retention int) *Writer {
	t.Helper()
	w, err := NewWriter(t.TempDir(), retention, fixedClock())
	if err != nil {
		t.Fatalf("failed to create writer: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

func newTestStore(t *testing.T, basePath string) *FSStore {
	t.Helper()
	s, err := NewFSStore(basePath)
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(s.Close)
	return s
}

func sampleState(date calendar.Date) store.State {
	home, away := uint32(3), uint32(1)
	snap := world.NewSnapshot()
	snap.Combatants[7] = world.Combatant{ID: 7, Name: "Ada"}
	snap.Teams[2] = world.Team{ID: 2, Name: "Reds", Combatants: []uint64{7}}
	return store.State{
		SeasonID:    1,
		CurrentDate: date,
		Schedule: schedule.Build([]season.GameInstance{
			{GameID: 10, HomeTeamID: 2, AwayTeamID: 3, Date: date},
		}),
		World:             snap,
		StatlinesSeasonID: 1,
		Statlines:         map[uint64]stats.Statline{7: {Points: 4, Throws: 2, Hits: 1}},
		Games: map[uint64]season.GameSummary{
			10: {GameID: 10, HomeTeamName: "Reds", HomeTeamScore: &home, AwayTeamScore: &away},
		},
		NextGames: []season.GameSummary{{GameID: 11}},
	}
}

func writeState(t *testing.T, w *Writer, date calendar.Date) {
	t.Helper()
	if err := w.Write(NewDocument(sampleState(date))); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", date, err)
	}
}
