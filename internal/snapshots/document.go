package snapshots

import (
	"encoding/json"
	"fmt"
	"sort"

	"github.com/preston-bernstein/season-sync-service/internal/domain/calendar"
	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
	"github.com/preston-bernstein/season-sync-service/internal/domain/stats"
	"github.com/preston-bernstein/season-sync-service/internal/domain/world"
	"github.com/preston-bernstein/season-sync-service/internal/schedule"
	"github.com/preston-bernstein/season-sync-service/internal/store"
	"github.com/preston-bernstein/season-sync-service/internal/worldstate"
)

// Document is the persisted form of the store state.
type Document struct {
	Key   string      `json:"key"`
	State store.State `json:"state"`
}

// NewDocument wraps a store state under its current date key.
func NewDocument(state store.State) Document {
	return Document{Key: state.CurrentDate.Key(), State: state}
}

// decodeDocument parses a snapshot and re-keys its world through the reconciler,
// so snapshots written by older encoders load in canonical form.
func decodeDocument(data []byte) (Document, error) {
	var envelope struct {
		Key   string          `json:"key"`
		State json.RawMessage `json:"state"`
	}
	if err := json.Unmarshal(data, &envelope); err != nil {
		return Document{}, err
	}

	var worldOnly struct {
		World json.RawMessage `json:"world"`
	}
	if err := json.Unmarshal(envelope.State, &worldOnly); err != nil {
		return Document{}, err
	}
	snap, err := worldstate.Reconcile(worldOnly.World)
	if err != nil {
		return Document{}, fmt.Errorf("snapshot %s world: %w", envelope.Key, err)
	}

	// The outer World field shadows the embedded one, so the world is skipped here.
	var state store.State
	if err := json.Unmarshal(envelope.State, &struct {
		*store.State
		World json.RawMessage `json:"world"`
	}{State: &state}); err != nil {
		return Document{}, err
	}
	state.World = snap
	return Document{Key: envelope.Key, State: state}, nil
}

// Restorer receives a persisted state on startup.
type Restorer interface {
	SetSeason(id uint32, current calendar.Date, view schedule.View)
	SetWorld(snap world.Snapshot)
	SetStatlines(seasonID uint32, lines map[uint64]stats.Statline)
	SetSummaries(summaries season.Summaries)
}

// Apply replays the document into r one field at a time.
func (d Document) Apply(r Restorer) {
	s := d.State
	r.SetSeason(s.SeasonID, s.CurrentDate, s.Schedule)
	r.SetWorld(s.World)
	r.SetStatlines(s.StatlinesSeasonID, s.Statlines)

	completed := make([]season.GameSummary, 0, len(s.Games))
	for _, g := range s.Games {
		completed = append(completed, g)
	}
	sort.Slice(completed, func(i, j int) bool { return completed[i].GameID < completed[j].GameID })
	r.SetSummaries(season.Summaries{Completed: completed, Next: s.NextGames})
}
