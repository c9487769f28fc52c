package store

import (
	"sort"
	"sync"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/season-sync-service/internal/domain/calendar"
	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
	"github.com/preston-bernstein/season-sync-service/internal/domain/stats"
	"github.com/preston-bernstein/season-sync-service/internal/domain/world"
	"github.com/preston-bernstein/season-sync-service/internal/schedule"
)

// Field names one independently replaced part of the synchronized state.
type Field string

const (
	FieldSchedule  Field = "schedule"
	FieldWorld     Field = "world"
	FieldStatlines Field = "statlines"
	FieldSummaries Field = "summaries"
)

// Change is published to subscribers after a field is replaced.
type Change struct {
	Field Field     `json:"field"`
	At    time.Time `json:"at"`
}

// State is a point-in-time copy of everything the store holds.
type State struct {
	SeasonID          uint32                        `json:"seasonId"`
	CurrentDate       calendar.Date                 `json:"currentDate"`
	Schedule          schedule.View                 `json:"schedule"`
	World             world.Snapshot                `json:"world"`
	StatlinesSeasonID uint32                        `json:"statlinesSeasonId"`
	Statlines         map[uint64]stats.Statline     `json:"statlines"`
	Games             map[uint64]season.GameSummary `json:"games"`
	NextGames         []season.GameSummary          `json:"nextGames"`
}

// SeasonStore owns the synchronized season state. Each setter replaces its field
// wholesale; readers never observe a half-applied refresh.
type SeasonStore struct {
	clock clock.Clock

	mu                sync.RWMutex
	seasonID          uint32
	currentDate       calendar.Date
	schedule          schedule.View
	world             world.Snapshot
	statlinesSeasonID uint32
	statlines         map[uint64]stats.Statline
	games             map[uint64]season.GameSummary
	nextGames         []season.GameSummary
	updated           map[Field]time.Time

	subMu  sync.Mutex
	subs   map[int]chan Change
	nextID int
	closed bool
}

// NewSeasonStore constructs an empty store. A nil clock uses wall time.
func NewSeasonStore(clk clock.Clock) *SeasonStore {
	if clk == nil {
		clk = clock.New()
	}
	return &SeasonStore{
		clock:     clk,
		schedule:  schedule.Build(nil),
		world:     world.NewSnapshot(),
		statlines: make(map[uint64]stats.Statline),
		games:     make(map[uint64]season.GameSummary),
		updated:   make(map[Field]time.Time),
		subs:      make(map[int]chan Change),
	}
}

// SetSeason replaces the season id, current date and schedule view together.
func (s *SeasonStore) SetSeason(id uint32, current calendar.Date, view schedule.View) {
	s.commit(FieldSchedule, func() {
		s.seasonID = id
		s.currentDate = current
		s.schedule = view
	})
}

// SetWorld replaces the world snapshot.
func (s *SeasonStore) SetWorld(snap world.Snapshot) {
	if snap.Combatants == nil {
		snap.Combatants = make(map[uint64]world.Combatant)
	}
	if snap.Teams == nil {
		snap.Teams = make(map[uint64]world.Team)
	}
	s.commit(FieldWorld, func() {
		s.world = snap
	})
}

// SetStatlines replaces the statline mapping for a season.
func (s *SeasonStore) SetStatlines(seasonID uint32, lines map[uint64]stats.Statline) {
	copied := make(map[uint64]stats.Statline, len(lines))
	for id, line := range lines {
		copied[id] = line
	}
	s.commit(FieldStatlines, func() {
		s.statlinesSeasonID = seasonID
		s.statlines = copied
	})
}

// SetSummaries replaces the id-keyed game results and the upcoming games list.
func (s *SeasonStore) SetSummaries(summaries season.Summaries) {
	games := make(map[uint64]season.GameSummary, len(summaries.Completed))
	for _, g := range summaries.Completed {
		games[g.GameID] = g
	}
	next := append([]season.GameSummary(nil), summaries.Next...)
	s.commit(FieldSummaries, func() {
		s.games = games
		s.nextGames = next
	})
}

func (s *SeasonStore) commit(field Field, apply func()) {
	now := s.clock.Now().UTC()

	s.mu.Lock()
	apply()
	s.updated[field] = now
	s.mu.Unlock()

	s.publish(Change{Field: field, At: now})
}

// SeasonID returns the season id declared by the last season payload.
func (s *SeasonStore) SeasonID() uint32 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.seasonID
}

// CurrentDate returns the simulation's current date.
func (s *SeasonStore) CurrentDate() calendar.Date {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.currentDate
}

// Schedule returns the current schedule view. Views are never mutated after commit.
func (s *SeasonStore) Schedule() schedule.View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.schedule
}

// World returns the current world snapshot. Callers must not modify the maps.
func (s *SeasonStore) World() world.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.world
}

// Combatant returns a combatant by id.
func (s *SeasonStore) Combatant(id uint64) (world.Combatant, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.world.Combatants[id]
	return c, ok
}

// Team returns a team by id.
func (s *SeasonStore) Team(id uint64) (world.Team, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.world.Teams[id]
	return t, ok
}

// Statlines returns a copy of the statline mapping.
func (s *SeasonStore) Statlines() map[uint64]stats.Statline {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(map[uint64]stats.Statline, len(s.statlines))
	for id, line := range s.statlines {
		out[id] = line
	}
	return out
}

// Statline returns one combatant's statline.
func (s *SeasonStore) Statline(id uint64) (stats.Statline, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	line, ok := s.statlines[id]
	return line, ok
}

// Game returns a game summary by id.
func (s *SeasonStore) Game(id uint64) (season.GameSummary, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.games[id]
	return g, ok
}

// Games returns a copy of the completed game summaries ordered by game id.
func (s *SeasonStore) Games() []season.GameSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]season.GameSummary, 0, len(s.games))
	for _, g := range s.games {
		out = append(out, g)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].GameID < out[j].GameID })
	return out
}

// NextGames returns a copy of the upcoming games list.
func (s *SeasonStore) NextGames() []season.GameSummary {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]season.GameSummary(nil), s.nextGames...)
}

// UpdatedAt reports when a field was last replaced.
func (s *SeasonStore) UpdatedAt(field Field) (time.Time, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	at, ok := s.updated[field]
	return at, ok
}

// Snapshot returns a copy of the whole state.
func (s *SeasonStore) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()

	lines := make(map[uint64]stats.Statline, len(s.statlines))
	for id, line := range s.statlines {
		lines[id] = line
	}
	games := make(map[uint64]season.GameSummary, len(s.games))
	for id, g := range s.games {
		games[id] = g
	}
	return State{
		SeasonID:          s.seasonID,
		CurrentDate:       s.currentDate,
		Schedule:          s.schedule,
		World:             s.world,
		StatlinesSeasonID: s.statlinesSeasonID,
		Statlines:         lines,
		Games:             games,
		NextGames:         append([]season.GameSummary(nil), s.nextGames...),
	}
}
