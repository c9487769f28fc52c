package season

import (
	"errors"
	"sort"

	"github.com/preston-bernstein/season-sync-service/internal/domain/calendar"
	domainseason "github.com/preston-bernstein/season-sync-service/internal/domain/season"
	"github.com/preston-bernstein/season-sync-service/internal/domain/stats"
	"github.com/preston-bernstein/season-sync-service/internal/domain/world"
	"github.com/preston-bernstein/season-sync-service/internal/schedule"
)

// ErrNotFound is returned when a requested date, combatant, team or game is absent.
var ErrNotFound = errors.New("not found")

// Store is the read side of the synchronized state.
type Store interface {
	SeasonID() uint32
	CurrentDate() calendar.Date
	Schedule() schedule.View
	World() world.Snapshot
	Statlines() map[uint64]stats.Statline
	Game(id uint64) (domainseason.GameSummary, bool)
	Games() []domainseason.GameSummary
	NextGames() []domainseason.GameSummary
}

// Overview is the season header plus the full ordered schedule.
type Overview struct {
	SeasonID    uint32        `json:"seasonId"`
	CurrentDate calendar.Date `json:"currentDate"`
	Schedule    schedule.View `json:"schedule"`
}

// TeamRef names the team a combatant plays for.
type TeamRef struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// CombatantView is a combatant joined with its statline and team.
type CombatantView struct {
	ID       uint64          `json:"id"`
	Name     string          `json:"name"`
	Team     *TeamRef        `json:"team,omitempty"`
	Statline *stats.Statline `json:"statline,omitempty"`
	HitRate  float64         `json:"hitRate"`
}

// TeamView is a team with its roster resolved.
type TeamView struct {
	ID     uint64          `json:"id"`
	Name   string          `json:"name"`
	Roster []CombatantView `json:"roster"`
}

// Results holds completed games and the next games to be played.
type Results struct {
	Completed []domainseason.GameSummary `json:"completed"`
	Next      []domainseason.GameSummary `json:"next"`
}

// Service answers read-model queries over the synchronized state.
type Service struct {
	store Store
}

// NewService constructs a Service with the provided Store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Overview returns the season id, current date and schedule.
func (s *Service) Overview() Overview {
	return Overview{
		SeasonID:    s.store.SeasonID(),
		CurrentDate: s.store.CurrentDate(),
		Schedule:    s.store.Schedule(),
	}
}

// Today returns the bucket for the current date; a date with no games yields an empty bucket.
func (s *Service) Today() schedule.Bucket {
	current := s.store.CurrentDate()
	if b, ok := s.store.Schedule().Bucket(current.Key()); ok {
		return b
	}
	return schedule.Bucket{Key: current.Key(), Date: current, Games: []domainseason.GameInstance{}}
}

// Date returns the bucket for a date key. Keys are normalized, so "2024-01-05" finds "2024-1-5".
func (s *Service) Date(key string) (schedule.Bucket, error) {
	date, err := calendar.ParseKey(key)
	if err != nil {
		return schedule.Bucket{}, err
	}
	b, ok := s.store.Schedule().Bucket(date.Key())
	if !ok {
		return schedule.Bucket{}, ErrNotFound
	}
	return b, nil
}

// Upcoming returns up to limit buckets on or after the current date. limit <= 0 means all.
func (s *Service) Upcoming(limit int) []schedule.Bucket {
	buckets := s.store.Schedule().Upcoming(s.store.CurrentDate())
	if limit > 0 && len(buckets) > limit {
		buckets = buckets[:limit]
	}
	return buckets
}

// Combatants returns every combatant, ordered by id.
func (s *Service) Combatants() []CombatantView {
	snap := s.store.World()
	lines := s.store.Statlines()
	teams := rosterIndex(snap)

	out := make([]CombatantView, 0, len(snap.Combatants))
	for _, id := range snap.CombatantIDs() {
		out = append(out, combatantView(snap.Combatants[id], teams, lines))
	}
	return out
}

// Combatant returns one combatant joined with its statline and team.
func (s *Service) Combatant(id uint64) (CombatantView, error) {
	snap := s.store.World()
	c, ok := snap.Combatants[id]
	if !ok {
		return CombatantView{}, ErrNotFound
	}
	return combatantView(c, rosterIndex(snap), s.store.Statlines()), nil
}

// Teams returns every team with its roster, ordered by id.
func (s *Service) Teams() []TeamView {
	snap := s.store.World()
	lines := s.store.Statlines()
	teams := rosterIndex(snap)

	out := make([]TeamView, 0, len(snap.Teams))
	for _, id := range snap.TeamIDs() {
		out = append(out, teamView(snap, snap.Teams[id], teams, lines))
	}
	return out
}

// Team returns one team with its roster.
func (s *Service) Team(id uint64) (TeamView, error) {
	snap := s.store.World()
	t, ok := snap.Teams[id]
	if !ok {
		return TeamView{}, ErrNotFound
	}
	return teamView(snap, t, rosterIndex(snap), s.store.Statlines()), nil
}

// Statlines returns the statline mapping.
func (s *Service) Statlines() map[uint64]stats.Statline {
	return s.store.Statlines()
}

// Game returns a game summary by id.
func (s *Service) Game(id uint64) (domainseason.GameSummary, error) {
	g, ok := s.store.Game(id)
	if !ok {
		return domainseason.GameSummary{}, ErrNotFound
	}
	return g, nil
}

// Results returns completed games ordered by date then id, and the next games.
func (s *Service) Results() Results {
	completed := s.store.Games()
	sort.SliceStable(completed, func(i, j int) bool {
		return calendar.Compare(completed[i].Date, completed[j].Date) < 0
	})
	next := s.store.NextGames()
	if next == nil {
		next = []domainseason.GameSummary{}
	}
	return Results{Completed: completed, Next: next}
}

// rosterIndex maps combatant id to the team listing it. The lowest team id wins
// when a combatant appears on more than one roster.
func rosterIndex(snap world.Snapshot) map[uint64]world.Team {
	index := make(map[uint64]world.Team)
	for _, teamID := range snap.TeamIDs() {
		team := snap.Teams[teamID]
		for _, cid := range team.Combatants {
			if _, taken := index[cid]; !taken {
				index[cid] = team
			}
		}
	}
	return index
}

func combatantView(c world.Combatant, teams map[uint64]world.Team, lines map[uint64]stats.Statline) CombatantView {
	view := CombatantView{ID: c.ID, Name: c.Name}
	if team, ok := teams[c.ID]; ok {
		view.Team = &TeamRef{ID: team.ID, Name: team.Name}
	}
	if line, ok := lines[c.ID]; ok {
		view.Statline = &line
		view.HitRate = line.HitRate()
	}
	return view
}

// teamView resolves roster ids; ids with no combatant record are skipped.
func teamView(snap world.Snapshot, t world.Team, teams map[uint64]world.Team, lines map[uint64]stats.Statline) TeamView {
	view := TeamView{ID: t.ID, Name: t.Name, Roster: make([]CombatantView, 0, len(t.Combatants))}
	for _, cid := range t.Combatants {
		c, ok := snap.Combatants[cid]
		if !ok {
			continue
		}
		view.Roster = append(view.Roster, combatantView(c, teams, lines))
	}
	return view
}
