package world

import (
	"encoding/json"
	"sort"
)

// Combatant is one simulated combatant. Limbs stay opaque; nothing here reads them.
type Combatant struct {
	ID    uint64          `json:"id"`
	Name  string          `json:"name"`
	Limbs json.RawMessage `json:"limbs,omitempty"`
}

// Team is a corporation fielding combatants, referenced by id.
type Team struct {
	ID         uint64   `json:"id"`
	Name       string   `json:"name"`
	Combatants []uint64 `json:"combatants,omitempty"`
}

// Snapshot is the canonical id-keyed world state.
type Snapshot struct {
	Combatants map[uint64]Combatant `json:"combatants"`
	Teams      map[uint64]Team      `json:"teams"`
}

// NewSnapshot returns an empty snapshot with initialized maps.
func NewSnapshot() Snapshot {
	return Snapshot{
		Combatants: make(map[uint64]Combatant),
		Teams:      make(map[uint64]Team),
	}
}

// CombatantIDs returns the combatant ids in ascending order.
func (s Snapshot) CombatantIDs() []uint64 {
	return sortedKeys(s.Combatants)
}

// TeamIDs returns the team ids in ascending order.
func (s Snapshot) TeamIDs() []uint64 {
	return sortedKeys(s.Teams)
}

// TeamOf returns the team whose roster lists the combatant.
func (s Snapshot) TeamOf(combatantID uint64) (Team, bool) {
	for _, id := range s.TeamIDs() {
		team := s.Teams[id]
		for _, cid := range team.Combatants {
			if cid == combatantID {
				return team, true
			}
		}
	}
	return Team{}, false
}

func sortedKeys[V any](m map[uint64]V) []uint64 {
	ids := make([]uint64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}
