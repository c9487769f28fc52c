// Package worldstate normalizes the backend's world snapshot into an id-keyed form.
//
// The backend serializes the combatant and team collections as arrays whose
// positions have nothing to do with entity ids, while other encoders emit maps.
// Every payload is reconciled so callers only ever see the canonical shape.
package worldstate

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"

	"github.com/preston-bernstein/season-sync-service/internal/domain/world"
	"github.com/preston-bernstein/season-sync-service/internal/payload"
)

// ErrMissingEntityID is returned when an entity record has no id field.
var ErrMissingEntityID = errors.New("entity record missing id")

type collectionKind int

const (
	kindAbsent collectionKind = iota
	kindSequence
	kindMapping
)

func (k collectionKind) String() string {
	switch k {
	case kindSequence:
		return "sequence"
	case kindMapping:
		return "mapping"
	default:
		return "absent"
	}
}

// element is one raw entity record plus where it came from (index or key), for errors.
type element struct {
	origin string
	raw    json.RawMessage
}

// collection is a wire collection after its shape has been identified.
type collection struct {
	kind     collectionKind
	elements []element
}

type rawWorld struct {
	Combatants json.RawMessage `json:"combatants"`
	Teams      json.RawMessage `json:"teams"`
}

type idProbe struct {
	ID *uint64 `json:"id"`
}

// DecodeAndReconcile decodes a UTF-8 JSON world blob and reconciles it.
func DecodeAndReconcile(blob []byte) (world.Snapshot, error) {
	if err := payload.ValidateUTF8(blob); err != nil {
		return world.Snapshot{}, err
	}
	if !gojson.Valid(blob) {
		return world.Snapshot{}, &payload.ParseError{Err: errors.New("world state is not valid json")}
	}
	return Reconcile(blob)
}

// Reconcile converts a decoded world value into the canonical id-keyed snapshot.
// Each entity is keyed by its own id; positions and pre-existing keys are discarded.
func Reconcile(raw json.RawMessage) (world.Snapshot, error) {
	var doc rawWorld
	if err := gojson.Unmarshal(raw, &doc); err != nil {
		return world.Snapshot{}, &payload.ParseError{Err: fmt.Errorf("world state: %w", err)}
	}

	combatants, err := reconcileCollection("combatants", doc.Combatants, func(c *world.Combatant, id uint64) { c.ID = id })
	if err != nil {
		return world.Snapshot{}, err
	}
	teams, err := reconcileCollection("teams", doc.Teams, func(t *world.Team, id uint64) { t.ID = id })
	if err != nil {
		return world.Snapshot{}, err
	}
	return world.Snapshot{Combatants: combatants, Teams: teams}, nil
}

func reconcileCollection[T any](name string, raw json.RawMessage, setID func(*T, uint64)) (map[uint64]T, error) {
	coll, err := classify(name, raw)
	if err != nil {
		return nil, err
	}
	out := make(map[uint64]T, len(coll.elements))
	for _, el := range coll.elements {
		var probe idProbe
		if err := gojson.Unmarshal(el.raw, &probe); err != nil {
			return nil, &payload.ParseError{Err: fmt.Errorf("%s[%s]: %w", name, el.origin, err)}
		}
		if probe.ID == nil {
			return nil, fmt.Errorf("%w: %s[%s]", ErrMissingEntityID, name, el.origin)
		}
		var entity T
		if err := gojson.Unmarshal(el.raw, &entity); err != nil {
			return nil, &payload.ParseError{Err: fmt.Errorf("%s[%s]: %w", name, el.origin, err)}
		}
		setID(&entity, *probe.ID)
		// Duplicate ids resolve to the last record visited.
		out[*probe.ID] = entity
	}
	return out, nil
}

// classify identifies whether a collection arrived as a sequence or a mapping.
func classify(name string, raw json.RawMessage) (collection, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return collection{kind: kindAbsent}, nil
	}

	switch trimmed[0] {
	case '[':
		var items []json.RawMessage
		if err := gojson.Unmarshal(trimmed, &items); err != nil {
			return collection{}, &payload.ParseError{Err: fmt.Errorf("%s: %w", name, err)}
		}
		elements := make([]element, len(items))
		for i, item := range items {
			elements[i] = element{origin: strconv.Itoa(i), raw: item}
		}
		return collection{kind: kindSequence, elements: elements}, nil
	case '{':
		var items map[string]json.RawMessage
		if err := gojson.Unmarshal(trimmed, &items); err != nil {
			return collection{}, &payload.ParseError{Err: fmt.Errorf("%s: %w", name, err)}
		}
		keys := make([]string, 0, len(items))
		for k := range items {
			keys = append(keys, k)
		}
		sort.Slice(keys, func(i, j int) bool { return keyLess(keys[i], keys[j]) })
		elements := make([]element, len(keys))
		for i, k := range keys {
			elements[i] = element{origin: strconv.Quote(k), raw: items[k]}
		}
		return collection{kind: kindMapping, elements: elements}, nil
	default:
		return collection{}, &payload.ParseError{Err: fmt.Errorf("%s: expected array or object, got %.16s", name, trimmed)}
	}
}

// keyLess orders numeric keys numerically, ahead of any non-numeric keys.
func keyLess(a, b string) bool {
	na, errA := strconv.ParseUint(a, 10, 64)
	nb, errB := strconv.ParseUint(b, 10, 64)
	switch {
	case errA == nil && errB == nil:
		return na < nb
	case errA == nil:
		return true
	case errB == nil:
		return false
	default:
		return a < b
	}
}
