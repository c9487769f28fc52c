// Package statlines decodes the per-combatant season statline blobs.
package statlines

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/preston-bernstein/season-sync-service/internal/domain/stats"
	"github.com/preston-bernstein/season-sync-service/internal/payload"
)

// ErrInvalidEntityKey marks a statline key that is not an unsigned integer id.
var ErrInvalidEntityKey = errors.New("invalid entity key")

// Decode turns one statline blob (UTF-8 JSON text) into a Statline.
func Decode(blob []byte) (stats.Statline, error) {
	var line stats.Statline
	if err := payload.DecodeJSON(blob, &line); err != nil {
		return stats.Statline{}, err
	}
	return line, nil
}

// KeyError ties a decode failure to the statline key it came from.
type KeyError struct {
	Key string
	Err error
}

func (e *KeyError) Error() string {
	return fmt.Sprintf("statline %q: %v", e.Key, e.Err)
}

func (e *KeyError) Unwrap() error {
	return e.Err
}

// AggregateError lists every entry that failed to decode. Failures are sorted by key.
type AggregateError struct {
	Failures []*KeyError
}

func (e *AggregateError) Error() string {
	parts := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		parts[i] = f.Error()
	}
	return fmt.Sprintf("%d statline(s) failed to decode: %s", len(e.Failures), strings.Join(parts, "; "))
}

// Unwrap exposes each failure so errors.Is and errors.As reach the underlying causes.
func (e *AggregateError) Unwrap() []error {
	errs := make([]error, len(e.Failures))
	for i, f := range e.Failures {
		errs[i] = f
	}
	return errs
}

// Keys returns the failed keys in order.
func (e *AggregateError) Keys() []string {
	keys := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		keys[i] = f.Key
	}
	return keys
}

// Aggregate decodes every entry independently. Entries that decode are always
// returned; when any entry fails the error is an *AggregateError naming them all.
func Aggregate(raw map[string][]byte) (map[uint64]stats.Statline, error) {
	out := make(map[uint64]stats.Statline, len(raw))
	var failures []*KeyError

	for key, blob := range raw {
		id, err := strconv.ParseUint(strings.TrimSpace(key), 10, 64)
		if err != nil {
			failures = append(failures, &KeyError{Key: key, Err: fmt.Errorf("%w: %v", ErrInvalidEntityKey, err)})
			continue
		}
		line, err := Decode(blob)
		if err != nil {
			failures = append(failures, &KeyError{Key: key, Err: err})
			continue
		}
		out[id] = line
	}

	if len(failures) > 0 {
		sort.Slice(failures, func(i, j int) bool { return failures[i].Key < failures[j].Key })
		return out, &AggregateError{Failures: failures}
	}
	return out, nil
}
