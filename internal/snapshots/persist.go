package snapshots

import (
	"context"
	"errors"
	"log/slog"

	"github.com/preston-bernstein/season-sync-service/internal/logging"
	"github.com/preston-bernstein/season-sync-service/internal/store"
)

// StateSource supplies the state to persist.
type StateSource interface {
	Snapshot() store.State
}

// Persister writes the current store state after each refresh cycle.
type Persister struct {
	source StateSource
	writer *Writer
	logger *slog.Logger
}

// NewPersister wires a state source to a writer.
func NewPersister(source StateSource, writer *Writer, logger *slog.Logger) *Persister {
	return &Persister{source: source, writer: writer, logger: logger}
}

// Persist writes a snapshot of the source. Nothing is written before the first
// season payload has set a current date.
func (p *Persister) Persist(ctx context.Context) error {
	if p == nil || p.writer == nil || p.source == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	state := p.source.Snapshot()
	if state.CurrentDate.IsZero() {
		logging.Debug(p.logger, "snapshot skipped, season not synchronized yet")
		return nil
	}
	doc := NewDocument(state)
	if err := p.writer.Write(doc); err != nil {
		return err
	}
	logging.Debug(p.logger, "snapshot written", logging.FieldDateKey, doc.Key)
	return nil
}

// Restore loads the newest snapshot into target. It reports false when no snapshot exists.
func Restore(loader Store, target Restorer, logger *slog.Logger) (bool, error) {
	if loader == nil || target == nil {
		return false, nil
	}
	doc, err := loader.Latest()
	if errors.Is(err, ErrNoSnapshots) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	doc.Apply(target)
	logging.Info(logger, "state restored from snapshot",
		logging.FieldDateKey, doc.Key,
		logging.FieldSeasonID, doc.State.SeasonID,
	)
	return true, nil
}
