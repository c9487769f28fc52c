package testutil

import (
	"testing"

	"github.com/preston-bernstein/season-sync-service/internal/snapshots"
	"github.com/preston-bernstein/season-sync-service/internal/store"
)

// NewTempWriter returns a snapshot writer rooted in a temp dir.
func NewTempWriter(t *testing.T, retention int) *snapshots.Writer {
	t.Helper()
	w, err := snapshots.NewWriter(t.TempDir(), retention, nil)
	if err != nil {
		t.Fatalf("failed to create snapshot writer: %v", err)
	}
	t.Cleanup(func() { _ = w.Close() })
	return w
}

// WriteSnapshot persists the store's current state.
func WriteSnapshot(t *testing.T, w *snapshots.Writer, st *store.SeasonStore) string {
	t.Helper()
	doc := snapshots.NewDocument(st.Snapshot())
	if err := w.Write(doc); err != nil {
		t.Fatalf("failed to write snapshot %s: %v", doc.Key, err)
	}
	return snapshots.SeasonSnapshotPath(w.BasePath(), doc.Key)
}
