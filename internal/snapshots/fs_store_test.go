package snapshots

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/preston-bernstein/season-sync-service/internal/domain/calendar"
)

func TestFSStoreLoadRoundTrip(t *testing.T) {
	w := newTestWriter(t, 10)
	date := calendar.New(2024, 1, 15)
	writeState(t, w, date)

	s := newTestStore(t, w.BasePath())
	doc, err := s.Load(date.Key())
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if doc.Key != "2024-1-15" || doc.State.SeasonID != 1 {
		t.Fatalf("unexpected document %+v", doc)
	}
	if got := doc.State.Schedule.Keys(); len(got) != 1 || got[0] != "2024-1-15" {
		t.Fatalf("expected schedule restored, got %v", got)
	}
	if doc.State.World.Combatants[7].Name != "Ada" {
		t.Fatalf("expected combatant 7 restored, got %+v", doc.State.World.Combatants)
	}
	if doc.State.Statlines[7].Points != 4 {
		t.Fatalf("expected statline restored, got %+v", doc.State.Statlines)
	}
	if g := doc.State.Games[10]; g.HomeTeamScore == nil || *g.HomeTeamScore != 3 {
		t.Fatalf("expected game 10 score restored, got %+v", g)
	}
}

func TestFSStoreLatest(t *testing.T) {
	w := newTestWriter(t, 30)
	writeState(t, w, calendar.New(2024, 1, 2))
	writeState(t, w, calendar.New(2024, 1, 12))

	doc, err := newTestStore(t, w.BasePath()).Latest()
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if doc.Key != "2024-1-12" {
		t.Fatalf("expected newest snapshot, got %s", doc.Key)
	}
}

func TestFSStoreLatestWithoutManifest(t *testing.T) {
	s := newTestStore(t, t.TempDir())
	if _, err := s.Latest(); !errors.Is(err, ErrNoSnapshots) {
		t.Fatalf("expected ErrNoSnapshots, got %v", err)
	}
}

func TestFSStoreLoadErrors(t *testing.T) {
	dir := t.TempDir()
	s := newTestStore(t, dir)

	if _, err := s.Load(""); err == nil {
		t.Fatalf("expected error for empty key")
	}
	if _, err := s.Load("2024-1-1"); !os.IsNotExist(err) {
		t.Fatalf("expected not-exist error, got %v", err)
	}

	path := SeasonSnapshotPath(dir, "2024-1-2")
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("not zstd"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if _, err := s.Load("2024-1-2"); err == nil {
		t.Fatalf("expected decode error for corrupt snapshot")
	}

	var nilStore *FSStore
	if _, err := nilStore.Load("2024-1-1"); err == nil {
		t.Fatalf("expected error from nil store")
	}
}

func TestDecodeDocumentReconcilesSequenceWorld(t *testing.T) {
	raw := []byte(`{"key":"2024-1-1","state":{"seasonId":1,"currentDate":{"year":2024,"month":1,"day":1},
		"schedule":[],"world":{"combatants":[{"id":9,"name":"Nine"}],"teams":[]}}}`)

	doc, err := decodeDocument(raw)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if doc.State.World.Combatants[9].Name != "Nine" {
		t.Fatalf("expected combatant keyed by id 9, got %+v", doc.State.World.Combatants)
	}
	if doc.State.SeasonID != 1 || doc.State.CurrentDate != calendar.New(2024, 1, 1) {
		t.Fatalf("expected scalar fields decoded, got %+v", doc.State)
	}
}
