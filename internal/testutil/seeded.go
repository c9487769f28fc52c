package testutil

import (
	"context"
	"testing"

	"github.com/preston-bernstein/season-sync-service/internal/app/season"
	"github.com/preston-bernstein/season-sync-service/internal/providers/fixture"
	"github.com/preston-bernstein/season-sync-service/internal/seasonsync"
	"github.com/preston-bernstein/season-sync-service/internal/store"
)

// NewSeededStore returns a store populated from the embedded fixture payloads.
func NewSeededStore(t *testing.T) *store.SeasonStore {
	t.Helper()
	st := store.NewSeasonStore(nil)
	sync := seasonsync.New(fixture.New(), st, seasonsync.Options{})
	if err := sync.RefreshAll(context.Background()); err != nil {
		t.Fatalf("failed to seed store: %v", err)
	}
	return st
}

// NewSeededService returns a read-model service over a seeded store.
func NewSeededService(t *testing.T) (*season.Service, *store.SeasonStore) {
	t.Helper()
	st := NewSeededStore(t)
	return season.NewService(st), st
}

// NewEmptyService returns a read-model service over a store that has never been refreshed.
func NewEmptyService() (*season.Service, *store.SeasonStore) {
	st := store.NewSeasonStore(nil)
	return season.NewService(st), st
}
