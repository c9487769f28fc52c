package teststubs

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
)

// StubProvider is a test double for providers.SeasonProvider.
// Nil payload fields produce empty but valid responses.
type StubProvider struct {
	Season    season.Season
	World     []byte
	Stats     map[string][]byte
	Summaries season.Summaries
	Err       error
	Calls     atomic.Int32
}

func (s *StubProvider) FetchSeason(ctx context.Context) (season.Season, error) {
	_ = ctx
	s.Calls.Add(1)
	return s.Season, s.Err
}

func (s *StubProvider) FetchWorldState(ctx context.Context) ([]byte, error) {
	_ = ctx
	s.Calls.Add(1)
	if s.World == nil {
		return []byte(`{"combatants":[],"teams":[]}`), s.Err
	}
	return s.World, s.Err
}

func (s *StubProvider) FetchSeasonStats(ctx context.Context, seasonID uint32) (map[string][]byte, error) {
	_ = ctx
	_ = seasonID
	s.Calls.Add(1)
	return s.Stats, s.Err
}

func (s *StubProvider) FetchGameSummaries(ctx context.Context) (season.Summaries, error) {
	_ = ctx
	s.Calls.Add(1)
	return s.Summaries, s.Err
}

// StubRefresher is a test double for poller.Refresher. Notify is closed on the first call.
type StubRefresher struct {
	mu     sync.Mutex
	Err    error
	Calls  atomic.Int32
	Notify chan struct{}
}

// RefreshAll returns the configured error while tracking calls.
func (s *StubRefresher) RefreshAll(ctx context.Context) error {
	_ = ctx
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Notify != nil {
		select {
		case <-s.Notify:
		default:
			close(s.Notify)
		}
	}
	s.Calls.Add(1)
	return s.Err
}

// SetErr changes the error returned by later calls.
func (s *StubRefresher) SetErr(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.Err = err
}

// StubSnapshotWriter is a test double for poller.SnapshotWriter.
type StubSnapshotWriter struct {
	Err   error
	Calls atomic.Int32
}

// Persist records the call and returns the configured error.
func (w *StubSnapshotWriter) Persist(ctx context.Context) error {
	_ = ctx
	w.Calls.Add(1)
	return w.Err
}
