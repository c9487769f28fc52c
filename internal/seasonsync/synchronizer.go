// Package seasonsync refreshes the owned season state from the simulation backend.
//
// Each refresh fetches one payload, normalizes it and replaces exactly one part of
// the state at a single commit point. A failed refresh leaves its part untouched.
package seasonsync

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/singleflight"

	"github.com/preston-bernstein/season-sync-service/internal/domain/calendar"
	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
	"github.com/preston-bernstein/season-sync-service/internal/domain/stats"
	"github.com/preston-bernstein/season-sync-service/internal/domain/world"
	"github.com/preston-bernstein/season-sync-service/internal/logging"
	"github.com/preston-bernstein/season-sync-service/internal/metrics"
	"github.com/preston-bernstein/season-sync-service/internal/providers"
	"github.com/preston-bernstein/season-sync-service/internal/schedule"
	"github.com/preston-bernstein/season-sync-service/internal/statlines"
	"github.com/preston-bernstein/season-sync-service/internal/worldstate"
)

// DefaultSeasonID is used for statline refreshes until a season payload declares one.
const DefaultSeasonID uint32 = 1

// StateWriter is the part of the state owner a synchronizer commits into.
type StateWriter interface {
	SetSeason(id uint32, current calendar.Date, view schedule.View)
	SetWorld(snap world.Snapshot)
	SetStatlines(seasonID uint32, lines map[uint64]stats.Statline)
	SetSummaries(summaries season.Summaries)
	SeasonID() uint32
}

// Options configures a Synchronizer. Zero values are usable.
type Options struct {
	Logger   *slog.Logger
	Metrics  *metrics.Recorder
	SeasonID uint32
}

// Synchronizer runs the refresh operations. Overlapping calls to the same
// operation share one fetch; distinct operations never wait on each other.
type Synchronizer struct {
	provider providers.SeasonProvider
	state    StateWriter
	logger   *slog.Logger
	metrics  *metrics.Recorder
	seasonID uint32
	flights  singleflight.Group

	flightMu sync.Mutex
	inflight map[string]*flight
}

// New builds a Synchronizer over a provider and a state owner.
func New(provider providers.SeasonProvider, state StateWriter, opts Options) *Synchronizer {
	seasonID := opts.SeasonID
	if seasonID == 0 {
		seasonID = DefaultSeasonID
	}
	return &Synchronizer{
		provider: provider,
		state:    state,
		logger:   opts.Logger,
		metrics:  opts.Metrics,
		seasonID: seasonID,
	}
}

// Refresh runs one named operation.
func (s *Synchronizer) Refresh(ctx context.Context, op Operation) error {
	switch op {
	case OpAll:
		return s.RefreshAll(ctx)
	case OpSchedule:
		return s.RefreshSchedule(ctx)
	case OpWorld:
		return s.RefreshWorldState(ctx)
	case OpStats:
		return s.RefreshSeasonStats(ctx, s.SeasonID())
	case OpSummaries:
		return s.RefreshGameSummaries(ctx)
	default:
		return fmt.Errorf("unknown refresh operation %q", op)
	}
}

// SeasonID is the id statline refreshes use: the last one a season payload
// declared, else the configured default.
func (s *Synchronizer) SeasonID() uint32 {
	if s.state != nil {
		if id := s.state.SeasonID(); id != 0 {
			return id
		}
	}
	return s.seasonID
}

// RefreshSchedule fetches the season and replaces the current date, season id and schedule view.
func (s *Synchronizer) RefreshSchedule(ctx context.Context) error {
	return s.run(ctx, OpSchedule, string(OpSchedule), func(ctx context.Context) (commitFunc, error) {
		payload, err := s.provider.FetchSeason(ctx)
		if err != nil {
			return nil, err
		}
		view := schedule.Build(schedule.Flatten(payload.Series))
		return func() []any {
			s.state.SetSeason(payload.ID, payload.CurrentDate, view)
			return []any{
				logging.FieldSeasonID, payload.ID,
				logging.FieldDateKey, payload.CurrentDate.Key(),
				logging.FieldCount, view.Total(),
				"dates", view.Len(),
			}
		}, nil
	})
}

// RefreshWorldState fetches and reconciles the world snapshot, then replaces it.
func (s *Synchronizer) RefreshWorldState(ctx context.Context) error {
	return s.run(ctx, OpWorld, string(OpWorld), func(ctx context.Context) (commitFunc, error) {
		blob, err := s.provider.FetchWorldState(ctx)
		if err != nil {
			return nil, err
		}
		snap, err := worldstate.DecodeAndReconcile(blob)
		if err != nil {
			return nil, err
		}
		return func() []any {
			s.state.SetWorld(snap)
			return []any{"combatants", len(snap.Combatants), "teams", len(snap.Teams)}
		}, nil
	})
}

// RefreshSeasonStats fetches and decodes every statline for a season. The mapping
// is replaced only when every entry decodes.
func (s *Synchronizer) RefreshSeasonStats(ctx context.Context, seasonID uint32) error {
	key := fmt.Sprintf("%s:%d", OpStats, seasonID)
	return s.run(ctx, OpStats, key, func(ctx context.Context) (commitFunc, error) {
		raw, err := s.provider.FetchSeasonStats(ctx, seasonID)
		if err != nil {
			return nil, err
		}
		lines, err := statlines.Aggregate(raw)
		if err != nil {
			return nil, fmt.Errorf("season %d: %w", seasonID, err)
		}
		return func() []any {
			s.state.SetStatlines(seasonID, lines)
			return []any{logging.FieldSeasonID, seasonID, logging.FieldCount, len(lines)}
		}, nil
	})
}

// RefreshGameSummaries fetches completed results and upcoming games, then replaces both.
func (s *Synchronizer) RefreshGameSummaries(ctx context.Context) error {
	return s.run(ctx, OpSummaries, string(OpSummaries), func(ctx context.Context) (commitFunc, error) {
		summaries, err := s.provider.FetchGameSummaries(ctx)
		if err != nil {
			return nil, err
		}
		return func() []any {
			s.state.SetSummaries(summaries)
			return []any{logging.FieldCount, len(summaries.Completed), "next", len(summaries.Next)}
		}, nil
	})
}

// RefreshAll runs every refresh concurrently. Each success is committed on its
// own; the returned error joins every failure.
func (s *Synchronizer) RefreshAll(ctx context.Context) error {
	seasonID := s.SeasonID()
	tasks := []func(context.Context) error{
		s.RefreshSchedule,
		s.RefreshWorldState,
		func(ctx context.Context) error { return s.RefreshSeasonStats(ctx, seasonID) },
		s.RefreshGameSummaries,
	}

	errs := make([]error, len(tasks))
	var g errgroup.Group
	for i, task := range tasks {
		i, task := i, task
		g.Go(func() error {
			errs[i] = task(ctx)
			return nil
		})
	}
	_ = g.Wait()
	return errors.Join(errs...)
}

// commitFunc applies a normalized payload to the state and returns log attributes.
type commitFunc func() []any

// flight is one in-progress fetch and the callers waiting on it. The fetch runs
// under its own context, which is canceled once every waiter has left.
type flight struct {
	ctx     context.Context
	cancel  context.CancelFunc
	waiters map[int]context.Context
	nextID  int
}

// liveErr returns nil while at least one waiter's context is still live,
// otherwise the first waiter context error.
func (f *flight) liveErr() error {
	var first error
	for _, ctx := range f.waiters {
		err := ctx.Err()
		if err == nil {
			return nil
		}
		if first == nil {
			first = err
		}
	}
	if first != nil {
		return first
	}
	if err := f.ctx.Err(); err != nil {
		return err
	}
	return context.Canceled
}

// run executes fetch at most once per key at a time; concurrent callers with the
// same key wait for and share the in-flight result. A caller whose context ends
// returns early without affecting the others. The commit is skipped when the
// fetch failed or no waiter is left to receive it.
func (s *Synchronizer) run(ctx context.Context, op Operation, key string, fetch func(context.Context) (commitFunc, error)) error {
	if s.provider == nil || s.state == nil {
		return providers.ErrProviderUnavailable
	}

	s.flightMu.Lock()
	f, ok := s.inflight[key]
	// An abandoned flight is already canceled; new callers start their own.
	if !ok || f.ctx.Err() != nil {
		fctx, cancel := context.WithCancel(context.WithoutCancel(ctx))
		f = &flight{ctx: fctx, cancel: cancel, waiters: make(map[int]context.Context)}
		if s.inflight == nil {
			s.inflight = make(map[string]*flight)
		}
		s.inflight[key] = f
		s.flights.Forget(key)
	}
	id := f.nextID
	f.nextID++
	f.waiters[id] = ctx
	ch := s.flights.DoChan(key, func() (any, error) {
		return nil, s.fly(op, key, f, fetch)
	})
	s.flightMu.Unlock()

	select {
	case <-ctx.Done():
		s.leave(f, id)
		return ctx.Err()
	case res := <-ch:
		s.leave(f, id)
		return res.Err
	}
}

func (s *Synchronizer) leave(f *flight, id int) {
	s.flightMu.Lock()
	defer s.flightMu.Unlock()
	delete(f.waiters, id)
	if len(f.waiters) == 0 {
		f.cancel()
	}
}

func (s *Synchronizer) fly(op Operation, key string, f *flight, fetch func(context.Context) (commitFunc, error)) error {
	defer f.cancel()
	start := time.Now()
	logger := logging.FromContext(f.ctx, s.logger)

	commit, err := fetch(f.ctx)

	s.flightMu.Lock()
	if s.inflight[key] == f {
		delete(s.inflight, key)
	}
	if err == nil {
		err = f.liveErr()
	}
	s.flightMu.Unlock()

	var attrs []any
	if err == nil {
		attrs = commit()
	}
	elapsed := time.Since(start)
	s.metrics.RecordRefresh(string(op), elapsed, err)

	attrs = append(attrs, logging.FieldOperation, string(op), logging.FieldDurationMS, elapsed.Milliseconds())
	if err != nil {
		logging.Error(logger, "season refresh failed", err, attrs...)
		return fmt.Errorf("refresh %s: %w", op, err)
	}
	logging.Info(logger, "season refresh committed", attrs...)
	return nil
}
