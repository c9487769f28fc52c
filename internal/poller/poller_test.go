package poller

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/season-sync-service/internal/teststubs"
)

func TestPollerRefreshesAndPersists(t *testing.T) {
	refresher := &teststubs.StubRefresher{Notify: make(chan struct{})}
	writer := &teststubs.StubSnapshotWriter{}

	p := New(refresher, writer, nil, nil, 10*time.Millisecond, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)

	select {
	case <-refresher.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial refresh")
	}

	time.Sleep(30 * time.Millisecond) // allow at least one ticker fire

	cancel()
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}

	if refresher.Calls.Load() < 1 {
		t.Fatalf("expected at least one refresh call")
	}
	if writer.Calls.Load() != refresher.Calls.Load() {
		t.Fatalf("expected a persist per cycle; refreshes=%d persists=%d", refresher.Calls.Load(), writer.Calls.Load())
	}
}

func TestPollerStopsOnContextCancel(t *testing.T) {
	refresher := &teststubs.StubRefresher{Notify: make(chan struct{})}

	p := New(refresher, &teststubs.StubSnapshotWriter{}, nil, nil, 5*time.Millisecond, nil)
	ctx, cancel := context.WithCancel(context.Background())

	p.Start(ctx)

	select {
	case <-refresher.Notify:
	case <-time.After(500 * time.Millisecond):
		t.Fatal("timed out waiting for initial refresh")
	}

	cancel()
	_ = p.Stop(context.Background())

	callsAfterStop := refresher.Calls.Load()
	time.Sleep(20 * time.Millisecond)
	if refresher.Calls.Load() != callsAfterStop {
		t.Fatalf("expected no additional refreshes after stop; before=%d after=%d", callsAfterStop, refresher.Calls.Load())
	}
}

func TestPollerStopIsIdempotent(t *testing.T) {
	p := New(&teststubs.StubRefresher{}, &teststubs.StubSnapshotWriter{}, nil, nil, time.Hour, nil)

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("first stop returned error: %v", err)
	}
	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("second stop returned error: %v", err)
	}
}

func TestPollerStartIsIdempotent(t *testing.T) {
	refresher := &teststubs.StubRefresher{}
	p := New(refresher, &teststubs.StubSnapshotWriter{}, nil, nil, time.Hour, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	p.Start(ctx)
	p.Start(ctx) // should no-op

	if err := p.Stop(context.Background()); err != nil {
		t.Fatalf("stop returned error: %v", err)
	}
	if refresher.Calls.Load() != 1 {
		t.Fatalf("expected a single warm-up refresh, got %d", refresher.Calls.Load())
	}
}

func TestPollerDefaultsIntervalAndClock(t *testing.T) {
	p := New(&teststubs.StubRefresher{}, nil, nil, nil, 0, nil)
	if p.interval != defaultInterval {
		t.Fatalf("expected default interval %s, got %s", defaultInterval, p.interval)
	}
	if p.clock == nil {
		t.Fatalf("expected default clock")
	}
}

func TestPollerStatusTracksFailuresAndSuccess(t *testing.T) {
	mock := clock.NewMock()
	mock.Set(time.Date(2024, 1, 15, 12, 0, 0, 0, time.UTC))

	refresher := &teststubs.StubRefresher{Err: errors.New("boom")}
	p := New(refresher, &teststubs.StubSnapshotWriter{}, nil, nil, time.Millisecond, mock)
	ctx := context.Background()

	if err := p.RefreshNow(ctx); err == nil {
		t.Fatalf("expected refresh error")
	}
	status := p.Status()
	if status.ConsecutiveFailures != 1 {
		t.Fatalf("expected 1 failure, got %d", status.ConsecutiveFailures)
	}
	if status.LastError == "" {
		t.Fatalf("expected last error recorded")
	}
	if !status.LastSuccess.IsZero() {
		t.Fatalf("expected no success recorded yet")
	}
	if !status.LastAttempt.Equal(mock.Now()) {
		t.Fatalf("expected attempt stamped from clock, got %v", status.LastAttempt)
	}
	if status.IsReady() {
		t.Fatalf("expected not ready after failure")
	}

	mock.Add(time.Minute)
	refresher.SetErr(nil)
	if err := p.RefreshNow(ctx); err != nil {
		t.Fatalf("expected refresh success, got %v", err)
	}
	status = p.Status()
	if status.ConsecutiveFailures != 0 {
		t.Fatalf("expected failures reset, got %d", status.ConsecutiveFailures)
	}
	if !status.LastSuccess.Equal(mock.Now()) {
		t.Fatalf("expected success at %v, got %v", mock.Now(), status.LastSuccess)
	}
	if !status.IsReady() {
		t.Fatalf("expected ready after success")
	}
}

func TestPollerNotReadyAfterRepeatedFailures(t *testing.T) {
	refresher := &teststubs.StubRefresher{}
	p := New(refresher, nil, nil, nil, time.Minute, nil)
	_ = p.RefreshNow(context.Background())

	refresher.SetErr(errors.New("down"))
	for i := 0; i < readyFailures; i++ {
		_ = p.RefreshNow(context.Background())
	}
	if p.Status().IsReady() {
		t.Fatalf("expected not ready after %d failures", readyFailures)
	}
}

func TestPollerPersistsAfterPartialFailure(t *testing.T) {
	refresher := &teststubs.StubRefresher{Err: errors.New("stats failed")}
	writer := &teststubs.StubSnapshotWriter{}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	p := New(refresher, writer, logger, nil, time.Minute, nil)
	_ = p.RefreshNow(context.Background())

	if writer.Calls.Load() != 1 {
		t.Fatalf("expected persist after partial failure")
	}
}

func TestPollerNilWriterDoesNotPanic(t *testing.T) {
	p := New(&teststubs.StubRefresher{}, nil, nil, nil, time.Minute, nil)
	if err := p.RefreshNow(context.Background()); err != nil {
		t.Fatalf("expected nil error, got %v", err)
	}
}

func TestPollerWriteErrorLogsButContinues(t *testing.T) {
	writer := &teststubs.StubSnapshotWriter{Err: errors.New("write failed")}
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	p := New(&teststubs.StubRefresher{}, writer, logger, nil, time.Minute, nil)
	_ = p.RefreshNow(context.Background())

	if p.Status().ConsecutiveFailures != 0 {
		t.Fatalf("expected success despite write error")
	}
}

func TestPollerStopHonorsDeadline(t *testing.T) {
	p := New(&teststubs.StubRefresher{}, nil, nil, nil, time.Hour, nil)
	p.wg.Add(1)
	defer p.wg.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	if err := p.Stop(ctx); !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("expected deadline exceeded, got %v", err)
	}
}

func BenchmarkPollerRefreshOnce(b *testing.B) {
	p := New(&teststubs.StubRefresher{}, &teststubs.StubSnapshotWriter{}, nil, nil, time.Second, nil)
	ctx := context.Background()

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = p.RefreshNow(ctx)
	}
}
