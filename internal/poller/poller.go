package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/itbasis/go-clock"

	"github.com/preston-bernstein/season-sync-service/internal/logging"
	"github.com/preston-bernstein/season-sync-service/internal/metrics"
)

const (
	defaultInterval = 30 * time.Second
	readyFailures   = 3
)

// Refresher refreshes every part of the synchronized state.
type Refresher interface {
	RefreshAll(ctx context.Context) error
}

// SnapshotWriter persists the current state after a refresh cycle.
type SnapshotWriter interface {
	Persist(ctx context.Context) error
}

// Poller runs RefreshAll on an interval and persists a snapshot after each cycle.
type Poller struct {
	refresher Refresher
	writer    SnapshotWriter
	logger    *slog.Logger
	metrics   *metrics.Recorder
	interval  time.Duration
	clock     clock.Clock

	ticker   *time.Ticker
	done     chan struct{}
	stopOnce sync.Once
	startMu  sync.Mutex
	started  bool
	wg       sync.WaitGroup

	statusMu sync.RWMutex
	status   Status
}

// Status describes the recent health of the poller loop.
type Status struct {
	ConsecutiveFailures int       `json:"consecutiveFailures"`
	LastError           string    `json:"lastError,omitempty"`
	LastAttempt         time.Time `json:"lastAttempt"`
	LastSuccess         time.Time `json:"lastSuccess"`
}

// IsReady reports whether the poller has had a recent success and is not failing repeatedly.
func (s Status) IsReady() bool {
	if s.LastSuccess.IsZero() {
		return false
	}
	return s.ConsecutiveFailures < readyFailures
}

// New constructs a Poller. A nil clock uses wall time.
func New(refresher Refresher, writer SnapshotWriter, logger *slog.Logger, recorder *metrics.Recorder, interval time.Duration, clk clock.Clock) *Poller {
	if interval <= 0 {
		interval = defaultInterval
	}
	if clk == nil {
		clk = clock.New()
	}
	return &Poller{
		refresher: refresher,
		writer:    writer,
		logger:    logger,
		metrics:   recorder,
		interval:  interval,
		clock:     clk,
		done:      make(chan struct{}),
	}
}

// Start begins polling until the context is cancelled or Stop is called.
func (p *Poller) Start(ctx context.Context) {
	p.startMu.Lock()
	if p.started {
		p.startMu.Unlock()
		return
	}
	p.started = true
	p.ticker = time.NewTicker(p.interval)
	p.startMu.Unlock()

	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		defer p.stopTicker()

		logging.Info(p.logger, "poller started", logging.FieldDurationMS, p.interval.Milliseconds())
		// Warm the state on boot.
		p.refreshOnce(ctx)

		for {
			select {
			case <-ctx.Done():
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.done:
				logging.Info(p.logger, "poller stopped")
				return
			case <-p.ticker.C:
				p.refreshOnce(ctx)
			}
		}
	}()
}

// Stop halts the polling loop and waits for an in-progress cycle, bounded by ctx.
func (p *Poller) Stop(ctx context.Context) error {
	p.stopOnce.Do(func() {
		close(p.done)
	})

	finished := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(finished)
	}()
	select {
	case <-finished:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// RefreshNow runs one cycle synchronously and returns its error.
func (p *Poller) RefreshNow(ctx context.Context) error {
	return p.refreshOnce(ctx)
}

func (p *Poller) refreshOnce(ctx context.Context) error {
	start := time.Now()
	attemptAt := p.clock.Now().UTC()
	p.recordAttempt(attemptAt)

	err := p.refresher.RefreshAll(ctx)
	elapsed := time.Since(start)
	p.metrics.RecordPollerCycle(elapsed, err)

	// Successful parts are committed even when another part failed, so persist either way.
	if p.writer != nil {
		if writeErr := p.writer.Persist(ctx); writeErr != nil {
			logging.Error(p.logger, "poller snapshot write failed", writeErr)
		}
	}

	if err != nil {
		logging.Error(p.logger, "poller refresh failed", err, logging.FieldDurationMS, elapsed.Milliseconds())
		p.recordFailure(err, attemptAt)
		return err
	}
	p.recordSuccess(attemptAt)
	logging.Info(p.logger, "poller refreshed season state", logging.FieldDurationMS, elapsed.Milliseconds())
	return nil
}

func (p *Poller) stopTicker() {
	p.startMu.Lock()
	defer p.startMu.Unlock()
	if p.ticker != nil {
		p.ticker.Stop()
	}
}

func (p *Poller) recordAttempt(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.LastAttempt = at
}

func (p *Poller) recordSuccess(at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures = 0
	p.status.LastError = ""
	p.status.LastSuccess = at
}

func (p *Poller) recordFailure(err error, at time.Time) {
	p.statusMu.Lock()
	defer p.statusMu.Unlock()
	p.status.ConsecutiveFailures++
	if err != nil {
		p.status.LastError = err.Error()
	}
	p.status.LastAttempt = at
}

// Status returns a snapshot of the poller's recent health.
func (p *Poller) Status() Status {
	p.statusMu.RLock()
	defer p.statusMu.RUnlock()
	return p.status
}
