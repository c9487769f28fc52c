package providers

import (
	"context"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"github.com/preston-bernstein/season-sync-service/internal/domain/season"
	"github.com/preston-bernstein/season-sync-service/internal/metrics"
)

const (
	defaultRetryAttempts = 3
	defaultBackoff       = 200 * time.Millisecond
)

type backoffFunc func(attempt int) time.Duration

// retryingProvider wraps a SeasonProvider with retry/backoff behavior. Only
// errors for which Retryable is true are retried.
type retryingProvider struct {
	inner        SeasonProvider
	logger       *slog.Logger
	metrics      *metrics.Recorder
	providerName string
	maxAttempts  int
	backoffFn    backoffFunc

	rngMu sync.Mutex
	rng   *rand.Rand
}

// NewRetryingProvider wraps the given provider with retries. If maxAttempts/backoff are <= 0, defaults are used.
func NewRetryingProvider(inner SeasonProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, maxAttempts int, backoff time.Duration) SeasonProvider {
	return NewRetryingProviderWithRNG(inner, logger, recorder, name, nil, maxAttempts, backoff)
}

// NewRetryingProviderWithRNG is NewRetryingProvider with an explicit jitter source.
func NewRetryingProviderWithRNG(inner SeasonProvider, logger *slog.Logger, recorder *metrics.Recorder, name string, rng *rand.Rand, maxAttempts int, backoff time.Duration) SeasonProvider {
	if maxAttempts <= 0 {
		maxAttempts = defaultRetryAttempts
	}
	if backoff <= 0 {
		backoff = defaultBackoff
	}
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	if name == "" {
		name = NameOf(inner, "provider")
	}
	return &retryingProvider{
		inner:        inner,
		logger:       logger,
		metrics:      recorder,
		providerName: name,
		maxAttempts:  maxAttempts,
		backoffFn: func(attempt int) time.Duration {
			return time.Duration(attempt) * backoff
		},
		rng: rng,
	}
}

func (r *retryingProvider) Name() string {
	return r.providerName
}

func (r *retryingProvider) FetchSeason(ctx context.Context) (season.Season, error) {
	return withRetry(ctx, r, "season", func(ctx context.Context) (season.Season, error) {
		return r.inner.FetchSeason(ctx)
	})
}

func (r *retryingProvider) FetchWorldState(ctx context.Context) ([]byte, error) {
	return withRetry(ctx, r, "world_state", func(ctx context.Context) ([]byte, error) {
		return r.inner.FetchWorldState(ctx)
	})
}

func (r *retryingProvider) FetchSeasonStats(ctx context.Context, seasonID uint32) (map[string][]byte, error) {
	return withRetry(ctx, r, "season_stats", func(ctx context.Context) (map[string][]byte, error) {
		return r.inner.FetchSeasonStats(ctx, seasonID)
	})
}

func (r *retryingProvider) FetchGameSummaries(ctx context.Context) (season.Summaries, error) {
	return withRetry(ctx, r, "game_summaries", func(ctx context.Context) (season.Summaries, error) {
		return r.inner.FetchGameSummaries(ctx)
	})
}

func withRetry[T any](ctx context.Context, r *retryingProvider, op string, call func(context.Context) (T, error)) (T, error) {
	var zero T
	if r.inner == nil {
		return zero, ErrProviderUnavailable
	}

	var lastErr error
	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		start := time.Now()
		out, err := call(ctx)
		r.metrics.RecordProviderAttempt(r.providerName, time.Since(start), err)
		if err == nil {
			return out, nil
		}
		lastErr = err

		if rlErr, ok := AsRateLimitError(err); ok {
			r.metrics.RecordRateLimit(r.providerName, rlErr.RetryAfter)
		}
		if !Retryable(err) || attempt == r.maxAttempts {
			break
		}

		delay := r.computeDelay(err, attempt)
		logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch retry",
			"operation", op, "attempt", attempt, "max_attempts", r.maxAttempts, "delay_ms", delay.Milliseconds(), "err", err)

		timer := time.NewTimer(delay)
		select {
		case <-ctx.Done():
			timer.Stop()
			return zero, ctx.Err()
		case <-timer.C:
		}
	}

	logWithProvider(ctx, r.logger, slog.LevelWarn, r.providerName, "provider fetch failed", "operation", op, "err", lastErr)
	return zero, lastErr
}

// computeDelay honors Retry-After for rate limits and otherwise applies the
// backoff with jitter in [base/2, base].
func (r *retryingProvider) computeDelay(err error, attempt int) time.Duration {
	if rlErr, ok := AsRateLimitError(err); ok && rlErr.RetryAfter > 0 {
		return rlErr.RetryAfter
	}
	base := r.backoffFn(attempt)
	if base <= 0 {
		return 0
	}
	half := base / 2
	r.rngMu.Lock()
	jitter := time.Duration(r.rng.Int63n(int64(half) + 1))
	r.rngMu.Unlock()
	return half + jitter
}
