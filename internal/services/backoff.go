package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/spotify-mcp/internal/shared"
	"github.com/jonboulle/clockwork"
	"golang.org/x/time/rate"
)

// Backoff paces outbound requests and retries idempotent calls that hit
// upstream throttling or transient server failures.
type Backoff struct {
	limiter     *rate.Limiter
	clock       clockwork.Clock
	logger      *log.Logger
	maxAttempts int
	base        time.Duration
	cap         time.Duration
}

// NewBackoff creates a Backoff from retry configuration.
func NewBackoff(cfg shared.RetryConfig, clock clockwork.Clock, logger *log.Logger) *Backoff {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if logger == nil {
		logger = shared.NewLogger(nil)
	}

	attempts := cfg.MaxAttempts
	if attempts < 1 {
		attempts = 1
	}

	rps := cfg.RequestsPerSecond
	if rps <= 0 {
		rps = 10
	}

	return &Backoff{
		limiter:     rate.NewLimiter(rate.Limit(rps), 1),
		clock:       clock,
		logger:      logger,
		maxAttempts: attempts,
		base:        cfg.BaseDelay(),
		cap:         cfg.MaxDelay(),
	}
}

// Do runs fn under the pacing limiter. Idempotent calls are retried on
// rate limiting and transient upstream failures, waiting out the
// upstream's Retry-After hint when one was given and otherwise backing
// off exponentially. Non-idempotent calls run exactly once. Other
// failures pass through untouched.
func (b *Backoff) Do(ctx context.Context, idempotent bool, fn func(context.Context) error) error {
	var lastErr error

	for attempt := 1; attempt <= b.maxAttempts; attempt++ {
		if err := b.limiter.Wait(ctx); err != nil {
			return err
		}

		err := fn(ctx)
		if err == nil {
			return nil
		}
		lastErr = err

		if !idempotent || !retryable(err) {
			return err
		}
		if attempt == b.maxAttempts {
			break
		}

		delay := b.delay(attempt, err)
		b.logger.Debug("upstream throttled, backing off",
			"attempt", attempt, "delay", delay, "error", err)

		select {
		case <-b.clock.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
	}

	return fmt.Errorf("giving up after %d attempts: %w", b.maxAttempts, lastErr)
}

// delay picks the wait before the next attempt: the upstream's
// Retry-After hint when present, otherwise base doubled per attempt.
// Either way the cap bounds the wait.
func (b *Backoff) delay(attempt int, err error) time.Duration {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.RetryAfter > 0 {
		return min(apiErr.RetryAfter, b.cap)
	}

	delay := b.base << (attempt - 1)
	if delay <= 0 || delay > b.cap {
		return b.cap
	}
	return delay
}

func retryable(err error) bool {
	return errors.Is(err, shared.ErrRateLimited) || errors.Is(err, shared.ErrUpstreamUnavailable)
}
