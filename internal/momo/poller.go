package momo

import (
	"context"
	"fmt"
	"time"

	"adhouse/internal/status"
	"adhouse/models"
)

// StatusChecker is the slice of the client the poller needs.
type StatusChecker interface {
	CheckStatus(ctx context.Context, referenceID string) (*models.PaymentStatusResult, error)
}

// StatusPoller repeatedly checks a payment by reference id until it reaches a
// terminal status or the attempts run out. The wait function is
// injectable so the loop can be driven without real timers in tests.
type StatusPoller struct {
	checker     StatusChecker
	interval    time.Duration
	maxBackoff  time.Duration
	maxAttempts int

	after func(time.Duration) <-chan time.Time
}

func NewStatusPoller(checker StatusChecker, interval time.Duration, maxAttempts int) *StatusPoller {
	return &StatusPoller{
		checker:     checker,
		interval:    interval,
		maxBackoff:  8 * interval,
		maxAttempts: maxAttempts,
		after:       time.After,
	}
}

// Poll blocks until the payment resolves, the context is cancelled, or
// maxAttempts checks have returned PENDING. Exhaustion surfaces as
// status.ErrPollExhausted, which callers record as ABANDONED; a transport or
// auth failure from the checker propagates immediately with no retry.
func (p *StatusPoller) Poll(ctx context.Context, referenceID string) (*models.PaymentStatusResult, error) {
	delay := p.interval

	for attempt := 1; attempt <= p.maxAttempts; attempt++ {
		result, err := p.checker.CheckStatus(ctx, referenceID)
		if err != nil {
			return nil, fmt.Errorf("poll: attempt %d: %w", attempt, err)
		}

		if result.Status.Terminal() {
			return result, nil
		}

		if attempt == p.maxAttempts {
			break
		}

		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-p.after(delay):
		}

		// backoff with a cap so late attempts do not drift too far apart
		if delay < p.maxBackoff {
			delay *= 2
			if delay > p.maxBackoff {
				delay = p.maxBackoff
			}
		}
	}

	return nil, status.ErrPollExhausted
}
