package momo

import (
	"context"
	"errors"
	"testing"
	"time"

	"adhouse/internal/status"
	"adhouse/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedChecker struct {
	statuses []models.PaymentStatus
	err      error
	calls    int
}

func (c *scriptedChecker) CheckStatus(_ context.Context, referenceID string) (*models.PaymentStatusResult, error) {
	if c.err != nil {
		return nil, c.err
	}

	idx := c.calls
	if idx >= len(c.statuses) {
		idx = len(c.statuses) - 1
	}
	c.calls++

	return &models.PaymentStatusResult{
		ReferenceID: referenceID,
		Status:      c.statuses[idx],
	}, nil
}

// immediateClock records requested delays and fires instantly.
func immediateClock(delays *[]time.Duration) func(time.Duration) <-chan time.Time {
	return func(d time.Duration) <-chan time.Time {
		*delays = append(*delays, d)
		ch := make(chan time.Time, 1)
		ch <- time.Now()
		return ch
	}
}

func TestStatusPoller_StopsOnTerminalStatus(t *testing.T) {
	checker := &scriptedChecker{statuses: []models.PaymentStatus{
		models.PaymentPending,
		models.PaymentPending,
		models.PaymentSuccessful,
	}}

	var delays []time.Duration
	poller := NewStatusPoller(checker, 3*time.Second, 10)
	poller.after = immediateClock(&delays)

	result, err := poller.Poll(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentSuccessful, result.Status)
	assert.Equal(t, 3, checker.calls)
}

func TestStatusPoller_BackoffGrowsAndCaps(t *testing.T) {
	checker := &scriptedChecker{statuses: []models.PaymentStatus{models.PaymentPending}}

	var delays []time.Duration
	poller := NewStatusPoller(checker, time.Second, 7)
	poller.after = immediateClock(&delays)

	_, err := poller.Poll(context.Background(), "ref-1")
	assert.ErrorIs(t, err, status.ErrPollExhausted)

	// 6 waits between 7 attempts: 1s, 2s, 4s, then capped at 8s.
	require.Len(t, delays, 6)
	assert.Equal(t, []time.Duration{
		1 * time.Second,
		2 * time.Second,
		4 * time.Second,
		8 * time.Second,
		8 * time.Second,
		8 * time.Second,
	}, delays)
}

func TestStatusPoller_ExhaustionIsBounded(t *testing.T) {
	checker := &scriptedChecker{statuses: []models.PaymentStatus{models.PaymentPending}}

	var delays []time.Duration
	poller := NewStatusPoller(checker, time.Second, 3)
	poller.after = immediateClock(&delays)

	_, err := poller.Poll(context.Background(), "ref-1")
	assert.ErrorIs(t, err, status.ErrPollExhausted)
	assert.Equal(t, 3, checker.calls)
}

func TestStatusPoller_FailedStatusIsTerminal(t *testing.T) {
	checker := &scriptedChecker{statuses: []models.PaymentStatus{
		models.PaymentPending,
		models.PaymentFailed,
	}}

	var delays []time.Duration
	poller := NewStatusPoller(checker, time.Second, 10)
	poller.after = immediateClock(&delays)

	result, err := poller.Poll(context.Background(), "ref-1")
	require.NoError(t, err)
	assert.Equal(t, models.PaymentFailed, result.Status)
	assert.Equal(t, 2, checker.calls)
}

func TestStatusPoller_CheckerErrorPropagates(t *testing.T) {
	providerErr := errors.New("provider down")
	checker := &scriptedChecker{err: providerErr}

	poller := NewStatusPoller(checker, time.Second, 10)

	_, err := poller.Poll(context.Background(), "ref-1")
	assert.ErrorIs(t, err, providerErr)
}

func TestStatusPoller_ContextCancelStopsLoop(t *testing.T) {
	checker := &scriptedChecker{statuses: []models.PaymentStatus{models.PaymentPending}}

	poller := NewStatusPoller(checker, time.Second, 10)
	// never fires; cancellation must win the select
	poller.after = func(time.Duration) <-chan time.Time {
		return make(chan time.Time)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := poller.Poll(ctx, "ref-1")
	assert.ErrorIs(t, err, context.Canceled)
}
