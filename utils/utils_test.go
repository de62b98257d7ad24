package utils

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Circuit Breaker Tests

func TestCircuitBreaker_NewCircuitBreaker(t *testing.T) {
	cb := NewCircuitBreaker("momo")

	assert.Equal(t, "momo", cb.name)
	assert.Equal(t, uint32(20), cb.maxRequests)
	assert.Equal(t, 30*time.Second, cb.interval)
	assert.Equal(t, 30*time.Second, cb.timeout)
	assert.Equal(t, 0.6, cb.failureRatio)
	assert.Equal(t, StateClosed, cb.state)
}

func TestCircuitBreaker_ExecuteSuccess(t *testing.T) {
	cb := NewCircuitBreaker("momo")
	ctx := context.Background()

	result, err := cb.Execute(ctx, func() (any, error) {
		return "ok", nil
	})

	assert.NoError(t, err)
	assert.Equal(t, "ok", result)
	assert.Equal(t, StateClosed, cb.state)
	assert.Equal(t, uint32(1), cb.counts.Requests)
	assert.Equal(t, uint32(1), cb.counts.TotalSuccesses)
	assert.Equal(t, uint32(0), cb.counts.TotalFailures)
}

func TestCircuitBreaker_ExecuteFailure(t *testing.T) {
	cb := NewCircuitBreaker("momo")
	ctx := context.Background()

	expectedError := errors.New("provider down")
	result, err := cb.Execute(ctx, func() (any, error) {
		return nil, expectedError
	})

	assert.Error(t, err)
	assert.Equal(t, expectedError, err)
	assert.Nil(t, result)
	assert.Equal(t, uint32(1), cb.counts.TotalFailures)
}

func TestCircuitBreaker_OpensAfterFailureRatio(t *testing.T) {
	cb := NewCircuitBreaker("momo")
	cb.maxRequests = 5 // lower threshold for the test

	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := cb.Execute(ctx, func() (any, error) {
			return "ok", nil
		})
		assert.NoError(t, err)
	}

	for i := 0; i < 4; i++ {
		cb.Execute(ctx, func() (any, error) {
			return nil, errors.New("failure")
		})
	}

	assert.Equal(t, StateOpen, cb.state)

	_, err := cb.Execute(ctx, func() (any, error) {
		return "should not run", nil
	})
	assert.ErrorIs(t, err, ErrBreakerOpen)
}

// Random code tests

func TestGenerateCode(t *testing.T) {
	code, err := GenerateCode(8)
	require.NoError(t, err)
	assert.Len(t, code, 16) // hex encoding doubles the byte count

	other, err := GenerateCode(8)
	require.NoError(t, err)
	assert.NotEqual(t, code, other)
}

// Token hash tests

func TestHashToken_RoundTrip(t *testing.T) {
	hash, err := HashToken("secret-token")
	require.NoError(t, err)

	assert.True(t, CompareToken(hash, "secret-token"))
	assert.False(t, CompareToken(hash, "wrong-token"))
}
