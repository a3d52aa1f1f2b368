package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSemaphore_BoundsConcurrency(t *testing.T) {
	sem := NewSemaphore(2)
	ctx := context.Background()

	require.NoError(t, sem.Acquire(ctx))
	require.NoError(t, sem.Acquire(ctx))

	acquired := make(chan struct{})
	go func() {
		_ = sem.Acquire(ctx)
		close(acquired)
	}()

	select {
	case <-acquired:
		t.Fatal("third acquire should have blocked while two permits are held")
	case <-time.After(50 * time.Millisecond):
	}

	sem.Release()
	select {
	case <-acquired:
	case <-time.After(time.Second):
		t.Fatal("third acquire should have proceeded after a release")
	}
}

func TestSemaphore_AcquireRespectsContextCancellation(t *testing.T) {
	sem := NewSemaphore(1)
	require.NoError(t, sem.Acquire(context.Background()))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := sem.Acquire(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRetry_RetriesOnlyRetriableKinds(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, func(ctx context.Context, attempt int) error {
		attempts++
		return NewError(KindInvalidInput, "not retriable", nil)
	})

	require.Error(t, err)
	assert.Equal(t, 1, attempts, "non-retriable errors must not be reattempted")
}

func TestRetry_ExhaustsAttemptsOnPersistentTransientFailure(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, func(ctx context.Context, attempt int) error {
		attempts++
		return NewError(KindTransient, "flaky", nil)
	})

	require.Error(t, err)
	assert.Equal(t, 3, attempts)
}

func TestRetry_SucceedsAfterTransientFailures(t *testing.T) {
	attempts := 0
	err := Retry(context.Background(), RetryPolicy{MaxAttempts: 3, BaseDelay: time.Millisecond}, func(ctx context.Context, attempt int) error {
		attempts++
		if attempts < 2 {
			return NewError(KindProviderFault, "transient provider hiccup", errors.New("503"))
		}
		return nil
	})

	require.NoError(t, err)
	assert.Equal(t, 2, attempts)
}
