package engine

import (
	"context"
	"errors"
	"math"
	"math/rand"
	"time"
)

// Semaphore is a bounded counting primitive. Acquire blocks until a permit
// is free or the context is cancelled; Release is always safe to call on
// every exit path.
type Semaphore struct {
	permits chan struct{}
}

// NewSemaphore creates a semaphore with n permits. n must be positive.
func NewSemaphore(n int) *Semaphore {
	if n <= 0 {
		n = 1
	}
	return &Semaphore{permits: make(chan struct{}, n)}
}

// Acquire blocks until a permit is available or ctx is done.
func (s *Semaphore) Acquire(ctx context.Context) error {
	select {
	case s.permits <- struct{}{}:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Release returns a permit to the pool.
func (s *Semaphore) Release() {
	select {
	case <-s.permits:
	default:
	}
}

// RetryPolicy configures the exponential-backoff retry envelope.
type RetryPolicy struct {
	MaxAttempts int           // M, typical 3
	BaseDelay   time.Duration // b, seconds in b*2^(k-1)
	Jitter      bool
}

// DefaultRetryPolicy uses a typical 3 attempts.
func DefaultRetryPolicy() RetryPolicy {
	return RetryPolicy{MaxAttempts: 3, BaseDelay: time.Second, Jitter: true}
}

// Retry invokes fn up to p.MaxAttempts times, backing off exponentially
// between attempts. Only errors whose Kind is Retriable() are reattempted;
// any other error (or a context cancellation) propagates immediately. If
// every attempt is exhausted, the last error is returned.
func Retry(ctx context.Context, p RetryPolicy, fn func(ctx context.Context, attempt int) error) error {
	if p.MaxAttempts <= 0 {
		p.MaxAttempts = 1
	}

	var lastErr error
	for attempt := 1; attempt <= p.MaxAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}

		err := fn(ctx, attempt)
		if err == nil {
			return nil
		}
		lastErr = err

		var engErr *Error
		if !errors.As(err, &engErr) || !engErr.Kind.Retriable() {
			return err
		}
		if attempt == p.MaxAttempts {
			break
		}

		delay := backoffDelay(p, attempt)
		timer := time.NewTimer(delay)
		select {
		case <-timer.C:
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		}
	}

	return lastErr
}

func backoffDelay(p RetryPolicy, attempt int) time.Duration {
	base := p.BaseDelay
	if base <= 0 {
		base = time.Second
	}
	delay := time.Duration(float64(base) * math.Pow(2, float64(attempt-1)))
	if p.Jitter {
		jitter := time.Duration(rand.Int63n(int64(delay) / 2))
		delay += jitter
	}
	return delay
}
