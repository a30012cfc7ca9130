package scraper

import (
	"context"
	"crypto/rand"
	"errors"
	"math"
	"math/big"
	"time"
)

// permanentError marks a failure that retrying cannot fix (404, 403, 401).
type permanentError struct {
	err error
}

func (e *permanentError) Error() string { return e.err.Error() }
func (e *permanentError) Unwrap() error { return e.err }

// Permanent wraps err so RetryWithBackoff gives up immediately.
func Permanent(err error) error {
	if err == nil {
		return nil
	}
	return &permanentError{err: err}
}

// RetryWithBackoff retries fn with exponential backoff and jitter.
// maxRetries counts retries after the first attempt (0 = try once).
//
// Backoff formula: delay = initialDelay * 2^attempt ± 25% jitter
// With initialDelay=2s and maxRetries=3:
//
//	attempt 0: immediate
//	attempt 1: ~2s (1.5s - 2.5s)
//	attempt 2: ~4s (3s - 5s)
//	attempt 3: ~8s (6s - 10s)
func RetryWithBackoff(ctx context.Context, maxRetries int, initialDelay time.Duration, fn func() error) error {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		err := fn()
		if err == nil {
			return nil
		}
		lastErr = err

		var permErr *permanentError
		if errors.As(err, &permErr) {
			return permErr.Unwrap()
		}

		if attempt == maxRetries {
			break
		}

		if err := Sleep(ctx, backoff(initialDelay, attempt)); err != nil {
			return err
		}
	}

	return lastErr
}

func backoff(initialDelay time.Duration, attempt int) time.Duration {
	delay := time.Duration(float64(initialDelay) * math.Pow(2, float64(attempt)))

	halfDelay := int64(delay) / 2
	if halfDelay <= 0 {
		halfDelay = 1
	}
	jitterBig, err := rand.Int(rand.Reader, big.NewInt(halfDelay))
	if err != nil {
		jitterBig = big.NewInt(0)
	}
	return delay - delay/4 + time.Duration(jitterBig.Int64())
}

// Sleep waits for the specified duration, respecting context cancellation
func Sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
