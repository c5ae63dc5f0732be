package statestore

import (
	"context"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// ConnectBackOff is the retry policy the store backends use while connecting:
// exponential delays starting at interval, at most attempts retries, stopping early
// when ctx is done.
func ConnectBackOff(ctx context.Context, attempts int, interval time.Duration) backoff.BackOff {
	eb := backoff.NewExponentialBackOff()
	if interval > 0 {
		eb.InitialInterval = interval
	}
	// Attempts and ctx bound the retries instead.
	eb.MaxElapsedTime = 0

	var b backoff.BackOff = eb
	if attempts > 0 {
		b = backoff.WithMaxRetries(b, uint64(attempts))
	}
	return backoff.WithContext(b, ctx)
}
