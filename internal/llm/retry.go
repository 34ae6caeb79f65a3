package llm

import (
	"context"
	"time"
)

const RetryDelay = 500 * time.Millisecond

// CompleteWithRetry issues req and retries up to maxRetries additional times
// after a service failure, doubling the delay between attempts. With
// maxRetries 0 the call is attempted exactly once and any failure is
// returned to the caller.
func CompleteWithRetry(ctx context.Context, client Client, req Request, maxRetries int, delay time.Duration) (string, error) {
	var lastErr error

	for attempt := 0; attempt <= maxRetries; attempt++ {
		if attempt > 0 {
			select {
			case <-ctx.Done():
				return "", ctx.Err()
			case <-time.After(delay):
			}
			delay *= 2
		}

		reply, err := client.Complete(ctx, req)
		if err == nil {
			return reply, nil
		}
		lastErr = err
	}

	return "", lastErr
}
