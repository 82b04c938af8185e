package retry

import (
	"context"
	"log/slog"
	"time"

	derrors "github.com/wwscc/distbuilder/internal/errors"
	"github.com/wwscc/distbuilder/internal/logfields"
)

// Sleeper waits for d or until ctx is done. Tests replace it to avoid real delays.
type Sleeper func(ctx context.Context, d time.Duration) error

func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

// Do runs fn until it succeeds, returns a non-retryable error, or the policy's
// retry budget is spent. Only errors classified retryable by the errors
// package are retried. The number of retries performed is returned.
func (p Policy) Do(ctx context.Context, op string, fn func(ctx context.Context) error) (int, error) {
	return p.do(ctx, op, fn, sleepContext)
}

func (p Policy) do(ctx context.Context, op string, fn func(ctx context.Context) error, sleep Sleeper) (int, error) {
	retries := 0
	for {
		err := fn(ctx)
		if err == nil {
			return retries, nil
		}
		if !derrors.IsRetryable(err) || retries >= p.MaxRetries {
			return retries, err
		}
		retries++
		delay := p.Delay(retries)
		slog.Warn("Retrying after transient failure",
			slog.String("operation", op),
			logfields.Attempt(retries),
			slog.Duration("delay", delay),
			logfields.Error(err))
		if serr := sleep(ctx, delay); serr != nil {
			return retries, serr
		}
	}
}
