package dependency_container

import (
	"context"
	"time"

	"github.com/sethvargo/go-retry"
	"github.com/sirupsen/logrus"
)

const (
	connectBaseDelay  = 1 * time.Second
	connectMaxRetries = 5
)

func connectBackoff() retry.Backoff {
	return retry.WithMaxRetries(connectMaxRetries, retry.NewFibonacci(connectBaseDelay))
}

// connect retries fn on every error until the backoff gives up.
func connect[T any](
	ctx context.Context,
	logger *logrus.Logger,
	name string,
	backoff retry.Backoff,
	fn func(ctx context.Context) (T, error),
) (T, error) {
	var (
		out     T
		attempt int
	)
	err := retry.Do(ctx, backoff, func(ctx context.Context) error {
		attempt++
		v, err := fn(ctx)
		if err != nil {
			logger.WithError(err).WithFields(logrus.Fields{
				"dependency": name,
				"attempt":    attempt,
			}).Warn("connection attempt failed")
			return retry.RetryableError(err)
		}
		out = v
		return nil
	})
	return out, err
}
