package redis

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/redis/go-redis/v9"
)

// Connect creates a client and pings the server, retrying with exponential
// back-off up to cfg.RetryAttempts times within cfg.ConnectTimeout.
//
// It returns ErrFailedToParseRedisConnString for an invalid URL and
// ErrRedisNotReady, joined with the last error, when no attempt succeeds.
func Connect(ctx context.Context, cfg Config, log logger) (*redis.Client, error) {
	opts, err := redis.ParseURL(cfg.ConnectionURL)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseRedisConnString, err)
	}

	if cfg.ConnectTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.ConnectTimeout)
		defer cancel()
	}

	open := func() (*redis.Client, error) {
		client := redis.NewClient(opts)
		if err := client.Ping(ctx).Err(); err != nil {
			_ = client.Close()
			return nil, err
		}
		return client, nil
	}

	notify := func(err error, next time.Duration) {
		log.WarnContext(ctx, "redis connection failed, retrying", "error", err, "retry_in", next)
	}

	client, err := backoff.RetryNotifyWithData(open, retryPolicy(ctx, cfg.RetryAttempts, cfg.RetryInterval), notify)
	if err != nil {
		return nil, errors.Join(ErrRedisNotReady, err)
	}
	return client, nil
}

func retryPolicy(ctx context.Context, attempts int, interval time.Duration) backoff.BackOffContext {
	retries := uint64(0)
	if attempts > 1 {
		retries = uint64(attempts - 1)
	}

	b := backoff.NewExponentialBackOff(
		backoff.WithInitialInterval(interval),
		backoff.WithMaxElapsedTime(0),
	)
	return backoff.WithContext(backoff.WithMaxRetries(b, retries), ctx)
}

type logger interface {
	WarnContext(ctx context.Context, msg string, args ...any)
}
