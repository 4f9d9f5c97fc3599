package pg

import (
	"context"
	"errors"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Connect opens a connection pool and pings it, retrying with exponential
// back-off up to cfg.RetryAttempts times. Canceling ctx stops the retries.
func Connect(ctx context.Context, cfg Config, log logger) (*pgxpool.Pool, error) {
	connConfig, err := pgxpool.ParseConfig(cfg.ConnectionString)
	if err != nil {
		return nil, errors.Join(ErrFailedToParseDBConfig, err)
	}
	applyPoolConfig(connConfig, cfg)

	open := func() (*pgxpool.Pool, error) {
		pool, err := pgxpool.NewWithConfig(ctx, connConfig)
		if err != nil {
			return nil, err
		}
		// The pool connects lazily; ping to surface auth and network errors now.
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, err
		}
		return pool, nil
	}

	notify := func(err error, next time.Duration) {
		log.WarnContext(ctx, "postgres connection failed, retrying", "error", err, "retry_in", next)
	}

	pool, err := backoff.RetryNotifyWithData(open, retryPolicy(ctx, cfg.RetryAttempts, cfg.RetryInterval), notify)
	if err != nil {
		return nil, errors.Join(ErrFailedToOpenDBConnection, err)
	}
	return pool, nil
}

// applyPoolConfig overrides pgxpool defaults with the positive values of cfg.
func applyPoolConfig(pc *pgxpool.Config, cfg Config) {
	if cfg.MaxOpenConns > 0 {
		pc.MaxConns = cfg.MaxOpenConns
	}
	if cfg.MaxIdleConns > 0 {
		pc.MinConns = min(cfg.MaxIdleConns, pc.MaxConns)
	}
	if cfg.HealthCheckPeriod > 0 {
		pc.HealthCheckPeriod = cfg.HealthCheckPeriod
	}
	if cfg.MaxConnIdleTime > 0 {
		pc.MaxConnIdleTime = cfg.MaxConnIdleTime
	}
	if cfg.MaxConnLifetime > 0 {
		pc.MaxConnLifetime = cfg.MaxConnLifetime
	}
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
