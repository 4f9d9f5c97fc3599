// Package pg bootstraps PostgreSQL access with the pgx/v5 driver: pool
// creation with retries, goose migrations and a health check.
//
//   - Config is populated from environment variables (see the field tags).
//   - Connect opens a *pgxpool.Pool and pings it, retrying with exponential
//     back-off (cenkalti/backoff) up to RetryAttempts times.
//   - Migrate runs the goose migrations found on disk; MigrateFS runs them
//     from an fs.FS such as the embedded sessionkit migrations.
//   - Healthcheck wraps Ping for readiness endpoints.
//
// # Usage
//
//	var cfg pg.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	pool, err := pg.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer pool.Close()
//
//	if err := pg.MigrateFS(ctx, pool, migrations.FS, cfg, log); err != nil {
//		return err
//	}
//
//	store := backend.NewPostgres(pool)
//
// Errors wrap the package sentinels (ErrFailedToOpenDBConnection,
// ErrFailedToApplyMigrations, ...) together with the driver error.
package pg
