// Package redis connects to a Redis server with go-redis and exposes a
// health check. The session key/value backend built on the client lives in
// the backend package.
//
//	var cfg redis.Config
//	if err := config.Load(&cfg); err != nil {
//		return err
//	}
//
//	client, err := redis.Connect(ctx, cfg, log)
//	if err != nil {
//		return err
//	}
//	defer client.Close()
//
//	store := backend.NewRedis(client, backend.WithScanCount(cfg.ScanCount))
//	ping := redis.Healthcheck(client)
//
// Connect retries with exponential back-off (cenkalti/backoff) and wraps
// failures in ErrRedisNotReady.
package redis
