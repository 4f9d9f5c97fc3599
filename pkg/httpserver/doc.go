// Package httpserver runs an http.Handler with graceful shutdown.
//
// Server.Run blocks until the context is canceled, SIGINT or SIGTERM arrives,
// or Shutdown is called. Shutdown drains in-flight requests within the
// configured timeout, runs the stop hooks and then closes every resource
// registered with WithCloser, which is where a session manager and its
// storage clients are released.
//
//	srv := httpserver.NewFromConfig(cfg,
//		httpserver.WithLogger(log),
//		httpserver.WithCloser(manager, redisClient),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// HealthCheckHandler exposes liveness (no checks) and readiness (named
// checks such as redis.Healthcheck or pg.Healthcheck) endpoints.
//
// Errors wrap ErrStart or ErrShutdown.
package httpserver
