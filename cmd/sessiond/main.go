// Command sessiond serves a small session API backed by any of the
// sessionkit storage backends.
//
// Configuration comes from the environment and an optional .env file:
// APP_ENV, SERVICE_NAME and LOG_LEVEL for logging, HTTP_* for the server,
// SESSION_* for the session manager, and REDIS_* or PG_* when
// SESSION_BACKEND is keyvalue-remote or database.
package main

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"

	"github.com/dmitrymomot/sessionkit/migrations"
	"github.com/dmitrymomot/sessionkit/pkg/backend"
	"github.com/dmitrymomot/sessionkit/pkg/config"
	"github.com/dmitrymomot/sessionkit/pkg/httpserver"
	"github.com/dmitrymomot/sessionkit/pkg/logger"
	"github.com/dmitrymomot/sessionkit/pkg/metrics"
	"github.com/dmitrymomot/sessionkit/pkg/pg"
	"github.com/dmitrymomot/sessionkit/pkg/redis"
	"github.com/dmitrymomot/sessionkit/pkg/requestid"
	"github.com/dmitrymomot/sessionkit/pkg/session"
)

func main() {
	if err := run(context.Background()); err != nil {
		slog.Error("sessiond stopped", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context) error {
	var logCfg logger.Config
	if err := config.Load(&logCfg); err != nil {
		return err
	}
	envOpt, err := logger.FromConfig(logCfg)
	if err != nil {
		return err
	}
	log := logger.New(envOpt, logger.WithContextExtractors(requestid.LoggerExtractor()))
	logger.SetAsDefault(log)

	var httpCfg httpserver.Config
	if err := config.Load(&httpCfg); err != nil {
		return err
	}
	var sessCfg session.Config
	if err := config.Load(&sessCfg); err != nil {
		return err
	}

	st, err := openStorage(ctx, sessCfg, log)
	if err != nil {
		return err
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	observer, err := metrics.NewSessionObserver(reg)
	if err != nil {
		st.close()
		return err
	}

	opts := []session.Option{session.WithObserver(observer)}
	if st.registry != nil {
		opts = append(opts, session.WithRegistry(st.registry))
	}

	manager, err := newManager(sessCfg, log, opts...)
	if err != nil {
		st.close()
		return err
	}

	srv := httpserver.NewFromConfig(httpCfg,
		httpserver.WithLogger(log),
		httpserver.WithCloser(manager),
		httpserver.WithCloser(st.closers...),
	)

	return srv.Run(ctx, newRouter(manager, log, reg, st.checks...))
}

// newManager builds a manager that saves sessions after every request and
// answers 401 to requests carrying a forged or expired cookie.
func newManager(cfg session.Config, log *slog.Logger, opts ...session.Option) (*session.Manager, error) {
	var m *session.Manager

	base := []session.Option{
		session.WithLogger(log.With(logger.Component("session"))),
		session.WithAutoSave(true),
		session.WithInvalidCookieHandler(session.InvalidCookieHandlerFunc(
			func(*http.Request, error) http.Handler {
				return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
					m.UnsetCookie(w)
					http.Error(w, http.StatusText(http.StatusUnauthorized), http.StatusUnauthorized)
				})
			},
		)),
	}

	m, err := session.New(cfg, append(base, opts...)...)
	if err != nil {
		return nil, err
	}
	return m, nil
}

// storage holds the connections opened for a remote session backend.
// Local backends leave registry nil and use the manager defaults.
type storage struct {
	registry *backend.Registry
	checks   []httpserver.Check
	closers  []io.Closer
}

func (s storage) close() {
	for _, c := range s.closers {
		_ = c.Close()
	}
}

func openStorage(ctx context.Context, sessCfg session.Config, log *slog.Logger) (storage, error) {
	switch sessCfg.Backend {
	case backend.KeyValueRemote:
		var cfg redis.Config
		if err := config.Load(&cfg); err != nil {
			return storage{}, err
		}
		client, err := redis.Connect(ctx, cfg, log)
		if err != nil {
			return storage{}, err
		}

		reg := backend.NewRegistry()
		reg.MustRegister(backend.KeyValueRemote, backend.Shared(backend.NewRedis(client, backend.WithScanCount(cfg.ScanCount))))
		return storage{
			registry: reg,
			checks:   []httpserver.Check{{Name: "redis", Ping: redis.Healthcheck(client)}},
			closers:  []io.Closer{client},
		}, nil

	case backend.Database:
		var cfg pg.Config
		if err := config.Load(&cfg); err != nil {
			return storage{}, err
		}
		pool, err := pg.Connect(ctx, cfg, log)
		if err != nil {
			return storage{}, err
		}
		if err := pg.MigrateFS(ctx, pool, migrations.FS, cfg, log); err != nil {
			pool.Close()
			return storage{}, err
		}

		closePool := httpserver.CloserFunc(func() error {
			pool.Close()
			return nil
		})

		store := backend.NewPostgres(pool,
			backend.WithPostgresCleanupInterval(sessCfg.CleanupInterval),
			backend.WithCleanupErrorHandler(func(err error) {
				log.Error("failed to delete expired session entries", logger.Component("postgres"), logger.Error(err))
			}),
		)

		reg := backend.NewRegistry()
		reg.MustRegister(backend.Database, backend.Shared(store))
		// The janitor stops before the pool closes.
		return storage{
			registry: reg,
			checks:   []httpserver.Check{{Name: "postgres", Ping: pg.Healthcheck(pool)}},
			closers:  []io.Closer{store, closePool},
		}, nil
	}

	return storage{}, nil
}
