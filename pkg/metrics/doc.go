// Package metrics exports session activity to Prometheus.
//
//	reg := prometheus.NewRegistry()
//	obs, err := metrics.NewSessionObserver(reg)
//	if err != nil {
//		return err
//	}
//	manager, err := session.New(cfg, session.WithObserver(obs))
//	...
//	r.Handle("/metrics", metrics.Handler(reg))
//
// Exported series:
//
//	sessionkit_middleware_requests_total{outcome}
//	sessionkit_backend_loads_total{backend,result}
//	sessionkit_backend_saves_total{backend,result}
package metrics
