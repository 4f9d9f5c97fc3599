package metrics

import (
	"errors"
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dmitrymomot/sessionkit/pkg/session"
)

const namespace = "sessionkit"

const (
	resultOK    = "ok"
	resultError = "error"
)

// SessionObserver exports session middleware outcomes and backend results as
// Prometheus counters. It implements session.Observer.
type SessionObserver struct {
	requests *prometheus.CounterVec
	loads    *prometheus.CounterVec
	saves    *prometheus.CounterVec
}

// NewSessionObserver creates the counters and registers them with reg.
func NewSessionObserver(reg prometheus.Registerer) (*SessionObserver, error) {
	o := &SessionObserver{
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "middleware",
			Name:      "requests_total",
			Help:      "Requests seen by the session middleware, by outcome.",
		}, []string{"outcome"}),
		loads: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "loads_total",
			Help:      "Session loads, by backend and result.",
		}, []string{"backend", "result"}),
		saves: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "backend",
			Name:      "saves_total",
			Help:      "Explicit session saves, by backend and result.",
		}, []string{"backend", "result"}),
	}

	for _, c := range []prometheus.Collector{o.requests, o.loads, o.saves} {
		if err := reg.Register(c); err != nil {
			return nil, errors.Join(ErrRegister, err)
		}
	}
	return o, nil
}

func (o *SessionObserver) ObserveRequest(outcome session.Outcome) {
	o.requests.WithLabelValues(string(outcome)).Inc()
}

func (o *SessionObserver) ObserveLoad(backend string, err error) {
	o.loads.WithLabelValues(backend, result(err)).Inc()
}

func (o *SessionObserver) ObserveSave(backend string, err error) {
	o.saves.WithLabelValues(backend, result(err)).Inc()
}

func result(err error) string {
	if err != nil {
		return resultError
	}
	return resultOK
}

// Handler serves the metrics gathered by g in the Prometheus text format.
func Handler(g prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(g, promhttp.HandlerOpts{})
}
