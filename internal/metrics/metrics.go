// Package metrics exposes daemon counters and gauges to Prometheus.
//
// A nil *Metrics is valid and records nothing, so components can take one
// unconditionally.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/smykla-skalski/slack-code/pkg/logger"
)

const (
	namespace = "slack_code"

	// Path is the HTTP path serving the exposition format.
	Path = "/metrics"

	shutdownTimeout = 2 * time.Second
	readHeaderLimit = 5 * time.Second
)

// Notifier call results.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Metrics holds the daemon collectors and the registry they live in.
type Metrics struct {
	registry *prometheus.Registry

	hooksReceived    *prometheus.CounterVec
	commandsReceived *prometheus.CounterVec
	connectionErrors prometheus.Counter
	sessionsTracked  prometheus.Gauge
	subscribers      prometheus.Gauge
	eventsPublished  prometheus.Counter
	eventsDropped    prometheus.Counter
	notifierCalls    *prometheus.CounterVec
	notifierDuration *prometheus.HistogramVec
	sessionsSwept    prometheus.Counter
}

// New creates collectors registered in a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		hooksReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "hook_events_total",
				Help:      "Hook events received, by kind",
			},
			[]string{"kind"},
		),
		commandsReceived: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "commands_total",
				Help:      "Observer commands received, by command",
			},
			[]string{"command"},
		),
		connectionErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "connection_errors_total",
			Help:      "Connections dropped because of read or decode errors",
		}),
		sessionsTracked: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "sessions",
			Help:      "Sessions currently tracked",
		}),
		subscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "subscribers",
			Help:      "Connected event subscribers",
		}),
		eventsPublished: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_published_total",
			Help:      "Daemon events published to the broadcast",
		}),
		eventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "events_dropped_total",
			Help:      "Events skipped by lagging subscribers",
		}),
		notifierCalls: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "notifier_calls_total",
				Help:      "Slack calls, by operation and result",
			},
			[]string{"op", "result"},
		),
		notifierDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "notifier_call_duration_seconds",
				Help:      "Slack call duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"op"},
		),
		sessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "sessions_swept_total",
			Help:      "Finished sessions removed by retention sweeps",
		}),
	}

	m.registry.MustRegister(
		m.hooksReceived,
		m.commandsReceived,
		m.connectionErrors,
		m.sessionsTracked,
		m.subscribers,
		m.eventsPublished,
		m.eventsDropped,
		m.notifierCalls,
		m.notifierDuration,
		m.sessionsSwept,
	)

	return m
}

// Registry returns the registry backing m.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}

	return m.registry
}

// HookReceived counts one hook event.
func (m *Metrics) HookReceived(kind string) {
	if m == nil {
		return
	}

	m.hooksReceived.WithLabelValues(kind).Inc()
}

// CommandReceived counts one command.
func (m *Metrics) CommandReceived(command string) {
	if m == nil {
		return
	}

	m.commandsReceived.WithLabelValues(command).Inc()
}

// ConnectionError counts one failed connection.
func (m *Metrics) ConnectionError() {
	if m == nil {
		return
	}

	m.connectionErrors.Inc()
}

// SetSessions sets the tracked sessions gauge.
func (m *Metrics) SetSessions(n int) {
	if m == nil {
		return
	}

	m.sessionsTracked.Set(float64(n))
}

// SetSubscribers sets the subscribers gauge.
func (m *Metrics) SetSubscribers(n int) {
	if m == nil {
		return
	}

	m.subscribers.Set(float64(n))
}

// EventPublished counts one broadcast event.
func (m *Metrics) EventPublished() {
	if m == nil {
		return
	}

	m.eventsPublished.Inc()
}

// EventDropped counts one event skipped by a lagging subscriber.
func (m *Metrics) EventDropped() {
	if m == nil {
		return
	}

	m.eventsDropped.Inc()
}

// NotifierCall records one Slack call.
func (m *Metrics) NotifierCall(op string, err error, duration time.Duration) {
	if m == nil {
		return
	}

	result := ResultOK
	if err != nil {
		result = ResultError
	}

	m.notifierCalls.WithLabelValues(op, result).Inc()
	m.notifierDuration.WithLabelValues(op).Observe(duration.Seconds())
}

// SessionsSwept counts sessions removed by a sweep.
func (m *Metrics) SessionsSwept(n int) {
	if m == nil || n <= 0 {
		return
	}

	m.sessionsSwept.Add(float64(n))
}

// Handler returns the HTTP handler serving m's registry.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}

	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Serve serves the metrics endpoint on addr until ctx is done.
func (m *Metrics) Serve(ctx context.Context, addr string, log logger.Logger) error {
	if log == nil {
		log = logger.NewNoOpLogger()
	}

	mux := http.NewServeMux()
	mux.Handle(Path, m.Handler())

	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: readHeaderLimit,
	}

	errCh := make(chan error, 1)

	go func() {
		log.Info("metrics endpoint listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}

		return errors.Wrapf(err, "serving metrics on %s", addr)

	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), shutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Wrap(err, "shutting down metrics endpoint")
		}

		return nil
	}
}
