// Package metrics publishes pouchkv's observability surface: a handful of
// prometheus counters/gauges served over a tiny gorilla/mux router, entirely
// outside the RESP wire protocol.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the counters and gauges pouchkv increments while serving
// connections. It is safe for concurrent use from every connection goroutine.
type Metrics struct {
	registry        *prometheus.Registry
	ConnectionsTotal prometheus.Counter
	CommandsTotal    *prometheus.CounterVec
	CommandErrors    *prometheus.CounterVec
	StoreKeys        prometheus.Gauge
}

// New registers and returns a fresh Metrics instance.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	m := &Metrics{
		registry: reg,
		ConnectionsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "respkv_connections_total",
			Help: "Total number of accepted client connections.",
		}),
		CommandsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "respkv_commands_total",
			Help: "Total number of dispatched commands, by command name.",
		}, []string{"command"}),
		CommandErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "respkv_command_errors_total",
			Help: "Total number of handler errors, by command name.",
		}, []string{"command"}),
		StoreKeys: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "respkv_store_keys",
			Help: "Number of keys currently held by the store, sampled periodically.",
		}),
	}
	reg.MustRegister(m.ConnectionsTotal, m.CommandsTotal, m.CommandErrors, m.StoreKeys)
	return m
}

// WatchStoreSize polls lenFn every interval and publishes it as the
// respkv_store_keys gauge until ctx is cancelled.
func (m *Metrics) WatchStoreSize(ctx context.Context, interval time.Duration, lenFn func() int) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.StoreKeys.Set(float64(lenFn()))
		}
	}
}

// Server wraps a gorilla/mux router exposing /metrics, bound to addr. A
// caller with an empty addr should not construct a Server at all — binding
// is optional ambient infrastructure, never required for RESP behavior.
type Server struct {
	http *http.Server
}

// NewServer builds (but does not start) an HTTP server exposing m at /metrics.
func NewServer(addr string, m *Metrics) *Server {
	router := mux.NewRouter()
	router.Handle("/metrics", promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{}))
	return &Server{http: &http.Server{Addr: addr, Handler: router}}
}

// ListenAndServe blocks serving metrics until the server is shut down; it
// mirrors http.Server.ListenAndServe's error contract (ErrServerClosed on a
// clean Shutdown).
func (s *Server) ListenAndServe() error {
	return s.http.ListenAndServe()
}

// Shutdown gracefully stops the metrics server.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.http.Shutdown(ctx)
}
