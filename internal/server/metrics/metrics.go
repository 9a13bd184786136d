// Package metrics bundles the prometheus collectors exposed by the dev
// server's /metrics endpoint. Collectors live on a private registry so
// the endpoint never leaks Go runtime metrics from a host application.
package metrics

import (
	"bufio"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics bundles prometheus collectors used by the dev server.
type Metrics struct {
	RequestsTotal      *prometheus.CounterVec
	RequestDurationSec *prometheus.HistogramVec
	RateLimitDropped   prometheus.Counter
	UIRebuilds         prometheus.Counter
	UIRebuildErrors    prometheus.Counter
	ReloadBroadcasts   prometheus.Counter
	ReloadClients      prometheus.Gauge

	registry *prometheus.Registry
	basePath string
}

// New creates the collector set and registers it on registry. basePath is
// the UI mount path, used to collapse every bundle request into one route
// label so cardinality stays bounded.
func New(registry *prometheus.Registry, basePath string) *Metrics {
	m := &Metrics{
		RequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "skyview_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"route", "method", "status"}),
		RequestDurationSec: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "skyview_request_duration_seconds",
			Help:    "Request duration in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		RateLimitDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyview_ratelimit_dropped_total",
			Help: "Total number of requests dropped by the rate limiter.",
		}),
		UIRebuilds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyview_ui_rebuilds_total",
			Help: "Total number of UI mount rebuilds after spec changes.",
		}),
		UIRebuildErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyview_ui_rebuild_errors_total",
			Help: "Total number of failed UI mount rebuilds.",
		}),
		ReloadBroadcasts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "skyview_reload_broadcasts_total",
			Help: "Total number of reload messages broadcast to browsers.",
		}),
		ReloadClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "skyview_reload_clients",
			Help: "Number of browsers connected for live reload.",
		}),
		registry: registry,
		basePath: basePath,
	}

	registry.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSec,
		m.RateLimitDropped,
		m.UIRebuilds,
		m.UIRebuildErrors,
		m.ReloadBroadcasts,
		m.ReloadClients,
	)

	return m
}

// Handler serves the registry in the prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and durations per normalized route.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		startedAt := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		status := strconv.Itoa(wrapped.statusCode)
		route := m.normalizeRoute(r.URL.Path)
		m.RequestsTotal.WithLabelValues(route, r.Method, status).Inc()
		m.RequestDurationSec.WithLabelValues(route, r.Method, status).Observe(time.Since(startedAt).Seconds())
	})
}

// normalizeRoute collapses request paths into a small fixed label set.
func (m *Metrics) normalizeRoute(path string) string {
	switch {
	case path == "/healthz":
		return "/healthz"
	case path == "/metrics":
		return "/metrics"
	case path == "/__skyview/reload" || strings.HasPrefix(path, "/__skyview/"):
		return "/__skyview/*"
	case m.basePath == "":
		return "ui"
	case path == m.basePath || strings.HasPrefix(path, m.basePath+"/"):
		return "ui"
	default:
		return "other"
	}
}

type statusRecorder struct {
	http.ResponseWriter
	statusCode int
}

func (rw *statusRecorder) WriteHeader(statusCode int) {
	rw.statusCode = statusCode
	rw.ResponseWriter.WriteHeader(statusCode)
}

// Hijack passes websocket upgrades through the wrapped ResponseWriter.
func (rw *statusRecorder) Hijack() (net.Conn, *bufio.ReadWriter, error) {
	hijacker, ok := rw.ResponseWriter.(http.Hijacker)
	if !ok {
		return nil, nil, fmt.Errorf("response writer does not support hijacking")
	}
	return hijacker.Hijack()
}

// Flush keeps streaming behavior for handlers that require it.
func (rw *statusRecorder) Flush() {
	if flusher, ok := rw.ResponseWriter.(http.Flusher); ok {
		flusher.Flush()
	}
}
