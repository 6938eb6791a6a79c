// Package metrics exposes scan counters for Prometheus scraping.
package metrics

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"

	"github.com/waftester/wpvane/pkg/duration"
	"github.com/waftester/wpvane/pkg/httpclient"
	"github.com/waftester/wpvane/pkg/logger"
)

// Collector records requests, strategy runs and brute-force attempts. It
// satisfies httpclient.Recorder, fingerprint.Observer and
// bruteforce.Observer. A nil *Collector records nothing.
type Collector struct {
	registry *prometheus.Registry

	requests   *prometheus.CounterVec
	attempts   *prometheus.CounterVec
	strategies *prometheus.CounterVec
	flushes    prometheus.Histogram
	latency    prometheus.Histogram

	mu     sync.Mutex
	server *http.Server
	log    logrus.FieldLogger
}

// New creates a Collector on its own registry.
func New(log logrus.FieldLogger) *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		log:      logger.OrDiscard(log),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wpvane_requests_total",
			Help: "HTTP requests sent to the target, by status class or failure kind",
		}, []string{"kind"}),
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wpvane_bruteforce_attempts_total",
			Help: "Login attempts by classified outcome",
		}, []string{"outcome"}),
		strategies: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "wpvane_strategy_runs_total",
			Help: "Version detection strategy runs by result",
		}, []string{"strategy", "result"}),
		flushes: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wpvane_flush_duration_seconds",
			Help:    "Time to complete one brute-force batch",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}),
		latency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "wpvane_request_duration_seconds",
			Help:    "Response time distribution in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		}),
	}
	c.registry.MustRegister(c.requests, c.attempts, c.strategies, c.flushes, c.latency)
	return c
}

// Registry returns the underlying registry.
func (c *Collector) Registry() *prometheus.Registry { return c.registry }

// ObserveRequest implements httpclient.Recorder.
func (c *Collector) ObserveRequest(_ string, status int, elapsed time.Duration, err error) {
	if c == nil {
		return
	}
	c.requests.WithLabelValues(requestKind(status, err)).Inc()
	if err == nil {
		c.latency.Observe(elapsed.Seconds())
	}
}

func requestKind(status int, err error) string {
	switch {
	case errors.Is(err, httpclient.ErrTimeout):
		return "timeout"
	case err != nil:
		return "error"
	case status >= 500:
		return "5xx"
	case status >= 400:
		return "4xx"
	case status >= 300:
		return "3xx"
	case status >= 200:
		return "2xx"
	default:
		return "other"
	}
}

// ObserveStrategy implements fingerprint.Observer.
func (c *Collector) ObserveStrategy(name, outcome string) {
	if c == nil {
		return
	}
	c.strategies.WithLabelValues(name, outcome).Inc()
}

// ObserveAttempt implements bruteforce.Observer.
func (c *Collector) ObserveAttempt(outcome string) {
	if c == nil {
		return
	}
	c.attempts.WithLabelValues(outcome).Inc()
}

// ObserveFlush implements bruteforce.Observer.
func (c *Collector) ObserveFlush(_ int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.flushes.Observe(elapsed.Seconds())
}

// Handler serves the registry in the Prometheus text format.
func (c *Collector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// Serve starts a metrics server on addr at /metrics and returns the bound
// address. It listens before returning so ":0" works.
func (c *Collector) Serve(addr string) (string, error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return "", err
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", c.Handler())
	srv := &http.Server{
		Handler:      mux,
		ReadTimeout:  duration.ServerRead,
		WriteTimeout: duration.ServerWrite,
	}

	c.mu.Lock()
	c.server = srv
	c.mu.Unlock()

	go func() {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			c.log.WithError(err).Error("metrics server stopped")
		}
	}()
	return ln.Addr().String(), nil
}

// Close shuts the metrics server down, if one was started.
func (c *Collector) Close() error {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	srv := c.server
	c.server = nil
	c.mu.Unlock()
	if srv == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), duration.Shutdown)
	defer cancel()
	return srv.Shutdown(ctx)
}
