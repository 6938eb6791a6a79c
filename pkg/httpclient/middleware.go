package httpclient

import (
	"net/http"
	"time"

	"golang.org/x/time/rate"
)

// middlewareTransport adds the per-request concerns shared by every call:
// the User-Agent, throttling and request observation.
// It never retries; a failed attempt is reported to the caller as-is.
type middlewareTransport struct {
	base      http.RoundTripper
	userAgent string
	limiter   *rate.Limiter
	recorder  Recorder
}

func newMiddleware(base http.RoundTripper, cfg Config) *middlewareTransport {
	m := &middlewareTransport{
		base:      base,
		userAgent: cfg.UserAgent,
		recorder:  cfg.Recorder,
	}
	if cfg.Throttle > 0 {
		m.limiter = rate.NewLimiter(rate.Limit(cfg.Throttle), 1)
	}
	return m
}

// RoundTrip implements http.RoundTripper.
func (m *middlewareTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if m.limiter != nil {
		if err := m.limiter.Wait(req.Context()); err != nil {
			return nil, err
		}
	}

	r := req.Clone(req.Context())
	if m.userAgent != "" && r.Header.Get("User-Agent") == "" {
		r.Header.Set("User-Agent", m.userAgent)
	}

	start := time.Now()
	resp, err := m.base.RoundTrip(r)
	if m.recorder != nil {
		status := 0
		if resp != nil {
			status = resp.StatusCode
		}
		m.recorder.ObserveRequest(r.Method, status, time.Since(start), err)
	}
	return resp, err
}
