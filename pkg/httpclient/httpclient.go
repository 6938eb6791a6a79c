// Package httpclient is the scanner's HTTP access port: pooled transport,
// proxy and auth middleware, single requests and bounded request batches.
package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"time"

	"github.com/waftester/wpvane/pkg/defaults"
	"github.com/waftester/wpvane/pkg/duration"
)

// Config holds HTTP client configuration options.
type Config struct {
	// Timeout is the total per-request timeout (default: 15s)
	Timeout time.Duration

	// InsecureSkipVerify skips TLS certificate verification (default: true)
	InsecureSkipVerify bool

	// Proxy is an http, https, socks5 or socks5h proxy URL (optional)
	Proxy string

	// ProxyAuth is "user:pass" for the proxy, overriding any userinfo in Proxy
	ProxyAuth string

	// BasicAuth is "user:pass" sent as an Authorization header on every request
	BasicAuth string

	// UserAgent is sent on every request (default: wpvane/<version>)
	UserAgent string

	// Throttle limits requests per second across the client; 0 disables it
	Throttle float64

	// MaxConnsPerHost is the maximum connections per host (default: 25)
	MaxConnsPerHost int

	// DialTimeout is the timeout for establishing connections (default: 10s)
	DialTimeout time.Duration

	// MaxBodySize caps how much of each response body is read (default: 2MB)
	MaxBodySize int64

	// Recorder, when set, observes every completed request.
	Recorder Recorder
}

// Recorder observes completed requests. Implementations must be safe for
// concurrent use because batched requests complete on separate goroutines.
type Recorder interface {
	ObserveRequest(method string, status int, elapsed time.Duration, err error)
}

// DefaultConfig returns defaults tuned for scanning a single host.
func DefaultConfig() Config {
	return Config{
		Timeout:            duration.HTTPScanning,
		InsecureSkipVerify: true,
		UserAgent:          defaults.UserAgent(),
		MaxConnsPerHost:    25,
		DialTimeout:        duration.DialTimeout,
	}
}

func (cfg *Config) applyDefaults() {
	d := DefaultConfig()
	if cfg.Timeout == 0 {
		cfg.Timeout = d.Timeout
	}
	if cfg.UserAgent == "" {
		cfg.UserAgent = d.UserAgent
	}
	if cfg.MaxConnsPerHost == 0 {
		cfg.MaxConnsPerHost = d.MaxConnsPerHost
	}
	if cfg.DialTimeout == 0 {
		cfg.DialTimeout = d.DialTimeout
	}
}

// New creates an *http.Client from cfg that never follows redirects.
// Login brute forcing and user enumeration need to see the 302 itself.
func New(cfg Config) (*http.Client, error) {
	cfg.applyDefaults()
	rt, err := newRoundTripper(cfg)
	if err != nil {
		return nil, err
	}
	return &http.Client{
		Transport: rt,
		Timeout:   cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}, nil
}

func newRoundTripper(cfg Config) (http.RoundTripper, error) {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: duration.KeepAlive,
	}

	transport := &http.Transport{
		MaxIdleConns:          cfg.MaxConnsPerHost * 2,
		MaxIdleConnsPerHost:   cfg.MaxConnsPerHost,
		MaxConnsPerHost:       cfg.MaxConnsPerHost,
		IdleConnTimeout:       duration.IdleConn,
		ForceAttemptHTTP2:     true,
		ExpectContinueTimeout: 1 * time.Second,
		TLSHandshakeTimeout:   duration.TLSHandshake,
		DialContext:           dialer.DialContext,
		TLSClientConfig: &tls.Config{
			InsecureSkipVerify: cfg.InsecureSkipVerify,
		},
	}

	if err := configureProxy(transport, cfg); err != nil {
		return nil, err
	}

	return newMiddleware(transport, cfg), nil
}
