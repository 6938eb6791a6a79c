package httpclient

import "errors"

// Sentinel errors for transport failure modes.
// Callers should use errors.Is() to check for these.
var (
	// ErrTimeout indicates the request did not complete within the
	// configured timeout or the context deadline.
	ErrTimeout = errors.New("httpclient: request timed out")

	// ErrNoResponse indicates the connection failed or was reset before
	// any response arrived (status 0). Often a WAF or IPS dropping traffic.
	ErrNoResponse = errors.New("httpclient: no response received")

	// ErrProxyConnect indicates the client failed to connect through
	// the configured proxy.
	ErrProxyConnect = errors.New("httpclient: proxy connection failed")

	// ErrInvalidProxy indicates a malformed proxy URL or credentials.
	ErrInvalidProxy = errors.New("httpclient: invalid proxy")
)
