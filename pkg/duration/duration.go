// Package duration provides canonical time constants for the codebase.
//
// Usage:
//
//	cfg.Timeout = duration.HTTPScanning
package duration

import "time"

// ============================================================================
// HTTP CLIENT TIMEOUTS
// ============================================================================

// HTTPScanning is the default per-request timeout (15s)
const HTTPScanning = 15 * time.Second

// ============================================================================
// TRANSPORT
// ============================================================================

const (
	// DialTimeout is the TCP connect timeout, including SOCKS handshakes (10s)
	DialTimeout = 10 * time.Second

	// TLSHandshake bounds the TLS handshake (10s)
	TLSHandshake = 10 * time.Second

	// IdleConn is how long pooled connections stay open (90s)
	IdleConn = 90 * time.Second

	// KeepAlive is the TCP keep-alive period (30s)
	KeepAlive = 30 * time.Second
)

// ============================================================================
// SERVICES
// ============================================================================

const (
	// ServerRead is the metrics server read timeout (5s)
	ServerRead = 5 * time.Second

	// ServerWrite is the metrics server write timeout (10s)
	ServerWrite = 10 * time.Second

	// Shutdown bounds graceful shutdown of exporters and servers (5s)
	Shutdown = 5 * time.Second
)
