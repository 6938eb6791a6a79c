// Package defaults provides canonical default values for the whole codebase.
//
// Usage:
//
//	cfg.Threads = defaults.Threads
//	req.Header.Set("Content-Type", defaults.ContentTypeForm)
//
// Do not hardcode these values elsewhere; reference the constant instead.
package defaults

import (
	"fmt"
	"math/rand/v2"
)

// Version is the current wpvane version.
const Version = "1.4.0"

// ToolName is used for service names, metric prefixes and the env prefix.
const ToolName = "wpvane"

// ============================================================================
// CONCURRENCY
// ============================================================================

const (
	// Threads is the default number of in-flight requests for batched work (5).
	Threads = 5

	// ThreadsMax caps --threads to keep the target alive (100).
	ThreadsMax = 100
)

// ============================================================================
// ENUMERATION
// ============================================================================

const (
	// UserRangeStart is the first author ID probed by user enumeration.
	UserRangeStart = 1

	// UserRangeEnd is the last author ID probed by user enumeration.
	UserRangeEnd = 10

	// UserRangeMax caps the last author ID accepted in u[from-to].
	UserRangeMax = 10000

	// MaxRedirects bounds GetFollow.
	MaxRedirects = 10
)

// ============================================================================
// HTTP
// ============================================================================

// ContentTypeForm is the login form encoding.
const ContentTypeForm = "application/x-www-form-urlencoded"

// BrowserUserAgents is the pool --random-agent picks from.
var BrowserUserAgents = []string{
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:121.0) Gecko/20100101 Firefox/121.0",
	"Mozilla/5.0 (X11; Linux x86_64; rv:120.0) Gecko/20100101 Firefox/120.0",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Mozilla/5.0 (Macintosh; Intel Mac OS X 10_15_7) AppleWebKit/605.1.15 (KHTML, like Gecko) Version/17.2 Safari/605.1.15",
	"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36 Edg/120.0.0.0",
}

// RandomUserAgent returns one entry of BrowserUserAgents.
func RandomUserAgent() string {
	return BrowserUserAgents[rand.IntN(len(BrowserUserAgents))]
}

// UserAgent returns the User-Agent sent when none is configured.
func UserAgent() string {
	return fmt.Sprintf("%s/%s", ToolName, Version)
}

// ============================================================================
// EXIT CODES
// ============================================================================

const (
	// ExitOK means the scan completed.
	ExitOK = 0

	// ExitError is a runtime failure after the scan started.
	ExitError = 1

	// ExitConfig is an invalid option set, reported before any request.
	ExitConfig = 2

	// ExitNotWordPress means the target does not look like WordPress.
	ExitNotWordPress = 3
)
