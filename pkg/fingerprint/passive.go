package fingerprint

import (
	"context"

	"github.com/waftester/wpvane/pkg/target"
)

// PatternStrategy fetches one URL, following redirects, and extracts the
// version with a single case-insensitive pattern.
type PatternStrategy struct {
	name    string
	fetcher Fetcher
	url     func(*target.Target) string
	pattern string
}

// NewPatternStrategy builds a PatternStrategy. pattern must have exactly
// one capture group for the version.
func NewPatternStrategy(name string, f Fetcher, url func(*target.Target) string, pattern string) *PatternStrategy {
	return &PatternStrategy{name: name, fetcher: f, url: url, pattern: pattern}
}

// Name implements Strategy.
func (s *PatternStrategy) Name() string { return s.name }

// Detect implements Strategy.
func (s *PatternStrategy) Detect(ctx context.Context, t *target.Target) (string, error) {
	resp, err := s.fetcher.GetFollow(ctx, s.url(t))
	if err != nil {
		return "", err
	}
	return extractVersion(s.pattern, resp.BodyString()), nil
}
