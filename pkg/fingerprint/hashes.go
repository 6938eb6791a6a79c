package fingerprint

import (
	"context"
	"crypto/md5"
	"crypto/sha256"
	"strings"

	"github.com/waftester/wpvane/internal/hexutil"
	"github.com/waftester/wpvane/pkg/target"
)

const (
	contentPlaceholder = "$wp-content$"
	pluginsPlaceholder = "$wp-plugins$"
)

// HashStrategy downloads reference files listed by the corpus and compares
// their digests with known releases.
//
// It stops at the first file that matches anything, even if later files
// would narrow the version further.
type HashStrategy struct {
	fetcher Fetcher
	corpus  Corpus
}

// NewHashStrategy builds the content hash strategy.
func NewHashStrategy(f Fetcher, c Corpus) *HashStrategy {
	return &HashStrategy{fetcher: f, corpus: c}
}

// Name implements Strategy.
func (s *HashStrategy) Name() string { return StrategyFingerprinting }

// Detect implements Strategy. A file that cannot be fetched is skipped.
func (s *HashStrategy) Detect(ctx context.Context, t *target.Target) (string, error) {
	files, err := s.corpus.Fingerprints()
	if err != nil {
		return "", err
	}
	for _, file := range files {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		resp, err := s.fetcher.Get(ctx, ReferenceURL(t, file.Path))
		if err != nil {
			continue
		}
		if v, ok := MatchDigests(resp.Body, file.Hashes); ok {
			return v, nil
		}
	}
	return "", nil
}

// ReferenceURL expands the directory placeholders of a corpus path.
func ReferenceURL(t *target.Target, path string) string {
	path = strings.ReplaceAll(path, contentPlaceholder, t.ContentDir())
	path = strings.ReplaceAll(path, pluginsPlaceholder, t.PluginsDir())
	return t.URL(path)
}

type digestCheck struct {
	expected string
	actual   string
}

// MatchDigests returns the version of the first hash entry whose sha256,
// or failing that md5, equals the digest of body.
func MatchDigests(body []byte, hashes []VersionHash) (string, bool) {
	if len(hashes) == 0 {
		return "", false
	}
	sha := sha256.Sum256(body)
	md := md5.Sum(body)
	strong, weak := hexutil.Encode(sha[:]), hexutil.Encode(md[:])

	for _, h := range hashes {
		checks := []digestCheck{
			{expected: h.SHA256, actual: strong},
			{expected: h.MD5, actual: weak},
		}
		for _, c := range checks {
			if hexutil.Equal(c.expected, c.actual) {
				return h.Version, true
			}
		}
	}
	return "", false
}
