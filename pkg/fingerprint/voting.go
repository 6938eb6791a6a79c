package fingerprint

import (
	"context"
	"io"
	"net/url"
	"strings"

	"golang.org/x/net/html"

	"github.com/waftester/wpvane/pkg/regexcache"
	"github.com/waftester/wpvane/pkg/target"
)

const assetVersionPattern = `(?i)\bver=([0-9.]+)`

// StylesheetStrategy votes on the ver= query parameter of every <link> and
// <script> asset on the homepage. WordPress appends the core version to
// bundled assets, while plugins and themes append their own.
type StylesheetStrategy struct {
	fetcher Fetcher
	corpus  Corpus
}

// NewStylesheetStrategy builds the asset voting strategy.
func NewStylesheetStrategy(f Fetcher, c Corpus) *StylesheetStrategy {
	return &StylesheetStrategy{fetcher: f, corpus: c}
}

// Name implements Strategy.
func (s *StylesheetStrategy) Name() string { return StrategyStylesheets }

// Detect implements Strategy.
func (s *StylesheetStrategy) Detect(ctx context.Context, t *target.Target) (string, error) {
	known, err := s.corpus.KnownVersions()
	if err != nil {
		return "", err
	}
	resp, err := s.fetcher.Get(ctx, t.String())
	if err != nil {
		return "", err
	}
	return Vote(CountAssetVersions(strings.NewReader(resp.BodyString())), known), nil
}

// VersionCount is the number of asset references carrying one version.
// Counts keep document order of first appearance.
type VersionCount struct {
	Version string
	Count   int
}

// CountAssetVersions tallies ver= values across link href and script src
// attributes in document order.
func CountAssetVersions(r io.Reader) []VersionCount {
	var counts []VersionCount
	index := map[string]int{}

	z := html.NewTokenizer(r)
	for {
		switch z.Next() {
		case html.ErrorToken:
			return counts
		case html.StartTagToken, html.SelfClosingTagToken:
			tok := z.Token()
			if tok.Data != "link" && tok.Data != "script" {
				continue
			}
			for _, attr := range tok.Attr {
				if attr.Key != "href" && attr.Key != "src" {
					continue
				}
				v := assetVersion(attr.Val)
				if v == "" {
					continue
				}
				if i, ok := index[v]; ok {
					counts[i].Count++
					continue
				}
				index[v] = len(counts)
				counts = append(counts, VersionCount{Version: v, Count: 1})
			}
		}
	}
}

func assetVersion(ref string) string {
	if ref == "" {
		return ""
	}
	u, err := url.Parse(strings.TrimSpace(ref))
	if err != nil || u.RawQuery == "" {
		return ""
	}
	return regexcache.FirstSubmatch(assetVersionPattern, u.RawQuery)
}

// Vote picks the most referenced version among those in known. A version
// seen only once is not trusted. Ties go to the version that appeared first.
func Vote(counts []VersionCount, known []string) string {
	knownSet := make(map[string]struct{}, len(known))
	for _, v := range known {
		knownSet[v] = struct{}{}
	}

	var best VersionCount
	for _, c := range counts {
		if _, ok := knownSet[c.Version]; !ok {
			continue
		}
		if c.Count > best.Count {
			best = c
		}
	}
	if best.Count > 1 {
		return best.Version
	}
	return ""
}
