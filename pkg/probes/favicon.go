package probes

import (
	"context"
	"encoding/base64"
	"fmt"
	"net/http"
	"strings"

	"github.com/spaolacci/murmur3"

	"github.com/waftester/wpvane/pkg/target"
)

// FaviconResult is the favicon of a site and its Shodan-style hash.
type FaviconResult struct {
	URL         string `json:"url"`
	ContentType string `json:"content_type,omitempty"`
	Size        int    `json:"size"`
	MMH3Hash    int32  `json:"mmh3_hash"`
	ShodanDork  string `json:"shodan_dork"`
}

var faviconPaths = []string{
	"favicon.ico",
	"favicon.png",
	"apple-touch-icon.png",
}

// Favicon fetches the first favicon the site serves and hashes it. It
// returns nil when none is found.
func Favicon(ctx context.Context, f Fetcher, t *target.Target) *FaviconResult {
	for _, path := range faviconPaths {
		u := t.URL(path)
		resp, err := f.GetFollow(ctx, u)
		if err != nil || resp.StatusCode != http.StatusOK || len(resp.Body) == 0 {
			continue
		}

		contentType := resp.Header.Get("Content-Type")
		if !strings.Contains(contentType, "image") && !strings.Contains(contentType, "icon") {
			// .ico is often served without a content type
			if path != "favicon.ico" && contentType != "" {
				continue
			}
		}

		hash := FaviconHash(resp.Body)
		return &FaviconResult{
			URL:         u,
			ContentType: contentType,
			Size:        len(resp.Body),
			MMH3Hash:    hash,
			ShodanDork:  fmt.Sprintf("http.favicon.hash:%d", hash),
		}
	}
	return nil
}

// FaviconHash is murmur3-32 over the base64 body wrapped at 76 columns,
// each line newline-terminated, as Shodan computes it.
func FaviconHash(data []byte) int32 {
	encoded := base64.StdEncoding.EncodeToString(data)
	var b strings.Builder
	b.Grow(len(encoded) + len(encoded)/76 + 1)
	for i := 0; i < len(encoded); i += 76 {
		end := min(i+76, len(encoded))
		b.WriteString(encoded[i:end])
		b.WriteByte('\n')
	}
	return int32(murmur3.Sum32([]byte(b.String())))
}
