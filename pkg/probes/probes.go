// Package probes holds the WordPress checks that run around version
// fingerprinting: detection, component and user enumeration, and a few
// well known exposures.
package probes

import (
	"context"
	"errors"

	"github.com/waftester/wpvane/pkg/httpclient"
)

// ErrNotWordPress is returned when the homepage shows no WordPress markers.
var ErrNotWordPress = errors.New("probes: the remote website does not appear to be running WordPress")

// Fetcher is the single-request half of the access port.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*httpclient.Response, error)
	GetFollow(ctx context.Context, rawURL string) (*httpclient.Response, error)
}

// Batcher is the queueing half of the access port.
type Batcher interface {
	Enqueue(req *httpclient.Request)
	Flush(ctx context.Context) []httpclient.Completion
	Pending() int
	MaxConcurrent() int
}

// Submitter sends one request outside any batch and hands back its
// completion later.
type Submitter interface {
	Submit(ctx context.Context, req *httpclient.Request) <-chan httpclient.Completion
}

// getAll sends a GET for every url through b, flushing whenever a full
// batch is pending. Completions keep their url index in Request.Tag.
func getAll(ctx context.Context, b Batcher, urls []string) []httpclient.Completion {
	out := make([]httpclient.Completion, 0, len(urls))
	for i, u := range urls {
		if ctx.Err() != nil {
			break
		}
		b.Enqueue(&httpclient.Request{URL: u, Tag: i})
		if b.Pending() >= b.MaxConcurrent() {
			out = append(out, b.Flush(ctx)...)
		}
	}
	if b.Pending() > 0 {
		out = append(out, b.Flush(ctx)...)
	}
	return out
}
