package probes

import (
	"context"
	"net/http"
	"strings"

	"github.com/waftester/wpvane/pkg/httpclient"
	"github.com/waftester/wpvane/pkg/regexcache"
	"github.com/waftester/wpvane/pkg/target"
)

// FullPathDisclosure is a PHP fatal error that leaks the server path.
type FullPathDisclosure struct {
	URL  string `json:"url"`
	Path string `json:"path,omitempty"`
}

// FullPathDisclosureCheck is a full path disclosure request in flight.
type FullPathDisclosureCheck struct {
	url  string
	done <-chan httpclient.Completion
}

// StartFullPathDisclosure requests wp-includes/rss-functions.php, which
// dies with a fatal error on installs that do not guard direct access. It
// does not wait for the response; call Wait for the result.
func StartFullPathDisclosure(ctx context.Context, s Submitter, t *target.Target) *FullPathDisclosureCheck {
	u := t.URL("wp-includes/rss-functions.php")
	return &FullPathDisclosureCheck{
		url:  u,
		done: s.Submit(ctx, &httpclient.Request{Method: http.MethodGet, URL: u}),
	}
}

// Wait blocks until the response arrives or ctx is done. A clean page is
// (nil, nil).
func (c *FullPathDisclosureCheck) Wait(ctx context.Context) (*FullPathDisclosure, error) {
	var comp httpclient.Completion
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case comp = <-c.done:
	}
	if comp.Err != nil {
		return nil, comp.Err
	}

	body := comp.Body()
	if !regexcache.MustGetFold(`fatal error`).MatchString(body) {
		return nil, nil
	}
	path := regexcache.FirstSubmatch(`(?is)fatal error.*? in (?:<b>)?([^<\s]+\.php)`, body)
	return &FullPathDisclosure{URL: c.url, Path: strings.TrimSpace(path)}, nil
}
