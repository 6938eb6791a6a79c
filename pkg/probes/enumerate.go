package probes

import (
	"context"
	"net/http"
	"regexp"
	"strings"

	"github.com/waftester/wpvane/pkg/fingerprint"
	"github.com/waftester/wpvane/pkg/httpclient"
	"github.com/waftester/wpvane/pkg/target"
)

// EnumerateComponents requests <dir>/<name>/ for every name and returns the
// ones that exist, in the order given. Anything but a 404, a dead request
// or a redirect back to the homepage counts as present, unless exclude is
// non-nil and matches the body.
func EnumerateComponents(ctx context.Context, b Batcher, t *target.Target, kind fingerprint.ComponentKind, names []string, exclude *regexp.Regexp) []fingerprint.Component {
	urls := make([]string, len(names))
	for i, name := range names {
		if kind == fingerprint.KindTheme {
			urls[i] = t.ThemesURL(name + "/")
		} else {
			urls[i] = t.PluginsURL(name + "/")
		}
	}

	present := make([]bool, len(names))
	for _, c := range getAll(ctx, b, urls) {
		if exists(c, t, exclude) {
			present[c.Request.Tag.(int)] = true
		}
	}

	var found []fingerprint.Component
	for i, ok := range present {
		if ok {
			found = append(found, fingerprint.Component{Kind: kind, Name: names[i], Source: "aggressive"})
		}
	}
	return found
}

func exists(c httpclient.Completion, t *target.Target, exclude *regexp.Regexp) bool {
	code := c.StatusCode()
	if code == 0 || code == http.StatusNotFound {
		return false
	}
	if code >= 300 && code < 400 {
		loc := strings.TrimSuffix(c.Response.Location(), "/")
		if loc == strings.TrimSuffix(t.String(), "/") {
			return false
		}
	}
	return !excluded(c, exclude)
}

// excluded reports whether the body matches the user's soft-404 pattern.
func excluded(c httpclient.Completion, exclude *regexp.Regexp) bool {
	return exclude != nil && exclude.MatchString(c.Body())
}

const timthumbMarker = "no image specified"

// EnumerateTimthumbs requests every known timthumb path and returns the
// URLs whose body carries the timthumb error banner. Paths may use the
// $wp-content$ and $wp-plugins$ placeholders. A body matching exclude is
// never reported.
func EnumerateTimthumbs(ctx context.Context, b Batcher, t *target.Target, paths []string, exclude *regexp.Regexp) []string {
	urls := make([]string, len(paths))
	for i, p := range paths {
		urls[i] = fingerprint.ReferenceURL(t, p)
	}

	hit := make([]bool, len(urls))
	for _, c := range getAll(ctx, b, urls) {
		if strings.Contains(strings.ToLower(c.Body()), timthumbMarker) && !excluded(c, exclude) {
			hit[c.Request.Tag.(int)] = true
		}
	}

	var found []string
	for i, ok := range hit {
		if ok {
			found = append(found, urls[i])
		}
	}
	return found
}
