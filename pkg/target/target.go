// Package target models the site under test and resolves WordPress paths
// against it.
package target

import (
	"errors"
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/waftester/wpvane/pkg/regexcache"
)

// ErrEmptyURL is returned by New for a blank target.
var ErrEmptyURL = errors.New("target: empty url")

const (
	defaultContentDir = "wp-content"
	pluginsSubdir     = "plugins"
	themesSubdir      = "themes"
)

// Options overrides the content and plugin directories. Both are paths
// relative to the site root; empty means auto-detect or use the default.
type Options struct {
	ContentDir string
	PluginsDir string
}

// Target is a WordPress site root plus its content layout. It is built
// once per scan and only read afterwards, except for SetContentDir during
// detection.
type Target struct {
	base       *url.URL
	contentDir string
	pluginsDir string
	overridden bool
}

// New parses rawURL, adding http:// when no scheme is given and a trailing
// slash so that relative paths resolve under the site root.
func New(rawURL string, opts Options) (*Target, error) {
	raw := strings.TrimSpace(rawURL)
	if raw == "" {
		return nil, ErrEmptyURL
	}
	raw = AddHTTPProtocol(raw)
	raw = AddTrailingSlash(raw)

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("target: parse %q: %w", rawURL, err)
	}
	if u.Host == "" {
		return nil, fmt.Errorf("target: %q has no host", rawURL)
	}

	t := &Target{
		base:       u,
		contentDir: cleanDir(opts.ContentDir),
		pluginsDir: cleanDir(opts.PluginsDir),
		overridden: opts.ContentDir != "",
	}
	if t.contentDir == "" {
		t.contentDir = defaultContentDir
	}
	return t, nil
}

// AddHTTPProtocol prefixes http:// unless the URL already has an
// http or https scheme.
func AddHTTPProtocol(raw string) string {
	lower := strings.ToLower(raw)
	if strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://") {
		return raw
	}
	return "http://" + raw
}

// AddTrailingSlash appends "/" to the path when missing.
func AddTrailingSlash(raw string) string {
	if strings.HasSuffix(raw, "/") {
		return raw
	}
	return raw + "/"
}

func cleanDir(dir string) string {
	return strings.Trim(strings.TrimSpace(dir), "/")
}

// String returns the normalised site root.
func (t *Target) String() string { return t.base.String() }

// Host returns host[:port].
func (t *Target) Host() string { return t.base.Host }

// URL resolves path against the site root.
func (t *Target) URL(path string) string {
	ref, err := url.Parse(strings.TrimPrefix(path, "/"))
	if err != nil {
		return t.base.String() + strings.TrimPrefix(path, "/")
	}
	return t.base.ResolveReference(ref).String()
}

// ContentDir is the content directory relative to the root.
func (t *Target) ContentDir() string { return t.contentDir }

// SetContentDir records a detected content directory. It is ignored when
// the directory was given explicitly.
func (t *Target) SetContentDir(dir string) {
	if t.overridden {
		return
	}
	if d := cleanDir(dir); d != "" {
		t.contentDir = d
	}
}

// PluginsDir is the plugin directory relative to the root.
func (t *Target) PluginsDir() string {
	if t.pluginsDir != "" {
		return t.pluginsDir
	}
	return t.contentDir + "/" + pluginsSubdir
}

// ThemesDir is the theme directory relative to the root.
func (t *Target) ThemesDir() string {
	return t.contentDir + "/" + themesSubdir
}

// ContentURL resolves path under the content directory.
func (t *Target) ContentURL(path string) string {
	return t.URL(t.contentDir + "/" + strings.TrimPrefix(path, "/"))
}

// PluginsURL resolves path under the plugin directory.
func (t *Target) PluginsURL(path string) string {
	return t.URL(t.PluginsDir() + "/" + strings.TrimPrefix(path, "/"))
}

// ThemesURL resolves path under the theme directory.
func (t *Target) ThemesURL(path string) string {
	return t.URL(t.ThemesDir() + "/" + strings.TrimPrefix(path, "/"))
}

// LoginURL is wp-login.php.
func (t *Target) LoginURL() string { return t.URL("wp-login.php") }

// FeedURL is the RSS2 feed.
func (t *Target) FeedURL() string { return t.URL("feed/") }

// RDFURL is the RSS1/RDF feed.
func (t *Target) RDFURL() string { return t.URL("feed/rdf/") }

// AtomURL is the Atom feed.
func (t *Target) AtomURL() string { return t.URL("feed/atom/") }

// ReadmeURL is the bundled readme.html.
func (t *Target) ReadmeURL() string { return t.URL("readme.html") }

// SitemapURL is sitemap.xml.
func (t *Target) SitemapURL() string { return t.URL("sitemap.xml") }

// OPMLURL is the blogroll export.
func (t *Target) OPMLURL() string { return t.URL("wp-links-opml.php") }

// AuthorURL is the ?author=N archive used for user enumeration.
func (t *Target) AuthorURL(id int) string { return t.URL(fmt.Sprintf("?author=%d", id)) }

// DetectContentDir finds the content directory from asset paths in body.
// Only paths on this host, or relative ones, count. Returns "" when
// nothing matches.
func (t *Target) DetectContentDir(body string) string {
	host := regexp.QuoteMeta(t.base.Host)
	re := regexcache.MustGetFold(`(?:https?:)?//` + host + `/([\w./-]+?)/(?:themes|plugins|uploads|cache)/`)
	if m := re.FindStringSubmatch(body); len(m) > 1 {
		return stripBasePath(m[1], t.base.Path)
	}
	re = regexcache.MustGet(`(?:src|href)=["']/([\w./-]+?)/(?:themes|plugins|uploads|cache)/`)
	if m := re.FindStringSubmatch(body); len(m) > 1 {
		return stripBasePath(m[1], t.base.Path)
	}
	return ""
}

// stripBasePath turns "blog/wp-content" into "wp-content" for a site rooted
// at /blog/.
func stripBasePath(dir, basePath string) string {
	base := strings.Trim(basePath, "/")
	if base != "" {
		dir = strings.TrimPrefix(dir, base+"/")
	}
	return dir
}
