package probes

import (
	"context"
	"fmt"

	"github.com/waftester/wpvane/pkg/fingerprint"
	"github.com/waftester/wpvane/pkg/regexcache"
	"github.com/waftester/wpvane/pkg/target"
)

const (
	stableTagPattern    = `(?im)^\s*stable tag:\s*([^\s]+)`
	themeVersionPattern = `(?im)^\s*version:\s*([^\s]+)`
)

// ComponentVersion reads a component's version from its readme.txt
// "Stable tag" (plugins) or style.css "Version" header (themes). It
// returns "" when the file is missing or the value has no dot.
func ComponentVersion(ctx context.Context, f Fetcher, t *target.Target, c fingerprint.Component) (string, error) {
	var u, pattern string
	switch c.Kind {
	case fingerprint.KindPlugin:
		u, pattern = t.PluginsURL(c.Name+"/readme.txt"), stableTagPattern
	case fingerprint.KindTheme:
		u, pattern = t.ThemesURL(c.Name+"/style.css"), themeVersionPattern
	default:
		return "", fmt.Errorf("probes: unknown component kind %q", c.Kind)
	}

	resp, err := f.GetFollow(ctx, u)
	if err != nil {
		return "", err
	}
	if resp.StatusCode != 200 {
		return "", nil
	}
	v := regexcache.FirstSubmatch(pattern, resp.BodyString())
	if !fingerprint.ValidVersion(v) {
		return "", nil
	}
	return v, nil
}
