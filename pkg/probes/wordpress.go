package probes

import (
	"regexp"
	"strings"

	"github.com/waftester/wpvane/pkg/fingerprint"
	"github.com/waftester/wpvane/pkg/regexcache"
	"github.com/waftester/wpvane/pkg/target"
)

var wpIndicators = []string{
	"/wp-content/",
	"/wp-includes/",
	"/wp-admin/",
	"wp-json",
	`<meta name="generator" content="wordpress`,
}

// DetectWordPress checks a homepage body for WordPress markers.
func DetectWordPress(body string) bool {
	lower := strings.ToLower(body)
	for _, ind := range wpIndicators {
		if strings.Contains(lower, ind) {
			return true
		}
	}
	return false
}

// PassiveComponents returns the plugins and themes referenced by asset
// paths in body, in first-seen order. Paths under the target's own
// content and plugin directories count, so a renamed wp-content still
// works once detected.
func PassiveComponents(body string, t *target.Target) []fingerprint.Component {
	id := &fingerprint.Identity{}
	scan := func(kind fingerprint.ComponentKind, dir string) {
		re := regexcache.MustGetFold(`/` + regexp.QuoteMeta(dir) + `/([\w.-]+)[/'"]`)
		for _, m := range re.FindAllStringSubmatch(body, 200) {
			id.AddComponent(fingerprint.Component{Kind: kind, Name: m[1], Source: "passive"})
		}
	}
	scan(fingerprint.KindPlugin, t.PluginsDir())
	scan(fingerprint.KindTheme, t.ThemesDir())
	return id.Components
}
