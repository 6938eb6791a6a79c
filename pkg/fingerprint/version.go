package fingerprint

import (
	"strings"

	"github.com/waftester/wpvane/pkg/regexcache"
)

// VersionPattern captures a version: at least one dot, no quotes or line
// breaks.
const VersionPattern = `([^\r\n"']+\.[^\r\n"']+)`

// ValidVersion reports whether v looks like a version, i.e. contains a dot.
func ValidVersion(v string) bool {
	return strings.Contains(v, ".")
}

// extractVersion applies a case-insensitive pattern to body and returns
// the first capture group, or "" when there is no valid match.
func extractVersion(pattern, body string) string {
	m := regexcache.MustGetFold(pattern).FindStringSubmatch(body)
	if len(m) < 2 {
		return ""
	}
	v := strings.TrimSpace(m[1])
	if !ValidVersion(v) {
		return ""
	}
	return v
}
