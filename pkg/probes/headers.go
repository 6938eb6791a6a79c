package probes

import (
	"net/http"
	"sort"
	"strings"
)

// Header is a response header worth reporting.
type Header struct {
	Name  string `json:"name"`
	Value string `json:"value"`
}

// infoLeakHeaders reveal software or versions.
var infoLeakHeaders = []string{
	"Server",
	"X-Powered-By",
	"X-AspNet-Version",
	"X-Runtime",
	"X-Version",
	"X-Generator",
	"X-Pingback",
	"Via",
	"X-Cache",
	"X-Mod-Pagespeed",
}

// securityHeaders are expected on a hardened site.
var securityHeaders = []string{
	"Content-Security-Policy",
	"X-Frame-Options",
	"X-Content-Type-Options",
	"Strict-Transport-Security",
	"Referrer-Policy",
}

// InterestingHeaders returns the headers of h that disclose server
// software, sorted by name.
func InterestingHeaders(h http.Header) []Header {
	var out []Header
	for _, name := range infoLeakHeaders {
		if v := h.Values(name); len(v) > 0 {
			out = append(out, Header{Name: name, Value: strings.Join(v, ", ")})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// MissingSecurityHeaders returns the hardening headers absent from h.
// A report-only CSP counts as present.
func MissingSecurityHeaders(h http.Header) []string {
	var missing []string
	for _, name := range securityHeaders {
		if h.Get(name) != "" {
			continue
		}
		if name == "Content-Security-Policy" && h.Get("Content-Security-Policy-Report-Only") != "" {
			continue
		}
		missing = append(missing, name)
	}
	return missing
}

// HeadersSuggestWordPress reports WordPress markers in headers: the
// X-Pingback endpoint or a wp-json API link.
func HeadersSuggestWordPress(h http.Header) bool {
	if strings.Contains(strings.ToLower(h.Get("X-Pingback")), "xmlrpc.php") {
		return true
	}
	for _, l := range h.Values("Link") {
		if strings.Contains(l, "api.w.org") || strings.Contains(l, "/wp-json/") {
			return true
		}
	}
	return false
}
