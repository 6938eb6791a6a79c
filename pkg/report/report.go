// Package report renders scan results as text or JSON.
package report

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/template"
	"time"

	"github.com/Masterminds/sprig/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/waftester/wpvane/pkg/bruteforce"
	"github.com/waftester/wpvane/pkg/fingerprint"
	"github.com/waftester/wpvane/pkg/jsonutil"
	"github.com/waftester/wpvane/pkg/probes"
	"github.com/waftester/wpvane/pkg/ui"
	"github.com/waftester/wpvane/pkg/vuln"
)

// Output formats.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// ErrUnknownFormat is returned for a format other than text or json.
var ErrUnknownFormat = errors.New("report: unknown format")

// Report is everything one scan found.
type Report struct {
	ScanID     string    `json:"scan_id"`
	Target     string    `json:"target"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`

	// Identity is nil when the version could not be determined and no
	// component was found.
	Identity *fingerprint.Identity `json:"identity,omitempty"`

	Favicon            *probes.FaviconResult      `json:"favicon,omitempty"`
	Headers            []probes.Header            `json:"interesting_headers,omitempty"`
	MissingHeaders     []string                   `json:"missing_security_headers,omitempty"`
	Vulnerabilities    []vuln.Record              `json:"vulnerabilities"`
	FullPathDisclosure *probes.FullPathDisclosure `json:"full_path_disclosure,omitempty"`
	Timthumbs          []string                   `json:"timthumbs,omitempty"`
	Users              []probes.User              `json:"users,omitempty"`
	Credentials        []bruteforce.Credential    `json:"credentials,omitempty"`

	// Warnings are non-fatal problems, e.g. unusable corpus files.
	Warnings []string `json:"warnings,omitempty"`
}

// Duration is the wall time of the scan.
func (r *Report) Duration() time.Duration {
	return r.FinishedAt.Sub(r.StartedAt).Round(time.Millisecond)
}

// Write renders r to w in the given format.
func Write(w io.Writer, format string, r *Report) error {
	switch strings.ToLower(format) {
	case FormatText, "":
		return WriteText(w, r)
	case FormatJSON:
		return WriteJSON(w, r)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// WriteJSON writes r as indented JSON followed by a newline.
func WriteJSON(w io.Writer, r *Report) error {
	enc := jsonutil.NewStreamEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// WriteText writes the human readable report.
func WriteText(w io.Writer, r *Report) error {
	return textTemplate.Execute(w, r)
}

var titleCase = cases.Title(language.English)

func funcMap() template.FuncMap {
	fm := sprig.TxtFuncMap()
	fm["marker"] = ui.Marker
	fm["title"] = func(v any) string { return titleCase.String(fmt.Sprint(v)) }
	fm["link"] = func(s string) string { return ui.URLStyle.Render(s) }
	fm["vulnTitle"] = func(s string) string { return ui.VulnStyle.Render(s) }
	fm["warn"] = func(s string) string { return ui.WarnStyle.Render(s) }
	fm["provenance"] = func(s string) string { return strings.ReplaceAll(s, "_", " ") }
	fm["vulnsFor"] = vulnsFor
	return fm
}

// vulnsFor returns the records that apply to the named component, or to
// core when name is empty.
func vulnsFor(records []vuln.Record, kind any, name string) []vuln.Record {
	var out []vuln.Record
	for _, r := range records {
		if r.AppliesTo(vuln.Kind(fmt.Sprint(kind)), name) {
			out = append(out, r)
		}
	}
	return out
}

var textTemplate = template.Must(template.New("report").Funcs(funcMap()).Parse(textReport))
