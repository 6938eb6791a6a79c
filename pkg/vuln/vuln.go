// Package vuln correlates an identified installation with known
// vulnerabilities.
package vuln

import (
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/waftester/wpvane/pkg/fingerprint"
	"github.com/waftester/wpvane/pkg/logger"
)

// Kind is the kind of software a record applies to.
type Kind string

const (
	KindCore   Kind = "core"
	KindPlugin Kind = Kind(fingerprint.KindPlugin)
	KindTheme  Kind = Kind(fingerprint.KindTheme)
)

// Record is one known vulnerability. AffectedVersions is an exact list;
// no range or semantic comparison is applied to it.
type Record struct {
	Kind             Kind     `json:"kind"`
	Component        string   `json:"component,omitempty"`
	Title            string   `json:"title"`
	Type             string   `json:"type,omitempty"`
	References       []string `json:"references,omitempty"`
	AffectedVersions []string `json:"affected_versions"`
	FixedIn          string   `json:"fixed_in,omitempty"`
}

// Affects reports whether version is listed verbatim.
func (r Record) Affects(version string) bool {
	if version == "" {
		return false
	}
	for _, v := range r.AffectedVersions {
		if v == version {
			return true
		}
	}
	return false
}

// AppliesTo reports whether the record is about the named component.
// Names are compared case-insensitively; core records match any name.
func (r Record) AppliesTo(kind Kind, name string) bool {
	if r.Kind != kind {
		return false
	}
	return kind == KindCore || strings.EqualFold(r.Component, name)
}

// Source provides vulnerability records per kind.
type Source interface {
	CoreVulnerabilities() ([]Record, error)
	PluginVulnerabilities() ([]Record, error)
	ThemeVulnerabilities() ([]Record, error)
}

// Correlator matches identities against a Source.
type Correlator struct {
	src Source
	log logrus.FieldLogger
}

// NewCorrelator returns a Correlator reading from src.
func NewCorrelator(src Source, log logrus.FieldLogger) *Correlator {
	return &Correlator{src: src, log: logger.OrDiscard(log)}
}

// Correlate returns every record whose affected versions contain the core
// version or the version of an identified component. Components without a
// version are skipped. A Source error only empties that kind's records.
// The result is never nil.
func (c *Correlator) Correlate(id *fingerprint.Identity) []Record {
	out := []Record{}
	if id == nil {
		return out
	}

	if id.Version != "" {
		for _, r := range c.load(KindCore, c.src.CoreVulnerabilities) {
			if r.AppliesTo(KindCore, "") && r.Affects(id.Version) {
				out = append(out, r)
			}
		}
	}

	var plugins, themes []Record
	if len(id.Plugins()) > 0 {
		plugins = c.load(KindPlugin, c.src.PluginVulnerabilities)
	}
	if len(id.Themes()) > 0 {
		themes = c.load(KindTheme, c.src.ThemeVulnerabilities)
	}

	for _, comp := range id.Components {
		if comp.Version == "" {
			continue
		}
		kind := Kind(comp.Kind)
		records := plugins
		if kind == KindTheme {
			records = themes
		}
		for _, r := range records {
			if r.AppliesTo(kind, comp.Name) && r.Affects(comp.Version) {
				out = append(out, r)
			}
		}
	}
	return out
}

func (c *Correlator) load(kind Kind, fn func() ([]Record, error)) []Record {
	records, err := fn()
	if err != nil {
		c.log.WithError(err).WithField("kind", kind).Warn("vulnerability data unavailable")
		return nil
	}
	return records
}

// Correlate is shorthand for NewCorrelator(src, nil).Correlate(id).
func Correlate(id *fingerprint.Identity, src Source) []Record {
	return NewCorrelator(src, nil).Correlate(id)
}
