// Package fingerprint resolves the WordPress core version of a target by
// running an ordered list of detection strategies.
package fingerprint

import "strings"

// ComponentKind distinguishes plugins from themes.
type ComponentKind string

const (
	KindPlugin ComponentKind = "plugin"
	KindTheme  ComponentKind = "theme"
)

// Component is an installed plugin or theme. Version is empty when it
// could not be determined.
type Component struct {
	Kind    ComponentKind `json:"kind"`
	Name    string        `json:"name"`
	Version string        `json:"version,omitempty"`
	Source  string        `json:"source,omitempty"`
}

// Identity is what a scan learned about the installation. Provenance names
// the single strategy that produced Version.
type Identity struct {
	Version    string      `json:"version,omitempty"`
	Provenance string      `json:"provenance,omitempty"`
	Components []Component `json:"components,omitempty"`
}

// Plugins returns the plugin components in discovery order.
func (id *Identity) Plugins() []Component { return id.byKind(KindPlugin) }

// Themes returns the theme components in discovery order.
func (id *Identity) Themes() []Component { return id.byKind(KindTheme) }

func (id *Identity) byKind(kind ComponentKind) []Component {
	if id == nil {
		return nil
	}
	var out []Component
	for _, c := range id.Components {
		if c.Kind == kind {
			out = append(out, c)
		}
	}
	return out
}

// AddComponent appends c unless a component of the same kind and name
// (case-insensitive) is already present. A version on the new entry fills
// in a missing one on the existing entry.
func (id *Identity) AddComponent(c Component) {
	for i := range id.Components {
		existing := &id.Components[i]
		if existing.Kind == c.Kind && strings.EqualFold(existing.Name, c.Name) {
			if existing.Version == "" && c.Version != "" {
				existing.Version = c.Version
			}
			return
		}
	}
	id.Components = append(id.Components, c)
}

// VersionHash maps a reference file's digests to the version that ships it.
type VersionHash struct {
	Version string
	MD5     string
	SHA256  string
}

// FileFingerprint is one entry of the reference table. Path may contain the
// $wp-content$ and $wp-plugins$ placeholders.
type FileFingerprint struct {
	Path   string
	Hashes []VersionHash
}
