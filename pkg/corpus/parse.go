package corpus

import (
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/waftester/wpvane/pkg/fingerprint"
	"github.com/waftester/wpvane/pkg/jsonutil"
	"github.com/waftester/wpvane/pkg/vuln"
)

type versionTable struct {
	files []fingerprint.FileFingerprint
	known []string
}

type xmlVersions struct {
	Files []struct {
		Src    string `xml:"src,attr"`
		Hashes []struct {
			MD5     string `xml:"md5,attr"`
			SHA256  string `xml:"sha256,attr"`
			Version string `xml:"version"`
		} `xml:"hash"`
	} `xml:"file"`
}

func parseVersions(data []byte) (versionTable, error) {
	var doc xmlVersions
	if err := xml.NewDecoder(bytes.NewReader(data)).Decode(&doc); err != nil {
		return versionTable{}, err
	}

	var t versionTable
	seen := make(map[string]bool)
	for i, f := range doc.Files {
		if f.Src == "" {
			return versionTable{}, fmt.Errorf("file entry %d has no src", i)
		}
		entry := fingerprint.FileFingerprint{Path: f.Src}
		for _, h := range f.Hashes {
			v := strings.TrimSpace(h.Version)
			if v == "" || (h.MD5 == "" && h.SHA256 == "") {
				return versionTable{}, fmt.Errorf("%s: hash entry without version or digest", f.Src)
			}
			entry.Hashes = append(entry.Hashes, fingerprint.VersionHash{
				Version: v,
				MD5:     h.MD5,
				SHA256:  h.SHA256,
			})
			if !seen[v] {
				seen[v] = true
				t.known = append(t.known, v)
			}
		}
		t.files = append(t.files, entry)
	}
	return t, nil
}

type jsonRecord struct {
	Name             string   `json:"name"`
	Title            string   `json:"title"`
	Type             string   `json:"type"`
	References       []string `json:"references"`
	AffectedVersions []string `json:"affected_versions"`
	FixedIn          string   `json:"fixed_in"`
}

func parseRecords(r io.Reader, kind vuln.Kind) ([]vuln.Record, error) {
	var raw []jsonRecord
	if err := jsonutil.UnmarshalRead(r, &raw); err != nil {
		return nil, err
	}

	out := make([]vuln.Record, 0, len(raw))
	for i, r := range raw {
		if r.Title == "" {
			return nil, fmt.Errorf("record %d has no title", i)
		}
		if kind != vuln.KindCore && r.Name == "" {
			return nil, fmt.Errorf("record %d (%s) has no component name", i, r.Title)
		}
		out = append(out, vuln.Record{
			Kind:             kind,
			Component:        r.Name,
			Title:            r.Title,
			Type:             r.Type,
			References:       r.References,
			AffectedVersions: r.AffectedVersions,
			FixedIn:          r.FixedIn,
		})
	}
	return out, nil
}

type enumeration struct {
	Plugins   []string `yaml:"plugins"`
	Themes    []string `yaml:"themes"`
	Timthumbs []string `yaml:"timthumbs"`
}

func parseEnumeration(data []byte) (enumeration, error) {
	var e enumeration
	if err := yaml.Unmarshal(data, &e); err != nil {
		return enumeration{}, err
	}
	for _, list := range [][]string{e.Plugins, e.Themes, e.Timthumbs} {
		for _, s := range list {
			if strings.TrimSpace(s) == "" {
				return enumeration{}, errors.New("empty entry in enumeration list")
			}
		}
	}
	return e, nil
}
