// Package corpus loads the read-only reference data a scan runs against:
// the file fingerprint table, vulnerability records and enumeration lists.
//
// Each file is parsed at most once. A broken file only disables the
// accessors that depend on it.
package corpus

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"

	"github.com/sirupsen/logrus"

	"github.com/waftester/wpvane/pkg/fingerprint"
	"github.com/waftester/wpvane/pkg/logger"
	"github.com/waftester/wpvane/pkg/vuln"
)

// ErrDataIntegrity is returned when a corpus file is missing or unparsable.
var ErrDataIntegrity = errors.New("corpus: data integrity")

// File names inside the corpus directory.
const (
	VersionsFile     = "wp_versions.xml"
	CoreVulnsFile    = "wp_vulns.json"
	PluginVulnsFile  = "plugin_vulns.json"
	ThemeVulnsFile   = "theme_vulns.json"
	EnumerationsFile = "enumeration.yaml"
)

// Corpus is safe for concurrent use.
type Corpus struct {
	fsys fs.FS
	log  logrus.FieldLogger

	versions  lazy[versionTable]
	core      lazy[[]vuln.Record]
	plugins   lazy[[]vuln.Record]
	themes    lazy[[]vuln.Record]
	enumLists lazy[enumeration]
}

// Load returns a Corpus reading from dir.
func Load(dir string, log logrus.FieldLogger) *Corpus {
	return New(os.DirFS(dir), log)
}

// New returns a Corpus reading from fsys.
func New(fsys fs.FS, log logrus.FieldLogger) *Corpus {
	return &Corpus{fsys: fsys, log: logger.OrDiscard(log)}
}

// KnownVersions returns every version referenced by the fingerprint table,
// in table order, without duplicates.
func (c *Corpus) KnownVersions() ([]string, error) {
	t, err := c.versionTable()
	if err != nil {
		return nil, err
	}
	return t.known, nil
}

// Fingerprints returns the reference file table in file order.
func (c *Corpus) Fingerprints() ([]fingerprint.FileFingerprint, error) {
	t, err := c.versionTable()
	if err != nil {
		return nil, err
	}
	return t.files, nil
}

func (c *Corpus) versionTable() (versionTable, error) {
	return c.versions.get(func() (versionTable, error) {
		data, err := c.read(VersionsFile)
		if err != nil {
			return versionTable{}, err
		}
		t, err := parseVersions(data)
		if err != nil {
			return versionTable{}, c.integrity(VersionsFile, err)
		}
		return t, nil
	})
}

// CoreVulnerabilities returns the records for WordPress itself.
func (c *Corpus) CoreVulnerabilities() ([]vuln.Record, error) {
	return c.core.get(func() ([]vuln.Record, error) {
		return c.records(CoreVulnsFile, vuln.KindCore)
	})
}

// PluginVulnerabilities returns the plugin records.
func (c *Corpus) PluginVulnerabilities() ([]vuln.Record, error) {
	return c.plugins.get(func() ([]vuln.Record, error) {
		return c.records(PluginVulnsFile, vuln.KindPlugin)
	})
}

// ThemeVulnerabilities returns the theme records.
func (c *Corpus) ThemeVulnerabilities() ([]vuln.Record, error) {
	return c.themes.get(func() ([]vuln.Record, error) {
		return c.records(ThemeVulnsFile, vuln.KindTheme)
	})
}

func (c *Corpus) records(name string, kind vuln.Kind) ([]vuln.Record, error) {
	f, err := c.fsys.Open(name)
	if err != nil {
		return nil, c.integrity(name, err)
	}
	defer f.Close()

	records, err := parseRecords(f, kind)
	if err != nil {
		return nil, c.integrity(name, err)
	}
	c.log.WithFields(logrus.Fields{"file": name, "records": len(records)}).Debug("corpus loaded")
	return records, nil
}

// PluginNames returns the plugin slugs to probe in "all plugins" mode.
func (c *Corpus) PluginNames() ([]string, error) {
	e, err := c.enumeration()
	return e.Plugins, err
}

// ThemeNames returns the theme slugs to probe in "all themes" mode.
func (c *Corpus) ThemeNames() ([]string, error) {
	e, err := c.enumeration()
	return e.Themes, err
}

// TimthumbPaths returns the known timthumb locations.
func (c *Corpus) TimthumbPaths() ([]string, error) {
	e, err := c.enumeration()
	return e.Timthumbs, err
}

func (c *Corpus) enumeration() (enumeration, error) {
	return c.enumLists.get(func() (enumeration, error) {
		data, err := fs.ReadFile(c.fsys, EnumerationsFile)
		if errors.Is(err, fs.ErrNotExist) {
			return enumeration{}, nil
		}
		if err != nil {
			return enumeration{}, c.integrity(EnumerationsFile, err)
		}
		e, err := parseEnumeration(data)
		if err != nil {
			return enumeration{}, c.integrity(EnumerationsFile, err)
		}
		return e, nil
	})
}

// Check loads every file and returns the problems found, one per file.
func (c *Corpus) Check() []error {
	var errs []error
	if _, err := c.versionTable(); err != nil {
		errs = append(errs, err)
	}
	for _, fn := range []func() ([]vuln.Record, error){
		c.CoreVulnerabilities, c.PluginVulnerabilities, c.ThemeVulnerabilities,
	} {
		if _, err := fn(); err != nil {
			errs = append(errs, err)
		}
	}
	if _, err := c.enumeration(); err != nil {
		errs = append(errs, err)
	}
	return errs
}

func (c *Corpus) read(name string) ([]byte, error) {
	data, err := fs.ReadFile(c.fsys, name)
	if err != nil {
		return nil, c.integrity(name, err)
	}
	return data, nil
}

func (c *Corpus) integrity(name string, err error) error {
	wrapped := fmt.Errorf("%w: %s: %w", ErrDataIntegrity, name, err)
	c.log.WithError(err).WithField("file", name).Warn("corpus file unusable")
	return wrapped
}

// lazy caches the first result of a loader, error included.
type lazy[T any] struct {
	once sync.Once
	val  T
	err  error
}

func (l *lazy[T]) get(load func() (T, error)) (T, error) {
	l.once.Do(func() { l.val, l.err = load() })
	return l.val, l.err
}
