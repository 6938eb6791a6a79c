package corpus

import (
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waftester/wpvane/pkg/fingerprint"
	"github.com/waftester/wpvane/pkg/vuln"
)

const versionsXML = `<?xml version="1.0" encoding="UTF-8"?>
<wp-versions>
  <file src="wp-includes/js/tinymce/tiny_mce.js">
    <hash md5="aa11" sha256="bb11"><version>3.6</version></hash>
    <hash md5="aa22"><version>3.5</version></hash>
  </file>
  <file src="$wp-content$/themes/twentyten/style.css">
    <hash sha256="cc33"><version>3.5</version></hash>
    <hash md5="dd44"><version>3.4.2</version></hash>
  </file>
</wp-versions>`

func fullFS() fstest.MapFS {
	return fstest.MapFS{
		VersionsFile: {Data: []byte(versionsXML)},
		CoreVulnsFile: {Data: []byte(`[
			{"title":"Core XSS","type":"XSS","affected_versions":["3.5"],"references":["https://example.org/1"]}
		]`)},
		PluginVulnsFile: {Data: []byte(`[
			{"name":"akismet","title":"Akismet XSS","affected_versions":["2.5.3"],"fixed_in":"2.5.4"}
		]`)},
		ThemeVulnsFile: {Data: []byte(`[]`)},
		EnumerationsFile: {Data: []byte("plugins:\n  - akismet\n  - jetpack\nthemes:\n  - twentyten\ntimthumbs:\n  - timthumb.php\n")},
	}
}

func TestFingerprints(t *testing.T) {
	t.Parallel()

	c := New(fullFS(), nil)
	files, err := c.Fingerprints()
	require.NoError(t, err)
	require.Len(t, files, 2)

	assert.Equal(t, "wp-includes/js/tinymce/tiny_mce.js", files[0].Path)
	assert.Equal(t, []fingerprint.VersionHash{
		{Version: "3.6", MD5: "aa11", SHA256: "bb11"},
		{Version: "3.5", MD5: "aa22"},
	}, files[0].Hashes)
	assert.Equal(t, "$wp-content$/themes/twentyten/style.css", files[1].Path)
}

func TestKnownVersions_OrderedAndDeduplicated(t *testing.T) {
	t.Parallel()

	versions, err := New(fullFS(), nil).KnownVersions()
	require.NoError(t, err)
	assert.Equal(t, []string{"3.6", "3.5", "3.4.2"}, versions)
}

func TestVulnerabilities(t *testing.T) {
	t.Parallel()

	c := New(fullFS(), nil)

	core, err := c.CoreVulnerabilities()
	require.NoError(t, err)
	require.Len(t, core, 1)
	assert.Equal(t, vuln.KindCore, core[0].Kind)
	assert.Equal(t, []string{"https://example.org/1"}, core[0].References)

	plugins, err := c.PluginVulnerabilities()
	require.NoError(t, err)
	require.Len(t, plugins, 1)
	assert.Equal(t, vuln.KindPlugin, plugins[0].Kind)
	assert.Equal(t, "akismet", plugins[0].Component)
	assert.Equal(t, "2.5.4", plugins[0].FixedIn)

	themes, err := c.ThemeVulnerabilities()
	require.NoError(t, err)
	assert.Empty(t, themes)
}

func TestEnumerationLists(t *testing.T) {
	t.Parallel()

	c := New(fullFS(), nil)

	plugins, err := c.PluginNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"akismet", "jetpack"}, plugins)

	themes, err := c.ThemeNames()
	require.NoError(t, err)
	assert.Equal(t, []string{"twentyten"}, themes)

	paths, err := c.TimthumbPaths()
	require.NoError(t, err)
	assert.Equal(t, []string{"timthumb.php"}, paths)
}

func TestEnumerationMissingIsEmpty(t *testing.T) {
	t.Parallel()

	fsys := fullFS()
	delete(fsys, EnumerationsFile)

	plugins, err := New(fsys, nil).PluginNames()
	require.NoError(t, err)
	assert.Empty(t, plugins)
}

func TestDataIntegrity_ScopedToAccessor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		mutate func(fstest.MapFS)
		broken func(*Corpus) error
		intact func(*Corpus) error
	}{
		{
			name:   "missing versions file",
			mutate: func(m fstest.MapFS) { delete(m, VersionsFile) },
			broken: func(c *Corpus) error { _, err := c.Fingerprints(); return err },
			intact: func(c *Corpus) error { _, err := c.CoreVulnerabilities(); return err },
		},
		{
			name:   "malformed versions xml",
			mutate: func(m fstest.MapFS) { m[VersionsFile] = &fstest.MapFile{Data: []byte("<wp-versions><file")} },
			broken: func(c *Corpus) error { _, err := c.KnownVersions(); return err },
			intact: func(c *Corpus) error { _, err := c.PluginVulnerabilities(); return err },
		},
		{
			name:   "hash without version",
			mutate: func(m fstest.MapFS) { m[VersionsFile] = &fstest.MapFile{Data: []byte(`<x><file src="a.js"><hash md5="1"></hash></file></x>`)} },
			broken: func(c *Corpus) error { _, err := c.Fingerprints(); return err },
			intact: func(c *Corpus) error { _, err := c.ThemeVulnerabilities(); return err },
		},
		{
			name:   "malformed plugin json",
			mutate: func(m fstest.MapFS) { m[PluginVulnsFile] = &fstest.MapFile{Data: []byte(`{"oops"`)} },
			broken: func(c *Corpus) error { _, err := c.PluginVulnerabilities(); return err },
			intact: func(c *Corpus) error { _, err := c.Fingerprints(); return err },
		},
		{
			name:   "plugin record without name",
			mutate: func(m fstest.MapFS) { m[PluginVulnsFile] = &fstest.MapFile{Data: []byte(`[{"title":"x"}]`)} },
			broken: func(c *Corpus) error { _, err := c.PluginVulnerabilities(); return err },
			intact: func(c *Corpus) error { _, err := c.CoreVulnerabilities(); return err },
		},
		{
			name:   "malformed enumeration yaml",
			mutate: func(m fstest.MapFS) { m[EnumerationsFile] = &fstest.MapFile{Data: []byte("plugins: [a, b\n")} },
			broken: func(c *Corpus) error { _, err := c.PluginNames(); return err },
			intact: func(c *Corpus) error { _, err := c.KnownVersions(); return err },
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			fsys := fullFS()
			tt.mutate(fsys)
			c := New(fsys, nil)

			err := tt.broken(c)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrDataIntegrity)
			assert.NoError(t, tt.intact(c))
		})
	}
}

func TestCheck(t *testing.T) {
	t.Parallel()

	assert.Empty(t, New(fullFS(), nil).Check())

	fsys := fullFS()
	delete(fsys, CoreVulnsFile)
	delete(fsys, ThemeVulnsFile)
	errs := New(fsys, nil).Check()
	require.Len(t, errs, 2)
	assert.ErrorContains(t, errs[0], CoreVulnsFile)
	assert.ErrorContains(t, errs[1], ThemeVulnsFile)
}

func TestLoad_Directory(t *testing.T) {
	t.Parallel()

	c := Load(t.TempDir(), nil)
	_, err := c.Fingerprints()
	assert.ErrorIs(t, err, ErrDataIntegrity)
}

func TestCorpus_SatisfiesConsumers(t *testing.T) {
	t.Parallel()

	var _ fingerprint.Corpus = (*Corpus)(nil)
	var _ vuln.Source = (*Corpus)(nil)
}
