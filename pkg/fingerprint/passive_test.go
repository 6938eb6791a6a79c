package fingerprint

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waftester/wpvane/pkg/target"
)

func TestPatternStrategies(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		strategy string
		path     string
		body     string
		want     string
	}{
		{
			name:     "meta generator",
			strategy: StrategyMetaGenerator,
			path:     "/",
			body:     `<meta name="generator" content="WordPress 3.8.1" />`,
			want:     "3.8.1",
		},
		{
			name:     "meta generator without dot",
			strategy: StrategyMetaGenerator,
			path:     "/",
			body:     `<meta name="generator" content="WordPress 4" />`,
		},
		{
			name:     "rss",
			strategy: StrategyRSSGenerator,
			path:     "/feed/",
			body:     `<channel><generator>http://wordpress.org/?v=3.5.1</generator></channel>`,
			want:     "3.5.1",
		},
		{
			name:     "rdf",
			strategy: StrategyRDFGenerator,
			path:     "/feed/rdf/",
			body:     `<admin:generatorAgent rdf:resource="http://wordpress.org/?v=3.4.2" />`,
			want:     "3.4.2",
		},
		{
			name:     "atom",
			strategy: StrategyAtomGenerator,
			path:     "/feed/atom/",
			body:     `<generator uri="http://wordpress.org/" version="3.6">WordPress</generator>`,
			want:     "3.6",
		},
		{
			name:     "readme",
			strategy: StrategyReadme,
			path:     "/readme.html",
			body:     "<h1 id=\"logo\"><img src=\"x.png\" />\n\t<br /> Version 3.0.5\n</h1>",
			want:     "3.0.5",
		},
		{
			name:     "sitemap",
			strategy: StrategySitemap,
			path:     "/sitemap.xml",
			body:     `<!-- generator="wordpress/3.3.2" -->`,
			want:     "3.3.2",
		},
		{
			name:     "links opml",
			strategy: StrategyLinksOPML,
			path:     "/wp-links-opml.php",
			body:     `<!-- generator="WordPress/3.2" -->`,
			want:     "3.2",
		},
		{
			name:     "missing resource",
			strategy: StrategySitemap,
			path:     "/not-the-sitemap.xml",
			body:     `generator="wordpress/3.3.2"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			tg, client := site(t, map[string]string{tt.path: tt.body})

			s := byName(t, DefaultStrategies(client, &stubCorpus{}), tt.strategy)
			got, err := s.Detect(t.Context(), tg)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func byName(t *testing.T, strategies []Strategy, name string) Strategy {
	t.Helper()
	for _, s := range strategies {
		if s.Name() == name {
			return s
		}
	}
	t.Fatalf("no strategy %q", name)
	return nil
}

func TestPipeline_FallsThroughToReadme(t *testing.T) {
	tg, client := site(t, map[string]string{
		"/":            `<html><link href="/x.css?ver=3.9"></html>`,
		"/feed/":       `<rss><generator>https://example.org/</generator></rss>`,
		"/readme.html": `<br /> Version 3.9.1`,
		"/sitemap.xml": `generator="wordpress/9.9"`,
	})

	r := NewResolver(DefaultStrategies(client, &stubCorpus{known: []string{"3.9"}}))
	id, ok := r.Resolve(t.Context(), tg)
	require.True(t, ok)
	assert.Equal(t, "3.9.1", id.Version)
	assert.Equal(t, StrategyReadme, id.Provenance)
}

func TestPipeline_CorpusFailureSkipsDependentStrategies(t *testing.T) {
	tg, client := site(t, map[string]string{
		"/":            `<link href="/a.css?ver=3.9"><link href="/b.css?ver=3.9">`,
		"/sitemap.xml": `generator="wordpress/3.9.2"`,
	})

	r := NewResolver(DefaultStrategies(client, &stubCorpus{err: errCorpus}))
	id, ok := r.Resolve(t.Context(), tg)
	require.True(t, ok)
	assert.Equal(t, "3.9.2", id.Version)
	assert.Equal(t, StrategySitemap, id.Provenance)
}

func TestPipeline_UnreachableTarget(t *testing.T) {
	_, client := site(t, nil)
	dead, err := target.New("http://127.0.0.1:1/", target.Options{})
	require.NoError(t, err)

	_, ok := NewResolver(DefaultStrategies(client, &stubCorpus{})).Resolve(t.Context(), dead)
	assert.False(t, ok)
}
