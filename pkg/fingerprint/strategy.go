package fingerprint

import (
	"context"

	"github.com/waftester/wpvane/pkg/httpclient"
	"github.com/waftester/wpvane/pkg/target"
)

// Strategy names, in priority order. They double as provenance tags.
const (
	StrategyMetaGenerator  = "meta_generator"
	StrategyRSSGenerator   = "rss_generator"
	StrategyRDFGenerator   = "rdf_generator"
	StrategyAtomGenerator  = "atom_generator"
	StrategyStylesheets    = "stylesheets_numbers"
	StrategyFingerprinting = "advanced_fingerprinting"
	StrategyReadme         = "readme"
	StrategySitemap        = "sitemap_generator"
	StrategyLinksOPML      = "links_opml"
)

// Strategy is one way of finding the core version. Detect returns "" with
// a nil error when it finds nothing.
type Strategy interface {
	Name() string
	Detect(ctx context.Context, t *target.Target) (string, error)
}

// Fetcher is the part of the access port the strategies need.
type Fetcher interface {
	Get(ctx context.Context, rawURL string) (*httpclient.Response, error)
	GetFollow(ctx context.Context, rawURL string) (*httpclient.Response, error)
}

// Corpus supplies the reference data used by the voting and hashing
// strategies.
type Corpus interface {
	KnownVersions() ([]string, error)
	Fingerprints() ([]FileFingerprint, error)
}

// DefaultStrategies returns the detection pipeline in its fixed order.
// Changing the order changes which version is reported when signals
// disagree.
func DefaultStrategies(f Fetcher, c Corpus) []Strategy {
	return []Strategy{
		NewPatternStrategy(StrategyMetaGenerator, f, (*target.Target).String,
			`name="generator" content="wordpress `+VersionPattern+`"`),
		NewPatternStrategy(StrategyRSSGenerator, f, (*target.Target).FeedURL,
			`<generator>https?://wordpress\.org/\?v=`+VersionPattern+`</generator>`),
		NewPatternStrategy(StrategyRDFGenerator, f, (*target.Target).RDFURL,
			`<admin:generatorAgent rdf:resource="https?://wordpress\.org/\?v=`+VersionPattern+`" />`),
		NewPatternStrategy(StrategyAtomGenerator, f, (*target.Target).AtomURL,
			`<generator uri="https?://wordpress\.org/" version="`+VersionPattern+`">WordPress</generator>`),
		NewStylesheetStrategy(f, c),
		NewHashStrategy(f, c),
		NewPatternStrategy(StrategyReadme, f, (*target.Target).ReadmeURL,
			`<br />\s*version `+VersionPattern),
		NewPatternStrategy(StrategySitemap, f, (*target.Target).SitemapURL,
			`generator="wordpress/`+VersionPattern+`"`),
		NewPatternStrategy(StrategyLinksOPML, f, (*target.Target).OPMLURL,
			`generator="wordpress/`+VersionPattern+`"`),
	}
}
