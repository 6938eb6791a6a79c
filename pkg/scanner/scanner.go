// Package scanner runs a full WordPress scan as an ordered list of named
// steps and collects the results into a report.
package scanner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/waftester/wpvane/pkg/config"
	"github.com/waftester/wpvane/pkg/corpus"
	"github.com/waftester/wpvane/pkg/fingerprint"
	"github.com/waftester/wpvane/pkg/httpclient"
	"github.com/waftester/wpvane/pkg/logger"
	"github.com/waftester/wpvane/pkg/metrics"
	"github.com/waftester/wpvane/pkg/probes"
	"github.com/waftester/wpvane/pkg/report"
	"github.com/waftester/wpvane/pkg/target"
	"github.com/waftester/wpvane/pkg/vuln"
)

// ErrRedirect is returned when the homepage redirects and following
// redirects was not requested.
var ErrRedirect = errors.New("scanner: the remote host redirected")

// Client is the access port the scan runs on. *httpclient.Client
// satisfies it.
type Client interface {
	Get(ctx context.Context, rawURL string) (*httpclient.Response, error)
	GetFollow(ctx context.Context, rawURL string) (*httpclient.Response, error)
	Do(ctx context.Context, req *httpclient.Request) (*httpclient.Response, error)
}

type stepFunc func(ctx context.Context, st *scan) error

type step struct {
	name string
	// fatal steps abort the scan on error; others only add a warning.
	fatal bool
	fn    stepFunc
}

// Scanner holds what a scan needs. Build one per run.
type Scanner struct {
	opts     *config.Options
	client   Client
	corpus   *corpus.Corpus
	log      logrus.FieldLogger
	metrics  *metrics.Collector
	progress io.Writer
	tracer   trace.Tracer
	steps    []step
}

// Option configures a Scanner.
type Option func(*Scanner)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Scanner) { s.log = logger.OrDiscard(l) }
}

// WithMetrics sets the metrics collector.
func WithMetrics(m *metrics.Collector) Option {
	return func(s *Scanner) { s.metrics = m }
}

// WithProgress sets where brute-force progress is written.
func WithProgress(w io.Writer) Option {
	return func(s *Scanner) {
		if w != nil {
			s.progress = w
		}
	}
}

// New returns a Scanner for validated opts.
func New(opts *config.Options, client Client, c *corpus.Corpus, options ...Option) *Scanner {
	s := &Scanner{
		opts:     opts,
		client:   client,
		corpus:   c,
		log:      logger.Discard(),
		progress: io.Discard,
		tracer:   otel.Tracer("wpvane/scanner"),
	}
	for _, o := range options {
		o(s)
	}
	s.steps = []step{
		{"homepage", true, s.stepHomepage},
		{"wordpress", true, s.stepWordPress},
		{"version", false, s.stepVersion},
		{"favicon", false, s.stepFavicon},
		{"components", false, s.stepComponents},
		{"component-versions", false, s.stepComponentVersions},
		{"vulnerabilities", false, s.stepVulnerabilities},
		{"full-path-disclosure", false, s.stepFullPathDisclosure},
		{"users", false, s.stepUsers},
		{"bruteforce", false, s.stepBruteForce},
	}
	return s
}

// Steps returns the step names in execution order.
func (s *Scanner) Steps() []string {
	out := make([]string, len(s.steps))
	for i, st := range s.steps {
		out[i] = st.name
	}
	return out
}

// scan is the state of one run, shared by the steps.
type scan struct {
	target   *target.Target
	homepage *httpclient.Response
	identity *fingerprint.Identity
	report   *report.Report

	// fpd is started before version resolution and collected by its own step.
	fpd *probes.FullPathDisclosureCheck
}

// Run executes every step in order. The report is returned even when a
// fatal step fails, so partial results can still be printed.
func (s *Scanner) Run(ctx context.Context) (*report.Report, error) {
	t, err := target.New(s.opts.URL, target.Options{
		ContentDir: s.opts.WPContentDir,
		PluginsDir: s.opts.WPPluginsDir,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", config.ErrInvalidConfig, err)
	}

	st := &scan{
		target:   t,
		identity: &fingerprint.Identity{},
		report: &report.Report{
			ScanID:          uuid.NewString(),
			Target:          t.String(),
			StartedAt:       time.Now(),
			Vulnerabilities: []vuln.Record{},
		},
	}
	for _, err := range s.corpus.Check() {
		st.report.Warnings = append(st.report.Warnings, err.Error())
	}

	ctx, span := s.tracer.Start(ctx, "scan", trace.WithAttributes(
		attribute.String("scan.id", st.report.ScanID),
		attribute.String("target", t.String()),
	))
	defer span.End()

	log := s.log.WithField("scan_id", st.report.ScanID)
	var runErr error
	for _, step := range s.steps {
		if err := ctx.Err(); err != nil {
			runErr = err
			break
		}
		if err := s.runStep(ctx, step, st); err != nil {
			if step.fatal || ctx.Err() != nil {
				runErr = err
				break
			}
			log.WithError(err).WithField("step", step.name).Warn("step failed")
			st.report.Warnings = append(st.report.Warnings, fmt.Sprintf("%s: %v", step.name, err))
		}
	}

	st.report.Target = st.target.String()
	if st.identity.Version != "" || len(st.identity.Components) > 0 {
		st.report.Identity = st.identity
	}
	st.report.FinishedAt = time.Now()
	if runErr != nil {
		span.RecordError(runErr)
		span.SetStatus(codes.Error, runErr.Error())
	}
	return st.report, runErr
}

func (s *Scanner) runStep(ctx context.Context, step step, st *scan) error {
	ctx, span := s.tracer.Start(ctx, "scan."+step.name)
	defer span.End()

	start := time.Now()
	err := step.fn(ctx, st)
	s.log.WithFields(logrus.Fields{
		"step":    step.name,
		"elapsed": time.Since(start).Round(time.Millisecond),
	}).Debug("step done")
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}
