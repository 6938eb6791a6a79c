package fingerprint

import (
	"context"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/waftester/wpvane/pkg/logger"
	"github.com/waftester/wpvane/pkg/target"
)

// Strategy outcomes reported to an Observer.
const (
	OutcomeMatch   = "match"
	OutcomeMiss    = "miss"
	OutcomeInvalid = "invalid"
	OutcomeError   = "error"
)

// Observer is notified after every strategy run.
type Observer interface {
	ObserveStrategy(name, outcome string)
}

// Resolver runs strategies one after another and stops at the first one
// that yields a valid version.
type Resolver struct {
	strategies []Strategy
	log        logrus.FieldLogger
	tracer     trace.Tracer
	observer   Observer
}

// Option configures a Resolver.
type Option func(*Resolver)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(r *Resolver) { r.log = logger.OrDiscard(l) }
}

// WithTracer sets the tracer used for per-strategy spans.
func WithTracer(t trace.Tracer) Option {
	return func(r *Resolver) {
		if t != nil {
			r.tracer = t
		}
	}
}

// WithObserver sets a strategy observer, typically the metrics collector.
func WithObserver(o Observer) Option {
	return func(r *Resolver) { r.observer = o }
}

// NewResolver returns a Resolver that runs strategies in the given order.
func NewResolver(strategies []Strategy, opts ...Option) *Resolver {
	r := &Resolver{
		strategies: strategies,
		log:        logger.Discard(),
		tracer:     otel.Tracer("wpvane/fingerprint"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Names returns the strategy names in execution order.
func (r *Resolver) Names() []string {
	names := make([]string, len(r.strategies))
	for i, s := range r.strategies {
		names[i] = s.Name()
	}
	return names
}

// Resolve returns the identity produced by the first strategy that finds a
// version. Strategy errors are logged and count as no match, so an
// unreachable feed or a broken reference file never aborts the pipeline.
func (r *Resolver) Resolve(ctx context.Context, t *target.Target) (*Identity, bool) {
	ctx, span := r.tracer.Start(ctx, "fingerprint.resolve",
		trace.WithAttributes(attribute.String("target", t.String())))
	defer span.End()

	for _, s := range r.strategies {
		if ctx.Err() != nil {
			return nil, false
		}
		version, outcome := r.run(ctx, s, t)
		r.observe(s.Name(), outcome)
		if outcome != OutcomeMatch {
			continue
		}
		span.SetAttributes(
			attribute.String("version", version),
			attribute.String("provenance", s.Name()),
		)
		return &Identity{Version: version, Provenance: s.Name()}, true
	}
	return nil, false
}

func (r *Resolver) run(ctx context.Context, s Strategy, t *target.Target) (string, string) {
	ctx, span := r.tracer.Start(ctx, "fingerprint."+s.Name())
	defer span.End()

	log := r.log.WithField("strategy", s.Name())
	version, err := s.Detect(ctx, t)
	switch {
	case err != nil:
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.WithError(err).Debug("strategy failed, trying next")
		return "", OutcomeError
	case version == "":
		log.Debug("no version found")
		return "", OutcomeMiss
	case !ValidVersion(version):
		log.WithField("value", version).Debug("discarding version without a dot")
		return "", OutcomeInvalid
	}
	log.WithField("version", version).Debug("version found")
	return version, OutcomeMatch
}

func (r *Resolver) observe(name, outcome string) {
	if r.observer != nil {
		r.observer.ObserveStrategy(name, outcome)
	}
}
