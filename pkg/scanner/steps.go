package scanner

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/waftester/wpvane/pkg/bruteforce"
	"github.com/waftester/wpvane/pkg/config"
	"github.com/waftester/wpvane/pkg/fingerprint"
	"github.com/waftester/wpvane/pkg/httpclient"
	"github.com/waftester/wpvane/pkg/probes"
	"github.com/waftester/wpvane/pkg/target"
	"github.com/waftester/wpvane/pkg/vuln"
)

func (s *Scanner) stepHomepage(ctx context.Context, st *scan) error {
	resp, err := s.client.Get(ctx, st.target.String())
	if err != nil {
		return fmt.Errorf("scanner: homepage: %w", err)
	}

	if loc := resp.Location(); isRedirect(resp.StatusCode) && loc != "" {
		if !s.opts.FollowRedirection {
			return fmt.Errorf("%w to %s; use --follow-redirection to follow it", ErrRedirect, loc)
		}
		t, err := target.New(loc, target.Options{
			ContentDir: s.opts.WPContentDir,
			PluginsDir: s.opts.WPPluginsDir,
		})
		if err != nil {
			return fmt.Errorf("scanner: redirect target: %w", err)
		}
		s.log.WithField("location", t.String()).Info("following homepage redirect")
		st.target = t
		if resp, err = s.client.GetFollow(ctx, t.String()); err != nil {
			return fmt.Errorf("scanner: homepage: %w", err)
		}
	}

	st.homepage = resp
	st.target.SetContentDir(st.target.DetectContentDir(resp.BodyString()))
	st.report.Headers = probes.InterestingHeaders(resp.Header)
	st.report.MissingHeaders = probes.MissingSecurityHeaders(resp.Header)
	return nil
}

func isRedirect(status int) bool {
	switch status {
	case http.StatusMovedPermanently, http.StatusFound, http.StatusSeeOther,
		http.StatusTemporaryRedirect, http.StatusPermanentRedirect:
		return true
	}
	return false
}

func (s *Scanner) stepWordPress(_ context.Context, st *scan) error {
	if probes.DetectWordPress(st.homepage.BodyString()) || probes.HeadersSuggestWordPress(st.homepage.Header) {
		return nil
	}
	if s.opts.Force {
		s.log.Warn("no WordPress markers found, scanning anyway")
		return nil
	}
	return probes.ErrNotWordPress
}

func (s *Scanner) stepVersion(ctx context.Context, st *scan) error {
	// The disclosure check needs nothing from the steps in between.
	st.fpd = probes.StartFullPathDisclosure(ctx, httpclient.NewQueue(s.client, 1), st.target)

	r := fingerprint.NewResolver(
		fingerprint.DefaultStrategies(s.client, s.corpus),
		fingerprint.WithLogger(s.log),
		fingerprint.WithObserver(s.metrics),
	)
	if id, ok := r.Resolve(ctx, st.target); ok {
		st.identity.Version = id.Version
		st.identity.Provenance = id.Provenance
	}
	return nil
}

func (s *Scanner) stepFavicon(ctx context.Context, st *scan) error {
	st.report.Favicon = probes.Favicon(ctx, s.client, st.target)
	return nil
}

func (s *Scanner) stepComponents(ctx context.Context, st *scan) error {
	for _, c := range probes.PassiveComponents(st.homepage.BodyString(), st.target) {
		st.identity.AddComponent(c)
	}

	e := s.opts.Enumeration
	exclude, err := s.opts.ExcludePattern()
	if err != nil {
		return fmt.Errorf("%w: exclude-content-based: %w", config.ErrInvalidConfig, err)
	}
	queue := httpclient.NewQueue(s.client, s.opts.Threads)
	for _, kind := range []fingerprint.ComponentKind{fingerprint.KindPlugin, fingerprint.KindTheme} {
		mode := e.Plugins
		if kind == fingerprint.KindTheme {
			mode = e.Themes
		}
		if mode == config.ListNone {
			continue
		}
		names, err := s.componentNames(kind, mode)
		if err != nil {
			return err
		}
		s.log.WithField("kind", kind).WithField("candidates", len(names)).Info("enumerating components")
		for _, c := range probes.EnumerateComponents(ctx, queue, st.target, kind, names, exclude) {
			st.identity.AddComponent(c)
		}
	}

	if e.Timthumbs {
		paths, err := s.corpus.TimthumbPaths()
		if err != nil {
			return err
		}
		st.report.Timthumbs = probes.EnumerateTimthumbs(ctx, queue, st.target, paths, exclude)
	}
	return nil
}

// componentNames builds the candidate list for an enumeration mode,
// popular names first, without duplicates.
func (s *Scanner) componentNames(kind fingerprint.ComponentKind, mode config.ListMode) ([]string, error) {
	popular, vulnerable := s.corpus.PluginNames, s.corpus.PluginVulnerabilities
	if kind == fingerprint.KindTheme {
		popular, vulnerable = s.corpus.ThemeNames, s.corpus.ThemeVulnerabilities
	}

	var names []string
	seen := make(map[string]bool)
	add := func(n string) {
		key := strings.ToLower(n)
		if n != "" && !seen[key] {
			seen[key] = true
			names = append(names, n)
		}
	}

	if mode == config.ListPopular || mode == config.ListAll {
		list, err := popular()
		if err != nil {
			return nil, err
		}
		for _, n := range list {
			add(n)
		}
	}
	if mode == config.ListVulnerable || mode == config.ListAll {
		records, err := vulnerable()
		if err != nil {
			return nil, err
		}
		for _, r := range records {
			add(r.Component)
		}
	}
	return names, nil
}

func (s *Scanner) stepComponentVersions(ctx context.Context, st *scan) error {
	for i := range st.identity.Components {
		c := &st.identity.Components[i]
		if c.Version != "" {
			continue
		}
		v, err := probes.ComponentVersion(ctx, s.client, st.target, *c)
		if err != nil {
			s.log.WithError(err).WithField("component", c.Name).Debug("component version lookup failed")
			continue
		}
		c.Version = v
	}
	return nil
}

func (s *Scanner) stepVulnerabilities(_ context.Context, st *scan) error {
	st.report.Vulnerabilities = vuln.NewCorrelator(s.corpus, s.log).Correlate(st.identity)
	return nil
}

func (s *Scanner) stepFullPathDisclosure(ctx context.Context, st *scan) error {
	if st.fpd == nil {
		st.fpd = probes.StartFullPathDisclosure(ctx, httpclient.NewQueue(s.client, 1), st.target)
	}
	fpd, err := st.fpd.Wait(ctx)
	if err != nil {
		if ctx.Err() != nil {
			return err
		}
		s.log.WithError(err).Debug("full path disclosure check failed")
		return nil
	}
	st.report.FullPathDisclosure = fpd
	return nil
}

func (s *Scanner) stepUsers(ctx context.Context, st *scan) error {
	e := s.opts.Enumeration
	if !e.Users {
		return nil
	}
	st.report.Users = probes.EnumerateUsers(ctx, s.client, st.target, e.UsersFrom, e.UsersTo, s.log)
	return nil
}

func (s *Scanner) stepBruteForce(ctx context.Context, st *scan) error {
	if s.opts.Wordlist == "" {
		return nil
	}

	usernames := s.opts.Usernames()
	if len(usernames) == 0 {
		for _, u := range st.report.Users {
			usernames = append(usernames, u.Login)
		}
	}
	if len(usernames) == 0 {
		s.log.Warn("no usernames to brute force; enumerate users or pass --username")
		return nil
	}

	d := bruteforce.New(s.client, bruteforce.Config{
		MaxConcurrent: s.opts.Threads,
		ShowProgress:  true,
		Verbose:       s.opts.Verbose,
		LoginURL:      st.target.LoginURL(),
	},
		bruteforce.WithLogger(s.log),
		bruteforce.WithOutput(s.progress),
		bruteforce.WithObserver(s.metrics),
	)
	res, err := d.Run(ctx, usernames, s.opts.Wordlist)
	if res != nil {
		st.report.Credentials = res.Credentials
	}
	return err
}
