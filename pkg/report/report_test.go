package report

import (
	"bytes"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/waftester/wpvane/pkg/bruteforce"
	"github.com/waftester/wpvane/pkg/fingerprint"
	"github.com/waftester/wpvane/pkg/jsonutil"
	"github.com/waftester/wpvane/pkg/probes"
	"github.com/waftester/wpvane/pkg/ui"
	"github.com/waftester/wpvane/pkg/vuln"
)

func TestMain(m *testing.M) {
	ui.SetNoColor(true)
	os.Exit(m.Run())
}

func sample() *Report {
	start := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	return &Report{
		ScanID:     "c0ffee00-0000-4000-8000-000000000000",
		Target:     "http://example.com/",
		StartedAt:  start,
		FinishedAt: start.Add(2500 * time.Millisecond),
		Identity: &fingerprint.Identity{
			Version:    "3.5",
			Provenance: fingerprint.StrategyFingerprinting,
			Components: []fingerprint.Component{
				{Kind: fingerprint.KindPlugin, Name: "akismet", Version: "2.5.3", Source: "passive"},
				{Kind: fingerprint.KindTheme, Name: "twentyten"},
			},
		},
		Headers:        []probes.Header{{Name: "Server", Value: "nginx"}},
		MissingHeaders: []string{"X-Frame-Options"},
		Vulnerabilities: []vuln.Record{
			{Kind: vuln.KindCore, Title: "Core XSS", Type: "XSS", References: []string{"https://example.org/1"}, AffectedVersions: []string{"3.5"}},
			{Kind: vuln.KindPlugin, Component: "akismet", Title: "Akismet SQLi", AffectedVersions: []string{"2.5.3"}, FixedIn: "2.5.4"},
		},
		FullPathDisclosure: &probes.FullPathDisclosure{URL: "http://example.com/wp-includes/rss-functions.php", Path: "/var/www/rss-functions.php"},
		Users:              []probes.User{{ID: 1, Login: "admin"}},
		Credentials:        []bruteforce.Credential{{Username: "admin", Password: "letmein"}},
		Warnings:           []string{"corpus: data integrity: theme_vulns.json"},
	}
}

func TestWriteText(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatText, sample()))
	out := buf.String()

	for _, want := range []string{
		"[+] URL: http://example.com/",
		"[+] Started: Sun Mar  1 10:00:00 2026 UTC",
		"[!] corpus: data integrity: theme_vulns.json",
		"[+] Interesting header: SERVER: nginx",
		"[i] Missing security headers: X-Frame-Options",
		"[+] WordPress version 3.5 identified from advanced fingerprinting",
		"[!] Title: Core XSS",
		"Reference: https://example.org/1",
		"[+] Plugin: akismet v2.5.3 (passive detection)",
		"[!] Title: Akismet SQLi",
		"[i] Fixed in: 2.5.4",
		"[+] Theme: twentyten",
		"Full Path Disclosure (FPD) in http://example.com/wp-includes/rss-functions.php: /var/www/rss-functions.php",
		"1    admin",
		"admin / letmein",
		"[+] Elapsed time: 2.5s",
	} {
		assert.Contains(t, out, want)
	}
}

func TestWriteText_NoIdentity(t *testing.T) {
	t.Parallel()

	r := sample()
	r.Identity = nil
	r.Vulnerabilities = []vuln.Record{}

	var buf bytes.Buffer
	require.NoError(t, WriteText(&buf, r))
	assert.Contains(t, buf.String(), "The WordPress version could not be detected")
	assert.NotContains(t, buf.String(), "Title:")
}

func TestWriteJSON(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, FormatJSON, sample()))

	var decoded map[string]any
	require.NoError(t, jsonutil.UnmarshalRead(&buf, &decoded))
	assert.Equal(t, "http://example.com/", decoded["target"])
	identity := decoded["identity"].(map[string]any)
	assert.Equal(t, "3.5", identity["version"])
	assert.Equal(t, "advanced_fingerprinting", identity["provenance"])
	assert.Len(t, decoded["vulnerabilities"], 2)
}

func TestWrite_UnknownFormat(t *testing.T) {
	t.Parallel()

	err := Write(&bytes.Buffer{}, "pdf", sample())
	assert.ErrorIs(t, err, ErrUnknownFormat)
}
