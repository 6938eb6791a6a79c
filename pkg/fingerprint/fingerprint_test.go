package fingerprint

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/waftester/wpvane/pkg/httpclient"
	"github.com/waftester/wpvane/pkg/target"
)

type stubCorpus struct {
	known []string
	files []FileFingerprint
	err   error
}

func (c *stubCorpus) KnownVersions() ([]string, error) { return c.known, c.err }

func (c *stubCorpus) Fingerprints() ([]FileFingerprint, error) { return c.files, c.err }

var errCorpus = errors.New("corpus: data integrity failure")

// site serves fixed bodies per path; anything else is a 404.
func site(t *testing.T, pages map[string]string) (*target.Target, *httpclient.Client) {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.URL.Path
		if r.URL.RawQuery != "" {
			key += "?" + r.URL.RawQuery
		}
		body, ok := pages[key]
		if !ok {
			http.NotFound(w, r)
			return
		}
		w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)

	tg, err := target.New(srv.URL, target.Options{})
	require.NoError(t, err)
	c, err := httpclient.NewClient(httpclient.DefaultConfig())
	require.NoError(t, err)
	return tg, c
}

func mustTarget(t *testing.T) *target.Target {
	t.Helper()
	tg, err := target.New("http://example.com/", target.Options{})
	require.NoError(t, err)
	return tg
}
