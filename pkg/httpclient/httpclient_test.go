package httpclient

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_DoesNotFollowRedirects(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/elsewhere", http.StatusFound)
	}))
	defer srv.Close()

	hc, err := New(DefaultConfig())
	require.NoError(t, err)

	resp, err := hc.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusFound, resp.StatusCode)
}

func TestNew_ZeroConfigUsesDefaults(t *testing.T) {
	hc, err := New(Config{})
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig().Timeout, hc.Timeout)
}

func TestNew_RejectsBadProxy(t *testing.T) {
	_, err := New(Config{Proxy: "ftp://proxy.example.com:21"})
	assert.ErrorIs(t, err, ErrInvalidProxy)
}

func TestClient_GetFollow(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/start", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/end", http.StatusMovedPermanently)
	})
	mux.HandleFunc("/end", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("landed"))
	})
	srv := httptest.NewServer(mux)
	defer srv.Close()

	c, err := NewClient(DefaultConfig())
	require.NoError(t, err)

	direct, err := c.Get(context.Background(), srv.URL+"/start")
	require.NoError(t, err)
	assert.Equal(t, http.StatusMovedPermanently, direct.StatusCode)
	assert.Equal(t, srv.URL+"/end", direct.Location())

	followed, err := c.GetFollow(context.Background(), srv.URL+"/start")
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, followed.StatusCode)
	assert.Equal(t, "landed", followed.BodyString())
	assert.Equal(t, srv.URL+"/end", followed.URL)
}

func TestClient_SendsUserAgentAndBasicAuth(t *testing.T) {
	var gotUA, gotUser, gotPass string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUA = r.UserAgent()
		gotUser, gotPass, _ = r.BasicAuth()
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.UserAgent = "scanner-test"
	cfg.BasicAuth = "admin:s3:cret"
	c, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, "scanner-test", gotUA)
	assert.Equal(t, "admin", gotUser)
	assert.Equal(t, "s3:cret", gotPass)
}

func TestNewClient_RejectsMalformedBasicAuth(t *testing.T) {
	cfg := DefaultConfig()
	cfg.BasicAuth = "nocolon"
	_, err := NewClient(cfg)
	assert.Error(t, err)
}

func TestClient_DoPostsForm(t *testing.T) {
	var gotType string
	var gotForm url.Values
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotType = r.Header.Get("Content-Type")
		r.ParseForm()
		gotForm = r.PostForm
	}))
	defer srv.Close()

	c, err := NewClient(DefaultConfig())
	require.NoError(t, err)

	_, err = c.Do(context.Background(), NewFormPost(srv.URL, url.Values{"log": {"admin"}, "pwd": {"p@ss word"}}))
	require.NoError(t, err)
	assert.Equal(t, "application/x-www-form-urlencoded", gotType)
	assert.Equal(t, "admin", gotForm.Get("log"))
	assert.Equal(t, "p@ss word", gotForm.Get("pwd"))
}

func TestClient_TimeoutIsClassified(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	}))
	defer srv.Close()
	defer close(release)

	cfg := DefaultConfig()
	cfg.Timeout = 50 * time.Millisecond
	c, err := NewClient(cfg)
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), srv.URL)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTimeout)
	require.NotNil(t, resp)
	assert.True(t, resp.TimedOut)
}

func TestClient_ConnectionRefusedIsNoResponse(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	addr := srv.URL
	srv.Close()

	c, err := NewClient(DefaultConfig())
	require.NoError(t, err)

	resp, err := c.Get(context.Background(), addr)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoResponse)
	assert.Equal(t, 0, resp.StatusCode)
}

type recorderStub struct {
	mu       sync.Mutex
	statuses []int
}

func (r *recorderStub) ObserveRequest(method string, status int, _ time.Duration, _ error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.statuses = append(r.statuses, status)
}

func TestClient_RecorderObservesRequests(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	defer srv.Close()

	rec := &recorderStub{}
	cfg := DefaultConfig()
	cfg.Recorder = rec
	c, err := NewClient(cfg)
	require.NoError(t, err)

	_, err = c.Get(context.Background(), srv.URL)
	require.NoError(t, err)
	assert.Equal(t, []int{http.StatusTeapot}, rec.statuses)
}

func TestClassifyError_KeepsCause(t *testing.T) {
	cause := errors.New("connection reset by peer")
	err := classifyError(cause)
	assert.ErrorIs(t, err, ErrNoResponse)
	assert.ErrorIs(t, err, cause)
}
