package httpclient

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strings"

	"github.com/waftester/wpvane/pkg/defaults"
	"github.com/waftester/wpvane/pkg/iohelper"
)

// Request describes one outgoing request. Form, when non-nil, is sent
// URL-encoded as the body.
type Request struct {
	Method string
	URL    string
	Form   url.Values
	Header http.Header

	// Tag carries caller state through a Queue, e.g. the credential pair.
	Tag any
}

// NewFormPost builds a POST request carrying form.
func NewFormPost(rawURL string, form url.Values) *Request {
	return &Request{Method: http.MethodPost, URL: rawURL, Form: form}
}

// Response is a fully read response.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
	URL        string
	TimedOut   bool
}

// BodyString returns the body as a string.
func (r *Response) BodyString() string {
	if r == nil {
		return ""
	}
	return string(r.Body)
}

// Location returns the redirect target, resolved against the request URL.
func (r *Response) Location() string {
	if r == nil {
		return ""
	}
	loc := r.Header.Get("Location")
	if loc == "" {
		return ""
	}
	base, err := url.Parse(r.URL)
	if err != nil {
		return loc
	}
	ref, err := url.Parse(loc)
	if err != nil {
		return loc
	}
	return base.ResolveReference(ref).String()
}

// Client implements the access port on top of two *http.Client values that
// share one transport: one that stops at redirects and one that follows them.
type Client struct {
	direct    *http.Client
	follow    *http.Client
	basicAuth string
	maxBody   int64
}

// NewClient builds a Client from cfg.
func NewClient(cfg Config) (*Client, error) {
	direct, err := New(cfg)
	if err != nil {
		return nil, err
	}

	c := &Client{
		direct:  direct,
		maxBody: cfg.MaxBodySize,
		follow: &http.Client{
			Transport: direct.Transport,
			Timeout:   direct.Timeout,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= defaults.MaxRedirects {
					return http.ErrUseLastResponse
				}
				return nil
			},
		},
	}
	if c.maxBody <= 0 {
		c.maxBody = iohelper.DefaultMaxBodySize
	}
	if cfg.BasicAuth != "" {
		if _, _, ok := SplitCredentials(cfg.BasicAuth); !ok {
			return nil, errors.New("httpclient: basic auth must be user:pass")
		}
		c.basicAuth = "Basic " + base64.StdEncoding.EncodeToString([]byte(cfg.BasicAuth))
	}
	return c, nil
}

// Get issues a GET without following redirects.
func (c *Client) Get(ctx context.Context, rawURL string) (*Response, error) {
	return c.send(ctx, c.direct, &Request{Method: http.MethodGet, URL: rawURL})
}

// GetFollow issues a GET and follows redirects up to defaults.MaxRedirects.
// Response.URL is the final location.
func (c *Client) GetFollow(ctx context.Context, rawURL string) (*Response, error) {
	return c.send(ctx, c.follow, &Request{Method: http.MethodGet, URL: rawURL})
}

// Do issues req without following redirects.
func (c *Client) Do(ctx context.Context, req *Request) (*Response, error) {
	return c.send(ctx, c.direct, req)
}

func (c *Client) send(ctx context.Context, hc *http.Client, r *Request) (*Response, error) {
	method := r.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if r.Form != nil {
		body = strings.NewReader(r.Form.Encode())
	}
	req, err := http.NewRequestWithContext(ctx, method, r.URL, body)
	if err != nil {
		return nil, fmt.Errorf("httpclient: build request: %w", err)
	}
	for k, vs := range r.Header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if r.Form != nil {
		req.Header.Set("Content-Type", defaults.ContentTypeForm)
	}
	if c.basicAuth != "" {
		req.Header.Set("Authorization", c.basicAuth)
	}

	resp, err := hc.Do(req)
	if err != nil {
		terr := classifyError(err)
		return &Response{URL: r.URL, TimedOut: errors.Is(terr, ErrTimeout)}, terr
	}
	defer iohelper.DrainAndClose(resp.Body)

	data, err := iohelper.ReadBody(resp.Body, c.maxBody)
	out := &Response{
		StatusCode: resp.StatusCode,
		Header:     resp.Header,
		Body:       data,
		URL:        resp.Request.URL.String(),
	}
	if err != nil {
		terr := classifyError(err)
		out.TimedOut = errors.Is(terr, ErrTimeout)
		return out, terr
	}
	return out, nil
}

// classifyError maps a transport failure onto ErrTimeout, ErrProxyConnect
// or ErrNoResponse, keeping the original error in the chain.
func classifyError(err error) error {
	if errors.Is(err, ErrProxyConnect) {
		return err
	}
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTimeout, err)
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) && opErr.Op == "proxyconnect" {
		return fmt.Errorf("%w: %w", ErrProxyConnect, err)
	}
	return fmt.Errorf("%w: %w", ErrNoResponse, err)
}
