// Package http provides an HTTP-based implementation of readlater.Fetcher.
// Requests pass through a chain of interceptors that may prepare the
// request, inspect the response and ask for a bounded number of retries.
package http

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"time"

	"github.com/fwojciec/readlater"
	"golang.org/x/net/publicsuffix"
)

// DefaultFetchTimeout is the default timeout for HTTP requests.
// Kept consistent with rod.DefaultFetchTimeout (10s).
const DefaultFetchTimeout = 10 * time.Second

// DefaultMaxRetries is the number of times a request is repeated when an
// interceptor asks for a retry.
const DefaultMaxRetries = 2

// DefaultMaxBodySize caps how much of a response body is read.
const DefaultMaxBodySize = 10 << 20

// Ensure Fetcher implements readlater.Fetcher at compile time.
var _ readlater.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves HTML content from URLs using HTTP requests.
// Unlike rod.Fetcher, this does not execute JavaScript and is suitable
// for static sites only.
type Fetcher struct {
	client       *http.Client
	timeout      time.Duration
	interceptors []Interceptor
	maxRetries   int
	maxBodySize  int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithTimeout sets the timeout for HTTP requests.
// Defaults to DefaultFetchTimeout (10s) if not specified.
// Ignored when a client is supplied with WithClient.
func WithTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithClient sets the HTTP client used for requests and logins.
// The client should carry a cookie jar for logins to stick.
//
// The default client follows redirects, so interceptors only see the final
// response. To let them act on a 3xx, supply a client whose CheckRedirect
// returns http.ErrUseLastResponse.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		f.client = c
	}
}

// WithInterceptors appends interceptors to the chain. They run in order.
func WithInterceptors(interceptors ...Interceptor) Option {
	return func(f *Fetcher) {
		f.interceptors = append(f.interceptors, interceptors...)
	}
}

// WithMaxRetries bounds how often a request is repeated on Retry.
func WithMaxRetries(n int) Option {
	return func(f *Fetcher) {
		if n >= 0 {
			f.maxRetries = n
		}
	}
}

// WithMaxBodySize caps how many bytes of a response body are read.
func WithMaxBodySize(n int64) Option {
	return func(f *Fetcher) {
		f.maxBodySize = n
	}
}

// NewFetcher creates a new HTTP-based Fetcher.
func NewFetcher(opts ...Option) *Fetcher {
	f := &Fetcher{
		timeout:     DefaultFetchTimeout,
		maxRetries:  DefaultMaxRetries,
		maxBodySize: DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(f)
	}

	if f.client == nil {
		f.client = &http.Client{
			Timeout: f.timeout,
			Jar:     NewCookieJar(),
		}
	}

	return f
}

// NewCookieJar returns a cookie jar scoped by public suffix.
func NewCookieJar() http.CookieJar {
	// cookiejar.New never returns a non-nil error.
	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	return jar
}

// Client returns the underlying HTTP client.
func (f *Fetcher) Client() *http.Client {
	return f.client
}

// Fetch retrieves the HTML content from the given URL.
//
// Every interceptor's BeforeSend runs once, then the request is sent. After
// each response every AfterReceive runs; if any asks for a retry the request
// is sent again, at most maxRetries times. The last response is accepted once
// the bound is reached.
func (f *Fetcher) Fetch(ctx context.Context, url string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}

	for _, i := range f.interceptors {
		if err := i.BeforeSend(ctx, f.client, req); err != nil {
			return "", err
		}
	}

	var resp *Response
	for attempt := 0; ; attempt++ {
		resp, err = f.send(ctx, req)
		if err != nil {
			return "", err
		}

		retry := false
		for _, i := range f.interceptors {
			decision, err := i.AfterReceive(ctx, f.client, resp, attempt)
			if err != nil {
				return "", err
			}
			if decision == Retry {
				retry = true
			}
		}
		if !retry || attempt >= f.maxRetries {
			break
		}
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("HTTP %d for %s", resp.StatusCode, url)
	}

	return string(resp.Body), nil
}

// send performs one attempt. The request is cloned so cookies added by the
// jar on one attempt do not leak into the next.
func (f *Fetcher) send(ctx context.Context, req *http.Request) (*Response, error) {
	httpResp, err := f.client.Do(req.Clone(ctx))
	if err != nil {
		return nil, err
	}
	defer httpResp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(httpResp.Body, f.maxBodySize))
	if err != nil {
		return nil, err
	}

	return &Response{
		Request:    req,
		StatusCode: httpResp.StatusCode,
		Header:     httpResp.Header,
		Body:       body,
	}, nil
}

// Close releases idle connections held by the client.
func (f *Fetcher) Close() error {
	f.client.CloseIdleConnections()
	return nil
}
