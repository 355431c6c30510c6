package http

import (
	"context"
	"net/http"
	"strings"
)

// Decision tells the Fetcher what to do with a response.
type Decision int

const (
	// Accept hands the response to the caller.
	Accept Decision = iota
	// Retry sends the request again, subject to the retry bound.
	Retry
)

func (d Decision) String() string {
	if d == Retry {
		return "retry"
	}
	return "accept"
}

// Response is a fully read HTTP response.
type Response struct {
	Request    *http.Request
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Host returns the host the request was sent to.
func (r *Response) Host() string {
	return r.Request.URL.Hostname()
}

// IsRedirect reports whether the response has a 3xx status. Redirects are
// followed before interceptors run unless the fetcher's client stops them
// with http.ErrUseLastResponse; see WithClient.
func (r *Response) IsRedirect() bool {
	return r.StatusCode >= 300 && r.StatusCode < 400
}

// IsEmpty reports whether the body holds nothing but whitespace.
func (r *Response) IsEmpty() bool {
	return len(strings.TrimSpace(string(r.Body))) == 0
}

// Interceptor hooks into every request made by a Fetcher.
// The client is the one the request is sent with, so session state an
// interceptor establishes (cookies) applies to the request.
type Interceptor interface {
	// BeforeSend runs once before the first attempt and may modify req.
	BeforeSend(ctx context.Context, client *http.Client, req *http.Request) error

	// AfterReceive runs after every attempt, starting at attempt 0.
	AfterReceive(ctx context.Context, client *http.Client, resp *Response, attempt int) (Decision, error)
}

// InterceptorFuncs adapts plain functions to Interceptor. Nil hooks are no-ops.
type InterceptorFuncs struct {
	BeforeSendFn   func(ctx context.Context, client *http.Client, req *http.Request) error
	AfterReceiveFn func(ctx context.Context, client *http.Client, resp *Response, attempt int) (Decision, error)
}

func (f InterceptorFuncs) BeforeSend(ctx context.Context, client *http.Client, req *http.Request) error {
	if f.BeforeSendFn == nil {
		return nil
	}
	return f.BeforeSendFn(ctx, client, req)
}

func (f InterceptorFuncs) AfterReceive(ctx context.Context, client *http.Client, resp *Response, attempt int) (Decision, error) {
	if f.AfterReceiveFn == nil {
		return Accept, nil
	}
	return f.AfterReceiveFn(ctx, client, resp, attempt)
}
