// Package rod renders pages in headless Chrome for sites that build their
// content with JavaScript.
package rod

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"sync/atomic"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/go-rod/rod/lib/proto"
)

// DefaultFetchTimeout bounds how long one page may take to load.
const DefaultFetchTimeout = 10 * time.Second

// Ensure Fetcher implements readlater.Fetcher at compile time.
var _ readlater.Fetcher = (*Fetcher)(nil)

// Fetcher retrieves rendered HTML from URLs using Chrome browser automation.
// Fetcher is safe for concurrent use by multiple goroutines.
type Fetcher struct {
	manager *BrowserManager
	timeout time.Duration
	jar     http.CookieJar
	opts    []ManagerOption
	closed  atomic.Bool
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithFetchTimeout sets how long a page may take to load.
func WithFetchTimeout(d time.Duration) Option {
	return func(f *Fetcher) {
		f.timeout = d
	}
}

// WithCookieJar copies the jar's cookies for a URL into the browser before
// navigating, so sessions opened by the HTTP fetcher's logins carry over.
func WithCookieJar(jar http.CookieJar) Option {
	return func(f *Fetcher) {
		f.jar = jar
	}
}

// WithManagerOptions configures the underlying BrowserManager.
func WithManagerOptions(opts ...ManagerOption) Option {
	return func(f *Fetcher) {
		f.opts = append(f.opts, opts...)
	}
}

// NewFetcher creates a new Fetcher that launches a headless Chrome browser.
// Close must be called when the Fetcher is no longer needed.
//
// Returns an error if Chrome/Chromium cannot be found or launched.
func NewFetcher(opts ...Option) (*Fetcher, error) {
	f := &Fetcher{timeout: DefaultFetchTimeout}
	for _, opt := range opts {
		opt(f)
	}

	manager, err := NewBrowserManager(f.opts...)
	if err != nil {
		return nil, err
	}
	f.manager = manager
	return f, nil
}

// Fetch navigates to the URL and returns the rendered HTML.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (string, error) {
	if f.closed.Load() {
		return "", readlater.Errorf(readlater.EINVALID, "fetcher is closed")
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}

	ctx, cancel := context.WithTimeout(ctx, f.timeout)
	defer cancel()

	page, err := f.manager.Browser().Page(proto.TargetCreateTarget{})
	if err != nil {
		return "", fmt.Errorf("opening page: %w", err)
	}
	defer page.Close()
	defer f.manager.IncrementPageCount()

	page = page.Context(ctx)

	if cookies := f.cookies(rawURL); len(cookies) > 0 {
		if err := page.SetCookies(cookies); err != nil {
			return "", fmt.Errorf("setting cookies: %w", err)
		}
	}

	if err := page.Navigate(rawURL); err != nil {
		return "", f.contextErr(ctx, err)
	}
	if err := page.WaitLoad(); err != nil {
		return "", f.contextErr(ctx, err)
	}

	html, err := page.HTML()
	if err != nil {
		return "", f.contextErr(ctx, err)
	}
	return html, nil
}

// cookies converts the jar's cookies for rawURL into browser cookies.
func (f *Fetcher) cookies(rawURL string) []*proto.NetworkCookieParam {
	if f.jar == nil {
		return nil
	}
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil
	}

	var params []*proto.NetworkCookieParam
	for _, c := range f.jar.Cookies(u) {
		params = append(params, &proto.NetworkCookieParam{
			Name:  c.Name,
			Value: c.Value,
			URL:   rawURL,
		})
	}
	return params
}

// contextErr prefers the context's error so callers can match
// context.DeadlineExceeded and context.Canceled.
func (f *Fetcher) contextErr(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return ctxErr
	}
	return err
}

// Close releases browser resources. Close is safe to call multiple times.
func (f *Fetcher) Close() error {
	if !f.closed.CompareAndSwap(false, true) {
		return nil
	}
	return f.manager.Close()
}

// LauncherPID returns the process ID of the browser launcher.
func (f *Fetcher) LauncherPID() int {
	return f.manager.LauncherPID()
}
