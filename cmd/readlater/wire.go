package main

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/fwojciec/readlater"
	rlhttp "github.com/fwojciec/readlater/http"
	"github.com/fwojciec/readlater/resolve"
	"github.com/fwojciec/readlater/rod"
	"github.com/fwojciec/readlater/siteauth"
	rlslog "github.com/fwojciec/readlater/slog"
)

// defaultRequestsPerSecond bounds requests to any one host.
const defaultRequestsPerSecond = 2.0

// fetcherWiring assembles authenticated fetchers.
type fetcherWiring struct {
	sites       readlater.SiteConfigRegistry
	credentials readlater.SiteCredentialService
	cipher      readlater.Cipher
	timeout     time.Duration
	logger      *slog.Logger
}

// NewFetcher implements FetcherFactory. Credentials are only used when a
// cipher is configured, since they are stored encrypted.
func (w *fetcherWiring) NewFetcher(userID string, render bool) (readlater.Fetcher, error) {
	registry := w.sites
	if userID != "" && w.cipher != nil {
		registry = siteauth.NewCredentialRegistry(w.sites, w.credentials, w.cipher, userID, w.logger)
	}

	timeout := w.timeout
	if timeout <= 0 {
		timeout = rlhttp.DefaultFetchTimeout
	}
	client := &http.Client{Timeout: timeout, Jar: rlhttp.NewCookieJar()}

	httpFetcher := rlhttp.NewFetcher(
		rlhttp.WithClient(client),
		rlhttp.WithInterceptors(
			rlhttp.NewRateLimitInterceptor(defaultRequestsPerSecond),
			rlhttp.NewHeaderInterceptor(registry),
			rlhttp.NewSiteAuthInterceptor(registry, siteauth.NewAuthenticator(), w.logger),
		),
	)

	var fetcher readlater.Fetcher = httpFetcher
	if render {
		browser, err := rod.NewFetcher(
			rod.WithFetchTimeout(timeout),
			rod.WithCookieJar(client.Jar),
			rod.WithManagerOptions(rod.WithLogger(w.logger)),
		)
		if err != nil {
			return nil, err
		}
		fetcher = &renderFetcher{session: httpFetcher, browser: browser}
	}
	return rlslog.NewLoggingFetcher(fetcher, w.logger), nil
}

// renderFetcher opens the session over HTTP, logging in when the site asks
// for it, then renders the page in the browser with the session's cookies.
type renderFetcher struct {
	session readlater.Fetcher
	browser readlater.Fetcher
}

func (f *renderFetcher) Fetch(ctx context.Context, url string) (string, error) {
	if _, err := f.session.Fetch(ctx, url); err != nil {
		return "", err
	}
	return f.browser.Fetch(ctx, url)
}

func (f *renderFetcher) Close() error {
	f.session.Close()
	return f.browser.Close()
}

// userResolver resolves each entry with a fetcher holding its owner's
// site sessions. Fetchers are created on first use and kept until Close.
type userResolver struct {
	fetchers  FetcherFactory
	extractor readlater.Extractor
	sanitizer readlater.Sanitizer
	logger    *slog.Logger

	mu        sync.Mutex
	resolvers map[string]readlater.ContentResolver
	open      []readlater.Fetcher
}

func newUserResolver(fetchers FetcherFactory, extractor readlater.Extractor, sanitizer readlater.Sanitizer, logger *slog.Logger) *userResolver {
	return &userResolver{
		fetchers:  fetchers,
		extractor: extractor,
		sanitizer: sanitizer,
		logger:    logger,
		resolvers: make(map[string]readlater.ContentResolver),
	}
}

func (r *userResolver) ResolveEntry(ctx context.Context, entry *readlater.Entry, html string) error {
	resolver, err := r.resolverFor(entry.UserID)
	if err != nil {
		return err
	}
	return resolver.ResolveEntry(ctx, entry, html)
}

func (r *userResolver) resolverFor(userID string) (readlater.ContentResolver, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if resolver, ok := r.resolvers[userID]; ok {
		return resolver, nil
	}
	fetcher, err := r.fetchers(userID, false)
	if err != nil {
		return nil, err
	}
	r.open = append(r.open, fetcher)

	resolver := rlslog.NewLoggingResolver(resolve.NewResolver(fetcher, r.extractor, r.sanitizer), r.logger)
	r.resolvers[userID] = resolver
	return resolver, nil
}

// Close closes every fetcher the resolver opened.
func (r *userResolver) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, f := range r.open {
		f.Close()
	}
	r.open = nil
	clear(r.resolvers)
	return nil
}
