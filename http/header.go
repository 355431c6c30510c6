package http

import (
	"context"
	"net/http"

	"github.com/fwojciec/readlater"
)

var _ Interceptor = (*HeaderInterceptor)(nil)

// DefaultUserAgent is sent when neither the site config nor the request sets one.
const DefaultUserAgent = "Mozilla/5.0 (compatible; readlater/1.0)"

// HeaderInterceptor applies per-site HTTP headers from the site config.
type HeaderInterceptor struct {
	registry readlater.SiteConfigRegistry
}

// NewHeaderInterceptor creates a HeaderInterceptor.
func NewHeaderInterceptor(registry readlater.SiteConfigRegistry) *HeaderInterceptor {
	return &HeaderInterceptor{registry: registry}
}

// BeforeSend sets the configured headers on req.
func (i *HeaderInterceptor) BeforeSend(ctx context.Context, _ *http.Client, req *http.Request) error {
	if req.Header.Get("User-Agent") == "" {
		req.Header.Set("User-Agent", DefaultUserAgent)
	}

	cfg, err := i.registry.FindSiteConfig(ctx, req.URL.Hostname())
	if readlater.ErrorCode(err) == readlater.ENOTFOUND {
		return nil
	} else if err != nil {
		return err
	}

	for k, v := range cfg.HTTPHeaders {
		req.Header.Set(k, v)
	}
	return nil
}

// AfterReceive accepts every response.
func (i *HeaderInterceptor) AfterReceive(context.Context, *http.Client, *Response, int) (Decision, error) {
	return Accept, nil
}
