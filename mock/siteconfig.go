package mock

import (
	"context"
	"net/http"

	"github.com/fwojciec/readlater"
)

var (
	_ readlater.SiteConfigRegistry = (*SiteConfigRegistry)(nil)
	_ readlater.Authenticator      = (*Authenticator)(nil)
)

// SiteConfigRegistry is a mock implementation of readlater.SiteConfigRegistry.
type SiteConfigRegistry struct {
	FindSiteConfigFn func(ctx context.Context, host string) (*readlater.SiteConfig, error)
}

func (r *SiteConfigRegistry) FindSiteConfig(ctx context.Context, host string) (*readlater.SiteConfig, error) {
	return r.FindSiteConfigFn(ctx, host)
}

// Authenticator is a mock implementation of readlater.Authenticator.
type Authenticator struct {
	IsLoggedInFn      func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) bool
	LoginFn           func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) error
	IsLoginRequiredFn func(cfg *readlater.SiteConfig, body []byte) (bool, error)
}

func (a *Authenticator) IsLoggedIn(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) bool {
	return a.IsLoggedInFn(ctx, cfg, client)
}

func (a *Authenticator) Login(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) error {
	return a.LoginFn(ctx, cfg, client)
}

func (a *Authenticator) IsLoginRequired(cfg *readlater.SiteConfig, body []byte) (bool, error) {
	return a.IsLoginRequiredFn(cfg, body)
}
