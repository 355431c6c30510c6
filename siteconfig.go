package readlater

import (
	"context"
	"net/http"
)

// SiteConfig describes how to fetch content from one host.
type SiteConfig struct {
	Host string `toml:"host"`

	// RequiresLogin enables login-on-demand for the host.
	RequiresLogin bool `toml:"requires_login"`

	// NotLoggedInXPath matches an element that only appears in responses
	// served to anonymous visitors.
	NotLoggedInXPath string `toml:"not_logged_in_xpath"`

	LoginURI      string            `toml:"login_uri"`
	UsernameField string            `toml:"login_username_field"`
	PasswordField string            `toml:"login_password_field"`
	ExtraFields   map[string]string `toml:"login_extra_fields"`
	HTTPHeaders   map[string]string `toml:"http_headers"`

	// Username and Password are filled from a decrypted SiteCredential.
	Username string `toml:"-"`
	Password string `toml:"-"`
}

// SiteConfigRegistry looks up per-host fetch behavior.
type SiteConfigRegistry interface {
	// FindSiteConfig returns the configuration for host.
	// Returns ENOTFOUND if the host needs no special handling.
	FindSiteConfig(ctx context.Context, host string) (*SiteConfig, error)
}

// Authenticator tracks and establishes logged-in sessions on sites that
// require a login. Session state lives in the client's cookie jar.
type Authenticator interface {
	// IsLoggedIn reports whether client already holds a session for the site.
	IsLoggedIn(ctx context.Context, cfg *SiteConfig, client *http.Client) bool

	// Login performs the site's login sequence with client.
	// Returns EUNAUTHORIZED if the login is rejected or no credentials exist.
	Login(ctx context.Context, cfg *SiteConfig, client *http.Client) error

	// IsLoginRequired reports whether body is a page served to anonymous visitors.
	IsLoginRequired(cfg *SiteConfig, body []byte) (bool, error)
}
