package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/fwojciec/readlater"
)

var _ Interceptor = (*SiteAuthInterceptor)(nil)

// SiteAuthInterceptor logs in to sites that require it, before a request
// when the session is missing and after a response that was served to an
// anonymous visitor.
type SiteAuthInterceptor struct {
	registry readlater.SiteConfigRegistry
	auth     readlater.Authenticator
	logger   *slog.Logger
}

// NewSiteAuthInterceptor creates a SiteAuthInterceptor.
func NewSiteAuthInterceptor(registry readlater.SiteConfigRegistry, auth readlater.Authenticator, logger *slog.Logger) *SiteAuthInterceptor {
	return &SiteAuthInterceptor{registry: registry, auth: auth, logger: logger}
}

// BeforeSend logs in when the host requires it and the client holds no session.
func (i *SiteAuthInterceptor) BeforeSend(ctx context.Context, client *http.Client, req *http.Request) error {
	host := req.URL.Hostname()
	logger := i.logger.With("hook", "before_send", "host", host)

	cfg, err := i.config(ctx, host)
	if err != nil {
		return err
	}
	if cfg == nil || !cfg.RequiresLogin {
		logger.DebugContext(ctx, "will not require login")
		return nil
	}

	if i.auth.IsLoggedIn(ctx, cfg, client) {
		logger.DebugContext(ctx, "already logged in")
		return nil
	}

	logger.DebugContext(ctx, "user is not logged in, attach authenticator")
	return i.login(ctx, cfg, client)
}

// AfterReceive inspects the body for the not-logged-in marker and asks for
// a retry after logging in again when it is present.
func (i *SiteAuthInterceptor) AfterReceive(ctx context.Context, client *http.Client, resp *Response, attempt int) (Decision, error) {
	host := resp.Host()
	logger := i.logger.With("hook", "after_receive", "host", host, "attempt", attempt)

	cfg, err := i.config(ctx, host)
	if err != nil {
		return Accept, err
	}
	if cfg == nil || !cfg.RequiresLogin {
		logger.DebugContext(ctx, "will not require login")
		return Accept, nil
	}

	if resp.IsRedirect() || resp.IsEmpty() {
		logger.DebugContext(ctx, "empty body, ignoring", "status", resp.StatusCode)
		return Accept, nil
	}

	required, err := i.auth.IsLoginRequired(cfg, resp.Body)
	if err != nil {
		return Accept, err
	}
	if !required {
		logger.DebugContext(ctx, fmt.Sprintf("retry #%d with login not required", attempt))
		return Accept, nil
	}

	logger.DebugContext(ctx, fmt.Sprintf("retry #%d with login required", attempt))
	if err := i.login(ctx, cfg, client); err != nil {
		return Accept, err
	}
	return Retry, nil
}

func (i *SiteAuthInterceptor) config(ctx context.Context, host string) (*readlater.SiteConfig, error) {
	cfg, err := i.registry.FindSiteConfig(ctx, host)
	if readlater.ErrorCode(err) == readlater.ENOTFOUND {
		return nil, nil
	} else if err != nil {
		return nil, fmt.Errorf("site config for %s: %w", host, err)
	}
	return cfg, nil
}

func (i *SiteAuthInterceptor) login(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) error {
	if err := i.auth.Login(ctx, cfg, client); err != nil {
		i.logger.ErrorContext(ctx, "login failed", "host", cfg.Host, "err", err)
		if readlater.ErrorCode(err) == readlater.EUNAUTHORIZED {
			return err
		}
		return readlater.Errorf(readlater.EUNAUTHORIZED, "login to %s failed: %v", cfg.Host, err)
	}
	return nil
}
