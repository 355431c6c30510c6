// Package siteauth logs in to paywalled sites with stored credentials.
package siteauth

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/antchfx/htmlquery"
	"github.com/antchfx/xpath"
	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/goquery"
)

// Default login form field names.
const (
	DefaultUsernameField = "username"
	DefaultPasswordField = "password"
)

const maxLoginPageSize = 1 << 20

// Ensure Authenticator implements readlater.Authenticator at compile time.
var _ readlater.Authenticator = (*Authenticator)(nil)

// Authenticator logs in by submitting the site's login form. The session
// lives in the cookie jar of the client it is handed.
type Authenticator struct{}

// NewAuthenticator creates a new Authenticator.
func NewAuthenticator() *Authenticator {
	return &Authenticator{}
}

// IsLoggedIn reports whether the client's jar holds cookies for the site.
func (a *Authenticator) IsLoggedIn(_ context.Context, cfg *readlater.SiteConfig, client *http.Client) bool {
	if client == nil || client.Jar == nil {
		return false
	}
	u, err := url.Parse(loginURI(cfg))
	if err != nil {
		return false
	}
	return len(client.Jar.Cookies(u)) > 0
}

// Login fetches the login page, fills in the form and submits it.
func (a *Authenticator) Login(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) error {
	if cfg.Username == "" || cfg.Password == "" {
		return readlater.Errorf(readlater.EUNAUTHORIZED, "no credentials for %s", cfg.Host)
	}

	uri := loginURI(cfg)
	usernameField := fieldOr(cfg.UsernameField, DefaultUsernameField)
	passwordField := fieldOr(cfg.PasswordField, DefaultPasswordField)

	action, method, fields := uri, http.MethodPost, url.Values{}
	page, err := a.get(ctx, client, uri)
	if err != nil {
		return err
	}
	form, err := goquery.FindLoginForm(page, uri, passwordField)
	switch readlater.ErrorCode(err) {
	case "":
		action, method, fields = form.Action, form.Method, form.Fields
	case readlater.ENOTFOUND:
		// Some sites only accept the POST; submit to the login URI as is.
	default:
		return err
	}

	for k, v := range cfg.ExtraFields {
		fields.Set(k, v)
	}
	fields.Set(usernameField, cfg.Username)
	fields.Set(passwordField, cfg.Password)

	return a.submit(ctx, client, method, action, fields)
}

// IsLoginRequired evaluates the site's not-logged-in expression against
// body. A node set matches when it is not empty; boolean, number and string
// results match when they are true, non-zero or non-empty.
func (a *Authenticator) IsLoginRequired(cfg *readlater.SiteConfig, body []byte) (bool, error) {
	if strings.TrimSpace(cfg.NotLoggedInXPath) == "" {
		return false, nil
	}

	expr, err := xpath.Compile(cfg.NotLoggedInXPath)
	if err != nil {
		return false, readlater.Errorf(readlater.EINVALID, "invalid not-logged-in expression for %s: %v", cfg.Host, err)
	}

	doc, err := htmlquery.Parse(bytes.NewReader(body))
	if err != nil {
		return false, fmt.Errorf("parsing response from %s: %w", cfg.Host, err)
	}

	switch v := expr.Evaluate(htmlquery.CreateXPathNavigator(doc)).(type) {
	case *xpath.NodeIterator:
		return v.MoveNext(), nil
	case bool:
		return v, nil
	case float64:
		return v != 0, nil
	case string:
		return v != "", nil
	default:
		return false, nil
	}
}

func (a *Authenticator) get(ctx context.Context, client *http.Client, uri string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, uri, nil)
	if err != nil {
		return "", readlater.Errorf(readlater.EINVALID, "invalid login URI: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return "", readlater.Errorf(readlater.EUNAUTHORIZED, "login page %s: HTTP %d", uri, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxLoginPageSize))
	if err != nil {
		return "", err
	}
	return string(body), nil
}

func (a *Authenticator) submit(ctx context.Context, client *http.Client, method, action string, fields url.Values) error {
	var req *http.Request
	var err error
	if method == http.MethodGet {
		u, perr := url.Parse(action)
		if perr != nil {
			return readlater.Errorf(readlater.EINVALID, "invalid form action: %v", perr)
		}
		u.RawQuery = fields.Encode()
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	} else {
		req, err = http.NewRequestWithContext(ctx, http.MethodPost, action, strings.NewReader(fields.Encode()))
		if req != nil {
			req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		}
	}
	if err != nil {
		return readlater.Errorf(readlater.EINVALID, "invalid form action: %v", err)
	}

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, maxLoginPageSize))

	if resp.StatusCode >= http.StatusBadRequest {
		return readlater.Errorf(readlater.EUNAUTHORIZED, "login to %s rejected: HTTP %d", action, resp.StatusCode)
	}
	return nil
}

// loginURI returns the configured login URI, or the site root.
func loginURI(cfg *readlater.SiteConfig) string {
	if cfg.LoginURI != "" {
		return cfg.LoginURI
	}
	return "https://" + cfg.Host + "/"
}

func fieldOr(name, fallback string) string {
	if name == "" {
		return fallback
	}
	return name
}
