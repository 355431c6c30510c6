package http_test

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/readlater"
	rlhttp "github.com/fwojciec/readlater/http"
	"github.com/fwojciec/readlater/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func debugLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func configRegistry(cfg *readlater.SiteConfig) *mock.SiteConfigRegistry {
	return &mock.SiteConfigRegistry{
		FindSiteConfigFn: func(ctx context.Context, host string) (*readlater.SiteConfig, error) {
			if cfg == nil {
				return nil, readlater.Errorf(readlater.ENOTFOUND, "no site config for %s", host)
			}
			return cfg, nil
		},
	}
}

func loginConfig() *readlater.SiteConfig {
	return &readlater.SiteConfig{
		Host:             "127.0.0.1",
		RequiresLogin:    true,
		NotLoggedInXPath: "//div[@class='paywall']",
	}
}

func articleServer(t *testing.T, hits *atomic.Int32, body func(n int32) string) *httptest.Server {
	t.Helper()
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := hits.Add(1)
		_, _ = w.Write([]byte(body(n)))
	}))
	t.Cleanup(server.Close)
	return server
}

func TestSiteAuthInterceptor_PassThrough(t *testing.T) {
	t.Parallel()

	for name, cfg := range map[string]*readlater.SiteConfig{
		"no site config":           nil,
		"site does not need login": {Host: "127.0.0.1"},
	} {
		t.Run(name, func(t *testing.T) {
			t.Parallel()

			var hits atomic.Int32
			server := articleServer(t, &hits, func(int32) string { return "<p>article</p>" })

			var buf bytes.Buffer
			auth := &mock.Authenticator{}
			interceptor := rlhttp.NewSiteAuthInterceptor(configRegistry(cfg), auth, debugLogger(&buf))
			fetcher := rlhttp.NewFetcher(rlhttp.WithInterceptors(interceptor))

			html, err := fetcher.Fetch(context.Background(), server.URL)

			require.NoError(t, err)
			assert.Equal(t, "<p>article</p>", html)
			assert.Equal(t, int32(1), hits.Load())
			output := buf.String()
			assert.Equal(t, 2, strings.Count(output, "will not require login"))
			assert.Contains(t, output, "hook=before_send")
			assert.Contains(t, output, "hook=after_receive")
			assert.Contains(t, output, "host=127.0.0.1")
		})
	}
}

func TestSiteAuthInterceptor_BeforeSend(t *testing.T) {
	t.Parallel()

	t.Run("logs in once before the request when not logged in", func(t *testing.T) {
		t.Parallel()

		var hits, logins atomic.Int32
		var loggedInFirst atomic.Bool
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) == 1 {
				loggedInFirst.Store(logins.Load() == 1)
			}
			_, _ = w.Write([]byte("<p>article</p>"))
		}))
		defer server.Close()

		var buf bytes.Buffer
		auth := &mock.Authenticator{
			IsLoggedInFn: func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) bool {
				return false
			},
			LoginFn: func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) error {
				logins.Add(1)
				return nil
			},
			IsLoginRequiredFn: func(cfg *readlater.SiteConfig, body []byte) (bool, error) {
				return false, nil
			},
		}
		interceptor := rlhttp.NewSiteAuthInterceptor(configRegistry(loginConfig()), auth, debugLogger(&buf))
		fetcher := rlhttp.NewFetcher(rlhttp.WithInterceptors(interceptor))

		html, err := fetcher.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "<p>article</p>", html)
		assert.Equal(t, int32(1), logins.Load())
		assert.True(t, loggedInFirst.Load())
		output := buf.String()
		assert.Contains(t, output, "user is not logged in, attach authenticator")
		assert.Contains(t, output, "retry #0 with login not required")
	})

	t.Run("does not log in when session exists", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := articleServer(t, &hits, func(int32) string { return "<p>article</p>" })

		var buf bytes.Buffer
		auth := &mock.Authenticator{
			IsLoggedInFn: func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) bool {
				return true
			},
			LoginFn: func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) error {
				t.Fatal("login must not be called")
				return nil
			},
			IsLoginRequiredFn: func(cfg *readlater.SiteConfig, body []byte) (bool, error) {
				return false, nil
			},
		}
		interceptor := rlhttp.NewSiteAuthInterceptor(configRegistry(loginConfig()), auth, debugLogger(&buf))
		fetcher := rlhttp.NewFetcher(rlhttp.WithInterceptors(interceptor))

		_, err := fetcher.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Contains(t, buf.String(), "already logged in")
	})

	t.Run("login failure aborts before sending", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := articleServer(t, &hits, func(int32) string { return "<p>article</p>" })

		var buf bytes.Buffer
		auth := &mock.Authenticator{
			IsLoggedInFn: func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) bool {
				return false
			},
			LoginFn: func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) error {
				return errors.New("connection refused")
			},
		}
		interceptor := rlhttp.NewSiteAuthInterceptor(configRegistry(loginConfig()), auth, debugLogger(&buf))
		fetcher := rlhttp.NewFetcher(rlhttp.WithInterceptors(interceptor))

		_, err := fetcher.Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Equal(t, readlater.EUNAUTHORIZED, readlater.ErrorCode(err))
		assert.Equal(t, int32(0), hits.Load())
		assert.Contains(t, buf.String(), "login failed")
	})

	t.Run("registry error aborts", func(t *testing.T) {
		t.Parallel()

		registry := &mock.SiteConfigRegistry{
			FindSiteConfigFn: func(ctx context.Context, host string) (*readlater.SiteConfig, error) {
				return nil, errors.New("disk error")
			},
		}
		var buf bytes.Buffer
		interceptor := rlhttp.NewSiteAuthInterceptor(registry, &mock.Authenticator{}, debugLogger(&buf))
		fetcher := rlhttp.NewFetcher(rlhttp.WithInterceptors(interceptor))

		_, err := fetcher.Fetch(context.Background(), "http://127.0.0.1:1/")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "disk error")
	})
}

func TestSiteAuthInterceptor_AfterReceive(t *testing.T) {
	t.Parallel()

	loggedIn := func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) bool {
		return true
	}
	markerInBody := func(cfg *readlater.SiteConfig, body []byte) (bool, error) {
		return strings.Contains(string(body), "paywall"), nil
	}

	t.Run("logs in and retries when body shows the anonymous marker", func(t *testing.T) {
		t.Parallel()

		var hits, logins atomic.Int32
		server := articleServer(t, &hits, func(n int32) string {
			if logins.Load() == 0 {
				return `<div class="paywall">subscribe</div>`
			}
			return "<p>article</p>"
		})

		var buf bytes.Buffer
		auth := &mock.Authenticator{
			IsLoggedInFn: loggedIn,
			LoginFn: func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) error {
				logins.Add(1)
				return nil
			},
			IsLoginRequiredFn: markerInBody,
		}
		interceptor := rlhttp.NewSiteAuthInterceptor(configRegistry(loginConfig()), auth, debugLogger(&buf))
		fetcher := rlhttp.NewFetcher(rlhttp.WithInterceptors(interceptor))

		html, err := fetcher.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "<p>article</p>", html)
		assert.Equal(t, int32(2), hits.Load())
		assert.Equal(t, int32(1), logins.Load())
		output := buf.String()
		assert.Contains(t, output, "retry #0 with login required")
		assert.Contains(t, output, "retry #1 with login not required")
		assert.Contains(t, output, "attempt=1")
	})

	t.Run("never retries beyond the bound", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := articleServer(t, &hits, func(int32) string {
			return `<div class="paywall">subscribe</div>`
		})

		var buf bytes.Buffer
		auth := &mock.Authenticator{
			IsLoggedInFn: loggedIn,
			LoginFn: func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) error {
				return nil
			},
			IsLoginRequiredFn: markerInBody,
		}
		interceptor := rlhttp.NewSiteAuthInterceptor(configRegistry(loginConfig()), auth, debugLogger(&buf))
		fetcher := rlhttp.NewFetcher(rlhttp.WithInterceptors(interceptor))

		html, err := fetcher.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Contains(t, html, "paywall")
		assert.Equal(t, int32(1+rlhttp.DefaultMaxRetries), hits.Load())
	})

	t.Run("login failure after response aborts", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := articleServer(t, &hits, func(int32) string {
			return `<div class="paywall">subscribe</div>`
		})

		var buf bytes.Buffer
		auth := &mock.Authenticator{
			IsLoggedInFn: loggedIn,
			LoginFn: func(ctx context.Context, cfg *readlater.SiteConfig, client *http.Client) error {
				return readlater.Errorf(readlater.EUNAUTHORIZED, "bad password")
			},
			IsLoginRequiredFn: markerInBody,
		}
		interceptor := rlhttp.NewSiteAuthInterceptor(configRegistry(loginConfig()), auth, debugLogger(&buf))
		fetcher := rlhttp.NewFetcher(rlhttp.WithInterceptors(interceptor))

		_, err := fetcher.Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Equal(t, readlater.EUNAUTHORIZED, readlater.ErrorCode(err))
		assert.Equal(t, "bad password", readlater.ErrorMessage(err))
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("ignores empty body without inspecting it", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := articleServer(t, &hits, func(int32) string { return "" })

		var buf bytes.Buffer
		auth := &mock.Authenticator{
			IsLoggedInFn: loggedIn,
			IsLoginRequiredFn: func(cfg *readlater.SiteConfig, body []byte) (bool, error) {
				t.Fatal("body must not be inspected")
				return false, nil
			},
		}
		interceptor := rlhttp.NewSiteAuthInterceptor(configRegistry(loginConfig()), auth, debugLogger(&buf))
		fetcher := rlhttp.NewFetcher(rlhttp.WithInterceptors(interceptor))

		html, err := fetcher.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Empty(t, html)
		assert.Equal(t, int32(1), hits.Load())
		assert.Contains(t, buf.String(), "empty body, ignoring")
	})

	t.Run("ignores redirects without inspecting the body", func(t *testing.T) {
		t.Parallel()

		var hits atomic.Int32
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			http.Redirect(w, r, "/login", http.StatusFound)
		}))
		defer server.Close()

		client := &http.Client{
			Jar: rlhttp.NewCookieJar(),
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				return http.ErrUseLastResponse
			},
		}
		var buf bytes.Buffer
		auth := &mock.Authenticator{
			IsLoggedInFn: loggedIn,
			IsLoginRequiredFn: func(cfg *readlater.SiteConfig, body []byte) (bool, error) {
				t.Fatal("body must not be inspected")
				return false, nil
			},
		}
		interceptor := rlhttp.NewSiteAuthInterceptor(configRegistry(loginConfig()), auth, debugLogger(&buf))
		fetcher := rlhttp.NewFetcher(rlhttp.WithClient(client), rlhttp.WithInterceptors(interceptor))

		_, err := fetcher.Fetch(context.Background(), server.URL)

		require.Error(t, err)
		assert.Contains(t, err.Error(), "302")
		assert.Equal(t, int32(1), hits.Load())
		output := buf.String()
		assert.Contains(t, output, "empty body, ignoring")
		assert.Contains(t, output, "status=302")
	})
}
