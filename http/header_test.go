package http_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/fwojciec/readlater"
	rlhttp "github.com/fwojciec/readlater/http"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHeaderInterceptor(t *testing.T) {
	t.Parallel()

	t.Run("applies configured headers", func(t *testing.T) {
		t.Parallel()

		var ua, referer atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua.Store(r.Header.Get("User-Agent"))
			referer.Store(r.Header.Get("Referer"))
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		cfg := &readlater.SiteConfig{
			Host: "127.0.0.1",
			HTTPHeaders: map[string]string{
				"User-Agent": "Googlebot/2.1",
				"Referer":    "https://www.google.com/",
			},
		}
		fetcher := rlhttp.NewFetcher(rlhttp.WithInterceptors(rlhttp.NewHeaderInterceptor(configRegistry(cfg))))

		_, err := fetcher.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, "Googlebot/2.1", ua.Load())
		assert.Equal(t, "https://www.google.com/", referer.Load())
	})

	t.Run("sets default user agent without config", func(t *testing.T) {
		t.Parallel()

		var ua atomic.Value
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ua.Store(r.Header.Get("User-Agent"))
			_, _ = w.Write([]byte("ok"))
		}))
		defer server.Close()

		fetcher := rlhttp.NewFetcher(rlhttp.WithInterceptors(rlhttp.NewHeaderInterceptor(configRegistry(nil))))

		_, err := fetcher.Fetch(context.Background(), server.URL)

		require.NoError(t, err)
		assert.Equal(t, rlhttp.DefaultUserAgent, ua.Load())
	})
}
