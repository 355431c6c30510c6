package goquery_test

import (
	"testing"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindLoginForm(t *testing.T) {
	t.Parallel()

	t.Run("collects hidden inputs and resolves action", func(t *testing.T) {
		t.Parallel()

		html := `<html><body>
<form action="/search"><input name="q"></form>
<form action="/session" method="post">
	<input type="hidden" name="csrf" value="tok123">
	<input type="hidden" name="redirect" value="/">
	<input type="text" name="login">
	<input type="password" name="pass">
</form>
</body></html>`

		form, err := goquery.FindLoginForm(html, "https://example.com/login", "pass")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/session", form.Action)
		assert.Equal(t, "POST", form.Method)
		assert.Equal(t, "tok123", form.Fields.Get("csrf"))
		assert.Equal(t, "/", form.Fields.Get("redirect"))
		assert.False(t, form.Fields.Has("login"))
	})

	t.Run("falls back to the form with a password input", func(t *testing.T) {
		t.Parallel()

		html := `<form action="/a"><input name="q"></form>
<form action="/b"><input type="password" name="secret"></form>`

		form, err := goquery.FindLoginForm(html, "https://example.com/login", "missing")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/b", form.Action)
	})

	t.Run("posts to the page itself without an action", func(t *testing.T) {
		t.Parallel()

		html := `<form><input type="password" name="pass"></form>`

		form, err := goquery.FindLoginForm(html, "https://example.com/login?next=1", "pass")

		require.NoError(t, err)
		assert.Equal(t, "https://example.com/login?next=1", form.Action)
	})

	t.Run("returns not found without a form", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.FindLoginForm("<p>nothing</p>", "https://example.com/login", "pass")

		require.Error(t, err)
		assert.Equal(t, readlater.ENOTFOUND, readlater.ErrorCode(err))
	})

	t.Run("returns invalid for bad page URL", func(t *testing.T) {
		t.Parallel()

		_, err := goquery.FindLoginForm("<form></form>", "://bad", "pass")

		require.Error(t, err)
		assert.Equal(t, readlater.EINVALID, readlater.ErrorCode(err))
	})
}
