package goquery

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readlater"
)

// LoginForm is a login form found on a page, with the values of its
// hidden inputs already collected.
type LoginForm struct {
	Action string
	Method string
	Fields url.Values
}

// FindLoginForm locates the login form on a page and resolves its action
// against pageURL. The form holding an input named passwordField wins, then
// the first form with a password input, then the first form on the page.
// Returns ENOTFOUND if the page has no form.
func FindLoginForm(html string, pageURL string, passwordField string) (*LoginForm, error) {
	base, err := url.Parse(pageURL)
	if err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "invalid page URL: %v", err)
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "failed to parse HTML: %v", err)
	}

	var form *goquery.Selection
	if passwordField != "" {
		form = doc.Find(`input[name="` + passwordField + `"]`).First().Closest("form")
	}
	if form == nil || form.Length() == 0 {
		form = doc.Find(`input[type="password"]`).First().Closest("form")
	}
	if form.Length() == 0 {
		form = doc.Find("form").First()
	}
	if form.Length() == 0 {
		return nil, readlater.Errorf(readlater.ENOTFOUND, "no login form on %s", pageURL)
	}

	action := pageURL
	if href, ok := form.Attr("action"); ok && strings.TrimSpace(href) != "" {
		if resolved := resolveURL(base, strings.TrimSpace(href)); resolved != "" {
			action = resolved
		}
	}

	method := strings.ToUpper(strings.TrimSpace(form.AttrOr("method", "POST")))
	if method == "" {
		method = "POST"
	}

	fields := url.Values{}
	form.Find(`input[type="hidden"]`).Each(func(_ int, sel *goquery.Selection) {
		name, ok := sel.Attr("name")
		if !ok || name == "" {
			return
		}
		fields.Add(name, sel.AttrOr("value", ""))
	})

	return &LoginForm{Action: action, Method: method, Fields: fields}, nil
}

// resolveURL resolves a relative URL against a base URL.
// Returns empty string if the href cannot be parsed.
func resolveURL(base *url.URL, href string) string {
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	resolved.Fragment = ""
	return resolved.String()
}

// isNonHTTPLink checks if a href is a non-HTTP link that should be skipped.
func isNonHTTPLink(href string) bool {
	href = strings.ToLower(strings.TrimSpace(href))
	return strings.HasPrefix(href, "javascript:") ||
		strings.HasPrefix(href, "mailto:") ||
		strings.HasPrefix(href, "tel:") ||
		strings.HasPrefix(href, "data:") ||
		strings.HasPrefix(href, "place:")
}
