// Package resolve turns a saved URL into article content.
package resolve

import (
	"context"
	"fmt"
	"net/url"
	"strings"

	"github.com/fwojciec/readlater"
)

// Ensure Resolver implements readlater.ContentResolver at compile time.
var _ readlater.ContentResolver = (*Resolver)(nil)

// Resolver fetches a page when needed, extracts the article and sanitizes
// it before it is stored.
type Resolver struct {
	fetcher   readlater.Fetcher
	extractor readlater.Extractor
	sanitizer readlater.Sanitizer
}

// NewResolver creates a Resolver. fetcher may be nil, in which case only
// entries that come with their own HTML can be resolved.
func NewResolver(fetcher readlater.Fetcher, extractor readlater.Extractor, sanitizer readlater.Sanitizer) *Resolver {
	return &Resolver{fetcher: fetcher, extractor: extractor, sanitizer: sanitizer}
}

// ResolveEntry fills the entry's content, domain and reading time. When
// html is empty the page at entry.URL is fetched first. A title or preview
// picture already set on the entry is kept.
//
// HTML supplied by the caller is often an extracted article already, so
// when the extractor finds nothing in it the sanitized input is used as is.
func (r *Resolver) ResolveEntry(ctx context.Context, entry *readlater.Entry, html string) error {
	u, err := url.Parse(entry.URL)
	if err != nil || u.Host == "" {
		return readlater.Errorf(readlater.EINVALID, "invalid entry URL: %q", entry.URL)
	}
	entry.Domain = readlater.NormalizeHost(u.Host)

	supplied := strings.TrimSpace(html) != ""
	if !supplied {
		if r.fetcher == nil {
			return readlater.Errorf(readlater.EINVALID, "no content for %s", entry.URL)
		}
		if html, err = r.fetcher.Fetch(ctx, entry.URL); err != nil {
			return fmt.Errorf("fetch %s: %w", entry.URL, err)
		}
	}

	var content string
	result, err := r.extractor.Extract(html)
	switch {
	case err == nil:
		content = result.ContentHTML
		if entry.Title == "" {
			entry.Title = result.Title
		}
		if entry.Picture == "" {
			entry.Picture = result.Image
		}
	case supplied:
		content = html
	default:
		return fmt.Errorf("extract %s: %w", entry.URL, err)
	}

	entry.Content = r.sanitizer.Sanitize(content)
	entry.ReadingTime = readlater.EstimateReadingTime(entry.Content)
	if entry.Title == "" {
		entry.Title = entry.Domain
	}
	return nil
}
