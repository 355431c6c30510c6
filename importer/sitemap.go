package importer

import (
	"io"
	"strings"

	"github.com/beevik/etree"
	"github.com/fwojciec/readlater"
)

// parseSitemap reads the <url> entries of a sitemap urlset. The <lastmod>
// date becomes the record's creation time. Sitemap indexes are rejected
// since the sitemaps they list live on the network.
func parseSitemap(r io.Reader) ([]*readlater.ImportRecord, error) {
	doc := etree.NewDocument()
	if _, err := doc.ReadFrom(r); err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "parsing sitemap XML: %v", err)
	}

	root := doc.Root()
	if root == nil {
		return nil, readlater.Errorf(readlater.EINVALID, "empty sitemap XML")
	}
	if root.Tag == "sitemapindex" {
		return nil, readlater.Errorf(readlater.EINVALID, "sitemap index not supported, import each listed sitemap")
	}

	var records []*readlater.ImportRecord
	for _, urlEl := range root.SelectElements("url") {
		loc := urlEl.SelectElement("loc")
		if loc == nil {
			continue
		}
		u := strings.TrimSpace(loc.Text())
		if u == "" {
			continue
		}
		rec := &readlater.ImportRecord{URL: u}
		if lastmod := urlEl.SelectElement("lastmod"); lastmod != nil {
			rec.CreatedAt = parseTime(lastmod.Text())
		}
		records = append(records, rec)
	}
	return records, nil
}
