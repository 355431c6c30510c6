package goquery

import (
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/fwojciec/readlater"
)

// ParseBookmarks reads a Netscape bookmark file as exported by browsers.
// Tags come from the TAGS attribute and the names of enclosing folders.
// Bookmarks without an HTTP(S) URL are skipped.
func ParseBookmarks(r io.Reader) ([]*readlater.ImportRecord, error) {
	doc, err := goquery.NewDocumentFromReader(r)
	if err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "failed to parse bookmarks: %v", err)
	}

	var records []*readlater.ImportRecord
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href := strings.TrimSpace(sel.AttrOr("href", ""))
		if href == "" || isNonHTTPLink(href) {
			return
		}

		rec := &readlater.ImportRecord{
			URL:   href,
			Title: strings.TrimSpace(sel.Text()),
		}

		if ts, err := strconv.ParseInt(sel.AttrOr("add_date", ""), 10, 64); err == nil && ts > 0 {
			rec.CreatedAt = time.Unix(ts, 0).UTC()
		}

		var tags []string
		if attr := sel.AttrOr("tags", ""); attr != "" {
			tags = append(tags, readlater.SplitTags(attr)...)
		}
		tags = append(tags, folders(sel)...)
		rec.Tags = readlater.NormalizeTags(tags)

		records = append(records, rec)
	})

	return records, nil
}

// folders returns the names of the folders enclosing a bookmark, outermost
// first. A folder is a DT holding an H3 followed by a DL.
func folders(sel *goquery.Selection) []string {
	var names []string
	sel.ParentsFiltered("dl").Each(func(_ int, dl *goquery.Selection) {
		h3 := dl.PrevFiltered("h3")
		if h3.Length() == 0 {
			h3 = dl.Parent().ChildrenFiltered("h3")
		}
		if name := strings.TrimSpace(h3.First().Text()); name != "" {
			names = append([]string{name}, names...)
		}
	})
	return names
}
