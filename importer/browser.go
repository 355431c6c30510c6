package importer

import (
	"io"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/goquery"
)

// parseBrowser reads a Netscape bookmark file.
func parseBrowser(r io.Reader) ([]*readlater.ImportRecord, error) {
	return goquery.ParseBookmarks(r)
}
