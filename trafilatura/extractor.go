package trafilatura

import (
	"bytes"
	"strings"

	"github.com/fwojciec/readlater"
	"github.com/markusmobius/go-trafilatura"
	"golang.org/x/net/html"
)

// Ensure Extractor implements readlater.Extractor at compile time.
var _ readlater.Extractor = (*Extractor)(nil)

// Extractor wraps go-trafilatura to extract the article from a page. It is
// the default extractor for saved entries; trafilatura falls back to its own
// readability port when its heuristics find nothing.
type Extractor struct{}

// NewExtractor creates a new Extractor.
func NewExtractor() *Extractor {
	return &Extractor{}
}

// Extract processes raw HTML and returns the main content.
func (e *Extractor) Extract(rawHTML string) (*readlater.ExtractResult, error) {
	if rawHTML == "" {
		return nil, readlater.Errorf(readlater.EINVALID, "empty HTML input")
	}

	opts := trafilatura.Options{
		EnableFallback: true,
	}

	result, err := trafilatura.Extract(strings.NewReader(rawHTML), opts)
	if err != nil {
		return nil, err
	}

	if result.ContentNode == nil {
		return nil, readlater.Errorf(readlater.ENOTFOUND, "no article content found")
	}
	contentHTML, err := renderNode(result.ContentNode)
	if err != nil {
		return nil, err
	}

	return &readlater.ExtractResult{
		Title:       strings.TrimSpace(result.Metadata.Title),
		ContentHTML: contentHTML,
		Image:       result.Metadata.Image,
	}, nil
}

// renderNode converts an html.Node to a string.
func renderNode(n *html.Node) (string, error) {
	var buf bytes.Buffer
	if err := html.Render(&buf, n); err != nil {
		return "", err
	}
	return buf.String(), nil
}
