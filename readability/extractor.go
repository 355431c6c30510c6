package readability

import (
	"strings"

	"github.com/fwojciec/readlater"
	"github.com/go-shiori/go-readability"
)

// Ensure Extractor implements readlater.Extractor at compile time.
var _ readlater.Extractor = (*Extractor)(nil)

// Extractor wraps go-readability to extract main content from HTML.
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

	article, err := readability.FromReader(strings.NewReader(rawHTML), nil)
	if err != nil {
		return nil, readlater.Errorf(readlater.EINVALID, "readability: %v", err)
	}
	if strings.TrimSpace(article.Content) == "" {
		return nil, readlater.Errorf(readlater.ENOTFOUND, "no article content found")
	}

	return &readlater.ExtractResult{
		Title:       strings.TrimSpace(article.Title),
		ContentHTML: article.Content,
		Image:       article.Image,
	}, nil
}
