package readlater

// ExtractResult holds the extracted content from an HTML page.
type ExtractResult struct {
	// Title is the page title extracted from metadata.
	Title string

	// ContentHTML is the article body as clean HTML.
	ContentHTML string

	// Image is the URL of the page's lead image, if any.
	Image string
}

// Extractor extracts the article from HTML pages, removing boilerplate.
type Extractor interface {
	Extract(html string) (*ExtractResult, error)
}

// Sanitizer strips unsafe markup from untrusted HTML.
type Sanitizer interface {
	Sanitize(html string) string
}
