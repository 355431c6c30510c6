package mock

import "github.com/fwojciec/readlater"

var (
	_ readlater.Extractor = (*Extractor)(nil)
	_ readlater.Sanitizer = (*Sanitizer)(nil)
)

// Extractor is a mock implementation of readlater.Extractor.
type Extractor struct {
	ExtractFn func(html string) (*readlater.ExtractResult, error)
}

func (e *Extractor) Extract(html string) (*readlater.ExtractResult, error) {
	return e.ExtractFn(html)
}

// Sanitizer is a mock implementation of readlater.Sanitizer.
type Sanitizer struct {
	SanitizeFn func(html string) string
}

func (s *Sanitizer) Sanitize(html string) string {
	return s.SanitizeFn(html)
}
