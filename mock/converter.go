package mock

import "github.com/fwojciec/readlater"

var _ readlater.Converter = (*Converter)(nil)

// Converter is a mock implementation of readlater.Converter.
type Converter struct {
	ConvertFn func(html string, pageURL string) (string, error)
}

func (c *Converter) Convert(html string, pageURL string) (string, error) {
	return c.ConvertFn(html, pageURL)
}
