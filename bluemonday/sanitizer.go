// Package bluemonday provides a readlater.Sanitizer backed by bluemonday.
package bluemonday

import (
	"github.com/fwojciec/readlater"
	"github.com/microcosm-cc/bluemonday"
)

// Ensure Sanitizer implements readlater.Sanitizer at compile time.
var _ readlater.Sanitizer = (*Sanitizer)(nil)

// Sanitizer strips scripts, styles and event handlers from article HTML
// while keeping the markup users write in comments and posts.
type Sanitizer struct {
	policy *bluemonday.Policy
}

// NewSanitizer creates a Sanitizer with bluemonday's UGC policy. Links are
// forced to open in a new tab without a referrer.
func NewSanitizer() *Sanitizer {
	policy := bluemonday.UGCPolicy()
	policy.RequireNoReferrerOnLinks(true)
	policy.AddTargetBlankToFullyQualifiedLinks(true)
	return &Sanitizer{policy: policy}
}

// Sanitize returns html with disallowed markup removed.
func (s *Sanitizer) Sanitize(html string) string {
	return s.policy.Sanitize(html)
}
