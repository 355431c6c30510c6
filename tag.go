package readlater

import (
	"context"
	"strings"
	"unicode"
)

// Tag represents a label attached to one or more entries of a user.
type Tag struct {
	Label      string `json:"label"`
	Slug       string `json:"slug"`
	EntryCount int    `json:"nbEntries"`
}

// TagService represents a service for managing tags.
type TagService interface {
	// FindTags returns every tag of the user with the number of tagged entries.
	FindTags(ctx context.Context, userID string) ([]*Tag, error)

	// DeleteTagByLabel removes the tag from every entry of the user.
	// Returns ENOTFOUND if the user has no such tag.
	DeleteTagByLabel(ctx context.Context, userID, label string) (*Tag, error)
}

// NormalizeTags lower-cases and trims labels, dropping empties and duplicates
// while keeping the first-seen order.
func NormalizeTags(labels []string) []string {
	seen := make(map[string]bool, len(labels))
	var out []string
	for _, l := range labels {
		l = strings.ToLower(strings.TrimSpace(l))
		if l == "" || seen[l] {
			continue
		}
		seen[l] = true
		out = append(out, l)
	}
	return out
}

// SplitTags splits a comma or whitespace separated tag list.
func SplitTags(s string) []string {
	return NormalizeTags(strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || unicode.IsSpace(r)
	}))
}

// Slugify converts a label into a URL-safe slug.
func Slugify(label string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(label) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}
