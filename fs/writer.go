// Package fs exports saved entries as markdown files.
package fs

import (
	"context"
	"net/url"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/fwojciec/readlater"
)

// URLToPath converts an entry URL to a relative file path under its host.
// Example: https://www.example.com/blog/post → example.com/blog/post.md
func URLToPath(rawURL string) (string, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", err
	}
	host := readlater.NormalizeHost(u.Host)
	if host == "" {
		return "", readlater.Errorf(readlater.EINVALID, "URL has no host: %s", rawURL)
	}

	path := u.Path

	// Handle root or trailing slash → index.md
	if path == "" || path == "/" {
		return filepath.Join(host, "index.md"), nil
	}

	path = strings.TrimPrefix(path, "/")

	if strings.HasSuffix(path, "/") {
		return filepath.Join(host, path+"index.md"), nil
	}

	path = strings.TrimSuffix(path, filepath.Ext(path))
	return filepath.Join(host, path+".md"), nil
}

// FormatEntry formats an entry with YAML frontmatter followed by body.
func FormatEntry(entry *readlater.Entry, body string) string {
	var b strings.Builder
	b.WriteString("---\n")
	b.WriteString("url: ")
	b.WriteString(entry.URL)
	b.WriteString("\ntitle: ")
	b.WriteString(strconv.Quote(entry.Title))
	if len(entry.Tags) > 0 {
		b.WriteString("\ntags:")
		for _, tag := range entry.Tags {
			b.WriteString("\n  - ")
			b.WriteString(strconv.Quote(tag))
		}
	}
	b.WriteString("\narchived: ")
	b.WriteString(strconv.FormatBool(entry.IsArchived))
	b.WriteString("\nstarred: ")
	b.WriteString(strconv.FormatBool(entry.IsStarred))
	if entry.ReadingTime > 0 {
		b.WriteString("\nreading_time: ")
		b.WriteString(strconv.Itoa(entry.ReadingTime))
	}
	b.WriteString("\nsaved: ")
	b.WriteString(entry.CreatedAt.Format("2006-01-02"))
	b.WriteString("\n---\n\n")
	b.WriteString(body)
	return b.String()
}

// Ensure Writer implements readlater.EntryWriter at compile time.
var _ readlater.EntryWriter = (*Writer)(nil)

// Writer writes entries as markdown files to a directory.
type Writer struct {
	baseDir   string
	converter readlater.Converter
}

// NewWriter creates a new Writer that writes to the given base directory.
func NewWriter(baseDir string, converter readlater.Converter) *Writer {
	return &Writer{baseDir: baseDir, converter: converter}
}

// WriteEntry writes an entry to disk as a markdown file. Entries without
// content get front matter only.
func (w *Writer) WriteEntry(ctx context.Context, entry *readlater.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}

	relPath, err := URLToPath(entry.URL)
	if err != nil {
		return err
	}

	var body string
	if strings.TrimSpace(entry.Content) != "" {
		body, err = w.converter.Convert(entry.Content, entry.URL)
		if err != nil {
			return err
		}
	}

	fullPath := filepath.Join(w.baseDir, relPath)

	// Create parent directories
	dir := filepath.Dir(fullPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	return os.WriteFile(fullPath, []byte(FormatEntry(entry, body)), 0644)
}
