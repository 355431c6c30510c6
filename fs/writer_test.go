package fs_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/fs"
	"github.com/fwojciec/readlater/mock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestURLToPath(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		url     string
		want    string
		wantErr bool
	}{
		{
			name: "simple path",
			url:  "https://example.com/blog/2024/post",
			want: "example.com/blog/2024/post.md",
		},
		{
			name: "strips www and port",
			url:  "https://www.Example.com:8443/post",
			want: "example.com/post.md",
		},
		{
			name: "trailing slash becomes index",
			url:  "https://example.com/blog/",
			want: "example.com/blog/index.md",
		},
		{
			name: "root path becomes index",
			url:  "https://example.com/",
			want: "example.com/index.md",
		},
		{
			name: "replaces page extension",
			url:  "https://example.com/story.html",
			want: "example.com/story.md",
		},
		{
			name: "ignores query string and fragment",
			url:  "https://example.com/post?utm_source=x#comments",
			want: "example.com/post.md",
		},
		{
			name:    "rejects URL without host",
			url:     "/just/a/path",
			wantErr: true,
		},
		{
			name:    "invalid URL",
			url:     "://invalid",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			got, err := fs.URLToPath(tt.url)

			if tt.wantErr {
				require.Error(t, err)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestFormatEntry(t *testing.T) {
	t.Parallel()

	t.Run("formats entry with frontmatter", func(t *testing.T) {
		t.Parallel()

		entry := &readlater.Entry{
			URL:         "https://example.com/post",
			Title:       `Why "fast" matters`,
			Tags:        []string{"go", "performance"},
			IsArchived:  true,
			ReadingTime: 4,
			CreatedAt:   time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		}

		got := fs.FormatEntry(entry, "# Why fast matters\n\nBody.")

		want := `---
url: https://example.com/post
title: "Why \"fast\" matters"
tags:
  - "go"
  - "performance"
archived: true
starred: false
reading_time: 4
saved: 2025-01-08
---

# Why fast matters

Body.`

		assert.Equal(t, want, got)
	})
}

func TestWriter_WriteEntry(t *testing.T) {
	t.Parallel()

	converter := &mock.Converter{
		ConvertFn: func(html string, pageURL string) (string, error) {
			return "converted from " + pageURL, nil
		},
	}

	t.Run("writes entry under its host", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		w := fs.NewWriter(baseDir, converter)

		entry := &readlater.Entry{
			UserID:    "u1",
			URL:       "https://www.example.com/blog/post",
			Title:     "Post",
			Content:   "<p>Body</p>",
			CreatedAt: time.Date(2025, 1, 8, 0, 0, 0, 0, time.UTC),
		}

		err := w.WriteEntry(context.Background(), entry)
		require.NoError(t, err)

		content, err := os.ReadFile(filepath.Join(baseDir, "example.com/blog/post.md"))
		require.NoError(t, err)
		assert.Contains(t, string(content), "title: \"Post\"")
		assert.Contains(t, string(content), "converted from https://www.example.com/blog/post")
	})

	t.Run("skips conversion without content", func(t *testing.T) {
		t.Parallel()

		baseDir := t.TempDir()
		w := fs.NewWriter(baseDir, &mock.Converter{})

		entry := &readlater.Entry{UserID: "u1", URL: "https://example.com/"}

		err := w.WriteEntry(context.Background(), entry)
		require.NoError(t, err)

		_, err = os.Stat(filepath.Join(baseDir, "example.com/index.md"))
		require.NoError(t, err)
	})

	t.Run("rejects invalid entry", func(t *testing.T) {
		t.Parallel()

		w := fs.NewWriter(t.TempDir(), converter)

		err := w.WriteEntry(context.Background(), &readlater.Entry{URL: "https://example.com/"})

		require.Error(t, err)
		assert.Equal(t, readlater.EINVALID, readlater.ErrorCode(err))
	})
}
