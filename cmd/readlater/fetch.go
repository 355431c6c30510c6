package main

import (
	"fmt"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/bluemonday"
	"github.com/fwojciec/readlater/resolve"
	"github.com/fwojciec/readlater/trafilatura"
)

// Run executes the fetch command.
func (c *FetchCmd) Run(deps *Dependencies) error {
	var userID string
	if c.User != "" {
		user, err := findUser(deps, c.User)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
			return err
		}
		userID = user.ID
	}

	fetcher, err := deps.Fetchers(userID, c.Render)
	if err != nil {
		if c.Render {
			fmt.Fprintln(deps.Stderr, "Hint: Chrome or Chromium must be installed")
		}
		return fmt.Errorf("failed to create fetcher: %w", err)
	}
	defer fetcher.Close()

	if c.Raw {
		html, err := fetcher.Fetch(deps.Ctx, c.URL)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %v\n", err)
			return err
		}
		fmt.Fprintln(deps.Stdout, html)
		return nil
	}

	entry := &readlater.Entry{UserID: userID, URL: c.URL}
	resolver := resolve.NewResolver(fetcher, trafilatura.NewExtractor(), bluemonday.NewSanitizer())
	if err := resolver.ResolveEntry(deps.Ctx, entry, ""); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %v\n", err)
		return err
	}

	markdown, err := deps.Converter.Convert(entry.Content, entry.URL)
	if err != nil {
		return fmt.Errorf("convert %s: %w", entry.URL, err)
	}

	fmt.Fprintf(deps.Stdout, "# %s\n\n", entry.Title)
	fmt.Fprintf(deps.Stdout, "%s · %d min read\n\n", entry.Domain, entry.ReadingTime)
	fmt.Fprintln(deps.Stdout, markdown)
	return nil
}
