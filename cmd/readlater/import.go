package main

import (
	"fmt"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/bloom"
	"github.com/fwojciec/readlater/importer"
)

// seenHeadroom is how many new URLs the prefilter is sized for on top of
// the ones already saved.
const seenHeadroom = 10000

// Run executes the import command.
func (c *ImportCmd) Run(deps *Dependencies) error {
	src, err := importer.NewFileSource(c.Format, c.File)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	user, err := findUser(deps, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	opts := importer.Options{
		User:       user,
		MarkAsRead: c.MarkAsRead,
		Logger:     deps.Logger,
	}
	if c.Queue {
		opts.Producer = deps.Queue
	} else {
		urls, err := deps.Entries.FindEntryURLs(deps.Ctx, user.ID)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
			return err
		}
		opts.Entries = deps.Entries
		opts.Batch = deps.NewBatch()
		opts.Resolver = deps.Resolver
		opts.Events = deps.Events
		opts.Seen = bloom.NewFilterFromURLs(urls, seenHeadroom)
	}

	summary, err := importer.New(src.Format().Name, opts).Import(deps.Ctx, src)
	printSummary(deps, summary)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	if c.Queue {
		fmt.Fprintln(deps.Stdout, "Run 'readlater worker' to import the queued records.")
	}
	return nil
}

func printSummary(deps *Dependencies, s readlater.Summary) {
	fmt.Fprintf(deps.Stdout, "skipped: %d, imported: %d, queued: %d\n", s.Skipped, s.Imported, s.Queued)
}
