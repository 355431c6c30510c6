package main

import (
	"fmt"

	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/fs"
)

// exportPageSize is how many entries are loaded at a time.
const exportPageSize = 100

// Run executes the export command.
func (c *ExportCmd) Run(deps *Dependencies) error {
	user, err := findUser(deps, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	filter := readlater.EntryFilter{UserID: &user.ID, Limit: exportPageSize}
	if c.Tag != "" {
		filter.Tag = &c.Tag
	}
	if c.Archived || c.Unread {
		archived := c.Archived
		filter.IsArchived = &archived
	}

	writer := fs.NewWriter(c.Dir, deps.Converter)

	var written int
	for {
		entries, err := deps.Entries.FindEntries(deps.Ctx, filter)
		if err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
			return err
		}
		for _, entry := range entries {
			if err := writer.WriteEntry(deps.Ctx, entry); err != nil {
				fmt.Fprintf(deps.Stderr, "  skip %s: %v\n", entry.URL, err)
				continue
			}
			written++
		}
		if len(entries) < exportPageSize {
			break
		}
		filter.Offset += exportPageSize
	}

	fmt.Fprintf(deps.Stdout, "Exported %d entries to %s\n", written, c.Dir)
	return nil
}
