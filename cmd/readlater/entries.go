package main

import (
	"fmt"

	"github.com/fwojciec/readlater"
)

// Run executes the entries delete command.
func (c *EntriesDeleteCmd) Run(deps *Dependencies) error {
	user, err := findUser(deps, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	entry, err := deps.Entries.FindEntryByURL(deps.Ctx, user.ID, c.URL)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	if err := deps.Entries.DeleteEntry(deps.Ctx, entry.ID); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}
	if deps.Events != nil {
		deps.Events.Dispatch(deps.Ctx, readlater.Event{Name: readlater.EventEntryDeleted, Entry: entry})
	}

	fmt.Fprintf(deps.Stdout, "Deleted %s\n", entry.URL)
	return nil
}
