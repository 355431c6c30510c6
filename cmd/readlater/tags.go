package main

import (
	"fmt"

	"github.com/fwojciec/readlater"
)

// Run executes the tags list command.
func (c *TagsListCmd) Run(deps *Dependencies) error {
	user, err := findUser(deps, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	tags, err := deps.Tags.FindTags(deps.Ctx, user.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	if len(tags) == 0 {
		fmt.Fprintln(deps.Stdout, "No tags found.")
		return nil
	}

	for _, tag := range tags {
		fmt.Fprintf(deps.Stdout, "%s  %d\n", tag.Label, tag.EntryCount)
	}
	return nil
}

// Run executes the tags delete command.
func (c *TagsDeleteCmd) Run(deps *Dependencies) error {
	user, err := findUser(deps, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	tag, err := deps.Tags.DeleteTagByLabel(deps.Ctx, user.ID, c.Label)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Removed tag %q from %d entries\n", tag.Label, tag.EntryCount)
	return nil
}
