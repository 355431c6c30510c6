package main

import (
	"fmt"

	"github.com/fwojciec/readlater"
)

// Run executes the user add command.
func (c *UserAddCmd) Run(deps *Dependencies) error {
	user := &readlater.User{Username: c.Username}
	if err := deps.Users.CreateUser(deps.Ctx, user); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Created user %q (%s)\n", user.Username, user.ID)
	return nil
}
