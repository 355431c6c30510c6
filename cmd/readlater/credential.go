package main

import (
	"fmt"

	"github.com/fwojciec/readlater"
)

// Run executes the credential add command.
func (c *CredentialAddCmd) Run(deps *Dependencies) error {
	if deps.Cipher == nil {
		fmt.Fprintln(deps.Stderr, "error: READLATER_SECRET_KEY must be set to store credentials")
		return readlater.Errorf(readlater.EINVALID, "READLATER_SECRET_KEY not set")
	}

	user, err := findUser(deps, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	username, err := deps.Cipher.Encrypt(c.Username)
	if err != nil {
		return fmt.Errorf("encrypt username: %w", err)
	}
	password, err := deps.Cipher.Encrypt(c.Password)
	if err != nil {
		return fmt.Errorf("encrypt password: %w", err)
	}

	cred := &readlater.SiteCredential{
		UserID:   user.ID,
		Host:     c.Host,
		Username: username,
		Password: password,
	}
	if err := deps.Credentials.CreateSiteCredential(deps.Ctx, cred); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	fmt.Fprintf(deps.Stdout, "Stored credential for %s\n", cred.Host)
	return nil
}

// Run executes the credential list command.
func (c *CredentialListCmd) Run(deps *Dependencies) error {
	user, err := findUser(deps, c.User)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	creds, err := deps.Credentials.FindSiteCredentials(deps.Ctx, user.ID)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", readlater.ErrorMessage(err))
		return err
	}

	if len(creds) == 0 {
		fmt.Fprintln(deps.Stdout, "No credentials found. Use 'readlater credential add' to store one.")
		return nil
	}

	for _, cred := range creds {
		fmt.Fprintf(deps.Stdout, "%s  %s  %s\n", cred.ID, cred.Host, cred.CreatedAt.Format("2006-01-02"))
	}
	return nil
}
