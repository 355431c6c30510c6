package main

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/fwojciec/readlater"
)

// FetcherFactory builds a fetcher that logs in with the user's site
// credentials. userID may be empty for anonymous fetches. With render set
// pages are rendered in a headless browser.
type FetcherFactory func(userID string, render bool) (readlater.Fetcher, error)

// Dependencies holds all services and configuration for command execution.
type Dependencies struct {
	Ctx    context.Context
	Stdout io.Writer
	Stderr io.Writer
	Logger *slog.Logger

	Users       readlater.UserService
	Entries     readlater.EntryService
	NewBatch    func() readlater.EntryBatch
	Tags        readlater.TagService
	Credentials readlater.SiteCredentialService
	Queue       readlater.Queue
	Cipher      readlater.Cipher
	Events      readlater.EventDispatcher
	Resolver    readlater.ContentResolver
	Converter   readlater.Converter
	Fetchers    FetcherFactory
}

// CLI defines the command-line interface structure for Kong.
type CLI struct {
	DB         string        `name:"db" env:"READLATER_DB" help:"Database path (default: ~/.readlater/readlater.db)"`
	SecretKey  string        `env:"READLATER_SECRET_KEY" help:"Key used to encrypt site credentials"`
	SiteConfig string        `env:"READLATER_SITE_CONFIG" help:"TOML file with per-site fetch and login settings"`
	Timeout    time.Duration `default:"10s" help:"Fetch timeout per page"`
	Verbose    bool          `short:"v" help:"Enable debug logging"`

	User       UserCmd       `cmd:"" help:"Manage users"`
	Credential CredentialCmd `cmd:"" help:"Manage site credentials"`
	Import     ImportCmd     `cmd:"" help:"Import an export from another service"`
	Worker     WorkerCmd     `cmd:"" help:"Import queued records"`
	Fetch      FetchCmd      `cmd:"" help:"Fetch a page and print its article as markdown"`
	Tags       TagsCmd       `cmd:"" help:"Manage tags"`
	Entries    EntriesCmd    `cmd:"" help:"Manage saved entries"`
	Export     ExportCmd     `cmd:"" help:"Export entries as markdown files"`
}

// UserCmd groups the user subcommands.
type UserCmd struct {
	Add UserAddCmd `cmd:"" help:"Create a user"`
}

// UserAddCmd is the "user add" subcommand.
type UserAddCmd struct {
	Username string `arg:"" help:"Username"`
}

// CredentialCmd groups the credential subcommands.
type CredentialCmd struct {
	Add  CredentialAddCmd  `cmd:"" help:"Store a login for a site"`
	List CredentialListCmd `cmd:"" help:"List the sites a user has logins for"`
}

// CredentialAddCmd is the "credential add" subcommand.
type CredentialAddCmd struct {
	User     string `required:"" help:"Owner of the credential"`
	Host     string `arg:"" help:"Site host; a leading dot also matches subdomains"`
	Username string `arg:"" help:"Site username"`
	Password string `arg:"" help:"Site password"`
}

// CredentialListCmd is the "credential list" subcommand.
type CredentialListCmd struct {
	User string `required:"" help:"Owner of the credentials"`
}

// ImportCmd is the "import" subcommand.
type ImportCmd struct {
	Format     string `arg:"" enum:"readability,wallabag,pinboard,browser,sitemap" help:"Export format (${enum})"`
	File       string `arg:"" help:"Export file"`
	User       string `required:"" help:"User who receives the entries"`
	MarkAsRead bool   `help:"Archive every imported entry"`
	Queue      bool   `help:"Queue records for 'readlater worker' instead of importing now"`
}

// WorkerCmd is the "worker" subcommand.
type WorkerCmd struct {
	Concurrency int `short:"c" default:"4" help:"Records imported at once"`
}

// FetchCmd is the "fetch" subcommand.
type FetchCmd struct {
	URL    string `arg:"" help:"Page URL"`
	User   string `help:"Log in with this user's site credentials"`
	Render bool   `help:"Render the page in a headless browser"`
	Raw    bool   `help:"Print the fetched HTML instead of the article"`
}

// TagsCmd groups the tag subcommands.
type TagsCmd struct {
	List   TagsListCmd   `cmd:"" help:"List a user's tags"`
	Delete TagsDeleteCmd `cmd:"" help:"Remove a tag from every entry of a user"`
}

// TagsListCmd is the "tags list" subcommand.
type TagsListCmd struct {
	User string `required:"" help:"Owner of the tags"`
}

// TagsDeleteCmd is the "tags delete" subcommand.
type TagsDeleteCmd struct {
	User  string `required:"" help:"Owner of the tag"`
	Label string `arg:"" help:"Tag label"`
}

// EntriesCmd groups the entry subcommands.
type EntriesCmd struct {
	Delete EntriesDeleteCmd `cmd:"" help:"Delete a saved entry"`
}

// EntriesDeleteCmd is the "entries delete" subcommand.
type EntriesDeleteCmd struct {
	User string `required:"" help:"Owner of the entry"`
	URL  string `arg:"" help:"URL of the saved entry"`
}

// ExportCmd is the "export" subcommand.
type ExportCmd struct {
	User     string `required:"" help:"Owner of the entries"`
	Dir      string `arg:"" optional:"" default:"." help:"Output directory"`
	Tag      string `help:"Only export entries with this tag"`
	Archived bool   `help:"Only export archived entries" xor:"state"`
	Unread   bool   `help:"Only export unread entries" xor:"state"`
}

// findUser resolves a username given on the command line.
func findUser(deps *Dependencies, username string) (*readlater.User, error) {
	user, err := deps.Users.FindUserByUsername(deps.Ctx, username)
	if readlater.ErrorCode(err) == readlater.ENOTFOUND {
		return nil, readlater.Errorf(readlater.ENOTFOUND, "user %q not found. Use 'readlater user add' to create it.", username)
	}
	return user, err
}
