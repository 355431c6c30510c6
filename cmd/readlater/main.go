package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/alecthomas/kong"
	"github.com/fwojciec/readlater"
	"github.com/fwojciec/readlater/bluemonday"
	"github.com/fwojciec/readlater/htmltomarkdown"
	"github.com/fwojciec/readlater/nacl"
	rlslog "github.com/fwojciec/readlater/slog"
	"github.com/fwojciec/readlater/sqlite"
	"github.com/fwojciec/readlater/toml"
	"github.com/fwojciec/readlater/trafilatura"
	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "error loading .env file: %v\n", err)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	m := NewMain()

	if err := m.Run(ctx, os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// Main represents the program.
type Main struct {
	// Database path used when neither --db nor READLATER_DB is set.
	DBPath string

	// SQLite database used by SQLite service implementations.
	DB *sqlite.DB

	// Services for end-to-end testing.
	UserService  readlater.UserService
	EntryService readlater.EntryService

	// closers run when the program stops.
	closers []func() error
}

// NewMain returns a new instance of Main with defaults.
func NewMain() *Main {
	return &Main{
		DBPath: defaultDBPath(),
	}
}

// Close gracefully stops the program.
func (m *Main) Close() error {
	var errs []error
	for i := len(m.closers) - 1; i >= 0; i-- {
		errs = append(errs, m.closers[i]())
	}
	m.closers = nil
	if m.DB != nil {
		errs = append(errs, m.DB.Close())
	}
	return errors.Join(errs...)
}

// Run executes the CLI with the given arguments.
func (m *Main) Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	deps := &Dependencies{
		Ctx:    ctx,
		Stdout: stdout,
		Stderr: stderr,
	}

	cli := &CLI{}
	parser, err := kong.New(cli,
		kong.Name("readlater"),
		kong.Description("Save articles for later, import bookmarks from other services"),
		kong.Writers(stdout, stderr),
		kong.Exit(func(int) {}), // Don't exit on help
		kong.Bind(deps),
	)
	if err != nil {
		return fmt.Errorf("failed to create parser: %w", err)
	}

	if len(args) == 0 {
		_, _ = parser.Parse([]string{"--help"})
		return fmt.Errorf("no command specified. Run 'readlater --help' to see available commands")
	}

	cmd := args[0]
	if cmd == "help" || cmd == "--help" || cmd == "-h" {
		_, _ = parser.Parse([]string{"--help"})
		return nil
	}

	kongCtx, err := parser.Parse(args)
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if cli.Verbose {
		level = slog.LevelDebug
	}
	deps.Logger = slog.New(slog.NewTextHandler(stderr, &slog.HandlerOptions{Level: level}))

	dbPath := cli.DB
	if dbPath == "" {
		dbPath = m.DBPath
	}
	m.DB = sqlite.NewDB(dbPath)
	if err := m.DB.Open(); err != nil {
		fmt.Fprintf(stderr, "Hint: Set READLATER_DB to use a different database path\n")
		return fmt.Errorf("failed to open database at %q: %w", dbPath, err)
	}
	defer m.Close()

	m.UserService = sqlite.NewUserService(m.DB)
	m.EntryService = sqlite.NewEntryService(m.DB)
	deps.Users = m.UserService
	deps.Entries = m.EntryService
	deps.NewBatch = func() readlater.EntryBatch { return sqlite.NewEntryBatch(m.DB) }
	deps.Tags = sqlite.NewTagService(m.DB)
	deps.Credentials = sqlite.NewSiteCredentialService(m.DB)
	deps.Queue = sqlite.NewImportQueue(m.DB, sqlite.DefaultQueueName)
	deps.Events = rlslog.NewEventLogger(nil, deps.Logger)
	deps.Converter = htmltomarkdown.NewConverter()

	if cli.SecretKey != "" {
		cipher, err := nacl.NewCipher(cli.SecretKey)
		if err != nil {
			return err
		}
		deps.Cipher = cipher
	}

	sites, err := toml.Open(cli.SiteConfig)
	if err != nil {
		fmt.Fprintf(stderr, "Hint: Check READLATER_SITE_CONFIG points to a valid site config file\n")
		return fmt.Errorf("failed to load site config: %w", err)
	}

	wiring := &fetcherWiring{
		sites:       sites,
		credentials: deps.Credentials,
		cipher:      deps.Cipher,
		timeout:     cli.Timeout,
		logger:      deps.Logger,
	}
	deps.Fetchers = wiring.NewFetcher

	resolver := newUserResolver(deps.Fetchers, trafilatura.NewExtractor(), bluemonday.NewSanitizer(), deps.Logger)
	m.closers = append(m.closers, resolver.Close)
	deps.Resolver = resolver

	return kongCtx.Run(deps)
}

func defaultDBPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return "readlater.db"
	}
	dir := filepath.Join(home, ".readlater")
	_ = os.MkdirAll(dir, 0755)
	return filepath.Join(dir, "readlater.db")
}
