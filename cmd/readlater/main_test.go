package main_test

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	main "github.com/fwojciec/readlater/cmd/readlater"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// run executes one command against the database at dbPath.
func run(t *testing.T, dbPath string, args ...string) (stdout, stderr string, err error) {
	t.Helper()

	m := main.NewMain()
	m.DBPath = dbPath

	var out, errOut bytes.Buffer
	err = m.Run(context.Background(), args, &out, &errOut)
	return out.String(), errOut.String(), err
}

func TestMain_Run_HelpShowsKongOutput(t *testing.T) {
	t.Parallel()

	stdout, _, err := run(t, filepath.Join(t.TempDir(), "test.db"), "--help")
	require.NoError(t, err)

	for _, cmd := range allCommands {
		assert.Contains(t, stdout, cmd, "Help should mention %s command", cmd)
	}
	assert.Contains(t, stdout, "Usage:", "Help should have Kong-style Usage prefix")
	assert.Contains(t, stdout, "Flags:", "Help should have Kong-style Flags section")
}

func TestMain_Run_NoArgs(t *testing.T) {
	t.Parallel()

	_, _, err := run(t, filepath.Join(t.TempDir(), "test.db"))

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no command specified")
}

func TestMain_Run_ImportFlow(t *testing.T) {
	t.Parallel()

	t.Run("imports synchronously and skips on second run", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "test.db")

		stdout, _, err := run(t, dbPath, "user", "add", "alice")
		require.NoError(t, err)
		assert.Contains(t, stdout, `Created user "alice"`)

		stdout, _, err = run(t, dbPath, "import", "wallabag", "testdata/wallabag.json", "--user", "alice")
		require.NoError(t, err)
		assert.Contains(t, stdout, "skipped: 0, imported: 1, queued: 0")

		stdout, _, err = run(t, dbPath, "import", "wallabag", "testdata/wallabag.json", "--user", "alice")
		require.NoError(t, err)
		assert.Contains(t, stdout, "skipped: 1, imported: 0, queued: 0")

		stdout, _, err = run(t, dbPath, "tags", "list", "--user", "alice")
		require.NoError(t, err)
		assert.Contains(t, stdout, "go  1")
	})

	t.Run("queues records for the worker", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "test.db")

		_, _, err := run(t, dbPath, "user", "add", "alice")
		require.NoError(t, err)

		stdout, _, err := run(t, dbPath, "import", "wallabag", "testdata/wallabag.json", "--user", "alice", "--queue", "--mark-as-read")
		require.NoError(t, err)
		assert.Contains(t, stdout, "skipped: 0, imported: 0, queued: 1")

		stdout, _, err = run(t, dbPath, "worker")
		require.NoError(t, err)
		assert.Contains(t, stdout, "skipped: 0, imported: 1, queued: 0")

		stdout, _, err = run(t, dbPath, "worker")
		require.NoError(t, err)
		assert.Contains(t, stdout, "skipped: 0, imported: 0, queued: 0")
	})

	t.Run("exports imported entries as markdown", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		dbPath := filepath.Join(dir, "test.db")
		outDir := filepath.Join(dir, "out")

		_, _, err := run(t, dbPath, "user", "add", "alice")
		require.NoError(t, err)
		_, _, err = run(t, dbPath, "import", "wallabag", "testdata/wallabag.json", "--user", "alice")
		require.NoError(t, err)

		stdout, _, err := run(t, dbPath, "export", outDir, "--user", "alice")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Exported 1 entries")

		data, err := os.ReadFile(filepath.Join(outDir, "example.com", "wallabag.md"))
		require.NoError(t, err)
		assert.Contains(t, string(data), "url: https://example.com/wallabag")
		assert.Contains(t, string(data), "starred: true")
	})

	t.Run("deletes an entry so it can be imported again", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "test.db")

		_, _, err := run(t, dbPath, "user", "add", "alice")
		require.NoError(t, err)
		_, _, err = run(t, dbPath, "import", "wallabag", "testdata/wallabag.json", "--user", "alice")
		require.NoError(t, err)

		stdout, stderr, err := run(t, dbPath, "-v", "entries", "delete", "https://example.com/wallabag", "--user", "alice")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Deleted https://example.com/wallabag")
		assert.Contains(t, stderr, "event=entry.deleted")

		_, stderr, err = run(t, dbPath, "entries", "delete", "https://example.com/wallabag", "--user", "alice")
		require.Error(t, err)
		assert.Contains(t, stderr, "entry not found")

		stdout, _, err = run(t, dbPath, "import", "wallabag", "testdata/wallabag.json", "--user", "alice")
		require.NoError(t, err)
		assert.Contains(t, stdout, "skipped: 0, imported: 1, queued: 0")
	})

	t.Run("reports unreadable file", func(t *testing.T) {
		t.Parallel()

		dir := t.TempDir()
		dbPath := filepath.Join(dir, "test.db")
		broken := filepath.Join(dir, "broken.json")
		require.NoError(t, os.WriteFile(broken, []byte("not json"), 0644))

		_, _, err := run(t, dbPath, "user", "add", "alice")
		require.NoError(t, err)

		stdout, stderr, err := run(t, dbPath, "import", "readability", broken, "--user", "alice")

		require.Error(t, err)
		assert.Contains(t, stderr, "unable to read file")
		assert.Contains(t, stdout, "skipped: 0, imported: 0, queued: 0")
	})

	t.Run("reports unknown user", func(t *testing.T) {
		t.Parallel()

		_, stderr, err := run(t, filepath.Join(t.TempDir(), "test.db"), "import", "wallabag", "testdata/wallabag.json", "--user", "ghost")

		require.Error(t, err)
		assert.Contains(t, stderr, `user "ghost" not found`)
	})
}

func TestMain_Run_Credentials(t *testing.T) {
	t.Parallel()

	t.Run("requires a secret key", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "test.db")
		_, _, err := run(t, dbPath, "user", "add", "alice")
		require.NoError(t, err)

		_, stderr, err := run(t, dbPath, "--secret-key=", "credential", "add", "--user", "alice", "paywall.example.com", "me", "hunter2")

		require.Error(t, err)
		assert.Contains(t, stderr, "READLATER_SECRET_KEY")
	})

	t.Run("stores and lists a credential", func(t *testing.T) {
		t.Parallel()

		dbPath := filepath.Join(t.TempDir(), "test.db")
		_, _, err := run(t, dbPath, "user", "add", "alice")
		require.NoError(t, err)

		stdout, _, err := run(t, dbPath, "--secret-key", "s3cret", "credential", "add", "--user", "alice", ".super.com", "me", "hunter2")
		require.NoError(t, err)
		assert.Contains(t, stdout, "Stored credential for .super.com")

		stdout, _, err = run(t, dbPath, "credential", "list", "--user", "alice")
		require.NoError(t, err)
		assert.Contains(t, stdout, ".super.com")
		assert.NotContains(t, stdout, "hunter2")
	})
}
