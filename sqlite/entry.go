package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ readlater.EntryService = (*EntryService)(nil)

const entryColumns = `id, user_id, url, title, content, domain, reading_time, content_hash,
	preview_picture, is_archived, is_starred, created_at, updated_at, archived_at`

// EntryService implements readlater.EntryService using SQLite.
type EntryService struct {
	db *DB
}

// NewEntryService creates a new EntryService.
func NewEntryService(db *DB) *EntryService {
	return &EntryService{db: db}
}

// prepareEntry assigns the generated fields of a new entry.
func prepareEntry(entry *readlater.Entry) {
	now := time.Now().UTC()
	entry.ID = uuid.New().String()
	if entry.CreatedAt.IsZero() {
		entry.CreatedAt = now
	}
	entry.UpdatedAt = now
	entry.ContentHash = hashContent(entry.Content)
	entry.Tags = readlater.NormalizeTags(entry.Tags)
}

// execer is satisfied by both *sql.DB wrappers and *sql.Tx.
type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

// insertEntry writes the entry row. With ignoreDuplicate an entry the user
// already saved is left untouched and inserted reports false.
func insertEntry(ctx context.Context, tx execer, entry *readlater.Entry, ignoreDuplicate bool) (inserted bool, err error) {
	query := `INSERT INTO entries (` + entryColumns + `) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`
	if ignoreDuplicate {
		query += ` ON CONFLICT (user_id, url) DO NOTHING`
	}

	result, err := tx.ExecContext(ctx, query,
		entry.ID, entry.UserID, entry.URL, entry.Title, entry.Content, entry.Domain,
		entry.ReadingTime, entry.ContentHash, entry.Picture, entry.IsArchived, entry.IsStarred,
		entry.CreatedAt.UTC().Format(time.RFC3339), entry.UpdatedAt.UTC().Format(time.RFC3339),
		formatNullRFC3339(entry.ArchivedAt))
	if err != nil {
		return false, err
	}
	rows, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	if rows == 0 {
		return false, nil
	}

	for _, label := range entry.Tags {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO entry_tags (entry_id, label) VALUES (?, ?)
			ON CONFLICT DO NOTHING
		`, entry.ID, label); err != nil {
			return false, fmt.Errorf("tag entry: %w", err)
		}
	}
	return true, nil
}

// CreateEntry creates a new entry.
func (s *EntryService) CreateEntry(ctx context.Context, entry *readlater.Entry) error {
	if err := entry.Validate(); err != nil {
		return err
	}
	prepareEntry(entry)

	tx, err := s.db.BeginTx(ctx)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := insertEntry(ctx, tx, entry, false); err != nil {
		if isUniqueViolation(err) {
			return readlater.Errorf(readlater.ECONFLICT, "entry already saved: %s", entry.URL)
		}
		return err
	}
	return tx.Commit()
}

// FindEntryByID retrieves an entry by ID.
func (s *EntryService) FindEntryByID(ctx context.Context, id string) (*readlater.Entry, error) {
	return s.findEntry(ctx, "SELECT "+entryColumns+" FROM entries WHERE id = ?", id)
}

// FindEntryByURL retrieves the entry a user saved for a URL.
func (s *EntryService) FindEntryByURL(ctx context.Context, userID, url string) (*readlater.Entry, error) {
	return s.findEntry(ctx, "SELECT "+entryColumns+" FROM entries WHERE user_id = ? AND url = ?", userID, url)
}

func (s *EntryService) findEntry(ctx context.Context, query string, args ...any) (*readlater.Entry, error) {
	entry, err := scanEntry(s.db.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, readlater.Errorf(readlater.ENOTFOUND, "entry not found")
	}
	if err != nil {
		return nil, err
	}
	if err := s.attachTags(ctx, []*readlater.Entry{entry}); err != nil {
		return nil, err
	}
	return entry, nil
}

// FindEntries retrieves entries matching the filter, newest first.
func (s *EntryService) FindEntries(ctx context.Context, filter readlater.EntryFilter) ([]*readlater.Entry, error) {
	var query strings.Builder
	var args []any

	query.WriteString("SELECT " + entryColumns + " FROM entries WHERE 1=1")

	if filter.UserID != nil {
		query.WriteString(" AND user_id = ?")
		args = append(args, *filter.UserID)
	}
	if filter.Tag != nil {
		query.WriteString(" AND EXISTS (SELECT 1 FROM entry_tags WHERE entry_id = entries.id AND label = ?)")
		args = append(args, strings.ToLower(*filter.Tag))
	}
	if filter.IsArchived != nil {
		query.WriteString(" AND is_archived = ?")
		args = append(args, *filter.IsArchived)
	}
	if filter.IsStarred != nil {
		query.WriteString(" AND is_starred = ?")
		args = append(args, *filter.IsStarred)
	}

	query.WriteString(" ORDER BY created_at DESC, url ASC")
	appendPagination(&query, &args, filter.Limit, filter.Offset)

	rows, err := s.db.QueryContext(ctx, query.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*readlater.Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.attachTags(ctx, entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// FindEntryURLs returns every URL saved by the user.
func (s *EntryService) FindEntryURLs(ctx context.Context, userID string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT url FROM entries WHERE user_id = ?", userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var urls []string
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		urls = append(urls, u)
	}
	return urls, rows.Err()
}

// DeleteEntry permanently removes an entry and its tag assignments.
func (s *EntryService) DeleteEntry(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM entries WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return readlater.Errorf(readlater.ENOTFOUND, "entry not found")
	}

	return nil
}

// attachTags loads the tag labels of each entry.
func (s *EntryService) attachTags(ctx context.Context, entries []*readlater.Entry) error {
	for _, entry := range entries {
		rows, err := s.db.QueryContext(ctx, "SELECT label FROM entry_tags WHERE entry_id = ? ORDER BY label", entry.ID)
		if err != nil {
			return err
		}
		for rows.Next() {
			var label string
			if err := rows.Scan(&label); err != nil {
				rows.Close()
				return err
			}
			entry.Tags = append(entry.Tags, label)
		}
		if err := rows.Close(); err != nil {
			return err
		}
		if err := rows.Err(); err != nil {
			return err
		}
	}
	return nil
}

// scanner is satisfied by *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanEntry(row scanner) (*readlater.Entry, error) {
	var entry readlater.Entry
	var createdAt, updatedAt string
	var archivedAt sql.NullString

	if err := row.Scan(&entry.ID, &entry.UserID, &entry.URL, &entry.Title, &entry.Content,
		&entry.Domain, &entry.ReadingTime, &entry.ContentHash, &entry.Picture,
		&entry.IsArchived, &entry.IsStarred, &createdAt, &updatedAt, &archivedAt); err != nil {
		return nil, err
	}

	var err error
	if entry.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	if entry.UpdatedAt, err = parseRFC3339(updatedAt, "updated_at"); err != nil {
		return nil, err
	}
	if entry.ArchivedAt, err = parseNullRFC3339(archivedAt, "archived_at"); err != nil {
		return nil, err
	}
	return &entry, nil
}
