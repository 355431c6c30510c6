package sqlite

import (
	"context"
	"strings"

	"github.com/fwojciec/readlater"
)

// Compile-time interface verification.
var _ readlater.TagService = (*TagService)(nil)

// TagService implements readlater.TagService using SQLite.
type TagService struct {
	db *DB
}

// NewTagService creates a new TagService.
func NewTagService(db *DB) *TagService {
	return &TagService{db: db}
}

// FindTags returns every tag of the user, sorted by label.
func (s *TagService) FindTags(ctx context.Context, userID string) ([]*readlater.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.label, COUNT(*)
		FROM entry_tags t
		JOIN entries e ON e.id = t.entry_id
		WHERE e.user_id = ?
		GROUP BY t.label
		ORDER BY t.label
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var tags []*readlater.Tag
	for rows.Next() {
		var tag readlater.Tag
		if err := rows.Scan(&tag.Label, &tag.EntryCount); err != nil {
			return nil, err
		}
		tag.Slug = readlater.Slugify(tag.Label)
		tags = append(tags, &tag)
	}
	return tags, rows.Err()
}

// DeleteTagByLabel removes the tag from every entry of the user. Entries of
// other users keep it.
func (s *TagService) DeleteTagByLabel(ctx context.Context, userID, label string) (*readlater.Tag, error) {
	label = strings.ToLower(strings.TrimSpace(label))

	result, err := s.db.ExecContext(ctx, `
		DELETE FROM entry_tags
		WHERE label = ?
		AND entry_id IN (SELECT id FROM entries WHERE user_id = ?)
	`, label, userID)
	if err != nil {
		return nil, err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if rows == 0 {
		return nil, readlater.Errorf(readlater.ENOTFOUND, "tag not found: %s", label)
	}

	return &readlater.Tag{
		Label:      label,
		Slug:       readlater.Slugify(label),
		EntryCount: int(rows),
	}, nil
}
