package sqlite

import (
	"context"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/google/uuid"
)

// Compile-time interface verification.
var _ readlater.SiteCredentialService = (*SiteCredentialService)(nil)

// SiteCredentialService implements readlater.SiteCredentialService using
// SQLite. Username and password are stored as given; callers encrypt them.
type SiteCredentialService struct {
	db *DB
}

// NewSiteCredentialService creates a new SiteCredentialService.
func NewSiteCredentialService(db *DB) *SiteCredentialService {
	return &SiteCredentialService{db: db}
}

// CreateSiteCredential stores a new credential.
// Returns ECONFLICT if the user already has a credential for the host.
func (s *SiteCredentialService) CreateSiteCredential(ctx context.Context, cred *readlater.SiteCredential) error {
	if err := cred.Validate(); err != nil {
		return err
	}

	cred.ID = uuid.New().String()
	cred.Host = readlater.NormalizeHost(cred.Host)
	cred.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO site_credentials (id, user_id, host, username, password, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`, cred.ID, cred.UserID, cred.Host, cred.Username, cred.Password, cred.CreatedAt.Format(time.RFC3339))
	if isUniqueViolation(err) {
		return readlater.Errorf(readlater.ECONFLICT, "credential for %s already exists", cred.Host)
	}
	return err
}

// FindSiteCredentials returns all credentials of the user.
func (s *SiteCredentialService) FindSiteCredentials(ctx context.Context, userID string) ([]*readlater.SiteCredential, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, host, username, password, created_at
		FROM site_credentials
		WHERE user_id = ?
		ORDER BY host
	`, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var creds []*readlater.SiteCredential
	for rows.Next() {
		var cred readlater.SiteCredential
		var createdAt string
		if err := rows.Scan(&cred.ID, &cred.UserID, &cred.Host, &cred.Username, &cred.Password, &createdAt); err != nil {
			return nil, err
		}
		if cred.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
			return nil, err
		}
		creds = append(creds, &cred)
	}
	return creds, rows.Err()
}

// DeleteSiteCredential removes a credential.
func (s *SiteCredentialService) DeleteSiteCredential(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM site_credentials WHERE id = ?", id)
	if err != nil {
		return err
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return err
	}

	if rows == 0 {
		return readlater.Errorf(readlater.ENOTFOUND, "credential not found")
	}

	return nil
}
