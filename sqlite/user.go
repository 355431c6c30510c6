package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/fwojciec/readlater"
	"github.com/google/uuid"
	"github.com/ncruces/go-sqlite3"
)

// Compile-time interface verification.
var _ readlater.UserService = (*UserService)(nil)

// UserService implements readlater.UserService using SQLite.
type UserService struct {
	db *DB
}

// NewUserService creates a new UserService.
func NewUserService(db *DB) *UserService {
	return &UserService{db: db}
}

// CreateUser creates a new user.
func (s *UserService) CreateUser(ctx context.Context, user *readlater.User) error {
	if err := user.Validate(); err != nil {
		return err
	}

	user.ID = uuid.New().String()
	user.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO users (id, username, created_at)
		VALUES (?, ?, ?)
	`, user.ID, user.Username, user.CreatedAt.Format(time.RFC3339))
	if isUniqueViolation(err) {
		return readlater.Errorf(readlater.ECONFLICT, "username %q already taken", user.Username)
	}
	return err
}

// FindUserByID retrieves a user by ID.
func (s *UserService) FindUserByID(ctx context.Context, id string) (*readlater.User, error) {
	return s.findUser(ctx, "id", id)
}

// FindUserByUsername retrieves a user by username.
func (s *UserService) FindUserByUsername(ctx context.Context, username string) (*readlater.User, error) {
	return s.findUser(ctx, "username", username)
}

func (s *UserService) findUser(ctx context.Context, column, value string) (*readlater.User, error) {
	var user readlater.User
	var createdAt string

	err := s.db.QueryRowContext(ctx, `
		SELECT id, username, created_at
		FROM users
		WHERE `+column+` = ?
	`, value).Scan(&user.ID, &user.Username, &createdAt)

	if err == sql.ErrNoRows {
		return nil, readlater.Errorf(readlater.ENOTFOUND, "user not found")
	}
	if err != nil {
		return nil, err
	}

	if user.CreatedAt, err = parseRFC3339(createdAt, "created_at"); err != nil {
		return nil, err
	}
	return &user, nil
}

// isUniqueViolation reports whether err is a UNIQUE or PRIMARY KEY
// constraint failure.
func isUniqueViolation(err error) bool {
	return errors.Is(err, sqlite3.CONSTRAINT_UNIQUE) || errors.Is(err, sqlite3.CONSTRAINT_PRIMARYKEY)
}
