package mock

import (
	"context"

	"github.com/fwojciec/readlater"
)

var _ readlater.UserService = (*UserService)(nil)

// UserService is a mock implementation of readlater.UserService.
type UserService struct {
	CreateUserFn         func(ctx context.Context, user *readlater.User) error
	FindUserByIDFn       func(ctx context.Context, id string) (*readlater.User, error)
	FindUserByUsernameFn func(ctx context.Context, username string) (*readlater.User, error)
}

func (s *UserService) CreateUser(ctx context.Context, user *readlater.User) error {
	return s.CreateUserFn(ctx, user)
}

func (s *UserService) FindUserByID(ctx context.Context, id string) (*readlater.User, error) {
	return s.FindUserByIDFn(ctx, id)
}

func (s *UserService) FindUserByUsername(ctx context.Context, username string) (*readlater.User, error) {
	return s.FindUserByUsernameFn(ctx, username)
}
