package service

import (
	"context"
	"errors"

	"github.com/Skotchmaster/blog/pkg/logging"
	"github.com/Skotchmaster/blog/services/user/internal/models"
	"github.com/Skotchmaster/blog/services/user/internal/repo"
)

type UserReader interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
}

type UserService struct {
	Repo UserReader
}

func (s *UserService) Profile(ctx context.Context, email string) (*models.User, error) {
	user, err := s.Repo.FindByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repo.ErrUserNotFound) {
			return nil, ErrUserNotFound
		}
		logging.FromContext(ctx).Error("profile_failed", "email", email, "error", err)
		return nil, ErrInternal
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context) ([]models.User, error) {
	users, err := s.Repo.ListUsers(ctx)
	if err != nil {
		logging.FromContext(ctx).Error("list_users_failed", "error", err)
		return nil, ErrInternal
	}
	return users, nil
}
