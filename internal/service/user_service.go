package service

import (
	"context"

	"jobtrack/internal/auth"
	"jobtrack/internal/errors"
	"jobtrack/internal/model"
	"jobtrack/internal/repository"
)

// UserService exposes the read-only user directory behind the homeowner
// picker. Per-id resolution on job responses goes through the request-scoped
// loader instead.
type UserService interface {
	GetAll(ctx context.Context, identity auth.Identity) ([]model.User, error)
}

type userService struct {
	userRepo repository.UserRepository
}

// NewUserService creates a new user service.
func NewUserService(userRepo repository.UserRepository) UserService {
	return &userService{userRepo: userRepo}
}

func (s *userService) GetAll(ctx context.Context, identity auth.Identity) ([]model.User, error) {
	if identity.IsZero() {
		return nil, errors.ErrUnauthenticated
	}
	return s.userRepo.List(ctx)
}
