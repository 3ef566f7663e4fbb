package user

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/emilyhospital/hospital-api/internal/model"
	"github.com/emilyhospital/hospital-api/internal/repository"
	apperrors "github.com/emilyhospital/hospital-api/pkg/errors"
)

type Service struct {
	repo repository.UserRepository
}

func NewService(repo repository.UserRepository) *Service {
	return &Service{repo: repo}
}

// ListUsers is restricted to superusers and admins.
func (s *Service) ListUsers(ctx context.Context, actor *model.Actor, offset, limit int) ([]*model.User, error) {
	if !actor.IsSuperuser && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("not enough permissions")
	}
	if limit <= 0 {
		limit = model.DefaultLimit
	}

	users, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	return users, nil
}

// GetUser allows self-lookup, admins, and superusers.
func (s *Service) GetUser(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.User, error) {
	if actor.ID != id && !actor.IsSuperuser && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("not enough permissions")
	}

	user, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}

// UpdateUser applies a sparse patch to the user's mutable fields.
// Self-updates and admin updates are permitted; IsActive may only be
// changed by admins.
func (s *Service) UpdateUser(ctx context.Context, actor *model.Actor, id uuid.UUID, patch *model.UpdateUserRequest) (*model.User, error) {
	isAdmin := actor.IsSuperuser || actor.Role == model.RoleAdmin
	if actor.ID != id && !isAdmin {
		return nil, apperrors.Forbidden("not enough permissions")
	}

	user, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if patch.FullName != nil {
		user.FullName = *patch.FullName
	}
	if patch.Phone != nil {
		user.Phone = patch.Phone
	}
	if patch.DateOfBirth != nil {
		user.DateOfBirth = patch.DateOfBirth
	}
	if patch.Gender != nil {
		user.Gender = patch.Gender
	}
	if patch.Address != nil {
		user.Address = patch.Address
	}
	if patch.EmergencyContact != nil {
		user.EmergencyContact = patch.EmergencyContact
	}
	if patch.IsActive != nil && isAdmin {
		user.IsActive = *patch.IsActive
	}

	if err := s.repo.Update(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to update user: %w", err)
	}
	return user, nil
}

// DeleteUser is restricted to superusers.
func (s *Service) DeleteUser(ctx context.Context, actor *model.Actor, id uuid.UUID) error {
	if !actor.IsSuperuser {
		return apperrors.Forbidden("not enough permissions")
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("user", err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}
