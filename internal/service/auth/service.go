package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/emilyhospital/hospital-api/internal/model"
	"github.com/emilyhospital/hospital-api/internal/notification"
	"github.com/emilyhospital/hospital-api/internal/repository"
	"github.com/emilyhospital/hospital-api/pkg/auth"
	apperrors "github.com/emilyhospital/hospital-api/pkg/errors"
	"github.com/emilyhospital/hospital-api/pkg/security"
)

type Service struct {
	userRepo repository.UserRepository
	jwtSvc   auth.JWTService
	hasher   security.PasswordHasher
	notifSvc notification.Service
}

func NewService(userRepo repository.UserRepository, jwtSvc auth.JWTService,
	hasher security.PasswordHasher, notifSvc notification.Service) *Service {
	return &Service{
		userRepo: userRepo,
		jwtSvc:   jwtSvc,
		hasher:   hasher,
		notifSvc: notifSvc,
	}
}

// Register creates a user account. The role defaults to patient;
// superuser status is never set through registration.
func (s *Service) Register(ctx context.Context, req *model.RegisterRequest) (*model.User, error) {
	if _, err := s.userRepo.GetByEmail(ctx, req.Email); err == nil {
		return nil, apperrors.BadRequest("email already registered", model.ErrEmailTaken)
	} else if !errors.Is(err, repository.ErrNotFound) {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperrors.Validation("invalid password", err)
	}

	role := req.Role
	if role == "" {
		role = model.RolePatient
	}

	user := &model.User{
		Email:        req.Email,
		PasswordHash: hash,
		FullName:     req.FullName,
		IsActive:     true,
		IsSuperuser:  false,
		Role:         role,
		Phone:        req.Phone,
		DateOfBirth:  req.DateOfBirth,
		Gender:       req.Gender,
		Address:      req.Address,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.notifSvc != nil {
		if err := s.notifSvc.SendWelcome(ctx, user.Email, user.FullName); err != nil {
			log.Warn().Err(err).Str("email", user.Email).Msg("failed to send welcome email")
		}
	}

	return user, nil
}

// Login verifies credentials and issues an access token.
func (s *Service) Login(ctx context.Context, req *model.LoginRequest) (*model.TokenResponse, error) {
	user, err := s.userRepo.GetByEmail(ctx, req.Email)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	if !user.IsActive {
		return nil, apperrors.Unauthorized(errors.New("account is inactive"))
	}

	if err := s.hasher.Compare(user.PasswordHash, req.Password); err != nil {
		return nil, apperrors.Unauthorized(model.ErrInvalidCredentials)
	}

	token, err := s.jwtSvc.GenerateAccessToken(user.ID, user.Email, user.Role)
	if err != nil {
		return nil, fmt.Errorf("failed to generate token: %w", err)
	}

	user.UpdatedAt = time.Now()

	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		User:        user,
	}, nil
}

// GetUser loads a user by id.
func (s *Service) GetUser(ctx context.Context, id uuid.UUID) (*model.User, error) {
	user, err := s.userRepo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("user", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
