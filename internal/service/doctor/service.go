package doctor

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
	repo repository.DoctorRepository
}

func NewService(repo repository.DoctorRepository) *Service {
	return &Service{repo: repo}
}

// CreateDoctor registers a doctor profile for an existing user.
// Admin-only.
func (s *Service) CreateDoctor(ctx context.Context, actor *model.Actor, req *model.CreateDoctorRequest) (*model.Doctor, error) {
	if !actor.IsSuperuser && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("not enough permissions")
	}

	doctor := &model.Doctor{
		UserID:             req.UserID,
		LicenseNumber:      req.LicenseNumber,
		Specialization:     req.Specialization,
		Qualifications:     req.Qualifications,
		ExperienceYears:    req.ExperienceYears,
		ConsultationFee:    req.ConsultationFee,
		IsAvailable:        true,
		HospitalDepartment: req.HospitalDepartment,
		Bio:                req.Bio,
	}

	if err := s.repo.Create(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to create doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) GetDoctor(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	doctor, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return doctor, nil
}

func (s *Service) ListDoctors(ctx context.Context, offset, limit int) ([]*model.Doctor, error) {
	if limit <= 0 {
		limit = model.DefaultLimit
	}

	doctors, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}

// UpdateDoctor applies a sparse patch. The doctor themselves or an
// admin may update the profile.
func (s *Service) UpdateDoctor(ctx context.Context, actor *model.Actor, id uuid.UUID, patch *model.UpdateDoctorRequest) (*model.Doctor, error) {
	isAdmin := actor.IsSuperuser || actor.Role == model.RoleAdmin
	if !isAdmin && !actor.IsDoctorFor(id) {
		return nil, apperrors.Forbidden("not enough permissions")
	}

	doctor, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("doctor", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}

	if patch.Specialization != nil {
		doctor.Specialization = *patch.Specialization
	}
	if patch.Qualifications != nil {
		doctor.Qualifications = patch.Qualifications
	}
	if patch.ExperienceYears != nil {
		doctor.ExperienceYears = *patch.ExperienceYears
	}
	if patch.ConsultationFee != nil {
		doctor.ConsultationFee = *patch.ConsultationFee
	}
	if patch.AvailableDays != nil {
		doctor.AvailableDays = patch.AvailableDays
	}
	if patch.AvailableHoursStart != nil {
		doctor.AvailableHoursStart = patch.AvailableHoursStart
	}
	if patch.AvailableHoursEnd != nil {
		doctor.AvailableHoursEnd = patch.AvailableHoursEnd
	}
	if patch.IsAvailable != nil {
		doctor.IsAvailable = *patch.IsAvailable
	}
	if patch.HospitalDepartment != nil {
		doctor.HospitalDepartment = patch.HospitalDepartment
	}
	if patch.Bio != nil {
		doctor.Bio = patch.Bio
	}
	if patch.LanguagesSpoken != nil {
		doctor.LanguagesSpoken = patch.LanguagesSpoken
	}

	if err := s.repo.Update(ctx, doctor); err != nil {
		return nil, fmt.Errorf("failed to update doctor: %w", err)
	}
	return doctor, nil
}

// DeleteDoctor removes a doctor profile. Admin-only.
func (s *Service) DeleteDoctor(ctx context.Context, actor *model.Actor, id uuid.UUID) error {
	if !actor.IsSuperuser && actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("not enough permissions")
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("doctor", err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
	}
	return nil
}
