package patient

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
	repo repository.PatientRepository
}

func NewService(repo repository.PatientRepository) *Service {
	return &Service{repo: repo}
}

func canAccess(actor *model.Actor, p *model.Patient) bool {
	if actor.IsSuperuser || actor.Role == model.RoleAdmin {
		return true
	}
	if actor.ID == p.UserID {
		return true
	}
	// Doctors need patient profiles for clinical context.
	return actor.Role == model.RoleDoctor && actor.DoctorProfileID != nil
}

// CreatePatient registers a patient profile. A user may create their
// own profile; admins may create one for anybody.
func (s *Service) CreatePatient(ctx context.Context, actor *model.Actor, req *model.CreatePatientRequest) (*model.Patient, error) {
	if req.UserID != actor.ID && !actor.IsSuperuser && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("not enough permissions")
	}

	patient := &model.Patient{
		UserID:            req.UserID,
		BloodType:         req.BloodType,
		HeightCm:          req.HeightCm,
		WeightKg:          req.WeightKg,
		Allergies:         req.Allergies,
		ChronicConditions: req.ChronicConditions,
		MedicalHistory:    req.MedicalHistory,
		InsuranceProvider: req.InsuranceProvider,
		InsuranceNumber:   req.InsuranceNumber,
	}

	if err := s.repo.Create(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to create patient: %w", err)
	}
	return patient, nil
}

func (s *Service) GetPatient(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if !canAccess(actor, patient) {
		return nil, apperrors.Forbidden("not enough permissions")
	}
	return patient, nil
}

// ListPatients is restricted to clinical and admin roles.
func (s *Service) ListPatients(ctx context.Context, actor *model.Actor, offset, limit int) ([]*model.Patient, error) {
	if !actor.IsSuperuser && actor.Role != model.RoleAdmin && actor.Role != model.RoleDoctor && actor.Role != model.RoleNurse {
		return nil, apperrors.Forbidden("not enough permissions")
	}
	if limit <= 0 {
		limit = model.DefaultLimit
	}

	patients, err := s.repo.List(ctx, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}

// UpdatePatient applies a sparse patch. The owning user or an admin may
// update the profile.
func (s *Service) UpdatePatient(ctx context.Context, actor *model.Actor, id uuid.UUID, patch *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("patient", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}

	if patient.UserID != actor.ID && !actor.IsSuperuser && actor.Role != model.RoleAdmin {
		return nil, apperrors.Forbidden("not enough permissions")
	}

	if patch.BloodType != nil {
		patient.BloodType = patch.BloodType
	}
	if patch.HeightCm != nil {
		patient.HeightCm = patch.HeightCm
	}
	if patch.WeightKg != nil {
		patient.WeightKg = patch.WeightKg
	}
	if patch.Allergies != nil {
		patient.Allergies = patch.Allergies
	}
	if patch.ChronicConditions != nil {
		patient.ChronicConditions = patch.ChronicConditions
	}
	if patch.CurrentMedication != nil {
		patient.CurrentMedication = patch.CurrentMedication
	}
	if patch.MedicalHistory != nil {
		patient.MedicalHistory = patch.MedicalHistory
	}
	if patch.InsuranceProvider != nil {
		patient.InsuranceProvider = patch.InsuranceProvider
	}
	if patch.InsuranceNumber != nil {
		patient.InsuranceNumber = patch.InsuranceNumber
	}

	if err := s.repo.Update(ctx, patient); err != nil {
		return nil, fmt.Errorf("failed to update patient: %w", err)
	}
	return patient, nil
}

// DeletePatient removes a patient profile. Admin-only.
func (s *Service) DeletePatient(ctx context.Context, actor *model.Actor, id uuid.UUID) error {
	if !actor.IsSuperuser && actor.Role != model.RoleAdmin {
		return apperrors.Forbidden("not enough permissions")
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("patient", err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	return nil
}
