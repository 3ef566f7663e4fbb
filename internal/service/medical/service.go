package medical

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
	repo repository.MedicalRecordRepository
}

func NewService(repo repository.MedicalRecordRepository) *Service {
	return &Service{repo: repo}
}

func canRead(actor *model.Actor, record *model.MedicalRecord) bool {
	if actor.IsSuperuser {
		return true
	}
	return actor.ID == record.PatientID || actor.IsDoctorFor(record.DoctorID)
}

// CreateRecord writes a clinical note. Only actors with a linked doctor
// profile may author records; the record's doctor id is always the
// author's profile id.
func (s *Service) CreateRecord(ctx context.Context, actor *model.Actor, req *model.CreateMedicalRecordRequest) (*model.MedicalRecord, error) {
	if actor.DoctorProfileID == nil {
		return nil, apperrors.Forbidden("only doctors can create medical records")
	}

	record := &model.MedicalRecord{
		PatientID:    req.PatientID,
		DoctorID:     *actor.DoctorProfileID,
		RecordType:   req.RecordType,
		Title:        req.Title,
		Description:  req.Description,
		Diagnosis:    req.Diagnosis,
		Treatment:    req.Treatment,
		Prescription: req.Prescription,
		LabResults:   req.LabResults,
		VisitDate:    req.VisitDate,
	}

	if err := s.repo.Create(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to create medical record: %w", err)
	}
	return record, nil
}

func (s *Service) GetRecord(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.MedicalRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("medical record", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}

	if !canRead(actor, record) {
		return nil, apperrors.Forbidden("not enough permissions")
	}
	return record, nil
}

// ListRecords returns a patient's records. Patients see their own;
// doctors and superusers see any patient's.
func (s *Service) ListRecords(ctx context.Context, actor *model.Actor, patientID uuid.UUID, offset, limit int) ([]*model.MedicalRecord, error) {
	if actor.ID != patientID && !actor.IsSuperuser && actor.DoctorProfileID == nil {
		return nil, apperrors.Forbidden("not enough permissions")
	}
	if limit <= 0 {
		limit = model.DefaultLimit
	}

	records, err := s.repo.ListByPatient(ctx, patientID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}

// UpdateRecord applies a sparse patch. Only the authoring doctor or a
// superuser may modify a record.
func (s *Service) UpdateRecord(ctx context.Context, actor *model.Actor, id uuid.UUID, patch *model.UpdateMedicalRecordRequest) (*model.MedicalRecord, error) {
	record, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("medical record", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}

	if !actor.IsSuperuser && !actor.IsDoctorFor(record.DoctorID) {
		return nil, apperrors.Forbidden("not enough permissions")
	}

	if patch.Title != nil {
		record.Title = *patch.Title
	}
	if patch.Description != nil {
		record.Description = patch.Description
	}
	if patch.Diagnosis != nil {
		record.Diagnosis = patch.Diagnosis
	}
	if patch.Treatment != nil {
		record.Treatment = patch.Treatment
	}
	if patch.Prescription != nil {
		record.Prescription = patch.Prescription
	}
	if patch.LabResults != nil {
		record.LabResults = patch.LabResults
	}
	if patch.VisitDate != nil {
		record.VisitDate = patch.VisitDate
	}

	if err := s.repo.Update(ctx, record); err != nil {
		return nil, fmt.Errorf("failed to update medical record: %w", err)
	}
	return record, nil
}

// DeleteRecord is restricted to superusers.
func (s *Service) DeleteRecord(ctx context.Context, actor *model.Actor, id uuid.UUID) error {
	if !actor.IsSuperuser {
		return apperrors.Forbidden("not enough permissions")
	}

	err := s.repo.Delete(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return apperrors.NotFound("medical record", err)
	}
	if err != nil {
		return fmt.Errorf("failed to delete medical record: %w", err)
	}
	return nil
}
