package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/emilyhospital/hospital-api/internal/model"
	"github.com/emilyhospital/hospital-api/internal/repository"
)

const medicalRecordColumns = `
	id, patient_id, doctor_id, record_type, title, description,
	diagnosis, treatment, prescription, lab_results, visit_date,
	created_at, updated_at`

type medicalRecordRepository struct {
	db *sqlx.DB
}

func NewMedicalRecordRepository(db *sqlx.DB) repository.MedicalRecordRepository {
	return &medicalRecordRepository{db: db}
}

func (r *medicalRecordRepository) Create(ctx context.Context, record *model.MedicalRecord) error {
	query := `
		INSERT INTO medical_records (
			id, patient_id, doctor_id, record_type, title, description,
			diagnosis, treatment, prescription, lab_results, visit_date,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`
	record.ID = uuid.New()
	record.CreatedAt = time.Now()
	record.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		record.ID,
		record.PatientID,
		record.DoctorID,
		record.RecordType,
		record.Title,
		record.Description,
		record.Diagnosis,
		record.Treatment,
		record.Prescription,
		record.LabResults,
		record.VisitDate,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create medical record: %w", err)
	}
	return nil
}

func (r *medicalRecordRepository) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	query := `SELECT` + medicalRecordColumns + ` FROM medical_records WHERE id = $1`

	var record model.MedicalRecord
	err := r.db.GetContext(ctx, &record, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get medical record: %w", err)
	}
	return &record, nil
}

func (r *medicalRecordRepository) Update(ctx context.Context, record *model.MedicalRecord) error {
	query := `
		UPDATE medical_records
		SET title = $1, description = $2, diagnosis = $3, treatment = $4,
			prescription = $5, lab_results = $6, visit_date = $7, updated_at = $8
		WHERE id = $9
	`
	record.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		record.Title,
		record.Description,
		record.Diagnosis,
		record.Treatment,
		record.Prescription,
		record.LabResults,
		record.VisitDate,
		record.UpdatedAt,
		record.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medical record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *medicalRecordRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM medical_records WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete medical record: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rows == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *medicalRecordRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, offset, limit int) ([]*model.MedicalRecord, error) {
	query := `SELECT` + medicalRecordColumns + `
		FROM medical_records
		WHERE patient_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`

	records := []*model.MedicalRecord{}
	if err := r.db.SelectContext(ctx, &records, query, patientID, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list medical records: %w", err)
	}
	return records, nil
}
