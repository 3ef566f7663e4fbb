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

const patientColumns = `
	id, user_id, blood_type, height_cm, weight_kg, allergies,
	chronic_conditions, current_medication, medical_history,
	insurance_provider, insurance_number, created_at, updated_at`

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

func (r *patientRepository) Create(ctx context.Context, patient *model.Patient) error {
	query := `
		INSERT INTO patients (
			id, user_id, blood_type, height_cm, weight_kg, allergies,
			chronic_conditions, medical_history, insurance_provider,
			insurance_number, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	patient.ID = uuid.New()
	patient.CreatedAt = time.Now()
	patient.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		patient.ID,
		patient.UserID,
		patient.BloodType,
		patient.HeightCm,
		patient.WeightKg,
		patient.Allergies,
		patient.ChronicConditions,
		patient.MedicalHistory,
		patient.InsuranceProvider,
		patient.InsuranceNumber,
		patient.CreatedAt,
		patient.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create patient: %w", err)
	}
	return nil
}

func (r *patientRepository) Get(ctx context.Context, id uuid.UUID) (*model.Patient, error) {
	query := `SELECT` + patientColumns + ` FROM patients WHERE id = $1`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error) {
	query := `SELECT` + patientColumns + ` FROM patients WHERE user_id = $1`

	var patient model.Patient
	err := r.db.GetContext(ctx, &patient, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get patient by user: %w", err)
	}
	return &patient, nil
}

func (r *patientRepository) Update(ctx context.Context, patient *model.Patient) error {
	query := `
		UPDATE patients
		SET blood_type = $1, height_cm = $2, weight_kg = $3, allergies = $4,
			chronic_conditions = $5, current_medication = $6,
			medical_history = $7, insurance_provider = $8,
			insurance_number = $9, updated_at = $10
		WHERE id = $11
	`
	patient.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		patient.BloodType,
		patient.HeightCm,
		patient.WeightKg,
		patient.Allergies,
		patient.ChronicConditions,
		patient.CurrentMedication,
		patient.MedicalHistory,
		patient.InsuranceProvider,
		patient.InsuranceNumber,
		patient.UpdatedAt,
		patient.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update patient: %w", err)
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

func (r *patientRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM patients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
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

func (r *patientRepository) List(ctx context.Context, offset, limit int) ([]*model.Patient, error) {
	query := `SELECT` + patientColumns + `
		FROM patients
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2`

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, nil
}
