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

const doctorColumns = `
	id, user_id, license_number, specialization, qualifications,
	experience_years, consultation_fee, available_days,
	available_hours_start, available_hours_end, is_available,
	hospital_department, bio, languages_spoken, rating, total_reviews,
	created_at, updated_at`

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

func (r *doctorRepository) Create(ctx context.Context, doctor *model.Doctor) error {
	query := `
		INSERT INTO doctors (
			id, user_id, license_number, specialization, qualifications,
			experience_years, consultation_fee, is_available,
			hospital_department, bio, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`
	doctor.ID = uuid.New()
	doctor.CreatedAt = time.Now()
	doctor.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		doctor.ID,
		doctor.UserID,
		doctor.LicenseNumber,
		doctor.Specialization,
		doctor.Qualifications,
		doctor.ExperienceYears,
		doctor.ConsultationFee,
		doctor.IsAvailable,
		doctor.HospitalDepartment,
		doctor.Bio,
		doctor.CreatedAt,
		doctor.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create doctor: %w", err)
	}
	return nil
}

func (r *doctorRepository) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	query := `SELECT` + doctorColumns + ` FROM doctors WHERE id = $1`

	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	query := `SELECT` + doctorColumns + ` FROM doctors WHERE user_id = $1`

	var doctor model.Doctor
	err := r.db.GetContext(ctx, &doctor, query, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get doctor by user: %w", err)
	}
	return &doctor, nil
}

func (r *doctorRepository) Update(ctx context.Context, doctor *model.Doctor) error {
	query := `
		UPDATE doctors
		SET specialization = $1, qualifications = $2, experience_years = $3,
			consultation_fee = $4, available_days = $5,
			available_hours_start = $6, available_hours_end = $7,
			is_available = $8, hospital_department = $9, bio = $10,
			languages_spoken = $11, updated_at = $12
		WHERE id = $13
	`
	doctor.UpdatedAt = time.Now()

	result, err := r.db.ExecContext(ctx, query,
		doctor.Specialization,
		doctor.Qualifications,
		doctor.ExperienceYears,
		doctor.ConsultationFee,
		doctor.AvailableDays,
		doctor.AvailableHoursStart,
		doctor.AvailableHoursEnd,
		doctor.IsAvailable,
		doctor.HospitalDepartment,
		doctor.Bio,
		doctor.LanguagesSpoken,
		doctor.UpdatedAt,
		doctor.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update doctor: %w", err)
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

func (r *doctorRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM doctors WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete doctor: %w", err)
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

func (r *doctorRepository) List(ctx context.Context, offset, limit int) ([]*model.Doctor, error) {
	query := `SELECT` + doctorColumns + `
		FROM doctors
		ORDER BY created_at DESC
		OFFSET $1 LIMIT $2`

	doctors := []*model.Doctor{}
	if err := r.db.SelectContext(ctx, &doctors, query, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list doctors: %w", err)
	}
	return doctors, nil
}
