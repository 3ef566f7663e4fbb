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

const appointmentColumns = `
	id, patient_id, doctor_id, appointment_type, status,
	scheduled_date, duration_minutes, actual_start_time, actual_end_time,
	is_virtual, meeting_link, location,
	reason_for_visit, symptoms, notes,
	consultation_fee, payment_status,
	follow_up_required, follow_up_date,
	ai_risk_score, ai_recommendations,
	created_at, updated_at`

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

func (r *appointmentRepository) Create(ctx context.Context, apt *model.Appointment) error {
	query := `
		INSERT INTO appointments (
			id, patient_id, doctor_id, appointment_type, status,
			scheduled_date, duration_minutes, is_virtual, meeting_link, location,
			reason_for_visit, symptoms, notes,
			consultation_fee, payment_status, follow_up_required,
			created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
	`
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		apt.ID,
		apt.PatientID,
		apt.DoctorID,
		apt.AppointmentType,
		apt.Status,
		apt.ScheduledDate,
		apt.DurationMinutes,
		apt.IsVirtual,
		apt.MeetingLink,
		apt.Location,
		apt.ReasonForVisit,
		apt.Symptoms,
		apt.Notes,
		apt.ConsultationFee,
		apt.PaymentStatus,
		apt.FollowUpRequired,
		apt.CreatedAt,
		apt.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error) {
	query := `SELECT` + appointmentColumns + ` FROM appointments WHERE id = $1`

	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}
	return &apt, nil
}

// Update applies a sparse patch: only the fields present in the request
// are written, everything else keeps its stored value. updated_at is
// refreshed on every successful call.
func (r *appointmentRepository) Update(ctx context.Context, id uuid.UUID, patch *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	sets := []string{}
	args := []interface{}{}
	argCount := 1

	addSet := func(column string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = $%d", column, argCount))
		args = append(args, value)
		argCount++
	}

	if patch.Status != nil {
		addSet("status", *patch.Status)
	}
	if patch.ScheduledDate != nil {
		addSet("scheduled_date", *patch.ScheduledDate)
	}
	if patch.DurationMinutes != nil {
		addSet("duration_minutes", *patch.DurationMinutes)
	}
	if patch.IsVirtual != nil {
		addSet("is_virtual", *patch.IsVirtual)
	}
	if patch.ReasonForVisit != nil {
		addSet("reason_for_visit", *patch.ReasonForVisit)
	}
	if patch.Symptoms != nil {
		addSet("symptoms", *patch.Symptoms)
	}
	if patch.Notes != nil {
		addSet("notes", *patch.Notes)
	}
	if patch.MeetingLink != nil {
		addSet("meeting_link", *patch.MeetingLink)
	}
	if patch.Location != nil {
		addSet("location", *patch.Location)
	}

	addSet("updated_at", time.Now())

	query := "UPDATE appointments SET "
	for i, s := range sets {
		if i > 0 {
			query += ", "
		}
		query += s
	}
	query += fmt.Sprintf(" WHERE id = $%d RETURNING", argCount) + appointmentColumns
	args = append(args, id)

	var apt model.Appointment
	err := r.db.GetContext(ctx, &apt, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}
	return &apt, nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
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

// SetAIInsight writes the externally produced risk fields. This is the
// only path that touches ai_risk_score and ai_recommendations.
func (r *appointmentRepository) SetAIInsight(ctx context.Context, id uuid.UUID, riskScore float64, recommendations string) error {
	query := `
		UPDATE appointments
		SET ai_risk_score = $1, ai_recommendations = $2, updated_at = $3
		WHERE id = $4
	`
	result, err := r.db.ExecContext(ctx, query, riskScore, recommendations, time.Now(), id)
	if err != nil {
		return fmt.Errorf("failed to set AI insight: %w", err)
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

func (r *appointmentRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, offset, limit int) ([]*model.Appointment, error) {
	query := `SELECT` + appointmentColumns + `
		FROM appointments
		WHERE patient_id = $1
		ORDER BY scheduled_date ASC
		OFFSET $2 LIMIT $3`

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, patientID, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list appointments by patient: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) ListByDoctor(ctx context.Context, doctorID uuid.UUID, offset, limit int) ([]*model.Appointment, error) {
	query := `SELECT` + appointmentColumns + `
		FROM appointments
		WHERE doctor_id = $1
		ORDER BY scheduled_date ASC
		OFFSET $2 LIMIT $3`

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, doctorID, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list appointments by doctor: %w", err)
	}
	return appointments, nil
}
