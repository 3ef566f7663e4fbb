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

const aiInsightColumns = `
	id, patient_id, appointment_id, category, risk_score,
	recommendations, model_version, created_at, updated_at`

type aiInsightRepository struct {
	db *sqlx.DB
}

func NewAIInsightRepository(db *sqlx.DB) repository.AIInsightRepository {
	return &aiInsightRepository{db: db}
}

func (r *aiInsightRepository) Create(ctx context.Context, insight *model.AIInsight) error {
	query := `
		INSERT INTO ai_insights (
			id, patient_id, appointment_id, category, risk_score,
			recommendations, model_version, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`
	insight.ID = uuid.New()
	insight.CreatedAt = time.Now()
	insight.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		insight.ID,
		insight.PatientID,
		insight.AppointmentID,
		insight.Category,
		insight.RiskScore,
		insight.Recommendations,
		insight.ModelVersion,
		insight.CreatedAt,
		insight.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create insight: %w", err)
	}
	return nil
}

func (r *aiInsightRepository) Get(ctx context.Context, id uuid.UUID) (*model.AIInsight, error) {
	query := `SELECT` + aiInsightColumns + ` FROM ai_insights WHERE id = $1`

	var insight model.AIInsight
	err := r.db.GetContext(ctx, &insight, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get insight: %w", err)
	}
	return &insight, nil
}

func (r *aiInsightRepository) ListByPatient(ctx context.Context, patientID uuid.UUID, offset, limit int) ([]*model.AIInsight, error) {
	query := `SELECT` + aiInsightColumns + `
		FROM ai_insights
		WHERE patient_id = $1
		ORDER BY created_at DESC
		OFFSET $2 LIMIT $3`

	insights := []*model.AIInsight{}
	if err := r.db.SelectContext(ctx, &insights, query, patientID, offset, limit); err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	return insights, nil
}
