package insight

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/emilyhospital/hospital-api/internal/model"
	"github.com/emilyhospital/hospital-api/internal/repository"
	apperrors "github.com/emilyhospital/hospital-api/pkg/errors"
	"github.com/emilyhospital/hospital-api/pkg/metrics"
	"github.com/emilyhospital/hospital-api/pkg/predictor"
)

// PredictRequest asks for a kidney-stone risk score over a urine
// sample. The appointment id is optional; when present the scored risk
// is also written onto the appointment.
type PredictRequest struct {
	PatientID     uuid.UUID             `json:"patient_id" binding:"required"`
	AppointmentID *uuid.UUID            `json:"appointment_id"`
	Sample        predictor.UrineSample `json:"sample" binding:"required"`
}

type Service struct {
	repo      repository.AIInsightRepository
	aptRepo   repository.AppointmentRepository
	predictor predictor.Client
	metrics   *metrics.Metrics
}

func NewService(repo repository.AIInsightRepository, aptRepo repository.AppointmentRepository,
	pred predictor.Client, m *metrics.Metrics) *Service {
	return &Service{
		repo:      repo,
		aptRepo:   aptRepo,
		predictor: pred,
		metrics:   m,
	}
}

// PredictKidneyStoneRisk scores a sample against the deployed model and
// stores the result as an insight. Doctors and superusers may score any
// patient; patients may score themselves.
func (s *Service) PredictKidneyStoneRisk(ctx context.Context, actor *model.Actor, req *PredictRequest) (*model.AIInsight, error) {
	if actor.ID != req.PatientID && !actor.IsSuperuser && actor.DoctorProfileID == nil {
		return nil, apperrors.Forbidden("not enough permissions")
	}

	start := time.Now()
	prediction, err := s.predictor.Score(ctx, req.Sample)
	s.metrics.PredictorLatency.Observe(time.Since(start).Seconds())
	if err != nil {
		return nil, fmt.Errorf("failed to score sample: %w", err)
	}

	recommendations := recommendationFor(prediction)
	insight := &model.AIInsight{
		PatientID:       req.PatientID,
		AppointmentID:   req.AppointmentID,
		Category:        model.InsightCategoryKidneyStone,
		RiskScore:       prediction.Probability,
		Recommendations: &recommendations,
	}

	if err := s.repo.Create(ctx, insight); err != nil {
		return nil, fmt.Errorf("failed to store insight: %w", err)
	}

	if req.AppointmentID != nil {
		if err := s.aptRepo.SetAIInsight(ctx, *req.AppointmentID, insight.RiskScore, recommendations); err != nil {
			log.Warn().Err(err).Str("appointment_id", req.AppointmentID.String()).
				Msg("failed to attach insight to appointment")
		}
	}

	return insight, nil
}

// GetInsight returns an insight if the actor may read it (owning
// patient, any doctor, or superuser).
func (s *Service) GetInsight(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.AIInsight, error) {
	insight, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("insight", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get insight: %w", err)
	}

	if actor.ID != insight.PatientID && !actor.IsSuperuser && actor.DoctorProfileID == nil {
		return nil, apperrors.Forbidden("not enough permissions")
	}
	return insight, nil
}

// ListInsights returns a patient's insights, with the same visibility
// rule as GetInsight.
func (s *Service) ListInsights(ctx context.Context, actor *model.Actor, patientID uuid.UUID, offset, limit int) ([]*model.AIInsight, error) {
	if actor.ID != patientID && !actor.IsSuperuser && actor.DoctorProfileID == nil {
		return nil, apperrors.Forbidden("not enough permissions")
	}
	if limit <= 0 {
		limit = model.DefaultLimit
	}

	insights, err := s.repo.ListByPatient(ctx, patientID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	return insights, nil
}

func recommendationFor(p *predictor.Prediction) string {
	if p.Label == "1" || p.Label == "true" {
		return "Elevated kidney-stone risk. Recommend increased hydration and a urology consultation."
	}
	return "No elevated kidney-stone risk detected. Maintain regular hydration."
}
