package appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/emilyhospital/hospital-api/internal/model"
	"github.com/emilyhospital/hospital-api/internal/repository"
	apperrors "github.com/emilyhospital/hospital-api/pkg/errors"
	"github.com/emilyhospital/hospital-api/pkg/messaging"
	"github.com/emilyhospital/hospital-api/pkg/metrics"
)

// EventChannel is the broker channel appointment lifecycle events are
// published on. The insight pipeline subscribes to it.
const EventChannel = "appointments.events"

// Event types published on EventChannel.
const (
	EventCreated = "appointment.created"
	EventUpdated = "appointment.updated"
	EventDeleted = "appointment.deleted"
)

type Service struct {
	repo    repository.AppointmentRepository
	policy  *Policy
	broker  messaging.Broker
	metrics *metrics.Metrics
}

func NewService(repo repository.AppointmentRepository, broker messaging.Broker, m *metrics.Metrics) *Service {
	return &Service{
		repo:    repo,
		policy:  NewPolicy(),
		broker:  broker,
		metrics: m,
	}
}

// CreateAppointment books an appointment for the calling actor. The
// patient id is always the actor's id; the request schema carries no
// patient id field at all.
func (s *Service) CreateAppointment(ctx context.Context, actor *model.Actor, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	apt := &model.Appointment{
		PatientID:       actor.ID,
		DoctorID:        req.DoctorID,
		AppointmentType: req.AppointmentType,
		Status:          model.AppointmentStatusScheduled,
		ScheduledDate:   req.ScheduledDate,
		DurationMinutes: req.DurationMinutes,
		IsVirtual:       req.IsVirtual,
		ReasonForVisit:  req.ReasonForVisit,
		Symptoms:        req.Symptoms,
		Notes:           req.Notes,
		PaymentStatus:   model.PaymentStatusPending,
	}
	if apt.AppointmentType == "" {
		apt.AppointmentType = model.AppointmentTypeConsultation
	}
	if apt.DurationMinutes == 0 {
		apt.DurationMinutes = 30
	}

	if err := s.repo.Create(ctx, apt); err != nil {
		return nil, fmt.Errorf("failed to create appointment: %w", err)
	}

	s.metrics.AppointmentsCreated.Inc()
	s.publishEvent(ctx, EventCreated, apt)

	return apt, nil
}

// GetAppointment returns the appointment if the actor may read it.
func (s *Service) GetAppointment(ctx context.Context, actor *model.Actor, id uuid.UUID) (*model.Appointment, error) {
	apt, err := s.getOwned(ctx, actor, id, OpRead)
	if err != nil {
		return nil, err
	}
	return apt, nil
}

// ListAppointments returns the appointments visible to the actor. A
// doctor sees appointments assigned to their doctor profile; everyone
// else sees appointments they booked as a patient. A doctor actor with
// no linked profile gets an empty list, not an error.
func (s *Service) ListAppointments(ctx context.Context, actor *model.Actor, offset, limit int) ([]*model.Appointment, error) {
	if limit <= 0 {
		limit = model.DefaultLimit
	}

	if actor.Role == model.RoleDoctor {
		if actor.DoctorProfileID == nil {
			return []*model.Appointment{}, nil
		}
		appointments, err := s.repo.ListByDoctor(ctx, *actor.DoctorProfileID, offset, limit)
		if err != nil {
			return nil, fmt.Errorf("failed to list appointments: %w", err)
		}
		return appointments, nil
	}

	appointments, err := s.repo.ListByPatient(ctx, actor.ID, offset, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, nil
}

// UpdateAppointment applies a sparse patch if the actor may update the
// appointment. Only fields present in the patch change; updated_at is
// refreshed. An empty patch is a no-op returning the current row.
// Status writes are not validated against any transition order.
func (s *Service) UpdateAppointment(ctx context.Context, actor *model.Actor, id uuid.UUID, patch *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, err := s.getOwned(ctx, actor, id, OpUpdate)
	if err != nil {
		return nil, err
	}

	// An all-nil patch changes nothing; skip the write and the event.
	if patch.IsEmpty() {
		return apt, nil
	}

	updated, err := s.repo.Update(ctx, id, patch)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update appointment: %w", err)
	}

	s.publishEvent(ctx, EventUpdated, updated)

	return updated, nil
}

// DeleteAppointment removes the appointment if the actor may delete it.
// Hard delete, no cascading side effects.
func (s *Service) DeleteAppointment(ctx context.Context, actor *model.Actor, id uuid.UUID) error {
	apt, err := s.getOwned(ctx, actor, id, OpDelete)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return apperrors.NotFound("appointment", err)
		}
		return fmt.Errorf("failed to delete appointment: %w", err)
	}

	s.metrics.AppointmentsDeleted.Inc()
	s.publishEvent(ctx, EventDeleted, apt)

	return nil
}

// getOwned fetches the appointment and applies the policy for op.
// A missing id reports NotFound before any policy evaluation.
func (s *Service) getOwned(ctx context.Context, actor *model.Actor, id uuid.UUID, op string) (*model.Appointment, error) {
	apt, err := s.repo.Get(ctx, id)
	if errors.Is(err, repository.ErrNotFound) {
		return nil, apperrors.NotFound("appointment", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get appointment: %w", err)
	}

	if !s.policy.Allows(actor, apt, op) {
		s.metrics.PolicyDenials.WithLabelValues(op).Inc()
		return nil, apperrors.Forbidden("not enough permissions")
	}
	return apt, nil
}

func (s *Service) publishEvent(ctx context.Context, eventType string, apt *model.Appointment) {
	if s.broker == nil {
		return
	}

	msg := messaging.Message{
		Type:    eventType,
		Payload: apt,
	}
	if err := s.broker.Publish(ctx, EventChannel, msg); err != nil {
		s.metrics.InsightEventsFailed.Inc()
		log.Warn().Err(err).Str("event", eventType).Str("appointment_id", apt.ID.String()).
			Msg("failed to publish appointment event")
		return
	}
	s.metrics.InsightEventsPublished.Inc()
}
