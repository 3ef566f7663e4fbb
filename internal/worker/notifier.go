package worker

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/emilyhospital/hospital-api/internal/model"
	"github.com/emilyhospital/hospital-api/internal/notification"
	"github.com/emilyhospital/hospital-api/internal/repository"
	"github.com/emilyhospital/hospital-api/internal/service/appointment"
	"github.com/emilyhospital/hospital-api/pkg/logger"
	"github.com/emilyhospital/hospital-api/pkg/messaging"
)

// Notifier consumes appointment lifecycle events from the broker and
// sends confirmation emails. Runs until the context is cancelled.
type Notifier struct {
	broker   messaging.Broker
	userRepo repository.UserRepository
	notifSvc notification.Service
	logger   *logger.Logger
}

func NewNotifier(broker messaging.Broker, userRepo repository.UserRepository,
	notifSvc notification.Service, logger *logger.Logger) *Notifier {
	return &Notifier{
		broker:   broker,
		userRepo: userRepo,
		notifSvc: notifSvc,
		logger:   logger,
	}
}

func (n *Notifier) Start(ctx context.Context) error {
	msgs, err := n.broker.Subscribe(ctx, appointment.EventChannel)
	if err != nil {
		return err
	}

	n.logger.Info("starting appointment notifier")

	for {
		select {
		case <-ctx.Done():
			n.logger.Info("shutting down appointment notifier")
			return nil
		case raw, ok := <-msgs:
			if !ok {
				return nil
			}
			if err := n.handle(ctx, raw); err != nil {
				n.logger.Error(err, "failed to handle appointment event")
			}
		}
	}
}

type appointmentEvent struct {
	Type    string            `json:"type"`
	Payload model.Appointment `json:"payload"`
}

func (n *Notifier) handle(ctx context.Context, raw []byte) error {
	var evt appointmentEvent
	if err := json.Unmarshal(raw, &evt); err != nil {
		return err
	}

	if evt.Type != appointment.EventCreated {
		return nil
	}

	patient, err := n.userRepo.Get(ctx, evt.Payload.PatientID)
	if errors.Is(err, repository.ErrNotFound) {
		n.logger.Warn("patient missing for appointment event",
			"appointment_id", evt.Payload.ID.String())
		return nil
	}
	if err != nil {
		return err
	}

	return n.notifSvc.SendAppointmentConfirmation(ctx, patient.Email, &evt.Payload)
}
