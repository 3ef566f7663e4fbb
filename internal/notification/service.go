package notification

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"

	"github.com/emilyhospital/hospital-api/internal/model"
)

// Service sends transactional emails. Failures are reported to the
// caller; callers decide whether a failed mail fails the request (it
// never does on the appointment path).
type Service interface {
	SendWelcome(ctx context.Context, to, name string) error
	SendAppointmentConfirmation(ctx context.Context, to string, apt *model.Appointment) error
}

type SMTPConfig struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
}

type service struct {
	cfg    SMTPConfig
	dialer *gomail.Dialer
	logger *zerolog.Logger
}

func NewService(cfg SMTPConfig, logger *zerolog.Logger) Service {
	return &service{
		cfg:    cfg,
		dialer: gomail.NewDialer(cfg.Host, cfg.Port, cfg.Username, cfg.Password),
		logger: logger,
	}
}

func (s *service) SendWelcome(ctx context.Context, to, name string) error {
	body := fmt.Sprintf(
		"Dear %s,\n\nWelcome to Emily Multispeciality Hospital. Your account has been created.\n",
		name,
	)
	return s.send(to, "Welcome to Emily Hospital", body)
}

func (s *service) SendAppointmentConfirmation(ctx context.Context, to string, apt *model.Appointment) error {
	body := fmt.Sprintf(
		"Your appointment has been scheduled for %s (%d minutes).\n\nAppointment ID: %s\n",
		apt.ScheduledDate.Format(time.RFC1123),
		apt.DurationMinutes,
		apt.ID,
	)
	return s.send(to, "Appointment confirmation", body)
}

func (s *service) send(to, subject, body string) error {
	m := gomail.NewMessage()
	m.SetHeader("From", s.cfg.From)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/plain", body)

	if err := s.dialer.DialAndSend(m); err != nil {
		s.logger.Error().Err(err).Str("to", to).Str("subject", subject).Msg("failed to send email")
		return fmt.Errorf("failed to send email: %w", err)
	}
	return nil
}
