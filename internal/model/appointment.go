package model

import (
	"time"

	"github.com/google/uuid"
)

type AppointmentStatus string

const (
	AppointmentStatusScheduled  AppointmentStatus = "scheduled"
	AppointmentStatusConfirmed  AppointmentStatus = "confirmed"
	AppointmentStatusInProgress AppointmentStatus = "in_progress"
	AppointmentStatusCompleted  AppointmentStatus = "completed"
	AppointmentStatusCancelled  AppointmentStatus = "cancelled"
	AppointmentStatusNoShow     AppointmentStatus = "no_show"
)

type AppointmentType string

const (
	AppointmentTypeConsultation     AppointmentType = "consultation"
	AppointmentTypeFollowUp         AppointmentType = "follow_up"
	AppointmentTypeEmergency        AppointmentType = "emergency"
	AppointmentTypeTeleconsultation AppointmentType = "teleconsultation"
	AppointmentTypeProcedure        AppointmentType = "procedure"
)

// Payment statuses
const (
	PaymentStatusPending  = "pending"
	PaymentStatusPaid     = "paid"
	PaymentStatusRefunded = "refunded"
)

// Appointment links a patient to a doctor at a scheduled time. Status
// values are free-form within the enumeration: no transition ordering
// is enforced anywhere, an authorized caller may write any status at
// any time.
type Appointment struct {
	Base
	PatientID uuid.UUID `json:"patient_id" db:"patient_id"`
	DoctorID  uuid.UUID `json:"doctor_id" db:"doctor_id"`

	AppointmentType AppointmentType   `json:"appointment_type" db:"appointment_type"`
	Status          AppointmentStatus `json:"status" db:"status"`

	ScheduledDate   time.Time  `json:"scheduled_date" db:"scheduled_date"`
	DurationMinutes int        `json:"duration_minutes" db:"duration_minutes"`
	ActualStartTime *time.Time `json:"actual_start_time,omitempty" db:"actual_start_time"`
	ActualEndTime   *time.Time `json:"actual_end_time,omitempty" db:"actual_end_time"`

	IsVirtual   bool    `json:"is_virtual" db:"is_virtual"`
	MeetingLink *string `json:"meeting_link,omitempty" db:"meeting_link"`
	Location    *string `json:"location,omitempty" db:"location"`

	ReasonForVisit *string `json:"reason_for_visit,omitempty" db:"reason_for_visit"`
	Symptoms       *string `json:"symptoms,omitempty" db:"symptoms"`
	Notes          *string `json:"notes,omitempty" db:"notes"`

	ConsultationFee float64 `json:"consultation_fee" db:"consultation_fee"`
	PaymentStatus   string  `json:"payment_status" db:"payment_status"`

	FollowUpRequired bool       `json:"follow_up_required" db:"follow_up_required"`
	FollowUpDate     *time.Time `json:"follow_up_date,omitempty" db:"follow_up_date"`

	AIRiskScore       *float64 `json:"ai_risk_score,omitempty" db:"ai_risk_score"`
	AIRecommendations *string  `json:"ai_recommendations,omitempty" db:"ai_recommendations"`
}

// CreateAppointmentRequest carries the caller-supplied booking fields.
// The patient id is never taken from the payload; it is always the
// authenticated actor's id.
type CreateAppointmentRequest struct {
	DoctorID        uuid.UUID       `json:"doctor_id" binding:"required"`
	AppointmentType AppointmentType `json:"appointment_type" binding:"omitempty,oneof=consultation follow_up emergency teleconsultation procedure"`
	ScheduledDate   time.Time       `json:"scheduled_date" binding:"required"`
	DurationMinutes int             `json:"duration_minutes" binding:"omitempty,min=1"`
	IsVirtual       bool            `json:"is_virtual"`
	ReasonForVisit  *string         `json:"reason_for_visit"`
	Symptoms        *string         `json:"symptoms"`
	Notes           *string         `json:"notes"`
}

// UpdateAppointmentRequest is a sparse patch: only non-nil fields are
// written, everything else keeps its prior value.
type UpdateAppointmentRequest struct {
	Status          *AppointmentStatus `json:"status" binding:"omitempty,oneof=scheduled confirmed in_progress completed cancelled no_show"`
	ScheduledDate   *time.Time         `json:"scheduled_date"`
	DurationMinutes *int               `json:"duration_minutes" binding:"omitempty,min=1"`
	IsVirtual       *bool              `json:"is_virtual"`
	ReasonForVisit  *string            `json:"reason_for_visit"`
	Symptoms        *string            `json:"symptoms"`
	Notes           *string            `json:"notes"`
	MeetingLink     *string            `json:"meeting_link"`
	Location        *string            `json:"location"`
}

// IsEmpty reports whether the patch carries no fields at all.
func (r *UpdateAppointmentRequest) IsEmpty() bool {
	return r.Status == nil &&
		r.ScheduledDate == nil &&
		r.DurationMinutes == nil &&
		r.IsVirtual == nil &&
		r.ReasonForVisit == nil &&
		r.Symptoms == nil &&
		r.Notes == nil &&
		r.MeetingLink == nil &&
		r.Location == nil
}
