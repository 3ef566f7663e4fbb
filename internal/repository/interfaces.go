package repository

import (
	"context"

	"github.com/google/uuid"

	"github.com/emilyhospital/hospital-api/internal/model"
)

// All repository interfaces in one file
type (
	UserRepository interface {
		Create(ctx context.Context, user *model.User) error
		Get(ctx context.Context, id uuid.UUID) (*model.User, error)
		GetByEmail(ctx context.Context, email string) (*model.User, error)
		Update(ctx context.Context, user *model.User) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, offset, limit int) ([]*model.User, error)
	}

	DoctorRepository interface {
		Create(ctx context.Context, doctor *model.Doctor) error
		Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error)
		Update(ctx context.Context, doctor *model.Doctor) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, offset, limit int) ([]*model.Doctor, error)
	}

	PatientRepository interface {
		Create(ctx context.Context, patient *model.Patient) error
		Get(ctx context.Context, id uuid.UUID) (*model.Patient, error)
		GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Patient, error)
		Update(ctx context.Context, patient *model.Patient) error
		Delete(ctx context.Context, id uuid.UUID) error
		List(ctx context.Context, offset, limit int) ([]*model.Patient, error)
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		Get(ctx context.Context, id uuid.UUID) (*model.Appointment, error)
		Update(ctx context.Context, id uuid.UUID, patch *model.UpdateAppointmentRequest) (*model.Appointment, error)
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID, offset, limit int) ([]*model.Appointment, error)
		ListByDoctor(ctx context.Context, doctorID uuid.UUID, offset, limit int) ([]*model.Appointment, error)
		SetAIInsight(ctx context.Context, id uuid.UUID, riskScore float64, recommendations string) error
	}

	MedicalRecordRepository interface {
		Create(ctx context.Context, record *model.MedicalRecord) error
		Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error)
		Update(ctx context.Context, record *model.MedicalRecord) error
		Delete(ctx context.Context, id uuid.UUID) error
		ListByPatient(ctx context.Context, patientID uuid.UUID, offset, limit int) ([]*model.MedicalRecord, error)
	}

	AIInsightRepository interface {
		Create(ctx context.Context, insight *model.AIInsight) error
		Get(ctx context.Context, id uuid.UUID) (*model.AIInsight, error)
		ListByPatient(ctx context.Context, patientID uuid.UUID, offset, limit int) ([]*model.AIInsight, error)
	}
)
