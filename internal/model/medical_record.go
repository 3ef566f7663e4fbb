package model

import (
	"time"

	"github.com/google/uuid"
)

// MedicalRecord is a clinical note written by a doctor about a patient.
type MedicalRecord struct {
	Base
	PatientID    uuid.UUID  `json:"patient_id" db:"patient_id"`
	DoctorID     uuid.UUID  `json:"doctor_id" db:"doctor_id"`
	RecordType   string     `json:"record_type" db:"record_type"`
	Title        string     `json:"title" db:"title"`
	Description  *string    `json:"description,omitempty" db:"description"`
	Diagnosis    *string    `json:"diagnosis,omitempty" db:"diagnosis"`
	Treatment    *string    `json:"treatment,omitempty" db:"treatment"`
	Prescription *string    `json:"prescription,omitempty" db:"prescription"`
	LabResults   *string    `json:"lab_results,omitempty" db:"lab_results"`
	VisitDate    *time.Time `json:"visit_date,omitempty" db:"visit_date"`
}

type CreateMedicalRecordRequest struct {
	PatientID    uuid.UUID  `json:"patient_id" binding:"required"`
	RecordType   string     `json:"record_type" binding:"required"`
	Title        string     `json:"title" binding:"required"`
	Description  *string    `json:"description"`
	Diagnosis    *string    `json:"diagnosis"`
	Treatment    *string    `json:"treatment"`
	Prescription *string    `json:"prescription"`
	LabResults   *string    `json:"lab_results"`
	VisitDate    *time.Time `json:"visit_date"`
}

type UpdateMedicalRecordRequest struct {
	Title        *string    `json:"title"`
	Description  *string    `json:"description"`
	Diagnosis    *string    `json:"diagnosis"`
	Treatment    *string    `json:"treatment"`
	Prescription *string    `json:"prescription"`
	LabResults   *string    `json:"lab_results"`
	VisitDate    *time.Time `json:"visit_date"`
}
