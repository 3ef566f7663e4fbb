package model

import (
	"github.com/google/uuid"
)

// Patient represents a patient profile linked to a user
type Patient struct {
	Base
	UserID            uuid.UUID `json:"user_id" db:"user_id"`
	BloodType         *string   `json:"blood_type,omitempty" db:"blood_type"`
	HeightCm          *float64  `json:"height_cm,omitempty" db:"height_cm"`
	WeightKg          *float64  `json:"weight_kg,omitempty" db:"weight_kg"`
	Allergies         *string   `json:"allergies,omitempty" db:"allergies"`
	ChronicConditions *string   `json:"chronic_conditions,omitempty" db:"chronic_conditions"`
	CurrentMedication *string   `json:"current_medication,omitempty" db:"current_medication"`
	MedicalHistory    *string   `json:"medical_history,omitempty" db:"medical_history"`
	InsuranceProvider *string   `json:"insurance_provider,omitempty" db:"insurance_provider"`
	InsuranceNumber   *string   `json:"insurance_number,omitempty" db:"insurance_number"`
}

type CreatePatientRequest struct {
	UserID            uuid.UUID `json:"user_id" binding:"required"`
	BloodType         *string   `json:"blood_type"`
	HeightCm          *float64  `json:"height_cm" binding:"omitempty,min=0"`
	WeightKg          *float64  `json:"weight_kg" binding:"omitempty,min=0"`
	Allergies         *string   `json:"allergies"`
	ChronicConditions *string   `json:"chronic_conditions"`
	MedicalHistory    *string   `json:"medical_history"`
	InsuranceProvider *string   `json:"insurance_provider"`
	InsuranceNumber   *string   `json:"insurance_number"`
}

type UpdatePatientRequest struct {
	BloodType         *string  `json:"blood_type"`
	HeightCm          *float64 `json:"height_cm" binding:"omitempty,min=0"`
	WeightKg          *float64 `json:"weight_kg" binding:"omitempty,min=0"`
	Allergies         *string  `json:"allergies"`
	ChronicConditions *string  `json:"chronic_conditions"`
	CurrentMedication *string  `json:"current_medication"`
	MedicalHistory    *string  `json:"medical_history"`
	InsuranceProvider *string  `json:"insurance_provider"`
	InsuranceNumber   *string  `json:"insurance_number"`
}
