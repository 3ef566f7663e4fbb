package model

import (
	"github.com/google/uuid"
)

// Doctor represents a healthcare professional profile linked to a user
type Doctor struct {
	Base
	UserID              uuid.UUID `json:"user_id" db:"user_id"`
	LicenseNumber       string    `json:"license_number" db:"license_number"`
	Specialization      string    `json:"specialization" db:"specialization"`
	Qualifications      *string   `json:"qualifications,omitempty" db:"qualifications"`
	ExperienceYears     int       `json:"experience_years" db:"experience_years"`
	ConsultationFee     float64   `json:"consultation_fee" db:"consultation_fee"`
	AvailableDays       *string   `json:"available_days,omitempty" db:"available_days"`
	AvailableHoursStart *string   `json:"available_hours_start,omitempty" db:"available_hours_start"`
	AvailableHoursEnd   *string   `json:"available_hours_end,omitempty" db:"available_hours_end"`
	IsAvailable         bool      `json:"is_available" db:"is_available"`
	HospitalDepartment  *string   `json:"hospital_department,omitempty" db:"hospital_department"`
	Bio                 *string   `json:"bio,omitempty" db:"bio"`
	LanguagesSpoken     *string   `json:"languages_spoken,omitempty" db:"languages_spoken"`
	Rating              float64   `json:"rating" db:"rating"`
	TotalReviews        int       `json:"total_reviews" db:"total_reviews"`
}

type CreateDoctorRequest struct {
	UserID             uuid.UUID `json:"user_id" binding:"required"`
	LicenseNumber      string    `json:"license_number" binding:"required"`
	Specialization     string    `json:"specialization" binding:"required"`
	Qualifications     *string   `json:"qualifications"`
	ExperienceYears    int       `json:"experience_years" binding:"omitempty,min=0"`
	ConsultationFee    float64   `json:"consultation_fee" binding:"omitempty,min=0"`
	HospitalDepartment *string   `json:"hospital_department"`
	Bio                *string   `json:"bio"`
}

type UpdateDoctorRequest struct {
	Specialization      *string  `json:"specialization"`
	Qualifications      *string  `json:"qualifications"`
	ExperienceYears     *int     `json:"experience_years" binding:"omitempty,min=0"`
	ConsultationFee     *float64 `json:"consultation_fee" binding:"omitempty,min=0"`
	AvailableDays       *string  `json:"available_days"`
	AvailableHoursStart *string  `json:"available_hours_start"`
	AvailableHoursEnd   *string  `json:"available_hours_end"`
	IsAvailable         *bool    `json:"is_available"`
	HospitalDepartment  *string  `json:"hospital_department"`
	Bio                 *string  `json:"bio"`
	LanguagesSpoken     *string  `json:"languages_spoken"`
}
