package model

import (
	"github.com/google/uuid"
)

// Insight categories
const (
	InsightCategoryKidneyStone = "kidney_stone_risk"
	InsightCategoryGeneral     = "general"
)

// AIInsight is a stored prediction. Rows are written only by the
// insight service scoring path; appointment updates never touch them.
type AIInsight struct {
	Base
	PatientID       uuid.UUID  `json:"patient_id" db:"patient_id"`
	AppointmentID   *uuid.UUID `json:"appointment_id,omitempty" db:"appointment_id"`
	Category        string     `json:"category" db:"category"`
	RiskScore       float64    `json:"risk_score" db:"risk_score"`
	Recommendations *string    `json:"recommendations,omitempty" db:"recommendations"`
	ModelVersion    *string    `json:"model_version,omitempty" db:"model_version"`
}
