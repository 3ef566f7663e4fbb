package model

import (
	"time"

	"github.com/google/uuid"
)

// User roles
const (
	RolePatient = "patient"
	RoleDoctor  = "doctor"
	RoleAdmin   = "admin"
	RoleNurse   = "nurse"
)

// User represents a system user
type User struct {
	Base
	Email            string     `json:"email" db:"email"`
	PasswordHash     string     `json:"-" db:"password_hash"`
	FullName         string     `json:"full_name" db:"full_name"`
	IsActive         bool       `json:"is_active" db:"is_active"`
	IsSuperuser      bool       `json:"is_superuser" db:"is_superuser"`
	Role             string     `json:"role" db:"role"`
	Phone            *string    `json:"phone,omitempty" db:"phone"`
	DateOfBirth      *time.Time `json:"date_of_birth,omitempty" db:"date_of_birth"`
	Gender           *string    `json:"gender,omitempty" db:"gender"`
	Address          *string    `json:"address,omitempty" db:"address"`
	EmergencyContact *string    `json:"emergency_contact,omitempty" db:"emergency_contact"`
}

// UpdateUserRequest carries a sparse patch of mutable user fields.
type UpdateUserRequest struct {
	FullName         *string    `json:"full_name"`
	Phone            *string    `json:"phone"`
	DateOfBirth      *time.Time `json:"date_of_birth"`
	Gender           *string    `json:"gender"`
	Address          *string    `json:"address"`
	EmergencyContact *string    `json:"emergency_contact"`
	IsActive         *bool      `json:"is_active"`
}

// Actor is the authenticated identity attached to every request. The
// doctor-profile reference is carried explicitly so handlers never have
// to probe for it: a nil DoctorProfileID means the actor has no linked
// doctor profile, whatever their role says.
type Actor struct {
	ID              uuid.UUID
	Role            string
	IsSuperuser     bool
	DoctorProfileID *uuid.UUID
}

// IsDoctorFor reports whether the actor is the doctor assigned to the
// given profile id.
func (a *Actor) IsDoctorFor(doctorID uuid.UUID) bool {
	return a.DoctorProfileID != nil && *a.DoctorProfileID == doctorID
}
