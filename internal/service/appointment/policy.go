package appointment

import (
	"github.com/emilyhospital/hospital-api/internal/model"
)

// Operation names, used for policy decisions and denial metrics.
const (
	OpRead   = "read"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Policy decides whether an actor may perform an operation on an
// appointment. Rules, in precedence order:
//
//  1. a superuser may do anything
//  2. read/update: the owning patient or the assigned doctor
//  3. delete: the owning patient only (doctors cannot delete their own
//     appointments)
//
// Update carries no field-level restrictions: an authorized patient may
// write any status value a doctor could. There is no transition guard.
type Policy struct{}

func NewPolicy() *Policy {
	return &Policy{}
}

// Allows reports whether actor may perform op on apt.
func (p *Policy) Allows(actor *model.Actor, apt *model.Appointment, op string) bool {
	if actor.IsSuperuser {
		return true
	}

	switch op {
	case OpRead, OpUpdate:
		return actor.ID == apt.PatientID || actor.IsDoctorFor(apt.DoctorID)
	case OpDelete:
		return actor.ID == apt.PatientID
	default:
		return false
	}
}
