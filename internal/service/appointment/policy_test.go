package appointment

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/emilyhospital/hospital-api/internal/model"
)

func TestPolicyAllows(t *testing.T) {
	patientID := uuid.New()
	doctorProfileID := uuid.New()
	strangerID := uuid.New()

	apt := &model.Appointment{
		PatientID: patientID,
		DoctorID:  doctorProfileID,
	}

	owner := &model.Actor{ID: patientID, Role: model.RolePatient}
	assignedDoctor := &model.Actor{
		ID:              uuid.New(),
		Role:            model.RoleDoctor,
		DoctorProfileID: &doctorProfileID,
	}
	otherProfile := uuid.New()
	otherDoctor := &model.Actor{
		ID:              uuid.New(),
		Role:            model.RoleDoctor,
		DoctorProfileID: &otherProfile,
	}
	profilelessDoctor := &model.Actor{ID: uuid.New(), Role: model.RoleDoctor}
	stranger := &model.Actor{ID: strangerID, Role: model.RolePatient}
	superuser := &model.Actor{ID: uuid.New(), Role: model.RoleAdmin, IsSuperuser: true}

	policy := NewPolicy()

	tests := []struct {
		name  string
		actor *model.Actor
		op    string
		want  bool
	}{
		{"owner reads", owner, OpRead, true},
		{"owner updates", owner, OpUpdate, true},
		{"owner deletes", owner, OpDelete, true},
		{"assigned doctor reads", assignedDoctor, OpRead, true},
		{"assigned doctor updates", assignedDoctor, OpUpdate, true},
		{"assigned doctor cannot delete", assignedDoctor, OpDelete, false},
		{"other doctor cannot read", otherDoctor, OpRead, false},
		{"other doctor cannot update", otherDoctor, OpUpdate, false},
		{"doctor without profile cannot read", profilelessDoctor, OpRead, false},
		{"stranger cannot read", stranger, OpRead, false},
		{"stranger cannot update", stranger, OpUpdate, false},
		{"stranger cannot delete", stranger, OpDelete, false},
		{"superuser reads", superuser, OpRead, true},
		{"superuser updates", superuser, OpUpdate, true},
		{"superuser deletes", superuser, OpDelete, true},
		{"unknown op denied", owner, "archive", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, policy.Allows(tt.actor, apt, tt.op))
		})
	}
}

func TestPolicyUnknownOpAllowedForSuperuser(t *testing.T) {
	policy := NewPolicy()
	superuser := &model.Actor{ID: uuid.New(), IsSuperuser: true}
	apt := &model.Appointment{PatientID: uuid.New(), DoctorID: uuid.New()}

	assert.True(t, policy.Allows(superuser, apt, "archive"))
}
