package medical

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/emilyhospital/hospital-api/internal/model"
	"github.com/emilyhospital/hospital-api/internal/repository"
	apperrors "github.com/emilyhospital/hospital-api/pkg/errors"
)

type mockRecordRepo struct {
	mock.Mock
}

func (m *mockRecordRepo) Create(ctx context.Context, record *model.MedicalRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockRecordRepo) Get(ctx context.Context, id uuid.UUID) (*model.MedicalRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.MedicalRecord), args.Error(1)
}

func (m *mockRecordRepo) Update(ctx context.Context, record *model.MedicalRecord) error {
	args := m.Called(ctx, record)
	return args.Error(0)
}

func (m *mockRecordRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockRecordRepo) ListByPatient(ctx context.Context, patientID uuid.UUID, offset, limit int) ([]*model.MedicalRecord, error) {
	args := m.Called(ctx, patientID, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.MedicalRecord), args.Error(1)
}

func TestGetRecordVisibility(t *testing.T) {
	patientID := uuid.New()
	authorProfileID := uuid.New()

	record := &model.MedicalRecord{
		PatientID:  patientID,
		DoctorID:   authorProfileID,
		RecordType: "consultation",
		Title:      "Follow-up",
	}
	record.ID = uuid.New()

	otherProfile := uuid.New()
	tests := []struct {
		name      string
		actor     *model.Actor
		forbidden bool
	}{
		{"owning patient", &model.Actor{ID: patientID, Role: model.RolePatient}, false},
		{"authoring doctor", &model.Actor{ID: uuid.New(), Role: model.RoleDoctor, DoctorProfileID: &authorProfileID}, false},
		{"other doctor", &model.Actor{ID: uuid.New(), Role: model.RoleDoctor, DoctorProfileID: &otherProfile}, true},
		{"doctor without profile", &model.Actor{ID: uuid.New(), Role: model.RoleDoctor}, true},
		{"unrelated patient", &model.Actor{ID: uuid.New(), Role: model.RolePatient}, true},
		{"superuser", &model.Actor{ID: uuid.New(), Role: model.RoleAdmin, IsSuperuser: true}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRecordRepo)
			repo.On("Get", mock.Anything, record.ID).Return(record, nil)
			svc := NewService(repo)

			got, err := svc.GetRecord(context.Background(), tt.actor, record.ID)
			if tt.forbidden {
				require.Error(t, err)
				assert.True(t, apperrors.IsForbidden(err))
				assert.Nil(t, got)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, record.ID, got.ID)
		})
	}
}

func TestGetRecordNotFound(t *testing.T) {
	repo := new(mockRecordRepo)
	id := uuid.New()
	repo.On("Get", mock.Anything, id).Return(nil, repository.ErrNotFound)
	svc := NewService(repo)

	actor := &model.Actor{ID: uuid.New(), Role: model.RolePatient}
	_, err := svc.GetRecord(context.Background(), actor, id)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestCreateRecordRequiresDoctorProfile(t *testing.T) {
	repo := new(mockRecordRepo)
	svc := NewService(repo)

	patient := &model.Actor{ID: uuid.New(), Role: model.RolePatient}
	_, err := svc.CreateRecord(context.Background(), patient, &model.CreateMedicalRecordRequest{
		PatientID:  uuid.New(),
		RecordType: "lab",
		Title:      "Blood panel",
	})

	require.Error(t, err)
	assert.True(t, apperrors.IsForbidden(err))
	repo.AssertNotCalled(t, "Create")
}

func TestCreateRecordForcesAuthorProfile(t *testing.T) {
	repo := new(mockRecordRepo)
	repo.On("Create", mock.Anything, mock.AnythingOfType("*model.MedicalRecord")).Return(nil)
	svc := NewService(repo)

	profileID := uuid.New()
	author := &model.Actor{ID: uuid.New(), Role: model.RoleDoctor, DoctorProfileID: &profileID}

	record, err := svc.CreateRecord(context.Background(), author, &model.CreateMedicalRecordRequest{
		PatientID:  uuid.New(),
		RecordType: "consultation",
		Title:      "Initial visit",
	})

	require.NoError(t, err)
	assert.Equal(t, profileID, record.DoctorID)
}

func TestListRecordsVisibility(t *testing.T) {
	patientID := uuid.New()
	profileID := uuid.New()

	tests := []struct {
		name      string
		actor     *model.Actor
		forbidden bool
	}{
		{"patient lists own", &model.Actor{ID: patientID, Role: model.RolePatient}, false},
		{"doctor with profile", &model.Actor{ID: uuid.New(), Role: model.RoleDoctor, DoctorProfileID: &profileID}, false},
		{"superuser", &model.Actor{ID: uuid.New(), IsSuperuser: true}, false},
		{"unrelated patient", &model.Actor{ID: uuid.New(), Role: model.RolePatient}, true},
		{"doctor without profile", &model.Actor{ID: uuid.New(), Role: model.RoleDoctor}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockRecordRepo)
			repo.On("ListByPatient", mock.Anything, patientID, 0, model.DefaultLimit).
				Return([]*model.MedicalRecord{}, nil)
			svc := NewService(repo)

			_, err := svc.ListRecords(context.Background(), tt.actor, patientID, 0, 0)
			if tt.forbidden {
				require.Error(t, err)
				assert.True(t, apperrors.IsForbidden(err))
				repo.AssertNotCalled(t, "ListByPatient")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestUpdateRecordAuthorOnly(t *testing.T) {
	authorProfileID := uuid.New()
	record := &model.MedicalRecord{
		PatientID:  uuid.New(),
		DoctorID:   authorProfileID,
		RecordType: "consultation",
		Title:      "Follow-up",
	}
	record.ID = uuid.New()

	newTitle := "Amended follow-up"
	patch := &model.UpdateMedicalRecordRequest{Title: &newTitle}

	t.Run("owning patient cannot edit", func(t *testing.T) {
		repo := new(mockRecordRepo)
		repo.On("Get", mock.Anything, record.ID).Return(record, nil)
		svc := NewService(repo)

		owner := &model.Actor{ID: record.PatientID, Role: model.RolePatient}
		_, err := svc.UpdateRecord(context.Background(), owner, record.ID, patch)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		repo.AssertNotCalled(t, "Update")
	})

	t.Run("authoring doctor edits", func(t *testing.T) {
		repo := new(mockRecordRepo)
		repo.On("Get", mock.Anything, record.ID).Return(record, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*model.MedicalRecord")).Return(nil)
		svc := NewService(repo)

		author := &model.Actor{ID: uuid.New(), Role: model.RoleDoctor, DoctorProfileID: &authorProfileID}
		updated, err := svc.UpdateRecord(context.Background(), author, record.ID, patch)
		require.NoError(t, err)
		assert.Equal(t, newTitle, updated.Title)
	})
}

func TestDeleteRecordSuperuserOnly(t *testing.T) {
	recordID := uuid.New()
	profileID := uuid.New()

	t.Run("doctor cannot delete", func(t *testing.T) {
		repo := new(mockRecordRepo)
		svc := NewService(repo)

		doctor := &model.Actor{ID: uuid.New(), Role: model.RoleDoctor, DoctorProfileID: &profileID}
		err := svc.DeleteRecord(context.Background(), doctor, recordID)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		repo.AssertNotCalled(t, "Delete")
	})

	t.Run("superuser deletes", func(t *testing.T) {
		repo := new(mockRecordRepo)
		repo.On("Delete", mock.Anything, recordID).Return(nil)
		svc := NewService(repo)

		superuser := &model.Actor{ID: uuid.New(), IsSuperuser: true}
		require.NoError(t, svc.DeleteRecord(context.Background(), superuser, recordID))
		repo.AssertExpectations(t)
	})
}
