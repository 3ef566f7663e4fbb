package doctor

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/emilyhospital/hospital-api/internal/model"
	apperrors "github.com/emilyhospital/hospital-api/pkg/errors"
)

type mockDoctorRepo struct {
	mock.Mock
}

func (m *mockDoctorRepo) Create(ctx context.Context, doctor *model.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *mockDoctorRepo) Get(ctx context.Context, id uuid.UUID) (*model.Doctor, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Doctor), args.Error(1)
}

func (m *mockDoctorRepo) GetByUserID(ctx context.Context, userID uuid.UUID) (*model.Doctor, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Doctor), args.Error(1)
}

func (m *mockDoctorRepo) Update(ctx context.Context, doctor *model.Doctor) error {
	args := m.Called(ctx, doctor)
	return args.Error(0)
}

func (m *mockDoctorRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockDoctorRepo) List(ctx context.Context, offset, limit int) ([]*model.Doctor, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.Doctor), args.Error(1)
}

func TestCreateDoctorAdminOnly(t *testing.T) {
	req := &model.CreateDoctorRequest{
		UserID:         uuid.New(),
		LicenseNumber:  "MD-1234",
		Specialization: "urology",
	}

	t.Run("patient denied", func(t *testing.T) {
		repo := new(mockDoctorRepo)
		svc := NewService(repo)

		actor := &model.Actor{ID: uuid.New(), Role: model.RolePatient}
		_, err := svc.CreateDoctor(context.Background(), actor, req)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		repo.AssertNotCalled(t, "Create")
	})

	t.Run("admin creates available profile", func(t *testing.T) {
		repo := new(mockDoctorRepo)
		repo.On("Create", mock.Anything, mock.AnythingOfType("*model.Doctor")).Return(nil)
		svc := NewService(repo)

		admin := &model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
		doctor, err := svc.CreateDoctor(context.Background(), admin, req)
		require.NoError(t, err)
		assert.True(t, doctor.IsAvailable)
		assert.Equal(t, req.UserID, doctor.UserID)
	})
}

func TestUpdateDoctorSelfOrAdmin(t *testing.T) {
	profile := &model.Doctor{UserID: uuid.New(), Specialization: "urology"}
	profile.ID = uuid.New()

	specialization := "nephrology"
	patch := &model.UpdateDoctorRequest{Specialization: &specialization}

	t.Run("own profile", func(t *testing.T) {
		repo := new(mockDoctorRepo)
		repo.On("Get", mock.Anything, profile.ID).Return(profile, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*model.Doctor")).Return(nil)
		svc := NewService(repo)

		self := &model.Actor{ID: profile.UserID, Role: model.RoleDoctor, DoctorProfileID: &profile.ID}
		updated, err := svc.UpdateDoctor(context.Background(), self, profile.ID, patch)
		require.NoError(t, err)
		assert.Equal(t, specialization, updated.Specialization)
	})

	t.Run("other doctor denied", func(t *testing.T) {
		repo := new(mockDoctorRepo)
		svc := NewService(repo)

		otherProfile := uuid.New()
		other := &model.Actor{ID: uuid.New(), Role: model.RoleDoctor, DoctorProfileID: &otherProfile}
		_, err := svc.UpdateDoctor(context.Background(), other, profile.ID, patch)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		repo.AssertNotCalled(t, "Get")
	})
}

func TestDeleteDoctorAdminOnly(t *testing.T) {
	profileID := uuid.New()

	t.Run("doctor cannot delete own profile", func(t *testing.T) {
		repo := new(mockDoctorRepo)
		svc := NewService(repo)

		self := &model.Actor{ID: uuid.New(), Role: model.RoleDoctor, DoctorProfileID: &profileID}
		err := svc.DeleteDoctor(context.Background(), self, profileID)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		repo.AssertNotCalled(t, "Delete")
	})

	t.Run("superuser deletes", func(t *testing.T) {
		repo := new(mockDoctorRepo)
		repo.On("Delete", mock.Anything, profileID).Return(nil)
		svc := NewService(repo)

		superuser := &model.Actor{ID: uuid.New(), IsSuperuser: true}
		require.NoError(t, svc.DeleteDoctor(context.Background(), superuser, profileID))
		repo.AssertExpectations(t)
	})
}
