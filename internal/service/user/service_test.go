package user

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

type mockUserRepo struct {
	mock.Mock
}

func (m *mockUserRepo) Create(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Get(ctx context.Context, id uuid.UUID) (*model.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.User), args.Error(1)
}

func (m *mockUserRepo) Update(ctx context.Context, user *model.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *mockUserRepo) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockUserRepo) List(ctx context.Context, offset, limit int) ([]*model.User, error) {
	args := m.Called(ctx, offset, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*model.User), args.Error(1)
}

func TestListUsersAdminOnly(t *testing.T) {
	tests := []struct {
		name      string
		actor     *model.Actor
		forbidden bool
	}{
		{"admin", &model.Actor{ID: uuid.New(), Role: model.RoleAdmin}, false},
		{"superuser", &model.Actor{ID: uuid.New(), IsSuperuser: true}, false},
		{"doctor", &model.Actor{ID: uuid.New(), Role: model.RoleDoctor}, true},
		{"patient", &model.Actor{ID: uuid.New(), Role: model.RolePatient}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockUserRepo)
			repo.On("List", mock.Anything, 0, model.DefaultLimit).Return([]*model.User{}, nil)
			svc := NewService(repo)

			_, err := svc.ListUsers(context.Background(), tt.actor, 0, 0)
			if tt.forbidden {
				require.Error(t, err)
				assert.True(t, apperrors.IsForbidden(err))
				repo.AssertNotCalled(t, "List")
				return
			}
			require.NoError(t, err)
		})
	}
}

func TestGetUserSelfOrAdmin(t *testing.T) {
	target := &model.User{Email: "patient@example.com", Role: model.RolePatient}
	target.ID = uuid.New()

	t.Run("self lookup", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("Get", mock.Anything, target.ID).Return(target, nil)
		svc := NewService(repo)

		actor := &model.Actor{ID: target.ID, Role: model.RolePatient}
		got, err := svc.GetUser(context.Background(), actor, target.ID)
		require.NoError(t, err)
		assert.Equal(t, target.ID, got.ID)
	})

	t.Run("stranger denied before lookup", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc := NewService(repo)

		stranger := &model.Actor{ID: uuid.New(), Role: model.RolePatient}
		_, err := svc.GetUser(context.Background(), stranger, target.ID)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		repo.AssertNotCalled(t, "Get")
	})
}

func TestUpdateUserIsActiveRequiresAdmin(t *testing.T) {
	target := &model.User{Email: "patient@example.com", Role: model.RolePatient, IsActive: true}
	target.ID = uuid.New()

	inactive := false
	name := "Pat Doe"

	t.Run("self update cannot flip is_active", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("Get", mock.Anything, target.ID).Return(target, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		svc := NewService(repo)

		actor := &model.Actor{ID: target.ID, Role: model.RolePatient}
		updated, err := svc.UpdateUser(context.Background(), actor, target.ID, &model.UpdateUserRequest{
			FullName: &name,
			IsActive: &inactive,
		})
		require.NoError(t, err)
		assert.Equal(t, name, updated.FullName)
		assert.True(t, updated.IsActive)
	})

	t.Run("admin flips is_active", func(t *testing.T) {
		fresh := &model.User{Email: "patient@example.com", Role: model.RolePatient, IsActive: true}
		fresh.ID = target.ID

		repo := new(mockUserRepo)
		repo.On("Get", mock.Anything, fresh.ID).Return(fresh, nil)
		repo.On("Update", mock.Anything, mock.AnythingOfType("*model.User")).Return(nil)
		svc := NewService(repo)

		admin := &model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
		updated, err := svc.UpdateUser(context.Background(), admin, fresh.ID, &model.UpdateUserRequest{
			IsActive: &inactive,
		})
		require.NoError(t, err)
		assert.False(t, updated.IsActive)
	})
}

func TestDeleteUserSuperuserOnly(t *testing.T) {
	targetID := uuid.New()

	t.Run("admin without superuser denied", func(t *testing.T) {
		repo := new(mockUserRepo)
		svc := NewService(repo)

		admin := &model.Actor{ID: uuid.New(), Role: model.RoleAdmin}
		err := svc.DeleteUser(context.Background(), admin, targetID)
		require.Error(t, err)
		assert.True(t, apperrors.IsForbidden(err))
		repo.AssertNotCalled(t, "Delete")
	})

	t.Run("superuser deletes", func(t *testing.T) {
		repo := new(mockUserRepo)
		repo.On("Delete", mock.Anything, targetID).Return(nil)
		svc := NewService(repo)

		superuser := &model.Actor{ID: uuid.New(), IsSuperuser: true}
		require.NoError(t, svc.DeleteUser(context.Background(), superuser, targetID))
		repo.AssertExpectations(t)
	})
}
