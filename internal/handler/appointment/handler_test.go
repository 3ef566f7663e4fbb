package appointment

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/emilyhospital/hospital-api/internal/handler"
	"github.com/emilyhospital/hospital-api/internal/middleware"
	"github.com/emilyhospital/hospital-api/internal/model"
	"github.com/emilyhospital/hospital-api/internal/repository"
	appointmentService "github.com/emilyhospital/hospital-api/internal/service/appointment"
	"github.com/emilyhospital/hospital-api/pkg/metrics"
)

var testMetrics = metrics.NewMetrics("appointment_handler_test")

// fakeRepo is an in-memory appointment store.
type fakeRepo struct {
	appointments map[uuid.UUID]*model.Appointment
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{appointments: make(map[uuid.UUID]*model.Appointment)}
}

func (f *fakeRepo) Create(_ context.Context, apt *model.Appointment) error {
	apt.ID = uuid.New()
	apt.CreatedAt = time.Now()
	apt.UpdatedAt = apt.CreatedAt
	f.appointments[apt.ID] = apt
	return nil
}

func (f *fakeRepo) Get(_ context.Context, id uuid.UUID) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	return apt, nil
}

func (f *fakeRepo) Update(_ context.Context, id uuid.UUID, patch *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	apt, ok := f.appointments[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	if patch.Status != nil {
		apt.Status = *patch.Status
	}
	if patch.Notes != nil {
		apt.Notes = patch.Notes
	}
	apt.UpdatedAt = time.Now()
	return apt, nil
}

func (f *fakeRepo) Delete(_ context.Context, id uuid.UUID) error {
	if _, ok := f.appointments[id]; !ok {
		return repository.ErrNotFound
	}
	delete(f.appointments, id)
	return nil
}

func (f *fakeRepo) ListByPatient(_ context.Context, patientID uuid.UUID, offset, limit int) ([]*model.Appointment, error) {
	out := []*model.Appointment{}
	for _, apt := range f.appointments {
		if apt.PatientID == patientID {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (f *fakeRepo) ListByDoctor(_ context.Context, doctorID uuid.UUID, offset, limit int) ([]*model.Appointment, error) {
	out := []*model.Appointment{}
	for _, apt := range f.appointments {
		if apt.DoctorID == doctorID {
			out = append(out, apt)
		}
	}
	return out, nil
}

func (f *fakeRepo) SetAIInsight(_ context.Context, id uuid.UUID, riskScore float64, recommendations string) error {
	apt, ok := f.appointments[id]
	if !ok {
		return repository.ErrNotFound
	}
	apt.AIRiskScore = &riskScore
	apt.AIRecommendations = &recommendations
	return nil
}

// actorInjector stands in for the auth middleware.
func actorInjector(actor *model.Actor) gin.HandlerFunc {
	return func(c *gin.Context) {
		if actor != nil {
			c.Set(handler.ContextActor, actor)
		}
		c.Next()
	}
}

func setupRouter(repo repository.AppointmentRepository, actor *model.Actor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	engine := gin.New()
	engine.Use(middleware.ErrorHandler(), actorInjector(actor))

	svc := appointmentService.NewService(repo, nil, testMetrics)
	h := NewHandler(svc)
	h.RegisterRoutes(engine.Group("/api/v1"))
	return engine
}

func doJSON(t *testing.T, engine *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	engine.ServeHTTP(w, req)
	return w
}

func TestCreateAppointmentEndpoint(t *testing.T) {
	repo := newFakeRepo()
	actor := &model.Actor{ID: uuid.New(), Role: model.RolePatient}
	engine := setupRouter(repo, actor)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"doctor_id":      uuid.New().String(),
		"scheduled_date": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Status string            `json:"status"`
		Data   model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "success", resp.Status)
	assert.Equal(t, actor.ID, resp.Data.PatientID)
	assert.Equal(t, model.AppointmentStatusScheduled, resp.Data.Status)
}

func TestCreateAppointmentMissingDoctor(t *testing.T) {
	repo := newFakeRepo()
	actor := &model.Actor{ID: uuid.New(), Role: model.RolePatient}
	engine := setupRouter(repo, actor)

	w := doJSON(t, engine, http.MethodPost, "/api/v1/appointments", map[string]interface{}{
		"scheduled_date": time.Now().Add(24 * time.Hour).Format(time.RFC3339),
	})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetAppointmentForbidden(t *testing.T) {
	repo := newFakeRepo()
	apt := &model.Appointment{PatientID: uuid.New(), DoctorID: uuid.New()}
	require.NoError(t, repo.Create(context.Background(), apt))

	stranger := &model.Actor{ID: uuid.New(), Role: model.RolePatient}
	engine := setupRouter(repo, stranger)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/appointments/"+apt.ID.String(), nil)
	require.Equal(t, http.StatusForbidden, w.Code)

	// The error-handler middleware writes the body from the recorded
	// error, carrying the mapped status code.
	var resp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, http.StatusForbidden, resp.Code)
	assert.Contains(t, resp.Message, "not enough permissions")
}

func TestGetAppointmentNotFound(t *testing.T) {
	repo := newFakeRepo()
	actor := &model.Actor{ID: uuid.New(), Role: model.RolePatient}
	engine := setupRouter(repo, actor)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/appointments/"+uuid.NewString(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestGetAppointmentInvalidID(t *testing.T) {
	repo := newFakeRepo()
	actor := &model.Actor{ID: uuid.New(), Role: model.RolePatient}
	engine := setupRouter(repo, actor)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/appointments/not-a-uuid", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestUnauthenticatedRequest(t *testing.T) {
	repo := newFakeRepo()
	engine := setupRouter(repo, nil)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/appointments", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateAppointmentStatus(t *testing.T) {
	repo := newFakeRepo()
	patientID := uuid.New()
	apt := &model.Appointment{PatientID: patientID, DoctorID: uuid.New(), Status: model.AppointmentStatusScheduled}
	require.NoError(t, repo.Create(context.Background(), apt))

	owner := &model.Actor{ID: patientID, Role: model.RolePatient}
	engine := setupRouter(repo, owner)

	w := doJSON(t, engine, http.MethodPut, "/api/v1/appointments/"+apt.ID.String(), map[string]interface{}{
		"status": "cancelled",
	})

	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, model.AppointmentStatusCancelled, resp.Data.Status)
}

func TestDeleteAppointmentFlow(t *testing.T) {
	repo := newFakeRepo()
	patientID := uuid.New()
	doctorProfileID := uuid.New()
	apt := &model.Appointment{PatientID: patientID, DoctorID: doctorProfileID}
	require.NoError(t, repo.Create(context.Background(), apt))

	doctor := &model.Actor{ID: uuid.New(), Role: model.RoleDoctor, DoctorProfileID: &doctorProfileID}
	doctorEngine := setupRouter(repo, doctor)

	w := doJSON(t, doctorEngine, http.MethodDelete, "/api/v1/appointments/"+apt.ID.String(), nil)
	assert.Equal(t, http.StatusForbidden, w.Code)

	owner := &model.Actor{ID: patientID, Role: model.RolePatient}
	ownerEngine := setupRouter(repo, owner)

	w = doJSON(t, ownerEngine, http.MethodDelete, "/api/v1/appointments/"+apt.ID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, ownerEngine, http.MethodGet, "/api/v1/appointments/"+apt.ID.String(), nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListAppointmentsScopedToActor(t *testing.T) {
	repo := newFakeRepo()
	patientID := uuid.New()
	doctorProfileID := uuid.New()

	mine := &model.Appointment{PatientID: patientID, DoctorID: doctorProfileID}
	other := &model.Appointment{PatientID: uuid.New(), DoctorID: uuid.New()}
	require.NoError(t, repo.Create(context.Background(), mine))
	require.NoError(t, repo.Create(context.Background(), other))

	owner := &model.Actor{ID: patientID, Role: model.RolePatient}
	engine := setupRouter(repo, owner)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/appointments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data, 1)
	assert.Equal(t, mine.ID, resp.Data[0].ID)
}

func TestListAppointmentsDoctorWithoutProfile(t *testing.T) {
	repo := newFakeRepo()
	apt := &model.Appointment{PatientID: uuid.New(), DoctorID: uuid.New()}
	require.NoError(t, repo.Create(context.Background(), apt))

	doctor := &model.Actor{ID: uuid.New(), Role: model.RoleDoctor}
	engine := setupRouter(repo, doctor)

	w := doJSON(t, engine, http.MethodGet, "/api/v1/appointments", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Data []model.Appointment `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Empty(t, resp.Data)
}
