package http_test

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	adapterHTTP "github.com/atherahq/athera-care-api/internal/adapters/handler/http"
	"github.com/atherahq/athera-care-api/internal/adapters/handler/http/middleware"
	"github.com/atherahq/athera-care-api/internal/core/domain"
	"github.com/atherahq/athera-care-api/internal/core/services"
)

type MockMedicationRepo struct {
	mock.Mock
}

func (m *MockMedicationRepo) Create(ctx context.Context, med *domain.Medication) error {
	return m.Called(ctx, med).Error(0)
}

func (m *MockMedicationRepo) GetByID(ctx context.Context, id string) (*domain.Medication, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Medication), args.Error(1)
}

func (m *MockMedicationRepo) ListByUserID(ctx context.Context, userID string) ([]*domain.Medication, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Medication), args.Error(1)
}

func (m *MockMedicationRepo) Update(ctx context.Context, med *domain.Medication) error {
	return m.Called(ctx, med).Error(0)
}

func (m *MockMedicationRepo) Delete(ctx context.Context, id string) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockMedicationRepo) ResetTakenToday(ctx context.Context, userID string) error {
	return m.Called(ctx, userID).Error(0)
}

func setupMedicationRouter() (*gin.Engine, *MockMedicationRepo, *MockActivityRepo, *recordingEnqueuer) {
	gin.SetMode(gin.TestMode)

	medRepo := new(MockMedicationRepo)
	activityRepo := new(MockActivityRepo)
	enqueuer := &recordingEnqueuer{}

	activityService := services.NewActivityService(activityRepo)
	svc := services.NewMedicationService(medRepo, activityService)
	handler := adapterHTTP.NewMedicationHandler(svc, enqueuer)

	r := gin.New()

	r.Use(func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(middleware.ContextUserIDKey, userID)
		}
		c.Next()
	})

	api := r.Group("/api/v1")
	handler.RegisterRoutes(api)

	return r, medRepo, activityRepo, enqueuer
}

func TestMedicationHandler_Create(t *testing.T) {
	t.Run("Success: 201 with every-day default schedule", func(t *testing.T) {
		r, medRepo, _, _ := setupMedicationRouter()

		medRepo.On("Create", mock.Anything, mock.AnythingOfType("*domain.Medication")).Return(nil)

		w := doJSON(r, "POST", "/api/v1/medications", "user-1", gin.H{"name": "Lisinopril"})

		assert.Equal(t, http.StatusCreated, w.Code)
		assert.Contains(t, w.Body.String(), "sunday")
		assert.Contains(t, w.Body.String(), "saturday")
	})

	t.Run("Validation: 400 on missing name", func(t *testing.T) {
		r, _, _, _ := setupMedicationRouter()

		w := doJSON(r, "POST", "/api/v1/medications", "user-1", gin.H{"days": []string{"monday"}})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})

	t.Run("Validation: 400 on bogus weekday", func(t *testing.T) {
		r, _, _, _ := setupMedicationRouter()

		w := doJSON(r, "POST", "/api/v1/medications", "user-1", gin.H{
			"name": "Lisinopril", "days": []string{"funday"},
		})

		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestMedicationHandler_MarkTaken(t *testing.T) {
	t.Run("Success: 200, daily record synced, worker notified", func(t *testing.T) {
		r, medRepo, activityRepo, enqueuer := setupMedicationRouter()

		med, _ := domain.NewMedication("user-1", "Lisinopril", nil)
		medRepo.On("GetByID", mock.Anything, med.ID).Return(med, nil)
		medRepo.On("Update", mock.Anything, med).Return(nil)
		medRepo.On("ListByUserID", mock.Anything, "user-1").Return([]*domain.Medication{med}, nil)

		activityRepo.On("GetByDate", mock.Anything, "user-1", mock.Anything).Return(nil, domain.ErrActivityNotFound)
		activityRepo.On("Upsert", mock.Anything, mock.Anything).Return(nil)

		w := doJSON(r, "POST", "/api/v1/medications/"+med.ID+"/taken", "user-1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"taken_today":true`)
		assert.Equal(t, []string{"user-1"}, enqueuer.enqueued)
	})

	t.Run("Security: 403 marking someone else's medication", func(t *testing.T) {
		r, medRepo, _, enqueuer := setupMedicationRouter()

		med, _ := domain.NewMedication("owner", "Lisinopril", nil)
		medRepo.On("GetByID", mock.Anything, med.ID).Return(med, nil)

		w := doJSON(r, "POST", "/api/v1/medications/"+med.ID+"/taken", "intruder", nil)

		assert.Equal(t, http.StatusForbidden, w.Code)
		assert.Empty(t, enqueuer.enqueued)
	})

	t.Run("Failure: 404 unknown medication", func(t *testing.T) {
		r, medRepo, _, _ := setupMedicationRouter()

		medRepo.On("GetByID", mock.Anything, "ghost").Return(nil, domain.ErrMedicationNotFound)

		w := doJSON(r, "POST", "/api/v1/medications/ghost/taken", "user-1", nil)

		assert.Equal(t, http.StatusNotFound, w.Code)
	})
}

func TestMedicationHandler_Delete(t *testing.T) {
	t.Run("Success: 204", func(t *testing.T) {
		r, medRepo, _, _ := setupMedicationRouter()

		med, _ := domain.NewMedication("user-1", "Lisinopril", nil)
		medRepo.On("GetByID", mock.Anything, med.ID).Return(med, nil)
		medRepo.On("Delete", mock.Anything, med.ID).Return(nil)

		w := doJSON(r, "DELETE", "/api/v1/medications/"+med.ID, "user-1", nil)

		assert.Equal(t, http.StatusNoContent, w.Code)
	})
}

func TestMedicationHandler_ResetDaily(t *testing.T) {
	t.Run("Success: 200 and activity re-synced with zero taken", func(t *testing.T) {
		r, medRepo, activityRepo, _ := setupMedicationRouter()

		med, _ := domain.NewMedication("user-1", "Lisinopril", nil)

		medRepo.On("ResetTakenToday", mock.Anything, "user-1").Return(nil)
		medRepo.On("ListByUserID", mock.Anything, "user-1").Return([]*domain.Medication{med}, nil)
		activityRepo.On("GetByDate", mock.Anything, "user-1", mock.Anything).Return(nil, domain.ErrActivityNotFound)
		activityRepo.On("Upsert", mock.Anything, mock.MatchedBy(func(a *domain.DailyActivity) bool {
			return a.Medications.Taken == 0 && a.Medications.Total == 1
		})).Return(nil)

		w := doJSON(r, "POST", "/api/v1/medications/reset", "user-1", nil)

		assert.Equal(t, http.StatusOK, w.Code)
		activityRepo.AssertExpectations(t)
	})
}
