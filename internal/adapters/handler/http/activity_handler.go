package http

import (
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atherahq/athera-care-api/internal/adapters/handler/http/middleware"
	"github.com/atherahq/athera-care-api/internal/core/domain"
	"github.com/atherahq/athera-care-api/internal/core/services"
)

// StreakEnqueuer is the worker hook: every tracking write queues a streak
// recompute for that user.
type StreakEnqueuer interface {
	Enqueue(userID string)
}

type ActivityHandler struct {
	svc    *services.ActivityService
	worker StreakEnqueuer
}

func NewActivityHandler(svc *services.ActivityService, worker StreakEnqueuer) *ActivityHandler {
	return &ActivityHandler{
		svc:    svc,
		worker: worker,
	}
}

type medicationUpdateRequest struct {
	Date   string `json:"date" binding:"required"`
	Total  int    `json:"total"`
	Taken  int    `json:"taken"`
	Streak int    `json:"streak"`
}

type waterUpdateRequest struct {
	Date    string  `json:"date" binding:"required"`
	TotalOz float64 `json:"total_oz"`
	GoalOz  float64 `json:"goal_oz"`
	Streak  int     `json:"streak"`
}

type stepsUpdateRequest struct {
	Date   string `json:"date" binding:"required"`
	Count  int    `json:"count"`
	Goal   int    `json:"goal"`
	Streak int    `json:"streak"`
}

type moodEnergyRequest struct {
	Date   string `json:"date" binding:"required"`
	Mood   *int   `json:"mood"`
	Energy *int   `json:"energy"`
}

func (h *ActivityHandler) RegisterRoutes(router *gin.RouterGroup) {
	activity := router.Group("/activity")
	{
		activity.GET("", h.GetDaily)
		activity.GET("/week", h.GetWeek)
		activity.PUT("/medications", h.UpdateMedications)
		activity.PUT("/water", h.UpdateWater)
		activity.PUT("/steps", h.UpdateSteps)
		activity.PUT("/mood-energy", h.UpdateMoodEnergy)
	}
}

func (h *ActivityHandler) GetDaily(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	date := c.Query("date")
	if date == "" {
		date = time.Now().UTC().Format(domain.DateLayout)
	}

	activity, err := h.svc.GetDaily(c.Request.Context(), userID, date)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

// GetWeek serves the chart screen: always exactly 7 entries for the week
// containing today, Sunday first, with zero-valued placeholders for untracked
// days.
func (h *ActivityHandler) GetWeek(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	now := time.Now().UTC()
	week := domain.CurrentWeekRange(now)
	if c.Query("week") == "previous" {
		week = domain.PreviousWeekRange(now)
	}

	activities, err := h.svc.ListRange(c.Request.Context(), userID, week.StartDate, week.EndDate)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"start_date": week.StartDate,
		"end_date":   week.EndDate,
		"days":       domain.FillWeek(userID, activities, week),
	})
}

func (h *ActivityHandler) UpdateMedications(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req medicationUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	activity, err := h.svc.UpdateMedicationTracking(c.Request.Context(), userID, req.Date, req.Total, req.Taken, req.Streak)
	if err != nil {
		handleError(c, err)
		return
	}

	h.worker.Enqueue(userID)
	c.JSON(http.StatusOK, activity)
}

func (h *ActivityHandler) UpdateWater(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req waterUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	activity, err := h.svc.UpdateWaterTracking(c.Request.Context(), userID, req.Date, req.TotalOz, req.GoalOz, req.Streak)
	if err != nil {
		handleError(c, err)
		return
	}

	h.worker.Enqueue(userID)
	c.JSON(http.StatusOK, activity)
}

func (h *ActivityHandler) UpdateSteps(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req stepsUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	activity, err := h.svc.UpdateStepsTracking(c.Request.Context(), userID, req.Date, req.Count, req.Goal, req.Streak)
	if err != nil {
		handleError(c, err)
		return
	}

	h.worker.Enqueue(userID)
	c.JSON(http.StatusOK, activity)
}

func (h *ActivityHandler) UpdateMoodEnergy(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req moodEnergyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	activity, err := h.svc.UpdateMoodEnergy(c.Request.Context(), userID, req.Date, req.Mood, req.Energy)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, activity)
}

func handleError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrUnauthorized):
		c.JSON(http.StatusForbidden, gin.H{"error": "unauthorized access"})

	case errors.Is(err, domain.ErrActivityNotFound),
		errors.Is(err, domain.ErrMedicationNotFound),
		errors.Is(err, domain.ErrHydrationNotFound),
		errors.Is(err, domain.ErrProfileNotFound),
		errors.Is(err, domain.ErrFamilyNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "resource not found"})

	case errors.Is(err, domain.ErrInvalidDate),
		errors.Is(err, domain.ErrInvalidMedCounts),
		errors.Is(err, domain.ErrNegativeAmount),
		errors.Is(err, domain.ErrNegativeStreak),
		errors.Is(err, domain.ErrInvalidScale),
		errors.Is(err, domain.ErrMedicationNameEmpty),
		errors.Is(err, domain.ErrInvalidWeekday),
		errors.Is(err, domain.ErrFamilyNameEmpty),
		errors.Is(err, domain.ErrInvalidInviteCode),
		errors.Is(err, domain.ErrAlreadyMember),
		errors.Is(err, domain.ErrNotAMember):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})

	default:
		log.Printf("[ERROR] Request %s %s failed: %v", c.Request.Method, c.Request.URL.Path, err)

		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
