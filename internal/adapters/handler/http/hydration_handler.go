package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atherahq/athera-care-api/internal/adapters/handler/http/middleware"
	"github.com/atherahq/athera-care-api/internal/core/domain"
	"github.com/atherahq/athera-care-api/internal/core/services"
)

type HydrationHandler struct {
	svc    *services.HydrationService
	worker StreakEnqueuer
}

func NewHydrationHandler(svc *services.HydrationService, worker StreakEnqueuer) *HydrationHandler {
	return &HydrationHandler{
		svc:    svc,
		worker: worker,
	}
}

type addWaterRequest struct {
	AmountOz float64 `json:"amount_oz" binding:"required"`
	GoalOz   float64 `json:"goal_oz"`
}

func (h *HydrationHandler) RegisterRoutes(router *gin.RouterGroup) {
	hydration := router.Group("/hydration")
	{
		hydration.GET("/today", h.GetToday)
		hydration.POST("/water", h.AddWater)
	}
}

func (h *HydrationHandler) GetToday(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	logEntry, err := h.svc.GetToday(c.Request.Context(), userID, time.Now().UTC())
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, logEntry)
}

func (h *HydrationHandler) AddWater(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req addWaterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	goal := req.GoalOz
	if goal <= 0 {
		goal = domain.DefaultWaterGoalOz
	}

	logEntry, err := h.svc.AddWater(c.Request.Context(), userID, req.AmountOz, goal, time.Now().UTC())
	if err != nil {
		handleError(c, err)
		return
	}

	h.worker.Enqueue(userID)
	c.JSON(http.StatusOK, logEntry)
}
