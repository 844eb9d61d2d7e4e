package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atherahq/athera-care-api/internal/adapters/handler/http/middleware"
	"github.com/atherahq/athera-care-api/internal/core/services"
)

type MedicationHandler struct {
	svc    *services.MedicationService
	worker StreakEnqueuer
}

func NewMedicationHandler(svc *services.MedicationService, worker StreakEnqueuer) *MedicationHandler {
	return &MedicationHandler{
		svc:    svc,
		worker: worker,
	}
}

type createMedicationRequest struct {
	Name string   `json:"name" binding:"required"`
	Days []string `json:"days"`
}

func (h *MedicationHandler) RegisterRoutes(router *gin.RouterGroup) {
	meds := router.Group("/medications")
	{
		meds.POST("", h.Create)
		meds.GET("", h.List)
		meds.POST("/reset", h.ResetDaily)
		meds.POST("/:id/taken", h.MarkTaken)
		meds.DELETE("/:id", h.Delete)
	}
}

func (h *MedicationHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createMedicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	med, err := h.svc.Add(c.Request.Context(), userID, req.Name, req.Days)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, med)
}

func (h *MedicationHandler) List(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	meds, err := h.svc.List(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"medications": meds, "count": len(meds)})
}

func (h *MedicationHandler) MarkTaken(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	med, err := h.svc.MarkTaken(c.Request.Context(), userID, c.Param("id"), time.Now().UTC())
	if err != nil {
		handleError(c, err)
		return
	}

	h.worker.Enqueue(userID)
	c.JSON(http.StatusOK, med)
}

// ResetDaily clears taken flags at the start of a new day and rebuilds the
// day's medication summary from the schedule.
func (h *MedicationHandler) ResetDaily(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.ResetDaily(c.Request.Context(), userID, time.Now().UTC()); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "daily medications reset"})
}

func (h *MedicationHandler) Delete(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.Delete(c.Request.Context(), userID, c.Param("id")); err != nil {
		handleError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
