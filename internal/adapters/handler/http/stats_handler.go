package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/atherahq/athera-care-api/internal/adapters/handler/http/middleware"
	"github.com/atherahq/athera-care-api/internal/core/domain"
	"github.com/atherahq/athera-care-api/internal/core/services"
)

type StatsHandler struct {
	svc *services.StatsService
}

func NewStatsHandler(svc *services.StatsService) *StatsHandler {
	return &StatsHandler{
		svc: svc,
	}
}

func (h *StatsHandler) RegisterRoutes(router *gin.RouterGroup) {
	stats := router.Group("/stats")
	{
		stats.GET("/weekly", h.GetWeekly)
	}
}

// GetWeekly aggregates a week of tracking into summary stats. The window is
// either a named week relative to today (?week=current, ?week=previous) or an
// explicit ?start=YYYY-MM-DD&end=YYYY-MM-DD pair.
func (h *StatsHandler) GetWeekly(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	week, err := h.resolveWeek(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	report, err := h.svc.GetWeeklyStats(c.Request.Context(), userID, week)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, report)
}

func (h *StatsHandler) resolveWeek(c *gin.Context) (domain.WeekRange, error) {
	start := c.Query("start")
	end := c.Query("end")
	if start != "" || end != "" {
		if err := domain.ValidateDate(start); err != nil {
			return domain.WeekRange{}, err
		}
		if err := domain.ValidateDate(end); err != nil {
			return domain.WeekRange{}, err
		}
		if end < start {
			return domain.WeekRange{}, domain.ErrInvalidDate
		}
		return domain.WeekRange{StartDate: start, EndDate: end}, nil
	}

	now := time.Now().UTC()
	switch c.DefaultQuery("week", "current") {
	case "previous":
		return domain.PreviousWeekRange(now), nil
	case "current":
		return domain.CurrentWeekRange(now), nil
	default:
		return domain.WeekRange{}, domain.ErrInvalidDate
	}
}
