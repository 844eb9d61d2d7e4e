package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/atherahq/athera-care-api/internal/adapters/handler/http/middleware"
	"github.com/atherahq/athera-care-api/internal/core/services"
)

type FamilyHandler struct {
	svc *services.FamilyService
}

func NewFamilyHandler(svc *services.FamilyService) *FamilyHandler {
	return &FamilyHandler{
		svc: svc,
	}
}

type createFamilyRequest struct {
	Name string `json:"name" binding:"required"`
}

type joinFamilyRequest struct {
	InviteCode string `json:"invite_code" binding:"required"`
}

func (h *FamilyHandler) RegisterRoutes(router *gin.RouterGroup) {
	families := router.Group("/families")
	{
		families.POST("", h.Create)
		families.POST("/join", h.Join)
		families.GET("/mine", h.GetMine)
		families.POST("/leave", h.Leave)
	}
}

func (h *FamilyHandler) Create(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req createFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	family, err := h.svc.Create(c.Request.Context(), userID, req.Name)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusCreated, family)
}

func (h *FamilyHandler) Join(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	var req joinFamilyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	family, err := h.svc.Join(c.Request.Context(), userID, req.InviteCode)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, family)
}

func (h *FamilyHandler) GetMine(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	family, err := h.svc.GetMine(c.Request.Context(), userID)
	if err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, family)
}

func (h *FamilyHandler) Leave(c *gin.Context) {
	userID, ok := middleware.GetUserID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if err := h.svc.Leave(c.Request.Context(), userID); err != nil {
		handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "left family"})
}
